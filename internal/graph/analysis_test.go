package graph

import (
	"reflect"
	"strings"
	"testing"
)

// fixture builds a small graph:
//
//	cmd/main.go:main -> core/parse.go:parseConfig (0.9)
//	cmd/main.go:main -> core/run.go:run (0.8)
//	core/run.go:run -> core/parse.go:parseConfig (0.4)
//	tests/test_parse.py:test_parse -> core/parse.go:parseConfig (1.0)
func fixture() *Graph {
	nodes := []Node{
		{ID: "cmd/main.go:main", Name: "main", Kind: KindFunction, FilePath: "cmd/main.go", StartLine: 10},
		{ID: "core/parse.go:parseConfig", Name: "parseConfig", Kind: KindFunction, FilePath: "core/parse.go", StartLine: 5},
		{ID: "core/run.go:run", Name: "run", Kind: KindFunction, FilePath: "core/run.go", StartLine: 3},
		{ID: "tests/test_parse.py:test_parse", Name: "test_parse", Kind: KindFunction, FilePath: "tests/test_parse.py", StartLine: 1},
	}
	edges := []EdgeSpec{
		{SourceID: "cmd/main.go:main", TargetID: "core/parse.go:parseConfig", Confidence: 0.9, Line: 12},
		{SourceID: "cmd/main.go:main", TargetID: "core/run.go:run", Confidence: 0.8, Line: 13},
		{SourceID: "core/run.go:run", TargetID: "core/parse.go:parseConfig", Confidence: 0.4, Line: 7},
		{SourceID: "tests/test_parse.py:test_parse", TargetID: "core/parse.go:parseConfig", Confidence: 1.0, Line: 2},
	}
	return Build(nodes, edges)
}

func TestIsTestPath(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"tests/test_parse.py", true},
		{"src/test/Foo.java", true},
		{"src/__tests__/foo.js", true},
		{"test_config.py", true},
		{"config_test.go", true},
		{"app.test.ts", true},
		{"app.spec.js", true},
		{"core/parse.go", false},
		{"contest/entry.go", false},
		{"testdata/fixture.go", false},
	}
	for _, tc := range cases {
		if got := IsTestPath(tc.path); got != tc.want {
			t.Errorf("IsTestPath(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestFilterTestNodes(t *testing.T) {
	g := FilterTestNodes(fixture())

	if g.Len() != 3 {
		t.Fatalf("expected 3 nodes after filtering, got %d", g.Len())
	}
	for _, n := range g.Nodes() {
		if IsTestPath(n.FilePath) {
			t.Errorf("test node %s survived filtering", n.ID)
		}
	}

	// No edge may reference a removed node.
	for _, e := range g.Edges() {
		src := g.Node(e.From)
		dst := g.Node(e.To)
		if IsTestPath(src.FilePath) || IsTestPath(dst.FilePath) {
			t.Errorf("edge %s -> %s references a test node", src.ID, dst.ID)
		}
	}
	if g.EdgeCount() != 3 {
		t.Errorf("expected 3 edges after filtering, got %d", g.EdgeCount())
	}
}

func TestComponentGraph(t *testing.T) {
	nodes := []Node{
		{ID: "a/1", Name: "one", FilePath: "a/one.go"},
		{ID: "a/2", Name: "two", FilePath: "a/two.go"},
		{ID: "b/1", Name: "three", FilePath: "b/three.go"},
	}
	edges := []EdgeSpec{
		{SourceID: "a/1", TargetID: "b/1", Confidence: 0.6},
		{SourceID: "a/2", TargetID: "b/1", Confidence: 0.9},
		{SourceID: "a/1", TargetID: "a/2", Confidence: 1.0}, // self-loop at component level
		{SourceID: "b/1", TargetID: "a/1", Confidence: 0.2}, // below threshold
	}
	components, compEdges := ComponentGraph(Build(nodes, edges), 0.5)

	if len(components) != 2 {
		t.Fatalf("expected 2 components, got %d", len(components))
	}
	if components[0].Name != "a" || components[0].NodeCount != 2 {
		t.Errorf("unexpected first component: %+v", components[0])
	}

	if len(compEdges) != 1 {
		t.Fatalf("expected 1 aggregated edge, got %d: %+v", len(compEdges), compEdges)
	}
	e := compEdges[0]
	if e.From != "a" || e.To != "b" {
		t.Errorf("unexpected edge %s -> %s", e.From, e.To)
	}
	if e.Confidence != 0.9 {
		t.Errorf("aggregated confidence = %v, want max of underlying (0.9)", e.Confidence)
	}
	if e.Count != 2 {
		t.Errorf("aggregated count = %d, want 2", e.Count)
	}
	for _, ce := range compEdges {
		if ce.From == ce.To {
			t.Errorf("self-loop emitted: %+v", ce)
		}
	}
}

func TestTopEntryPoints(t *testing.T) {
	got := TopEntryPoints(fixture(), 5)

	// main is the only non-test node with outgoing calls and no incoming.
	want := []string{"cmd/main.go:main"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopEntryPoints = %v, want %v", got, want)
	}
}

func TestTopEntryPoints_Ordering(t *testing.T) {
	nodes := []Node{
		{ID: "a", Name: "a", FilePath: "x/a.go"},
		{ID: "b", Name: "b", FilePath: "x/b.go"},
		{ID: "c", Name: "c", FilePath: "x/c.go"},
		{ID: "d", Name: "d", FilePath: "x/d.go"},
	}
	edges := []EdgeSpec{
		{SourceID: "b", TargetID: "c", Confidence: 1},
		{SourceID: "b", TargetID: "d", Confidence: 1},
		{SourceID: "a", TargetID: "c", Confidence: 1},
		{SourceID: "a", TargetID: "d", Confidence: 1},
	}
	got := TopEntryPoints(Build(nodes, edges), 10)

	// Equal out-degree: ties break by ID.
	want := []string{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopEntryPoints = %v, want %v", got, want)
	}

	if got := TopEntryPoints(Build(nodes, edges), 1); len(got) != 1 || got[0] != "a" {
		t.Errorf("TopEntryPoints(n=1) = %v, want [a]", got)
	}
}

func TestNeighborhood(t *testing.T) {
	sub := Neighborhood(fixture(), "core/parse.go:parseConfig", 1, 0.5)

	ids := make(map[string]bool)
	for _, n := range sub.Nodes {
		ids[n.ID] = true
	}
	if !ids["core/parse.go:parseConfig"] {
		t.Fatal("origin missing from neighborhood")
	}
	if !ids["cmd/main.go:main"] {
		t.Error("caller above threshold missing")
	}
	if ids["core/run.go:run"] {
		t.Error("caller below confidence threshold included")
	}
	// test_parse edge has confidence 1.0 so the test node is reachable;
	// Neighborhood itself does not filter test nodes.
	if !ids["tests/test_parse.py:test_parse"] {
		t.Error("expected bidirectional traversal to reach test caller")
	}

	for _, e := range sub.Edges {
		if e.Confidence < 0.5 {
			t.Errorf("edge below requested minimum survived: %+v", e)
		}
	}
}

func TestNeighborhood_HopBound(t *testing.T) {
	nodes := []Node{
		{ID: "a", Name: "a", FilePath: "a.go"},
		{ID: "b", Name: "b", FilePath: "b.go"},
		{ID: "c", Name: "c", FilePath: "c.go"},
	}
	edges := []EdgeSpec{
		{SourceID: "a", TargetID: "b", Confidence: 1},
		{SourceID: "b", TargetID: "c", Confidence: 1},
	}
	g := Build(nodes, edges)

	sub := Neighborhood(g, "a", 1, 0)
	for _, n := range sub.Nodes {
		if n.ID == "c" {
			t.Error("node beyond hop bound included")
		}
	}

	sub = Neighborhood(g, "a", 2, 0)
	if len(sub.Nodes) != 3 {
		t.Errorf("2-hop neighborhood has %d nodes, want 3", len(sub.Nodes))
	}
}

func TestNeighborhood_UnknownOrigin(t *testing.T) {
	sub := Neighborhood(fixture(), "nope", 2, 0)
	if len(sub.Nodes) != 0 || len(sub.Edges) != 0 {
		t.Errorf("expected empty subgraph for unknown origin, got %+v", sub)
	}
}

func TestLookupByName(t *testing.T) {
	g := fixture()

	sub, ok := LookupByName(g, "parseConfig", "", 0.5)
	if !ok {
		t.Fatal("expected lookup hit")
	}
	found := false
	for _, n := range sub.Nodes {
		if n.ID == "core/parse.go:parseConfig" {
			found = true
		}
	}
	if !found {
		t.Error("hit node missing from returned neighborhood")
	}

	if _, ok := LookupByName(g, "parseConfig", "other/", 0.5); ok {
		t.Error("path hint should have excluded all hits")
	}
	if _, ok := LookupByName(g, "noSuchSymbol", "", 0.5); ok {
		t.Error("expected miss for unknown symbol")
	}
}

func TestToDiagram_Deterministic(t *testing.T) {
	sub := Neighborhood(fixture(), "core/parse.go:parseConfig", 1, 0)

	first := ToDiagram(sub)
	for i := 0; i < 5; i++ {
		if got := ToDiagram(sub); got != first {
			t.Fatal("diagram output not deterministic")
		}
	}
	if !strings.HasPrefix(first, "graph TD\n") {
		t.Errorf("unexpected diagram prefix: %q", first[:20])
	}
}
