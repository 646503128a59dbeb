package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"repowiki/internal/graph"
)

func node(i int) graph.Node {
	return graph.Node{ID: fmt.Sprintf("n%03d", i), Name: fmt.Sprintf("fn%d", i), FilePath: "core/f.go"}
}

func TestStore_CreatesFreshSessionForUnknownID(t *testing.T) {
	store := NewStore(10, time.Minute, 50)

	sess := store.Get("never-seen")
	if sess == nil {
		t.Fatal("expected a fresh session, got nil")
	}
	if sess.ID != "never-seen" {
		t.Errorf("fresh session should keep the caller's id, got %s", sess.ID)
	}

	anon := store.Get("")
	if anon.ID == "" {
		t.Error("empty id should be replaced with a generated one")
	}
}

func TestStore_ReturnsSameLiveSession(t *testing.T) {
	store := NewStore(10, time.Minute, 50)

	a := store.Get("s1")
	a.MarkNotFound("gap")
	b := store.Get("s1")

	if a != b {
		t.Fatal("expected the same live session")
	}
	if !b.IsNotFound("gap") {
		t.Error("state lost between Get calls")
	}
}

func TestStore_IdleExpiryYieldsFreshSession(t *testing.T) {
	store := NewStore(10, 10*time.Millisecond, 50)

	a := store.Get("s1")
	a.MarkNotFound("gap")

	time.Sleep(25 * time.Millisecond)

	b := store.Get("s1")
	if b.IsNotFound("gap") {
		t.Error("expired session state must not survive")
	}
	if b == a {
		t.Error("expected a fresh session after idle expiry")
	}
}

func TestSession_NodeCacheLRUEviction(t *testing.T) {
	sess := newSession("s", 50)

	// Bulk merge overflows the cache to 60 nodes.
	nodes := make([]graph.Node, 60)
	for i := range nodes {
		nodes[i] = node(i)
	}
	sess.PutNodes(nodes)

	if got := sess.NodeCount(); got != 60 {
		t.Fatalf("overflowed cache size = %d, want 60", got)
	}

	// The next insert trims back to capacity, evicting the
	// least-recently-accessed nodes (the 10 oldest inserts).
	sess.PutNode(node(0)) // refresh, then trim

	if got := sess.NodeCount(); got != 50 {
		t.Fatalf("cache size after insert = %d, want capacity 50", got)
	}
	if _, ok := sess.GetNode("n000"); !ok {
		t.Error("just-refreshed node evicted")
	}
	// Nodes 1..10 were the least recently accessed after n000's refresh.
	for i := 1; i <= 10; i++ {
		if _, ok := sess.GetNode(fmt.Sprintf("n%03d", i)); ok {
			t.Errorf("node n%03d should have been evicted", i)
		}
	}
	for i := 11; i < 60; i++ {
		if _, ok := sess.GetNode(fmt.Sprintf("n%03d", i)); !ok {
			t.Errorf("node n%03d should have survived", i)
		}
	}
}

func TestSession_GetRefreshesAccessOrder(t *testing.T) {
	sess := newSession("s", 3)
	sess.PutNodes([]graph.Node{node(1), node(2), node(3)})

	// Touch node 1 so node 2 becomes the eviction candidate.
	if _, ok := sess.GetNode("n001"); !ok {
		t.Fatal("expected n001 cached")
	}
	sess.PutNode(node(4))

	if _, ok := sess.GetNode("n002"); ok {
		t.Error("n002 should have been evicted as least recently accessed")
	}
	if _, ok := sess.GetNode("n001"); !ok {
		t.Error("recently accessed n001 should have survived")
	}
}

func TestSession_MergeSubgraphAccumulates(t *testing.T) {
	sess := newSession("s", 50)

	sess.MergeSubgraph(graph.Subgraph{
		Nodes: []graph.Node{node(1), node(2)},
		Edges: []graph.SubEdge{{SourceID: "n001", TargetID: "n002", Type: "calls", Confidence: 0.9}},
	})
	sess.MergeSubgraph(graph.Subgraph{
		Nodes: []graph.Node{node(2), node(3)},
	})

	sub := sess.Subgraph()
	if len(sub.Nodes) != 3 {
		t.Errorf("merged subgraph has %d nodes, want 3 (deduplicated)", len(sub.Nodes))
	}
	if len(sub.Edges) != 1 {
		t.Errorf("merged subgraph has %d edges, want 1", len(sub.Edges))
	}
	if sess.NodeCount() != 3 {
		t.Errorf("node cache has %d entries, want 3", sess.NodeCount())
	}
}

func TestSession_NotFoundSet(t *testing.T) {
	sess := newSession("s", 50)

	if sess.AllNotFound([]string{"a"}) {
		t.Error("empty not-found set cannot cover any gap")
	}
	if sess.AllNotFound(nil) {
		t.Error("empty gap list must report false")
	}

	sess.MarkNotFound("a")
	if !sess.IsNotFound("a") {
		t.Error("marked gap not recorded")
	}
	if sess.AllNotFound([]string{"a", "b"}) {
		t.Error("gap b never failed lookup")
	}

	sess.MarkNotFound("b")
	if !sess.AllNotFound([]string{"a", "b"}) {
		t.Error("all gaps failed lookup, expected true")
	}
}

func TestStore_ConcurrentDisjointSessions(t *testing.T) {
	store := NewStore(100, time.Minute, 50)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess := store.Get(fmt.Sprintf("s%d", i))
			for j := 0; j < 100; j++ {
				sess.PutNode(node(j))
				sess.GetNode(fmt.Sprintf("n%03d", j%10))
				sess.MarkNotFound(fmt.Sprintf("gap%d", j))
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 8; i++ {
		sess := store.Get(fmt.Sprintf("s%d", i))
		if sess.NodeCount() != 50 {
			t.Errorf("session s%d cache size = %d, want 50", i, sess.NodeCount())
		}
	}
}
