// Package session caches retrieval state per conversation: fetched graph
// nodes, the accumulated subgraph, and gaps that already failed lookup.
package session

import (
	"container/list"
	"sync"
	"time"

	"repowiki/internal/graph"
)

// Session is the per-conversation retrieval cache. The node cache is
// bounded and evicts least-recently-accessed entries; bulk merges may
// overflow it transiently and are trimmed on the next insert.
type Session struct {
	ID string

	mu         sync.Mutex
	nodes      map[string]*list.Element // node ID -> element in order
	order      *list.List               // front = most recently accessed
	capacity   int
	subgraph   graph.Subgraph
	notFound   map[string]bool
	createdAt  time.Time
	lastAccess time.Time
}

type cacheEntry struct {
	id   string
	node graph.Node
}

func newSession(id string, capacity int) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		nodes:      make(map[string]*list.Element),
		order:      list.New(),
		capacity:   capacity,
		notFound:   make(map[string]bool),
		createdAt:  now,
		lastAccess: now,
	}
}

// touch refreshes the idle clock. Callers hold s.mu.
func (s *Session) touch() {
	s.lastAccess = time.Now()
}

// expired reports whether the session has been idle beyond ttl.
func (s *Session) expired(ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastAccess) > ttl
}

// PutNode inserts or refreshes a node in the cache, then trims the cache
// back to capacity, evicting least-recently-accessed entries first.
func (s *Session) PutNode(n graph.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.putLocked(n)
	s.trimLocked()
}

// PutNodes bulk-inserts nodes. A bulk merge may overflow the cache; the
// overflow persists until the next single insert trims it, so evidence
// fetched together stays cached together for the rest of the pass.
func (s *Session) PutNodes(nodes []graph.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	for _, n := range nodes {
		s.putLocked(n)
	}
}

func (s *Session) putLocked(n graph.Node) {
	if el, ok := s.nodes[n.ID]; ok {
		el.Value = cacheEntry{id: n.ID, node: n}
		s.order.MoveToFront(el)
		return
	}
	s.nodes[n.ID] = s.order.PushFront(cacheEntry{id: n.ID, node: n})
}

func (s *Session) trimLocked() {
	for s.order.Len() > s.capacity {
		back := s.order.Back()
		if back == nil {
			return
		}
		s.order.Remove(back)
		delete(s.nodes, back.Value.(cacheEntry).id)
	}
}

// GetNode returns a cached node, refreshing its access order.
func (s *Session) GetNode(id string) (graph.Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	el, ok := s.nodes[id]
	if !ok {
		return graph.Node{}, false
	}
	s.order.MoveToFront(el)
	return el.Value.(cacheEntry).node, true
}

// NodeCount returns the current node cache size.
func (s *Session) NodeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

// MergeSubgraph folds newly fetched evidence into the accumulated subgraph
// and node cache, warming follow-up questions in the same conversation.
func (s *Session) MergeSubgraph(sub graph.Subgraph) {
	s.mu.Lock()
	s.touch()
	s.subgraph = s.subgraph.Merge(sub)
	s.mu.Unlock()

	s.PutNodes(sub.Nodes)
}

// Subgraph returns a copy of the accumulated subgraph.
func (s *Session) Subgraph() graph.Subgraph {
	s.mu.Lock()
	defer s.mu.Unlock()
	nodes := make([]graph.Node, len(s.subgraph.Nodes))
	copy(nodes, s.subgraph.Nodes)
	edges := make([]graph.SubEdge, len(s.subgraph.Edges))
	copy(edges, s.subgraph.Edges)
	return graph.Subgraph{Nodes: nodes, Edges: edges}
}

// MarkNotFound records a gap that could not be resolved so it is never
// retried over the network within this session.
func (s *Session) MarkNotFound(gap string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.notFound[gap] = true
}

// IsNotFound reports whether a gap already failed lookup in this session.
func (s *Session) IsNotFound(gap string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notFound[gap]
}

// AllNotFound reports whether every given gap already failed lookup.
// An empty gap list reports false.
func (s *Session) AllNotFound(gaps []string) bool {
	if len(gaps) == 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range gaps {
		if !s.notFound[g] {
			return false
		}
	}
	return true
}
