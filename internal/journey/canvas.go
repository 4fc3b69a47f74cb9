package journey

import "github.com/alexanderramin/journeyctl/internal/domain"

func (s *Store) GetNode(id string) (domain.Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.nodeIndexLocked(id); i >= 0 {
		return s.j.Nodes[i].Clone(), true
	}
	return domain.Node{}, false
}

func (s *Store) GetEdge(id string) (domain.Edge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.edgeIndexLocked(id); i >= 0 {
		return s.j.Edges[i].Clone(), true
	}
	return domain.Edge{}, false
}

// AddNode appends n, generating an id when it has none, and returns the
// stored node.
func (s *Store) AddNode(n domain.Node) domain.Node {
	var added domain.Node
	s.commit(true, func() bool {
		added = s.addNodeLocked(n)
		return true
	})
	return added
}

// UpdateNode merges p into the node. Unknown ids are ignored.
func (s *Store) UpdateNode(id string, p domain.NodePatch) bool {
	return s.commit(true, func() bool {
		i := s.nodeIndexLocked(id)
		if i < 0 {
			return false
		}
		s.j.Nodes[i].Apply(p)
		s.t.ChangedNodes.Add(id)
		s.touchLocked()
		return true
	})
}

// UpdateNodePosition moves a node without marking it dirty. Layout is not
// semantic content and is never uploaded.
func (s *Store) UpdateNodePosition(id string, pos domain.Position) bool {
	return s.commit(true, func() bool {
		i := s.nodeIndexLocked(id)
		if i < 0 {
			return false
		}
		s.j.Nodes[i].Position = pos
		return true
	})
}

// RemoveNode deletes the node and every edge touching it. The node id stays
// dirty as a tombstone for the next sync.
func (s *Store) RemoveNode(id string) bool {
	return s.commit(true, func() bool {
		return s.removeNodeLocked(id)
	})
}

func (s *Store) AddEdge(e domain.Edge) domain.Edge {
	var added domain.Edge
	s.commit(true, func() bool {
		added = s.addEdgeLocked(e)
		return true
	})
	return added
}

func (s *Store) UpdateEdge(id string, p domain.EdgePatch) bool {
	return s.commit(true, func() bool {
		i := s.edgeIndexLocked(id)
		if i < 0 {
			return false
		}
		s.j.Edges[i].Apply(p)
		s.t.ChangedEdges.Add(id)
		s.touchLocked()
		return true
	})
}

func (s *Store) RemoveEdge(id string) bool {
	return s.commit(true, func() bool {
		return s.removeEdgeLocked(id)
	})
}

// ConnectParams describes a connect gesture between two node handles.
type ConnectParams struct {
	Source       string
	Target       string
	SourceHandle string
	TargetHandle string
}

// Connect creates an edge whose label is derived from the source handle.
func (s *Store) Connect(p ConnectParams) domain.Edge {
	var added domain.Edge
	s.commit(true, func() bool {
		label := ""
		if i := s.nodeIndexLocked(p.Source); i >= 0 {
			label = domain.DeriveEdgeLabel(&s.j.Nodes[i], p.SourceHandle)
		}
		added = s.addEdgeLocked(domain.Edge{
			ID:           "edge-" + domain.NewID(),
			Source:       p.Source,
			Target:       p.Target,
			SourceHandle: p.SourceHandle,
			TargetHandle: p.TargetHandle,
			Type:         "custom",
			Data:         map[string]any{"label": label},
		})
		return true
	})
	return added
}

// ConnectedEdges returns every edge with nodeID as source or target.
func (s *Store) ConnectedEdges(nodeID string) []domain.Edge {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Edge
	for _, e := range s.j.Edges {
		if e.Source == nodeID || e.Target == nodeID {
			out = append(out, e.Clone())
		}
	}
	return out
}

type Connections struct {
	Incoming []domain.Edge
	Outgoing []domain.Edge
}

func (s *Store) NodeConnections(nodeID string) Connections {
	s.mu.Lock()
	defer s.mu.Unlock()
	var c Connections
	for _, e := range s.j.Edges {
		if e.Target == nodeID {
			c.Incoming = append(c.Incoming, e.Clone())
		}
		if e.Source == nodeID {
			c.Outgoing = append(c.Outgoing, e.Clone())
		}
	}
	return c
}

// CanvasEditor exposes the node and edge mutators inside an EditCanvas batch.
type CanvasEditor interface {
	Nodes() []domain.Node
	Edges() []domain.Edge
	AddNode(n domain.Node) domain.Node
	RemoveNode(id string) bool
	AddEdge(e domain.Edge) domain.Edge
	RemoveEdge(id string) bool
}

// EditCanvas applies fn under a single lock acquisition and notifies canvas
// listeners exactly once afterwards. fn must not call other Store methods.
func (s *Store) EditCanvas(fn func(CanvasEditor)) {
	s.commit(true, func() bool {
		fn(lockedEditor{s})
		return true
	})
}

type lockedEditor struct{ s *Store }

func (e lockedEditor) Nodes() []domain.Node              { return e.s.j.Canvas().Nodes }
func (e lockedEditor) Edges() []domain.Edge              { return e.s.j.Canvas().Edges }
func (e lockedEditor) AddNode(n domain.Node) domain.Node { return e.s.addNodeLocked(n) }
func (e lockedEditor) RemoveNode(id string) bool         { return e.s.removeNodeLocked(id) }
func (e lockedEditor) AddEdge(ed domain.Edge) domain.Edge {
	return e.s.addEdgeLocked(ed)
}
func (e lockedEditor) RemoveEdge(id string) bool { return e.s.removeEdgeLocked(id) }

func (s *Store) addNodeLocked(n domain.Node) domain.Node {
	n = n.Clone()
	if n.ID == "" {
		n.ID = domain.NewID()
	}
	if n.Subtype == "" {
		n.Subtype = domain.SubtypeUnknown
	}
	if n.Data == nil {
		n.Data = map[string]any{}
	}
	s.j.Nodes = append(s.j.Nodes, n)
	s.t.ChangedNodes.Add(n.ID)
	s.touchLocked()
	return n.Clone()
}

func (s *Store) removeNodeLocked(id string) bool {
	i := s.nodeIndexLocked(id)
	if i < 0 {
		return false
	}
	s.j.Nodes = append(s.j.Nodes[:i], s.j.Nodes[i+1:]...)
	kept := s.j.Edges[:0]
	for _, e := range s.j.Edges {
		if e.Source == id || e.Target == id {
			s.t.ChangedEdges.Add(e.ID)
			continue
		}
		kept = append(kept, e)
	}
	s.j.Edges = kept
	s.t.ChangedNodes.Add(id)
	s.touchLocked()
	return true
}

func (s *Store) addEdgeLocked(e domain.Edge) domain.Edge {
	e = e.Clone()
	if e.ID == "" {
		e.ID = "edge-" + domain.NewID()
	}
	if e.Data == nil {
		e.Data = map[string]any{}
	}
	s.j.Edges = append(s.j.Edges, e)
	s.t.ChangedEdges.Add(e.ID)
	s.touchLocked()
	return e.Clone()
}

func (s *Store) removeEdgeLocked(id string) bool {
	i := s.edgeIndexLocked(id)
	if i < 0 {
		return false
	}
	s.j.Edges = append(s.j.Edges[:i], s.j.Edges[i+1:]...)
	s.t.ChangedEdges.Add(id)
	s.touchLocked()
	return true
}

func (s *Store) nodeIndexLocked(id string) int {
	for i := range s.j.Nodes {
		if s.j.Nodes[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) edgeIndexLocked(id string) int {
	for i := range s.j.Edges {
		if s.j.Edges[i].ID == id {
			return i
		}
	}
	return -1
}
