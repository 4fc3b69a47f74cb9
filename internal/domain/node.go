package domain

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a vertex of the journey flow. Subtype never changes after creation.
type Node struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Subtype  NodeSubtype    `json:"node-subtype"`
	Position Position       `json:"position"`
	Data     map[string]any `json:"data"`
	Selected bool           `json:"selected,omitempty"`
}

// NodePatch is a partial node update. Data keys are merged into the node's
// existing data. The subtype is deliberately absent.
type NodePatch struct {
	Type     *string
	Position *Position
	Data     map[string]any
	Selected *bool
}

func (n Node) Clone() Node {
	n.Data = CloneData(n.Data)
	return n
}

// Apply merges p into n.
func (n *Node) Apply(p NodePatch) {
	if p.Type != nil {
		n.Type = *p.Type
	}
	if p.Position != nil {
		n.Position = *p.Position
	}
	if len(p.Data) > 0 {
		if n.Data == nil {
			n.Data = make(map[string]any, len(p.Data))
		}
		for k, v := range p.Data {
			n.Data[k] = cloneValue(v)
		}
	}
	if p.Selected != nil {
		n.Selected = *p.Selected
	}
}
