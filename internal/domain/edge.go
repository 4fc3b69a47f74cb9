package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Edge is a directed arc between two nodes. Referential integrity is only
// enforced by the cascade on node removal.
type Edge struct {
	ID           string         `json:"id"`
	Source       string         `json:"source"`
	Target       string         `json:"target"`
	SourceHandle string         `json:"sourceHandle,omitempty"`
	TargetHandle string         `json:"targetHandle,omitempty"`
	Type         string         `json:"type,omitempty"`
	Animated     bool           `json:"animated,omitempty"`
	Style        map[string]any `json:"style,omitempty"`
	Data         map[string]any `json:"data"`
	Selected     bool           `json:"selected,omitempty"`
}

type EdgePatch struct {
	Label    *string
	Type     *string
	Animated *bool
	Data     map[string]any
	Selected *bool
}

func (e Edge) Clone() Edge {
	e.Data = CloneData(e.Data)
	e.Style = CloneData(e.Style)
	return e
}

// Label returns data.label.
func (e Edge) Label() string {
	return DataString(e.Data, "label")
}

func (e *Edge) Apply(p EdgePatch) {
	if len(p.Data) > 0 || p.Label != nil {
		if e.Data == nil {
			e.Data = map[string]any{}
		}
	}
	for k, v := range p.Data {
		e.Data[k] = cloneValue(v)
	}
	if p.Label != nil {
		e.Data["label"] = *p.Label
	}
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.Animated != nil {
		e.Animated = *p.Animated
	}
	if p.Selected != nil {
		e.Selected = *p.Selected
	}
}

// DeriveEdgeLabel computes the default label of an edge leaving source
// through the named handle. Decision and loop nodes may override the
// yes/no wording and name their branches in their data.
func DeriveEdgeLabel(source *Node, handle string) string {
	if source == nil || handle == "" {
		return ""
	}
	data := source.Data
	switch {
	case strings.Contains(handle, "yes"):
		return CoalesceStr(DataString(data, "yesLabel"), DataString(data, "yesAction"), "Yes")
	case strings.Contains(handle, "no"):
		return CoalesceStr(DataString(data, "noLabel"), DataString(data, "noAction"), "No")
	case strings.Contains(handle, "continue"):
		return "Continue"
	case strings.Contains(handle, "exit"):
		return "Exit"
	case strings.HasPrefix(handle, "branch-"):
		idx, err := strconv.Atoi(strings.TrimPrefix(handle, "branch-"))
		if err != nil {
			return ""
		}
		if title := branchTitle(data, idx); title != "" {
			return title
		}
		return fmt.Sprintf("Branch %d", idx+1)
	}
	return ""
}

func branchTitle(data map[string]any, idx int) string {
	configs, ok := data["branchConfigs"].([]any)
	if !ok || idx < 0 || idx >= len(configs) {
		return ""
	}
	cfg, ok := configs[idx].(map[string]any)
	if !ok {
		return ""
	}
	return DataString(cfg, "title")
}
