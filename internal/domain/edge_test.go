package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveEdgeLabel(t *testing.T) {
	decision := &Node{ID: "d", Subtype: SubtypeDecision, Data: map[string]any{}}
	custom := &Node{ID: "c", Subtype: SubtypeDecision, Data: map[string]any{
		"yesLabel": "Opened",
		"noAction": "Ignored",
		"branchConfigs": []any{
			map[string]any{"title": "Email"},
			map[string]any{},
		},
	}}

	cases := []struct {
		name   string
		source *Node
		handle string
		want   string
	}{
		{"yes default", decision, "yes", "Yes"},
		{"no default", decision, "source-no", "No"},
		{"yes override", custom, "yes", "Opened"},
		{"no action fallback", custom, "no", "Ignored"},
		{"continue", decision, "continue", "Continue"},
		{"exit", decision, "exit", "Exit"},
		{"branch titled", custom, "branch-0", "Email"},
		{"branch untitled", custom, "branch-1", "Branch 2"},
		{"branch out of range", decision, "branch-4", "Branch 5"},
		{"branch bad index", decision, "branch-x", ""},
		{"plain handle", decision, "out", ""},
		{"no handle", decision, "", ""},
		{"missing source", nil, "yes", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveEdgeLabel(tc.source, tc.handle))
		})
	}
}

func TestNodeApply_MergesData(t *testing.T) {
	n := Node{ID: "n", Subtype: SubtypeWait, Data: map[string]any{"label": "Wait", "days": 2}}
	n.Apply(NodePatch{Data: map[string]any{"days": 3}})

	assert.Equal(t, "Wait", n.Data["label"])
	assert.Equal(t, 3, n.Data["days"])
	assert.Equal(t, SubtypeWait, n.Subtype)
}

func TestNodeClone_IsDeep(t *testing.T) {
	n := Node{ID: "n", Data: map[string]any{"nested": map[string]any{"k": "v"}}}
	c := n.Clone()
	c.Data["nested"].(map[string]any)["k"] = "changed"
	assert.Equal(t, "v", n.Data["nested"].(map[string]any)["k"])
}
