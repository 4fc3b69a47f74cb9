package journey

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/journeyctl/internal/domain"
)

type hashNode struct {
	ID      string             `json:"id"`
	Type    string             `json:"type"`
	Subtype domain.NodeSubtype `json:"node-subtype"`
	Data    map[string]any     `json:"data"`
}

// hashDoc is the canonical projection of the persisted journey content.
// Timestamps, node positions, selection and tracking state are excluded.
type hashDoc struct {
	ID                string               `json:"id"`
	Name              string               `json:"name"`
	Description       string               `json:"description"`
	Flags             domain.Flags         `json:"flags"`
	Nodes             []hashNode           `json:"nodes"`
	Edges             []domain.Edge        `json:"edges"`
	Goals             []domain.Goal        `json:"goals"`
	GoalLogicOperator domain.LogicOperator `json:"goalLogicOperator"`
	Milestones        []domain.Milestone   `json:"milestones"`
	Reports           []string             `json:"reports"`
}

// ContentHash returns the hex SHA-256 of the canonical JSON projection of j.
func ContentHash(j domain.Journey) (string, error) {
	nodes := make([]hashNode, len(j.Nodes))
	for i, n := range j.Nodes {
		nodes[i] = hashNode{ID: n.ID, Type: n.Type, Subtype: n.Subtype, Data: n.Data}
	}
	edges := make([]domain.Edge, len(j.Edges))
	for i, e := range j.Edges {
		e.Selected = false
		edges[i] = e
	}
	goals := make([]domain.Goal, len(j.Goals))
	for i, g := range j.Goals {
		g.CreatedAt, g.UpdatedAt = time.Time{}, time.Time{}
		goals[i] = g
	}
	milestones := make([]domain.Milestone, len(j.Milestones))
	for i, m := range j.Milestones {
		m.CreatedAt, m.UpdatedAt = time.Time{}, time.Time{}
		milestones[i] = m
	}
	// Reports are immutable snapshots; the id identifies the content.
	reports := make([]string, len(j.Reports))
	for i, r := range j.Reports {
		reports[i] = r.ID
	}
	doc := hashDoc{
		ID:                j.ID,
		Name:              j.Name,
		Description:       j.Description,
		Flags:             j.Flags,
		Nodes:             nodes,
		Edges:             edges,
		Goals:             goals,
		GoalLogicOperator: j.GoalLogicOperator,
		Milestones:        milestones,
		Reports:           reports,
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("hashing journey: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
