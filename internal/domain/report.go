package domain

import "time"

// Report is an immutable point-in-time aggregation of a journey.
type Report struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Type        ReportType `json:"type"`
	GeneratedAt time.Time  `json:"generatedAt"`
	Data        ReportData `json:"data"`
}

type ReportData struct {
	Goals      []Goal      `json:"goals"`
	Milestones []Milestone `json:"milestones"`
	Nodes      []Node      `json:"nodes"`
	Edges      []Edge      `json:"edges"`
	Stats      Stats       `json:"stats"`
}

// Stats holds the derived counts of a journey.
type Stats struct {
	TotalGoals          int `json:"totalGoals"`
	CompletedGoals      int `json:"completedGoals"`
	TotalMilestones     int `json:"totalMilestones"`
	CompletedMilestones int `json:"completedMilestones"`
	TotalNodes          int `json:"totalNodes"`
	TotalEdges          int `json:"totalEdges"`
	TotalReports        int `json:"totalReports"`
}

func (r Report) Clone() Report {
	r.Data = ReportData{
		Goals:      cloneGoals(r.Data.Goals),
		Milestones: cloneMilestones(r.Data.Milestones),
		Nodes:      cloneNodes(r.Data.Nodes),
		Edges:      cloneEdges(r.Data.Edges),
		Stats:      r.Data.Stats,
	}
	return r
}
