package domain

// NodeSubtype is the semantic role of a canvas node. It is fixed when the
// node is created and selects the configuration the node carries.
type NodeSubtype string

const (
	SubtypeEntry         NodeSubtype = "entry"
	SubtypeDecision      NodeSubtype = "decision"
	SubtypeWait          NodeSubtype = "wait"
	SubtypeLoop          NodeSubtype = "loop"
	SubtypeDecisionPoint NodeSubtype = "decision-point"
	SubtypeGoal          NodeSubtype = "goal"
	SubtypeMilestone     NodeSubtype = "milestone"
	SubtypeMerge         NodeSubtype = "merge"
	SubtypeUnknown       NodeSubtype = "unknown"
)

// ValidNodeSubtypes is the canonical set of accepted node subtype strings.
var ValidNodeSubtypes = map[NodeSubtype]bool{
	SubtypeEntry: true, SubtypeDecision: true, SubtypeWait: true,
	SubtypeLoop: true, SubtypeDecisionPoint: true, SubtypeGoal: true,
	SubtypeMilestone: true, SubtypeMerge: true, SubtypeUnknown: true,
}

type GoalStatus string

const (
	GoalNotStarted GoalStatus = "not-started"
	GoalInProgress GoalStatus = "in-progress"
	GoalCompleted  GoalStatus = "completed"
	GoalCancelled  GoalStatus = "cancelled"
	GoalDeleted    GoalStatus = "deleted"
	GoalArchived   GoalStatus = "archived"
	GoalActive     GoalStatus = "active"
)

var ValidGoalStatuses = map[GoalStatus]bool{
	GoalNotStarted: true, GoalInProgress: true, GoalCompleted: true,
	GoalCancelled: true, GoalDeleted: true, GoalArchived: true, GoalActive: true,
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var ValidPriorities = map[Priority]bool{
	PriorityLow: true, PriorityMedium: true, PriorityHigh: true,
}

type MilestoneStatus string

const (
	MilestonePending    MilestoneStatus = "pending"
	MilestoneInProgress MilestoneStatus = "in-progress"
	MilestoneCompleted  MilestoneStatus = "completed"
	MilestoneOverdue    MilestoneStatus = "overdue"
	MilestoneCancelled  MilestoneStatus = "cancelled"
	MilestoneDeleted    MilestoneStatus = "deleted"
	MilestoneArchived   MilestoneStatus = "archived"
	MilestoneActive     MilestoneStatus = "active"
)

var ValidMilestoneStatuses = map[MilestoneStatus]bool{
	MilestonePending: true, MilestoneInProgress: true, MilestoneCompleted: true,
	MilestoneOverdue: true, MilestoneCancelled: true, MilestoneDeleted: true,
	MilestoneArchived: true, MilestoneActive: true,
}

type ReportType string

const (
	ReportProgress    ReportType = "progress"
	ReportPerformance ReportType = "performance"
	ReportSummary     ReportType = "summary"
)

var ValidReportTypes = map[ReportType]bool{
	ReportProgress: true, ReportPerformance: true, ReportSummary: true,
}

// LogicOperator combines the completion conditions of a journey's goals.
type LogicOperator string

const (
	LogicAnd LogicOperator = "AND"
	LogicOr  LogicOperator = "OR"
)
