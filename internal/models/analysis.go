// internal/models/analysis.go
package models

type UtilizationLevel string

const (
	UtilizationLow        UtilizationLevel = "low"
	UtilizationBalanced   UtilizationLevel = "balanced"
	UtilizationHigh       UtilizationLevel = "high"
	UtilizationOverloaded UtilizationLevel = "overloaded"
)

type WorkloadRecord struct {
	PersonName        string             `json:"personName"`
	TotalTasks        int                `json:"totalTasks"`
	OpenTasks         int                `json:"openTasks"`
	ByStatus          map[TaskStatus]int `json:"byStatus"`
	OverdueTasks      int                `json:"overdueTasks"`
	HighPriorityTasks int                `json:"highPriorityTasks"`
	UtilizationLevel  UtilizationLevel   `json:"utilizationLevel"`
}

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

type RiskRecord struct {
	ProjectID       string    `json:"projectId"`
	ProjectName     string    `json:"projectName"`
	TotalTasks      int       `json:"totalTasks"`
	CompletedTasks  int       `json:"completedTasks"`
	BlockedTasks    int       `json:"blockedTasks"`
	OverdueTasks    int       `json:"overdueTasks"`
	UnassignedTasks int       `json:"unassignedTasks"`
	CompletionRate  float64   `json:"completionRate"`
	RiskScore       float64   `json:"riskScore"`
	RiskLevel       RiskLevel `json:"riskLevel"`
	Factors         []string  `json:"factors"`
}
