package model

import "time"

// ScreeningStatus is the lifecycle of a screening
type ScreeningStatus string

const (
	ScreeningOpen       ScreeningStatus = "open"
	ScreeningClassified ScreeningStatus = "classified"
	ScreeningClosed     ScreeningStatus = "closed"
)

// Classification is the outcome of target-group classification. TargetGroups
// preserves section order; Primary is the headline group shown to the
// employer (all qualifying codes are retained).
type Classification struct {
	TargetGroups       []string `json:"targetGroups" bson:"targetGroups"`
	PrimaryTargetGroup string   `json:"primaryTargetGroup,omitempty" bson:"primaryTargetGroup,omitempty"`
}

// Screening ties one employee to one questionnaire run and owns the derived
// classification and credit calculations.
type Screening struct {
	ID              string          `json:"id" bson:"_id,omitempty"`
	EmployerID      string          `json:"employerId" bson:"employerId"`
	EmployeeID      string          `json:"employeeId" bson:"employeeId"`
	QuestionnaireID string          `json:"questionnaireId" bson:"questionnaireId"`
	Status          ScreeningStatus `json:"status" bson:"status"`
	Classification  *Classification `json:"classification,omitempty" bson:"classification,omitempty"`
	CreatedAt       time.Time       `json:"createdAt" bson:"createdAt"`
	ClassifiedAt    *time.Time      `json:"classifiedAt,omitempty" bson:"classifiedAt,omitempty"`
}
