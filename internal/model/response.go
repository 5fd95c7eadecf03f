package model

import "time"

// SectionStatus is the lifecycle state of one questionnaire section for one
// respondent
type SectionStatus string

const (
	SectionPending    SectionStatus = "pending"
	SectionInProgress SectionStatus = "in_progress"
	SectionCompleted  SectionStatus = "completed"
	SectionSkipped    SectionStatus = "skipped"
)

// Terminal reports whether the status counts toward completion
func (s SectionStatus) Terminal() bool {
	return s == SectionCompleted || s == SectionSkipped
}

// SectionState is the derived state of one section for one respondent
type SectionState struct {
	SectionID     string        `json:"sectionId" bson:"sectionId"`
	Status        SectionStatus `json:"status" bson:"status"`
	CompletedAt   *time.Time    `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	SkippedReason string        `json:"skippedReason,omitempty" bson:"skippedReason,omitempty"`
}

// ResponseData is one respondent's answer set for one questionnaire version.
// Created on first access, mutated throughout the screening session. Answers
// are only ever appended or overwritten, never removed.
type ResponseData struct {
	ID               string         `json:"id" bson:"_id,omitempty"`
	ScreeningID      string         `json:"screeningId" bson:"screeningId"`
	QuestionnaireID  string         `json:"questionnaireId" bson:"questionnaireId"`
	Answers          map[string]any `json:"answers" bson:"answers"`
	SectionStates    []SectionState `json:"sectionStates" bson:"sectionStates"`
	CurrentSectionID string         `json:"currentSectionId,omitempty" bson:"currentSectionId,omitempty"`
	IsCompleted      bool           `json:"isCompleted" bson:"isCompleted"`
	CreatedAt        time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// SectionState returns the recorded state for a section, or nil
func (r *ResponseData) SectionState(sectionID string) *SectionState {
	for i := range r.SectionStates {
		if r.SectionStates[i].SectionID == sectionID {
			return &r.SectionStates[i]
		}
	}
	return nil
}
