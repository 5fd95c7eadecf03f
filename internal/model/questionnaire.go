package model

import (
	"sort"
	"time"
)

// QuestionnaireStatus is the publishing lifecycle of a questionnaire version
type QuestionnaireStatus string

const (
	QuestionnaireDraft     QuestionnaireStatus = "draft"
	QuestionnairePublished QuestionnaireStatus = "published"
	QuestionnaireRetired   QuestionnaireStatus = "retired"
)

// Questionnaire is a versioned intake questionnaire template. Sections and
// questions are frozen once Status becomes published; edits require a new
// version.
type Questionnaire struct {
	ID        string                 `json:"id" bson:"_id,omitempty"`
	Name      string                 `json:"name" bson:"name"`
	Version   int                    `json:"version" bson:"version"`
	Status    QuestionnaireStatus    `json:"status" bson:"status"`
	Sections  []QuestionnaireSection `json:"sections" bson:"sections"`
	CreatedAt time.Time              `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt" bson:"updatedAt"`
}

// SectionsInOrder returns the sections sorted by their Order field.
// The stored slice is not mutated.
func (q *Questionnaire) SectionsInOrder() []QuestionnaireSection {
	out := make([]QuestionnaireSection, len(q.Sections))
	copy(out, q.Sections)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Section looks up a section by ID
func (q *Questionnaire) Section(id string) *QuestionnaireSection {
	for i := range q.Sections {
		if q.Sections[i].ID == id {
			return &q.Sections[i]
		}
	}
	return nil
}

// SectionForQuestion returns the section containing the given question ID,
// searching follow-up questions as well.
func (q *Questionnaire) SectionForQuestion(questionID string) *QuestionnaireSection {
	for i := range q.Sections {
		if containsQuestion(q.Sections[i].Questions, questionID) {
			return &q.Sections[i]
		}
		if gc := q.Sections[i].GatingConfig; gc != nil && gc.QuestionID == questionID {
			return &q.Sections[i]
		}
	}
	return nil
}

func containsQuestion(questions []QuestionMetadata, id string) bool {
	for i := range questions {
		if questions[i].ID == id {
			return true
		}
		if containsQuestion(questions[i].FollowUpQuestions, id) {
			return true
		}
	}
	return false
}
