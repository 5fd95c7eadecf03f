package model

// QuestionType defines the input type of a questionnaire question
type QuestionType string

const (
	QuestionTypeText     QuestionType = "text"
	QuestionTypeRadio    QuestionType = "radio"
	QuestionTypeCheckbox QuestionType = "checkbox"
	QuestionTypeDate     QuestionType = "date"
	QuestionTypeFile     QuestionType = "file"
	QuestionTypeNumber   QuestionType = "number"
	QuestionTypeSelect   QuestionType = "select"
)

// ConditionOperator is the comparison applied by a simple display condition
type ConditionOperator string

const (
	OpEquals      ConditionOperator = "equals"
	OpNotEquals   ConditionOperator = "notEquals"
	OpIncludes    ConditionOperator = "includes"
	OpGreaterThan ConditionOperator = "greaterThan"
	OpLessThan    ConditionOperator = "lessThan"
	OpExists      ConditionOperator = "exists"
)

// ConditionLogic combines child conditions in a composite condition
type ConditionLogic string

const (
	LogicAnd ConditionLogic = "AND"
	LogicOr  ConditionLogic = "OR"
)

// DisplayCondition decides whether a question is visible given the answers
// recorded so far. It is either simple (SourceQuestionID/Operator/Value set)
// or composite (Logic/Conditions set); a non-empty Logic is the
// discriminator. Composites nest to arbitrary depth.
type DisplayCondition struct {
	// Simple condition
	SourceQuestionID string            `json:"sourceQuestionId,omitempty" bson:"sourceQuestionId,omitempty"`
	Operator         ConditionOperator `json:"operator,omitempty" bson:"operator,omitempty"`
	Value            any               `json:"value,omitempty" bson:"value,omitempty"`

	// Composite condition
	Logic      ConditionLogic     `json:"logic,omitempty" bson:"logic,omitempty"`
	Conditions []DisplayCondition `json:"conditions,omitempty" bson:"conditions,omitempty"`
}

// IsComposite reports whether the condition combines child conditions
func (c *DisplayCondition) IsComposite() bool {
	return c.Logic != ""
}

// QuestionMetadata describes a single question inside a section. Immutable
// once the owning questionnaire version is published.
type QuestionMetadata struct {
	ID       string       `json:"id" bson:"id"` // stable key, e.g. "vet_unemployed_6mo"
	Type     QuestionType `json:"type" bson:"type"`
	Label    string       `json:"label" bson:"label"`
	Required bool         `json:"required" bson:"required"`
	Options  []string     `json:"options,omitempty" bson:"options,omitempty"` // radio/checkbox/select only

	// Eligibility wiring: answering EligibilityTrigger (or any member of
	// EligibleValues) qualifies the respondent for TargetGroup.
	TargetGroup        string   `json:"targetGroup,omitempty" bson:"targetGroup,omitempty"`
	EligibilityTrigger string   `json:"eligibilityTrigger,omitempty" bson:"eligibilityTrigger,omitempty"`
	EligibleValues     []string `json:"eligibleValues,omitempty" bson:"eligibleValues,omitempty"`

	DisplayCondition  *DisplayCondition  `json:"displayCondition,omitempty" bson:"displayCondition,omitempty"`
	FollowUpQuestions []QuestionMetadata `json:"followUpQuestions,omitempty" bson:"followUpQuestions,omitempty"`
}

// GatingConfig names the single question whose answer decides whether an
// entire section applies. ApplicableAnswers and NotApplicableAnswers must be
// disjoint; an answer in neither set leaves the section undetermined.
type GatingConfig struct {
	QuestionID           string   `json:"questionId" bson:"questionId"`
	ApplicableAnswers    []string `json:"applicableAnswers" bson:"applicableAnswers"`
	NotApplicableAnswers []string `json:"notApplicableAnswers" bson:"notApplicableAnswers"`
	SkipReasonKey        string   `json:"skipReasonKey,omitempty" bson:"skipReasonKey,omitempty"`
}

// QuestionnaireSection groups the questions for one family of target groups
type QuestionnaireSection struct {
	ID           string             `json:"id" bson:"id"`
	Title        string             `json:"title" bson:"title"`
	TargetGroups []string           `json:"targetGroups,omitempty" bson:"targetGroups,omitempty"`
	GatingConfig *GatingConfig      `json:"gatingConfig,omitempty" bson:"gatingConfig,omitempty"`
	Questions    []QuestionMetadata `json:"questions" bson:"questions"`
	Order        int                `json:"order" bson:"order"`
	Weight       float64            `json:"weight,omitempty" bson:"weight,omitempty"` // progress weighting, defaults to 1
}

// ProgressWeight returns the section weight, defaulting to 1
func (s *QuestionnaireSection) ProgressWeight() float64 {
	if s.Weight <= 0 {
		return 1
	}
	return s.Weight
}
