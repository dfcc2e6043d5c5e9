// Package generation consumes the incrementally delivered course-generation
// progress feed: discrete JSON records across three named stages that
// complete in a fixed order (details, then content, then quiz).
package generation

// Stages, in their fixed completion order.
const (
	StageDetails = "details"
	StageContent = "content"
	StageQuiz    = "quiz"
)

var Stages = []string{StageDetails, StageContent, StageQuiz}

// Stage statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Stats carries the stage-specific statistics a record may report. Fields
// are stage dependent: details populates difficulty/estimatedHours/
// outcomesCount, content sectionCount/wordCount/percent, quiz
// questionCount/optionCount. Step is a free-form current-step label.
type Stats struct {
	Difficulty     string  `json:"difficulty,omitempty"`
	EstimatedHours int     `json:"estimatedHours,omitempty"`
	OutcomesCount  int     `json:"outcomesCount,omitempty"`
	SectionCount   int     `json:"sectionCount,omitempty"`
	WordCount      int     `json:"wordCount,omitempty"`
	QuestionCount  int     `json:"questionCount,omitempty"`
	OptionCount    int     `json:"optionCount,omitempty"`
	Percent        float64 `json:"percent,omitempty"`
	Step           string  `json:"step,omitempty"`
}

// Record is one decoded unit of the generation stream. CourseID appears at
// least once somewhere in the stream and is required to navigate to the
// finished course.
type Record struct {
	Type     string `json:"type"`
	Status   string `json:"status"`
	Stats    Stats  `json:"stats"`
	CourseID string `json:"courseId,omitempty"`
}

func KnownStage(name string) bool {
	for _, s := range Stages {
		if s == name {
			return true
		}
	}
	return false
}
