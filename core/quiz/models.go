package quiz

// Choice is one selectable answer. The client never sees which choice is
// correct before submission.
type Choice struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

type Question struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"question"`
	Choices []Choice `json:"choices"`
}

type Quiz struct {
	ID        string     `json:"id"`
	CourseID  string     `json:"course_id"`
	SectionID string     `json:"section_id"`
	Questions []Question `json:"questions"`
}

// Info is the GET-variant quiz metadata, fetched without the questions.
type Info struct {
	ID            string `json:"id"`
	QuestionCount int    `json:"question_count"`
	Duration      int    `json:"duration"` // seconds
}

// AnswerMap maps question IDs to the chosen choice ID.
type AnswerMap map[string]string

// QuestionResult is the post-submission per-question verdict; Answer is the
// correct choice, revealed only here.
type QuestionResult struct {
	QuestionID string `json:"question_id"`
	Correct    bool   `json:"correct"`
	Chosen     string `json:"chosen"`
	Answer     string `json:"answer"`
}

type Result struct {
	QuizID    string           `json:"quiz_id"`
	Score     float64          `json:"score"` // percentage
	Questions []QuestionResult `json:"questions"`
}

// Wrong lists the IDs of incorrectly answered questions, the input to the
// AI review request.
func (r Result) Wrong() []string {
	var ids []string
	for _, qr := range r.Questions {
		if !qr.Correct {
			ids = append(ids, qr.QuestionID)
		}
	}
	return ids
}

// Review is the AI-generated personalized review. State and Action are
// opaque tokens echoed back in the efficacy feedback call.
type Review struct {
	Text   string `json:"review"`
	State  string `json:"state"`
	Action string `json:"action"`
}

// ReviewFeedback reports review efficacy back to the backend: the opaque
// state/action pair from the review plus the scores before and after.
type ReviewFeedback struct {
	State    string  `json:"state"`
	Action   string  `json:"action"`
	OldScore float64 `json:"old_score"`
	NewScore float64 `json:"new_score"`
}
