package quiz

import (
	"time"

	"github.com/pkg/errors"
)

var NowFunc = time.Now // mockable

var (
	ErrUnknownQuestion = errors.New("unknown question")
	ErrUnknownChoice   = errors.New("unknown choice")
	ErrNotSubmittable  = errors.New("quiz cannot be submitted yet")
)

// Attempt is the timed state of one quiz sitting: sequential navigation
// over a fixed ordered question list, an answer map and a countdown.
// Submission is allowed once every question has a recorded answer, or
// unconditionally when the countdown reaches zero (with whatever answers
// are recorded). All scoring happens server side.
type Attempt struct {
	quiz     Quiz
	answers  AnswerMap
	deadline time.Time
	idx      int
}

func NewAttempt(q Quiz, budget time.Duration) *Attempt {
	return &Attempt{
		quiz:     q,
		answers:  make(AnswerMap, len(q.Questions)),
		deadline: NowFunc().Add(budget),
	}
}

func (a *Attempt) Quiz() Quiz { return a.quiz }

func (a *Attempt) Len() int { return len(a.quiz.Questions) }

func (a *Attempt) Index() int { return a.idx }

func (a *Attempt) Current() Question { return a.quiz.Questions[a.idx] }

func (a *Attempt) Next() bool {
	if a.idx >= len(a.quiz.Questions)-1 {
		return false
	}
	a.idx++
	return true
}

func (a *Attempt) Prev() bool {
	if a.idx <= 0 {
		return false
	}
	a.idx--
	return true
}

// Record stores the chosen choice for a question, replacing any prior
// answer.
func (a *Attempt) Record(questionID, choiceID string) error {
	q, ok := a.question(questionID)
	if !ok {
		return ErrUnknownQuestion
	}
	for _, c := range q.Choices {
		if c.ID == choiceID {
			a.answers[questionID] = choiceID
			return nil
		}
	}
	return ErrUnknownChoice
}

func (a *Attempt) Answered(questionID string) (string, bool) {
	choiceID, ok := a.answers[questionID]
	return choiceID, ok
}

func (a *Attempt) AllAnswered() bool {
	return len(a.answers) == len(a.quiz.Questions)
}

// Remaining never goes negative.
func (a *Attempt) Remaining() time.Duration {
	left := a.deadline.Sub(NowFunc())
	if left < 0 {
		return 0
	}
	return left
}

func (a *Attempt) Expired() bool {
	return !NowFunc().Before(a.deadline)
}

// CanSubmit requires either all questions answered or time expired.
func (a *Attempt) CanSubmit() bool {
	return a.AllAnswered() || a.Expired()
}

// Answers returns a copy of the recorded answer map, possibly partial when
// the countdown expired.
func (a *Attempt) Answers() AnswerMap {
	cp := make(AnswerMap, len(a.answers))
	for k, v := range a.answers {
		cp[k] = v
	}
	return cp
}

func (a *Attempt) question(id string) (Question, bool) {
	for _, q := range a.quiz.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
