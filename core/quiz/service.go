package quiz

import (
	"context"

	"github.com/llamalearn/llamalearn/core"
)

type (
	// Backend is the slice of the API the quiz flow consumes.
	Backend interface {
		SectionQuiz(ctx context.Context, courseID, sectionID string) (Quiz, error)
		SectionQuizInfo(ctx context.Context, courseID, sectionID string) (Info, error)
		SubmitQuiz(ctx context.Context, quizID string, answers AnswerMap) (Result, error)
		RequestReview(ctx context.Context, quizID string, wrong []string) (Review, error)
		SendReviewFeedback(ctx context.Context, quizID string, fb ReviewFeedback) error
	}

	Service struct {
		backend Backend
		log     core.Logger
	}
)

func NewService(backend Backend, log core.Logger) *Service {
	return &Service{backend: backend, log: log}
}

func (svc *Service) Fetch(ctx context.Context, courseID, sectionID string) (Quiz, error) {
	return svc.backend.SectionQuiz(ctx, courseID, sectionID)
}

func (svc *Service) Metadata(ctx context.Context, courseID, sectionID string) (Info, error) {
	return svc.backend.SectionQuizInfo(ctx, courseID, sectionID)
}

// Submit sends the whole answer map in one atomic call. It refuses an
// attempt that is neither fully answered nor expired.
func (svc *Service) Submit(ctx context.Context, att *Attempt) (Result, error) {
	if !att.CanSubmit() {
		return Result{}, ErrNotSubmittable
	}
	return svc.backend.SubmitQuiz(ctx, att.Quiz().ID, att.Answers())
}

// Review requests an AI-generated review of the wrongly answered questions.
func (svc *Service) Review(ctx context.Context, res Result) (Review, error) {
	return svc.backend.RequestReview(ctx, res.QuizID, res.Wrong())
}

// SendFeedback is fire-and-forget efficacy telemetry: failures are logged,
// never surfaced to the user.
func (svc *Service) SendFeedback(ctx context.Context, quizID string, fb ReviewFeedback) {
	if err := svc.backend.SendReviewFeedback(ctx, quizID, fb); err != nil {
		svc.log.Warn("sending review feedback", err)
	}
}
