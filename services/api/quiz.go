package apisvc

import (
	"context"
	"net/url"

	"github.com/llamalearn/llamalearn/core/quiz"
)

var _ quiz.Backend = (*Client)(nil)

func (c *Client) SectionQuiz(ctx context.Context, courseID, sectionID string) (quiz.Quiz, error) {
	var q quiz.Quiz
	err := c.post(ctx, sectionQuizPath(courseID, sectionID), nil, &q)
	return q, err
}

func (c *Client) SectionQuizInfo(ctx context.Context, courseID, sectionID string) (quiz.Info, error) {
	var info quiz.Info
	err := c.get(ctx, sectionQuizPath(courseID, sectionID), &info)
	return info, err
}

func (c *Client) SubmitQuiz(ctx context.Context, quizID string, answers quiz.AnswerMap) (quiz.Result, error) {
	var res quiz.Result
	err := c.post(ctx, "/quizzes/"+url.PathEscape(quizID)+"/submit", answers, &res)
	return res, err
}

func (c *Client) RequestReview(ctx context.Context, quizID string, wrong []string) (quiz.Review, error) {
	body := struct {
		Questions []string `json:"questions"`
	}{Questions: wrong}

	var rev quiz.Review
	err := c.post(ctx, "/quizzes/"+url.PathEscape(quizID)+"/review", body, &rev)
	return rev, err
}

func (c *Client) SendReviewFeedback(ctx context.Context, quizID string, fb quiz.ReviewFeedback) error {
	return c.post(ctx, "/quizzes/"+url.PathEscape(quizID)+"/review/feedback", fb, nil)
}

func sectionQuizPath(courseID, sectionID string) string {
	return "/courses/" + url.PathEscape(courseID) + "/sections/" + url.PathEscape(sectionID) + "/quiz"
}
