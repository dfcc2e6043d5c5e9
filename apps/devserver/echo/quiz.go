package echoapi

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/llamalearn/llamalearn/core/quiz"
)

type quizApi struct {
	opts *Options
}

func registerQuizAPI(e *echo.Echo, jwt echo.MiddlewareFunc, opts *Options) {
	api := quizApi{opts: opts}

	e.GET("/courses/:id/sections/:sectionId/quiz", api.info, jwt)
	e.POST("/courses/:id/sections/:sectionId/quiz", api.fetch, jwt)

	g := e.Group("/quizzes", jwt)
	g.POST("/:id/submit", api.submit)
	g.POST("/:id/review", api.review)
	g.POST("/:id/review/feedback", api.reviewFeedback)
}

// Handlers

func (api *quizApi) info(ctx echo.Context) error {
	q, err := api.sectionQuiz(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, quiz.Info{
		ID:            q.ID,
		QuestionCount: len(q.Questions),
		Duration:      300,
	})
}

func (api *quizApi) fetch(ctx echo.Context) error {
	q, err := api.sectionQuiz(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, q)
}

func (api *quizApi) submit(ctx echo.Context) error {
	if _, err := contextUser(ctx, api.opts.Store); err != nil {
		return err
	}
	answers := quiz.AnswerMap{}
	if err := ctx.Bind(&answers); err != nil {
		return errors.Wrap(err, "binding answer map")
	}

	res, err := api.opts.Store.Grade(ctx.Param("id"), answers)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

// review fabricates a short review; the production backend generates it
// with the model.
func (api *quizApi) review(ctx echo.Context) error {
	if _, err := contextUser(ctx, api.opts.Store); err != nil {
		return err
	}
	var body struct {
		Questions []string `json:"questions"`
	}
	if err := ctx.Bind(&body); err != nil {
		return errors.Wrap(err, "binding review request")
	}

	return ctx.JSON(http.StatusOK, quiz.Review{
		Text:   fmt.Sprintf("You missed %d question(s). Revisit the related sections and retry the quiz.", len(body.Questions)),
		State:  uuid.New().String(),
		Action: uuid.New().String(),
	})
}

func (api *quizApi) reviewFeedback(ctx echo.Context) error {
	if _, err := contextUser(ctx, api.opts.Store); err != nil {
		return err
	}
	var fb quiz.ReviewFeedback
	if err := ctx.Bind(&fb); err != nil {
		return errors.Wrap(err, "binding review feedback")
	}
	// telemetry only; accepted and dropped
	return ctx.NoContent(http.StatusNoContent)
}

func (api *quizApi) sectionQuiz(ctx echo.Context) (quiz.Quiz, error) {
	usr, err := contextUser(ctx, api.opts.Store)
	if err != nil {
		return quiz.Quiz{}, err
	}
	courseID := ctx.Param("id")
	if owner, _ := api.opts.Store.CourseOwner(courseID); owner != usr.ID && !api.opts.Store.Enrolled(usr.ID, courseID) {
		return quiz.Quiz{}, errHttpForbidden
	}
	return api.opts.Store.QuizForSection(courseID, ctx.Param("sectionId"))
}
