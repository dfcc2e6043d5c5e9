package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/llamalearn/llamalearn/core/course"
	"github.com/llamalearn/llamalearn/core/user"
)

type courseApi struct {
	opts *Options
}

func registerCourseAPI(e *echo.Echo, jwt echo.MiddlewareFunc, opts *Options) {
	api := courseApi{opts: opts}

	g := e.Group("/courses", jwt)
	g.GET("", api.all)
	g.GET("/enrolled", api.enrolled)
	g.GET("/available", api.available)
	g.GET("/teaching", api.teaching)
	g.GET("/:id", api.retrieve)
	g.GET("/:id/details", api.details)
	g.GET("/:id/manage", api.manage)
	g.GET("/:id/progress", api.progress)
	g.GET("/:id/students", api.students)
	g.POST("/:id/enroll", api.enroll)
	g.POST("/:id/sections/:sectionId/viewed", api.markViewed)
}

// Handlers

func (api *courseApi) all(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, summaries(api.opts.Store.Courses()))
}

func (api *courseApi) enrolled(ctx echo.Context) error {
	usr, err := contextUser(ctx, api.opts.Store)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, summaries(api.opts.Store.EnrolledCourses(usr.ID)))
}

func (api *courseApi) available(ctx echo.Context) error {
	usr, err := contextUser(ctx, api.opts.Store)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, summaries(api.opts.Store.AvailableCourses(usr.ID)))
}

func (api *courseApi) teaching(ctx echo.Context) error {
	usr, err := contextUser(ctx, api.opts.Store)
	if err != nil {
		return err
	}
	if !usr.IsProfessor() {
		return errHttpForbidden
	}
	return ctx.JSON(http.StatusOK, summaries(api.opts.Store.CoursesByOwner(usr.ID)))
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	crs, err := api.opts.Store.Course(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, summary(crs))
}

// details returns the full course including section pages; enrollment (or
// ownership) required.
func (api *courseApi) details(ctx echo.Context) error {
	usr, err := contextUser(ctx, api.opts.Store)
	if err != nil {
		return err
	}
	crs, err := api.opts.Store.Course(ctx.Param("id"))
	if err != nil {
		return err
	}
	if !api.canRead(usr, crs.ID) {
		return errHttpForbidden
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseApi) manage(ctx echo.Context) error {
	usr, err := contextUser(ctx, api.opts.Store)
	if err != nil {
		return err
	}
	crs, err := api.opts.Store.Course(ctx.Param("id"))
	if err != nil {
		return err
	}
	if owner, _ := api.opts.Store.CourseOwner(crs.ID); owner != usr.ID {
		return errHttpForbidden
	}
	return ctx.JSON(http.StatusOK, course.ManagedCourse{
		Course:   crs,
		Students: api.opts.Store.Students(crs.ID),
	})
}

func (api *courseApi) progress(ctx echo.Context) error {
	usr, err := contextUser(ctx, api.opts.Store)
	if err != nil {
		return err
	}
	prog, err := api.opts.Store.Progress(usr.ID, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, prog)
}

func (api *courseApi) students(ctx echo.Context) error {
	usr, err := contextUser(ctx, api.opts.Store)
	if err != nil {
		return err
	}
	id := ctx.Param("id")
	if owner, err := api.opts.Store.CourseOwner(id); err != nil {
		return err
	} else if owner != usr.ID {
		return errHttpForbidden
	}
	return ctx.JSON(http.StatusOK, api.opts.Store.Students(id))
}

func (api *courseApi) enroll(ctx echo.Context) error {
	usr, err := contextUser(ctx, api.opts.Store)
	if err != nil {
		return err
	}
	if !usr.IsStudent() {
		return errHttpForbidden
	}
	if err := api.opts.Store.Enroll(usr.ID, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"enrolled": true})
}

func (api *courseApi) markViewed(ctx echo.Context) error {
	usr, err := contextUser(ctx, api.opts.Store)
	if err != nil {
		return err
	}
	courseID := ctx.Param("id")
	if _, err := api.opts.Store.Course(courseID); err != nil {
		return err
	}
	if !api.canRead(usr, courseID) {
		return errHttpForbidden
	}
	api.opts.Store.MarkViewed(usr.ID, courseID, ctx.Param("sectionId"))
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) canRead(usr user.User, courseID string) bool {
	if owner, _ := api.opts.Store.CourseOwner(courseID); owner == usr.ID {
		return true
	}
	return api.opts.Store.Enrolled(usr.ID, courseID)
}

// summary strips section pages from a course, the landing-page shape.
func summary(crs course.Course) course.Course {
	out := crs
	out.Sections = make([]course.Section, len(crs.Sections))
	for i, sec := range crs.Sections {
		sec.Pages = nil
		out.Sections[i] = sec
	}
	return out
}

func summaries(courses []course.Course) []course.Course {
	out := make([]course.Course, len(courses))
	for i, crs := range courses {
		out[i] = summary(crs)
	}
	return out
}
