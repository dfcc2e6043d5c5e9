package apisvc

import (
	"context"
	"net/url"

	"github.com/llamalearn/llamalearn/core/course"
)

var _ course.Backend = (*Client)(nil)

func (c *Client) AllCourses(ctx context.Context) ([]course.Course, error) {
	return c.listCourses(ctx, "/courses")
}

func (c *Client) EnrolledCourses(ctx context.Context) ([]course.Course, error) {
	return c.listCourses(ctx, "/courses/enrolled")
}

func (c *Client) AvailableCourses(ctx context.Context) ([]course.Course, error) {
	return c.listCourses(ctx, "/courses/available")
}

func (c *Client) TeachingCourses(ctx context.Context) ([]course.Course, error) {
	return c.listCourses(ctx, "/courses/teaching")
}

func (c *Client) listCourses(ctx context.Context, path string) ([]course.Course, error) {
	var courses []course.Course
	if err := c.get(ctx, path, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *Client) Course(ctx context.Context, id string) (course.Course, error) {
	var crs course.Course
	err := c.get(ctx, "/courses/"+url.PathEscape(id), &crs)
	return crs, err
}

func (c *Client) CourseDetails(ctx context.Context, id string) (course.Course, error) {
	var crs course.Course
	err := c.get(ctx, "/courses/"+url.PathEscape(id)+"/details", &crs)
	return crs, err
}

func (c *Client) ManagedCourse(ctx context.Context, id string) (course.ManagedCourse, error) {
	var mc course.ManagedCourse
	err := c.get(ctx, "/courses/"+url.PathEscape(id)+"/manage", &mc)
	return mc, err
}

func (c *Client) CourseProgress(ctx context.Context, id string) (course.Progress, error) {
	var prog course.Progress
	err := c.get(ctx, "/courses/"+url.PathEscape(id)+"/progress", &prog)
	return prog, err
}

func (c *Client) CourseStudents(ctx context.Context, id string) ([]course.StudentEntry, error) {
	var students []course.StudentEntry
	err := c.get(ctx, "/courses/"+url.PathEscape(id)+"/students", &students)
	return students, err
}

func (c *Client) Enroll(ctx context.Context, id string) error {
	return c.post(ctx, "/courses/"+url.PathEscape(id)+"/enroll", nil, nil)
}

func (c *Client) MarkViewed(ctx context.Context, courseID, sectionID string) error {
	path := "/courses/" + url.PathEscape(courseID) + "/sections/" + url.PathEscape(sectionID) + "/viewed"
	return c.post(ctx, path, nil, nil)
}
