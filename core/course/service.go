package course

import (
	"context"

	"github.com/llamalearn/llamalearn/core"
)

type (
	// Backend is the slice of the API the course views consume.
	Backend interface {
		AllCourses(ctx context.Context) ([]Course, error)
		EnrolledCourses(ctx context.Context) ([]Course, error)
		AvailableCourses(ctx context.Context) ([]Course, error)
		TeachingCourses(ctx context.Context) ([]Course, error)
		Course(ctx context.Context, id string) (Course, error)
		CourseDetails(ctx context.Context, id string) (Course, error)
		ManagedCourse(ctx context.Context, id string) (ManagedCourse, error)
		CourseProgress(ctx context.Context, id string) (Progress, error)
		CourseStudents(ctx context.Context, id string) ([]StudentEntry, error)
		Enroll(ctx context.Context, id string) error
		MarkViewed(ctx context.Context, courseID, sectionID string) error
	}

	Service struct {
		backend Backend
		log     core.Logger
	}
)

func NewService(backend Backend, log core.Logger) *Service {
	return &Service{backend: backend, log: log}
}

func (svc *Service) All(ctx context.Context) ([]Course, error) {
	return svc.backend.AllCourses(ctx)
}

func (svc *Service) Enrolled(ctx context.Context) ([]Course, error) {
	return svc.backend.EnrolledCourses(ctx)
}

func (svc *Service) Available(ctx context.Context) ([]Course, error) {
	return svc.backend.AvailableCourses(ctx)
}

func (svc *Service) Teaching(ctx context.Context) ([]Course, error) {
	return svc.backend.TeachingCourses(ctx)
}

// Get returns the course landing summary. An unknown or unauthorized id
// yields a normal not-found/forbidden error from the backend, never a
// routing failure.
func (svc *Service) Get(ctx context.Context, id string) (Course, error) {
	return svc.backend.Course(ctx, id)
}

// Details returns the full course with sections and pages.
func (svc *Service) Details(ctx context.Context, id string) (Course, error) {
	return svc.backend.CourseDetails(ctx, id)
}

func (svc *Service) Manage(ctx context.Context, id string) (ManagedCourse, error) {
	return svc.backend.ManagedCourse(ctx, id)
}

func (svc *Service) Progress(ctx context.Context, id string) (Progress, error) {
	return svc.backend.CourseProgress(ctx, id)
}

func (svc *Service) Students(ctx context.Context, id string) ([]StudentEntry, error) {
	return svc.backend.CourseStudents(ctx, id)
}

// Enroll registers the student on the course. Enrollment is confirmed, not
// optimistic: callers re-fetch their lists after a nil return, and a backend
// rejection leaves local state untouched.
func (svc *Service) Enroll(ctx context.Context, id string) error {
	return svc.backend.Enroll(ctx, id)
}

// MarkViewed records that the student has read a section; progress figures
// come back on the next Progress fetch.
func (svc *Service) MarkViewed(ctx context.Context, courseID, sectionID string) error {
	return svc.backend.MarkViewed(ctx, courseID, sectionID)
}
