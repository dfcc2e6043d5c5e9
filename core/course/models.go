package course

import (
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/llamalearn/llamalearn/core"
	"github.com/llamalearn/llamalearn/core/user"
)

// Page is one unit of lesson content, markdown with inline LaTeX.
type Page struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Section is a titled unit of course content composed of ordered pages.
// Viewed and Completed are per-student flags.
type Section struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Pages     []Page `json:"pages"`
	Viewed    bool   `json:"viewed"`
	Completed bool   `json:"completed"`
}

type Course struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Difficulty       string    `json:"difficulty"`
	EstimatedHours   int       `json:"estimated_hours"`
	Prerequisites    []string  `json:"prerequisites"`
	LearningOutcomes []string  `json:"learning_outcomes"`
	Highlights       []string  `json:"highlights"`
	Skills           []string  `json:"skills"`
	Sections         []Section `json:"sections"`
}

// Progress is a student's per-course progress as reported by the backend.
type Progress struct {
	CourseID       string          `json:"course_id"`
	Viewed         map[string]bool `json:"viewed"` // section ID -> viewed
	SectionsViewed int             `json:"sections_viewed"`
	SectionsTotal  int             `json:"sections_total"`
	Percent        float64         `json:"percent"`
}

// AllViewed reports whether every section has been marked viewed. Used by
// the quiz flow's pre-quiz readiness warning; it never blocks access.
func (p Progress) AllViewed() bool {
	return p.SectionsTotal > 0 && p.SectionsViewed >= p.SectionsTotal
}

// StudentEntry is one enrolled student in the professor's management view.
type StudentEntry struct {
	User       user.User `json:"user"`
	Percent    float64   `json:"percent"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// ManagedCourse is the professor's view of an owned course.
type ManagedCourse struct {
	Course   Course         `json:"course"`
	Students []StudentEntry `json:"students"`
}

// NewCourse carries a professor's course-creation submission: title,
// description and the zipped source material.
type NewCourse struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Filename    string    `json:"filename" validate:"required"`
	Archive     io.Reader `json:"-"`
}

func (nc *NewCourse) Validate() error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)

	if err := core.Validate.Struct(nc); err != nil {
		if vErrs, ok := err.(validator.ValidationErrors); ok {
			return core.NewValidationError(err, core.TranslateFieldErrors(vErrs)...)
		}
		return err
	}
	if !strings.HasSuffix(strings.ToLower(nc.Filename), ".zip") {
		return core.NewValidationError(nil, core.FieldError{Field: "filename", Error: "course material must be a .zip archive"})
	}
	if nc.Archive == nil {
		return core.NewValidationError(nil, core.FieldError{Field: "filename", Error: "course material is required"})
	}
	return nil
}
