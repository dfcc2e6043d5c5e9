package echoapi

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/llamalearn/llamalearn/core/course"
	"github.com/llamalearn/llamalearn/core/generation"
	"github.com/llamalearn/llamalearn/core/quiz"
	"github.com/llamalearn/llamalearn/storage/inmem"
)

type generationApi struct {
	opts *Options
}

func registerGenerationAPI(e *echo.Echo, jwt echo.MiddlewareFunc, opts *Options) {
	api := generationApi{opts: opts}

	e.POST("/courses/create", api.create, jwt)
}

// create builds a course from the uploaded material and streams generation
// progress back as newline-delimited JSON records. The production backend
// drives this from the model pipeline; the stub derives everything from
// the archive contents.
func (api *generationApi) create(ctx echo.Context) error {
	usr, err := contextUser(ctx, api.opts.Store)
	if err != nil {
		return err
	}
	if !usr.IsProfessor() {
		return errHttpForbidden
	}

	nc, raw, err := bindNewCourse(ctx)
	if err != nil {
		return err
	}
	crs, key, err := buildCourse(nc, raw)
	if err != nil {
		return err
	}

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "application/x-ndjson")
	res.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(res)

	emit := func(rec generation.Record) error {
		if err := enc.Encode(rec); err != nil {
			return err
		}
		res.Flush()
		if api.opts.StageDelay > 0 {
			time.Sleep(api.opts.StageDelay)
		}
		return nil
	}

	script := []generation.Record{
		{Type: generation.StageDetails, Status: generation.StatusPending, Stats: generation.Stats{Step: "analyzing material"}},
		{Type: generation.StageDetails, Status: generation.StatusCompleted, Stats: generation.Stats{
			Difficulty:     crs.Difficulty,
			EstimatedHours: crs.EstimatedHours,
			OutcomesCount:  len(crs.LearningOutcomes),
		}},
	}
	for i := range crs.Sections {
		script = append(script, generation.Record{
			Type:   generation.StageContent,
			Status: generation.StatusPending,
			Stats: generation.Stats{
				Step:    fmt.Sprintf("writing section %d of %d", i+1, len(crs.Sections)),
				Percent: float64(i) / float64(len(crs.Sections)) * 100,
			},
		})
	}
	script = append(script,
		generation.Record{Type: generation.StageContent, Status: generation.StatusCompleted, Stats: generation.Stats{
			SectionCount: len(crs.Sections),
			WordCount:    wordCount(crs),
		}},
		generation.Record{Type: generation.StageQuiz, Status: generation.StatusPending, Stats: generation.Stats{Step: "drafting questions"}},
	)

	for _, rec := range script {
		if err := emit(rec); err != nil {
			return err
		}
	}

	idemKey := ctx.Request().Header.Get("Idempotency-Key")
	saved := api.opts.Store.CreateCourse(usr.ID, crs, key, idemKey)

	return emit(generation.Record{
		Type:     generation.StageQuiz,
		Status:   generation.StatusCompleted,
		CourseID: saved.ID,
		Stats: generation.Stats{
			QuestionCount: len(key.Questions),
			OptionCount:   optionCount(key),
		},
	})
}

func bindNewCourse(ctx echo.Context) (course.NewCourse, []byte, error) {
	fh, err := ctx.FormFile("content")
	if err != nil {
		return course.NewCourse{}, nil, errors.Wrap(err, "reading course material upload")
	}
	f, err := fh.Open()
	if err != nil {
		return course.NewCourse{}, nil, err
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		return course.NewCourse{}, nil, err
	}

	nc := course.NewCourse{
		Title:       ctx.FormValue("title"),
		Description: ctx.FormValue("description"),
		Filename:    fh.Filename,
		Archive:     bytes.NewReader(raw),
	}
	if err := nc.Validate(); err != nil {
		return course.NewCourse{}, nil, err
	}
	return nc, raw, nil
}

// buildCourse derives sections from the archive's text files, one section
// per file, plus a small quiz keyed on the section titles.
func buildCourse(nc course.NewCourse, raw []byte) (course.Course, *inmem.QuizRecord, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return course.Course{}, nil, errors.Wrap(err, "opening course material archive")
	}

	var files []*zip.File
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		switch strings.ToLower(path.Ext(zf.Name)) {
		case ".md", ".txt", ".tex":
			files = append(files, zf)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	crs := course.Course{
		Title:       nc.Title,
		Description: nc.Description,
		Difficulty:  "intermediate",
	}
	for i, zf := range files {
		rc, err := zf.Open()
		if err != nil {
			return course.Course{}, nil, err
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return course.Course{}, nil, err
		}

		title := sectionTitle(zf.Name)
		crs.Sections = append(crs.Sections, course.Section{
			ID:    fmt.Sprintf("s-%d", i+1),
			Title: title,
			Pages: []course.Page{{
				ID:      fmt.Sprintf("p-%d", i+1),
				Title:   title,
				Content: string(content),
			}},
		})
		crs.LearningOutcomes = append(crs.LearningOutcomes, "Understand "+title)
	}
	if len(crs.Sections) == 0 {
		return course.Course{}, nil, errors.New("course material archive contains no text content")
	}
	crs.EstimatedHours = len(crs.Sections)

	key := &inmem.QuizRecord{
		Quiz: quiz.Quiz{SectionID: crs.Sections[0].ID},
		Key:  make(map[string]string),
	}
	for i, sec := range crs.Sections {
		qID := fmt.Sprintf("gq-%d", i+1)
		key.Questions = append(key.Questions, quiz.Question{
			ID:     qID,
			Prompt: fmt.Sprintf("Which section covers %q?", sec.Title),
			Choices: []quiz.Choice{
				{ID: "a", Content: sec.Title},
				{ID: "b", Content: "None of the sections"},
			},
		})
		key.Key[qID] = "a"
	}
	return crs, key, nil
}

func sectionTitle(name string) string {
	base := path.Base(name)
	base = strings.TrimSuffix(base, path.Ext(base))
	base = strings.ReplaceAll(base, "_", " ")
	return strings.Title(strings.ReplaceAll(base, "-", " "))
}

func wordCount(crs course.Course) int {
	var n int
	for _, sec := range crs.Sections {
		for _, pg := range sec.Pages {
			n += len(strings.Fields(pg.Content))
		}
	}
	return n
}

func optionCount(key *inmem.QuizRecord) int {
	var n int
	for _, q := range key.Questions {
		n += len(q.Choices)
	}
	return n
}
