package main

import (
	"context"
	"fmt"

	"github.com/llamalearn/llamalearn/core"
	"github.com/llamalearn/llamalearn/core/course"
)

func (cli *commandLine) listCourses(ctx context.Context, enrolled, available, teaching bool) error {
	if _, err := cli.restore(ctx); err != nil {
		return err
	}

	var (
		crss []course.Course
		err  error
	)
	switch {
	case enrolled:
		crss, err = cli.courses.Enrolled(ctx)
	case available:
		crss, err = cli.courses.Available(ctx)
	case teaching:
		crss, err = cli.courses.Teaching(ctx)
	default:
		crss, err = cli.courses.All(ctx)
	}
	if err != nil {
		return err
	}

	if len(crss) == 0 {
		fmt.Fprintln(cli.out, "No courses.")
		return nil
	}
	for _, crs := range crss {
		fmt.Fprintf(cli.out, "%-8s %-40s %s\n", crs.ID, core.Truncate(crs.Title, 40), crs.Difficulty)
	}
	return nil
}

func (cli *commandLine) showCourse(ctx context.Context, id string, details bool) error {
	if _, err := cli.restore(ctx); err != nil {
		return err
	}

	var (
		crs course.Course
		err error
	)
	if details {
		crs, err = cli.courses.Details(ctx, id)
	} else {
		crs, err = cli.courses.Get(ctx, id)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.out, "%s (%s)\n", crs.Title, crs.ID)
	fmt.Fprintln(cli.out, crs.Description)
	fmt.Fprintf(cli.out, "Difficulty: %s, estimated %dh\n", crs.Difficulty, crs.EstimatedHours)
	for _, outcome := range crs.LearningOutcomes {
		fmt.Fprintf(cli.out, "  - %s\n", outcome)
	}
	if !details {
		return nil
	}

	prog, err := cli.courses.Progress(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Progress: %d/%d sections (%.0f%%)\n", prog.SectionsViewed, prog.SectionsTotal, prog.Percent)
	for _, sec := range crs.Sections {
		marker := " "
		if prog.Viewed[sec.ID] {
			marker = "x"
		}
		fmt.Fprintf(cli.out, "[%s] %-8s %s (%d pages)\n", marker, sec.ID, sec.Title, len(sec.Pages))
	}
	return nil
}

// readSection prints a section's pages and marks the section viewed, which
// is what moves the course progress figure.
func (cli *commandLine) readSection(ctx context.Context, courseID, sectionID string) error {
	if _, err := cli.restore(ctx); err != nil {
		return err
	}

	crs, err := cli.courses.Details(ctx, courseID)
	if err != nil {
		return err
	}
	for _, sec := range crs.Sections {
		if sec.ID != sectionID {
			continue
		}
		fmt.Fprintf(cli.out, "# %s\n", sec.Title)
		for _, pg := range sec.Pages {
			fmt.Fprintf(cli.out, "\n## %s\n\n%s\n", pg.Title, pg.Content)
		}
		return cli.courses.MarkViewed(ctx, courseID, sectionID)
	}
	return fmt.Errorf("no section %q in course %s", sectionID, courseID)
}

func (cli *commandLine) enroll(ctx context.Context, id string) error {
	usr, err := cli.restore(ctx)
	if err != nil {
		return err
	}
	if !usr.IsStudent() {
		return fmt.Errorf("only students can enroll")
	}

	if err := cli.courses.Enroll(ctx, id); err != nil {
		return err
	}
	// enrollment is confirmed before anything is shown as enrolled
	crs, err := cli.courses.Get(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Enrolled in %s.\n", crs.Title)
	return nil
}

func (cli *commandLine) manageCourse(ctx context.Context, id string) error {
	usr, err := cli.restore(ctx)
	if err != nil {
		return err
	}
	if !usr.IsProfessor() {
		return fmt.Errorf("only professors can manage courses")
	}

	mc, err := cli.courses.Manage(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s (%s), %d student(s)\n", mc.Course.Title, mc.Course.ID, len(mc.Students))
	for _, st := range mc.Students {
		fmt.Fprintf(cli.out, "  %-20s %.0f%%\n", st.User.Username, st.Percent)
	}
	return nil
}
