package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/llamalearn/llamalearn/core"
	"github.com/llamalearn/llamalearn/core/course"
	"github.com/llamalearn/llamalearn/core/generation"
)

// createCourse submits the material and renders the three-stage generation
// progress as records arrive. A failed run can be retried on the next
// invocation; nothing is kept locally.
func (cli *commandLine) createCourse(ctx context.Context, title, description, file string) error {
	usr, err := cli.restore(ctx)
	if err != nil {
		return err
	}
	if !usr.IsProfessor() {
		return fmt.Errorf("only professors can create courses")
	}

	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	nc := course.NewCourse{
		Title:       title,
		Description: description,
		Filename:    filepath.Base(file),
		Archive:     f,
	}
	dec, closer, err := cli.backend.CreateCourse(ctx, nc)
	if err != nil {
		return err
	}
	defer closer.Close()

	flow := generation.NewFlow(cli.log, core.Conf.RevealDelay, cli.renderProgress)
	if err := flow.Run(ctx, dec); err != nil {
		return fmt.Errorf("course generation failed: %w", err)
	}

	fmt.Fprintf(cli.out, "\nCourse ready: %s\n", flow.CourseID())
	return nil
}

func (cli *commandLine) renderProgress(p *generation.Progress) {
	var parts []string
	for _, st := range p.Ordered() {
		switch {
		case st.Completed():
			parts = append(parts, fmt.Sprintf("%s done", st.Name))
		case st.Percent > 0:
			parts = append(parts, fmt.Sprintf("%s %.0f%%", st.Name, st.Percent))
		default:
			parts = append(parts, fmt.Sprintf("%s pending", st.Name))
		}
	}
	fmt.Fprintf(cli.out, "\r%s", strings.Join(parts, " | "))
}
