package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/llamalearn/llamalearn/core"
	"github.com/llamalearn/llamalearn/core/quiz"
)

// sitQuiz runs the interactive timed quiz loop: sequential navigation over
// the questions, answers recorded as the user goes, submission gated until
// everything is answered or the countdown expires. Whatever is recorded at
// expiry is submitted as is.
func (cli *commandLine) sitQuiz(ctx context.Context, courseID, sectionID string) error {
	usr, err := cli.restore(ctx)
	if err != nil {
		return err
	}
	if !usr.IsStudent() {
		return fmt.Errorf("only students can sit quizzes")
	}

	// an unread section never blocks the quiz, it only earns a warning
	if prog, err := cli.courses.Progress(ctx, courseID); err == nil && !prog.AllViewed() {
		fmt.Fprintln(cli.out, "Note: you have not viewed every section of this course yet.")
	}

	info, err := cli.quizzes.Metadata(ctx, courseID, sectionID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%d questions, %d seconds. Press enter to start.\n", info.QuestionCount, info.Duration)
	if _, err := cli.readLine(); err != nil {
		return err
	}

	q, err := cli.quizzes.Fetch(ctx, courseID, sectionID)
	if err != nil {
		return err
	}

	att := quiz.NewAttempt(q, core.Conf.QuizDuration)
	if err := cli.quizLoop(att); err != nil {
		return err
	}

	res, err := cli.quizzes.Submit(ctx, att)
	if err != nil {
		return err
	}
	return cli.showResult(ctx, res)
}

func (cli *commandLine) quizLoop(att *quiz.Attempt) error {
	for {
		if att.Expired() {
			fmt.Fprintln(cli.out, "Time is up; submitting your recorded answers.")
			return nil
		}

		cur := att.Current()
		fmt.Fprintf(cli.out, "\n[%ds left] Question %d/%d: %s\n",
			int(att.Remaining().Seconds()), att.Index()+1, att.Len(), cur.Prompt)
		for _, ch := range cur.Choices {
			marker := " "
			if chosen, ok := att.Answered(cur.ID); ok && chosen == ch.ID {
				marker = "*"
			}
			fmt.Fprintf(cli.out, " %s %s) %s\n", marker, ch.ID, ch.Content)
		}
		fmt.Fprint(cli.out, "answer id, (n)ext, (p)rev or (s)ubmit: ")

		line, err := cli.readLine()
		if err == io.EOF {
			// input gone; fall through to the submission gate
			if att.CanSubmit() {
				return nil
			}
			return quiz.ErrNotSubmittable
		}
		if err != nil {
			return err
		}

		switch strings.ToLower(line) {
		case "":
			continue
		case "n":
			att.Next()
		case "p":
			att.Prev()
		case "s":
			if !att.CanSubmit() {
				fmt.Fprintln(cli.out, "Answer every question first (or wait out the timer).")
				continue
			}
			return nil
		default:
			if err := att.Record(cur.ID, line); err != nil {
				fmt.Fprintln(cli.out, err)
				continue
			}
			att.Next()
		}
	}
}

func (cli *commandLine) showResult(ctx context.Context, res quiz.Result) error {
	fmt.Fprintf(cli.out, "\nScore: %.0f%%\n", res.Score)
	for _, qr := range res.Questions {
		if qr.Correct {
			continue
		}
		fmt.Fprintf(cli.out, "  %s: you chose %q, correct was %q\n", qr.QuestionID, qr.Chosen, qr.Answer)
	}

	wrong := res.Wrong()
	if len(wrong) == 0 {
		fmt.Fprintln(cli.out, "Perfect score!")
		return nil
	}

	fmt.Fprint(cli.out, "Request a personalized review of the missed questions? (y/N) ")
	line, err := cli.readLine()
	if err != nil || !strings.EqualFold(line, "y") {
		return nil
	}

	rev, err := cli.quizzes.Review(ctx, res)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "\n%s\n", rev.Text)

	// efficacy telemetry; the retry score is unknown here so the old score
	// stands in until a later sitting reports back
	cli.quizzes.SendFeedback(ctx, res.QuizID, quiz.ReviewFeedback{
		State:    rev.State,
		Action:   rev.Action,
		OldScore: res.Score,
		NewScore: res.Score,
	})
	return nil
}
