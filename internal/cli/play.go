package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/logger"
	"trivia-quiz-service/internal/trivia"

	"github.com/spf13/cobra"
)

var (
	errQuit        = errors.New("quiz abandoned")
	errInputClosed = errors.New("input closed before the quiz finished")
)

// NewPlayCmd runs a timed quiz in the terminal.
func NewPlayCmd() *cobra.Command {
	var (
		categoryID int
		difficulty string
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a timed quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			rt := newRuntime(cfg, logger.Get())
			defer rt.close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			_, err = playQuiz(ctx, rt.service, categoryID, difficulty, cmd.InOrStdin(), out)
			switch {
			case errors.Is(err, domain.ErrNoQuestions):
				fmt.Fprintln(out, "No questions available for this category and difficulty. Please try a different combination.")
				return nil
			case errors.Is(err, errQuit):
				fmt.Fprintln(out, "Quiz abandoned.")
				return nil
			}
			return err
		},
	}
	cmd.Flags().IntVar(&categoryID, "category", 9, "category id (see the categories command)")
	cmd.Flags().StringVar(&difficulty, "difficulty", string(domain.DifficultyEasy), "easy, medium or hard")
	return cmd
}

// playQuiz drives one session from line-based input: an option number answers,
// an empty line moves on, p toggles pause and q quits.
func playQuiz(ctx context.Context, service *app.QuizService, categoryID int, difficulty string, in io.Reader, out io.Writer) (domain.Result, error) {
	session, err := service.Start(ctx, categoryID, difficulty)
	if err != nil {
		return domain.Result{}, err
	}
	id := session.ID()
	defer func() { _ = service.Close(id) }()

	updates, cancel, err := service.Subscribe(id)
	if err != nil {
		return domain.Result{}, err
	}
	defer cancel()

	ctx, stop := context.WithCancel(ctx)
	defer stop()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()

	shown := -1
	show := func(view domain.SessionView) *domain.Result {
		if view.Result != nil {
			printResult(out, *view.Result)
			return view.Result
		}
		if view.CurrentIndex != shown {
			shown = view.CurrentIndex
			printQuestion(out, view)
		}
		return nil
	}

	// the first view is queued by Subscribe itself
	if r := show(<-updates); r != nil {
		return *r, nil
	}
	for {
		select {
		case <-ctx.Done():
			return domain.Result{}, ctx.Err()

		case view, ok := <-updates:
			if !ok {
				return domain.Result{}, domain.ErrSessionNotFound
			}
			if r := show(view); r != nil {
				return *r, nil
			}

		case line, ok := <-lines:
			if !ok {
				if r, done := session.Result(); done {
					printResult(out, r)
					return r, nil
				}
				return domain.Result{}, errInputClosed
			}
			if err := handleLine(service, id, line, out); err != nil {
				return domain.Result{}, err
			}
		}
	}
}

func handleLine(service *app.QuizService, id, line string, out io.Writer) error {
	view, err := service.View(id)
	if err != nil {
		return err
	}
	if view.Question == nil {
		return nil
	}

	switch {
	case line == "q":
		return errQuit
	case line == "p":
		view, _, err = service.TogglePause(id)
		if err != nil {
			return err
		}
		if view.Paused {
			fmt.Fprintln(out, "Paused. Press p to resume.")
		} else {
			fmt.Fprintf(out, "Resumed. %s left.\n", app.FormatDuration(view.TimeRemainingSeconds))
		}
	case line == "":
		if view.Question.Answered {
			_, _, err = service.Advance(id)
			return err
		}
		fmt.Fprintln(out, "Pick an answer first.")
	default:
		n, convErr := strconv.Atoi(line)
		if convErr != nil || n < 1 || n > len(view.Question.Options) {
			fmt.Fprintln(out, "Type an option number, p to pause or q to quit.")
			return nil
		}
		view, applied, err := service.SubmitAnswer(id, view.Question.Options[n-1])
		if err != nil {
			return err
		}
		if !applied || view.Question == nil {
			return nil
		}
		if *view.Question.IsCorrect {
			fmt.Fprintln(out, "Correct!")
		} else {
			fmt.Fprintf(out, "Wrong, the answer was %s.\n", view.Question.CorrectAnswer)
		}
		if view.IsLastQuestion {
			fmt.Fprintln(out, "Press Enter to finish.")
		} else {
			fmt.Fprintln(out, "Press Enter for the next question.")
		}
	}
	return nil
}

func printQuestion(out io.Writer, view domain.SessionView) {
	q := view.Question
	fmt.Fprintf(out, "\n[%s] Question %d of %d (%s left, score %d)\n",
		trivia.DisplayName(q.Category), q.Number, view.TotalQuestions,
		app.FormatDuration(view.TimeRemainingSeconds), view.LiveScore)
	fmt.Fprintln(out, q.Text)
	for i, option := range q.Options {
		fmt.Fprintf(out, "  %d) %s\n", i+1, option)
	}
}

func printResult(out io.Writer, r domain.Result) {
	if r.Expired {
		fmt.Fprintln(out, "\nTime's up!")
	}
	fmt.Fprintf(out, "\nScore: %d/%d (%d%%)\n", r.Correct, r.Total, r.Percentage)
	fmt.Fprintf(out, "Time: %s\n", app.FormatDuration(r.TimeTakenSeconds))
	fmt.Fprintln(out, app.ScoreMessage(r.Percentage))
}
