// Package cli implements the interactive flashcard study session.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"

	"github.com/kirostudy/vocabdrill/internal/review"
	"github.com/kirostudy/vocabdrill/internal/wordbank"
)

// errEnd signals the natural or requested end of a session.
var errEnd = errors.New("end of the session")

// DetailLoader loads the full record for one word.
type DetailLoader interface {
	LoadDetail(ctx context.Context, bankID, wordID, word string) (*wordbank.WordDetail, error)
}

// StudyCLI runs one flashcard session on a terminal. Each card shows
// the word first, flips to its details on Enter, and then asks for a
// self-assessed grade.
type StudyCLI struct {
	session      *review.FlashcardSession
	loader       DetailLoader
	stats        *review.SessionStats
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	italic       *color.Color
}

func NewStudyCLI(
	session *review.FlashcardSession,
	loader DetailLoader,
	stats *review.SessionStats,
) *StudyCLI {
	return &StudyCLI{
		session:      session,
		loader:       loader,
		stats:        stats,
		stdinReader:  bufio.NewReader(os.Stdin),
		stdoutWriter: os.Stdout,
		bold:         color.New(color.Bold),
		italic:       color.New(color.Italic),
	}
}

func (cli *StudyCLI) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(
		ctx,
		os.Interrupt,
	)
	defer cancel()

	errCh := make(chan error)
	go func() {
		defer close(errCh)

	LOOP:
		for {
			select {
			case <-ctx.Done():
				break LOOP
			default:
			}

			if err := cli.Session(ctx); err != nil {
				if errors.Is(err, errEnd) {
					break
				}
				errCh <- err
				break
			}
		}
	}()
	select {
	case <-ctx.Done():
		fmt.Fprintln(cli.stdoutWriter, "Received interrupt signal, exiting...")
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("cli.Session > %w", err)
		}
	}
	return cli.printSummary()
}

// Session handles one card: front, flip, details, grade.
func (cli *StudyCLI) Session(ctx context.Context) error {
	card := cli.session.Current()
	if card == nil {
		return errEnd
	}

	answered, total := cli.session.Progress()
	fmt.Fprintf(cli.stdoutWriter, "[%d/%d] (%s)\n", answered+1, total, cli.session.Mode())
	_, _ = cli.bold.Fprintln(cli.stdoutWriter, card.Word)
	if card.Phonetic != "" {
		_, _ = cli.italic.Fprintln(cli.stdoutWriter, card.Phonetic)
	}
	fmt.Fprint(cli.stdoutWriter, "\nPress Enter to flip: ")
	if _, err := cli.stdinReader.ReadString('\n'); err != nil {
		if errors.Is(err, io.EOF) {
			return errEnd
		}
		return fmt.Errorf("stdinReader.ReadString > %w", err)
	}

	cli.printBack(ctx, *card)

	grade, err := cli.readGrade()
	if err != nil {
		return err
	}
	if err := cli.session.Answer(grade); err != nil {
		return fmt.Errorf("session.Answer > %w", err)
	}
	fmt.Fprintln(cli.stdoutWriter)
	return nil
}

// printBack shows the card's details, degrading to the index summary
// when the full record cannot be loaded.
func (cli *StudyCLI) printBack(ctx context.Context, card wordbank.WordSummary) {
	detail, err := cli.loader.LoadDetail(ctx, cli.session.BankID(), card.ID, card.Word)
	if err != nil || detail == nil {
		fmt.Fprintln(cli.stdoutWriter, card.Meaning)
		return
	}

	fmt.Fprintln(cli.stdoutWriter, detail.Meaning)
	for _, sentence := range detail.ExampleSentences {
		fmt.Fprintf(cli.stdoutWriter, "  %s\n", cli.italic.Sprint(sentence.Text))
		if sentence.Translation != "" {
			fmt.Fprintf(cli.stdoutWriter, "  %s\n", sentence.Translation)
		}
	}
	for _, sentence := range detail.ExamSentences {
		fmt.Fprintf(cli.stdoutWriter, "  %s", cli.italic.Sprint(sentence.Text))
		if sentence.Source != "" {
			fmt.Fprintf(cli.stdoutWriter, " (%s)", sentence.Source)
		}
		fmt.Fprintln(cli.stdoutWriter)
	}
	if len(detail.Phrases) > 0 {
		fmt.Fprintln(cli.stdoutWriter, "Phrases:")
		for _, phrase := range detail.Phrases {
			fmt.Fprintf(cli.stdoutWriter, "  %s  %s\n", cli.bold.Sprint(phrase.Text), phrase.Translation)
		}
	}
	if len(detail.Synonyms) > 0 {
		fmt.Fprintln(cli.stdoutWriter, "Synonyms:")
		for _, group := range detail.Synonyms {
			fmt.Fprintf(cli.stdoutWriter, "  %s %s: %s\n", group.Pos, group.Translation, strings.Join(group.Words, ", "))
		}
	}
	if detail.Mnemonic != "" {
		fmt.Fprintf(cli.stdoutWriter, "Hint: %s\n", detail.Mnemonic)
	}
}

// readGrade prompts until the learner enters a valid grade or quits.
func (cli *StudyCLI) readGrade() (review.Grade, error) {
	for {
		fmt.Fprint(cli.stdoutWriter, "\n[k]nown / [f]uzzy / [u]nknown / [q]uit: ")
		line, err := cli.stdinReader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", errEnd
			}
			return "", fmt.Errorf("stdinReader.ReadString > %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "k", "known":
			return review.GradeKnown, nil
		case "f", "fuzzy":
			return review.GradeFuzzy, nil
		case "u", "unknown":
			return review.GradeUnknown, nil
		case "q", "quit":
			return "", errEnd
		}
		fmt.Fprintln(cli.stdoutWriter, "Please answer k, f, u or q.")
	}
}

func (cli *StudyCLI) printSummary() error {
	today, err := cli.stats.GetToday()
	if err != nil {
		return fmt.Errorf("stats.GetToday > %w", err)
	}
	answered, total := cli.session.Progress()
	fmt.Fprintln(cli.stdoutWriter)
	if cli.session.IsComplete() {
		color.Green("Session complete: %d cards answered.", answered)
	} else {
		fmt.Fprintf(cli.stdoutWriter, "Session stopped: %d of %d cards answered.\n", answered, total)
	}
	fmt.Fprintf(cli.stdoutWriter, "Today: %d new words learned (target %d), %d reviewed.\n",
		today.LearnedCount, today.DailyTarget, today.ReviewedCount)
	return nil
}
