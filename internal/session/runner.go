// Package session runs the linear terminal consultation: it asks a fixed
// series of questions, sends one request and prints the reply as received.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"bestfit/internal/logging"
	"bestfit/internal/profile"

	"github.com/briandowns/spinner"
)

var (
	rule  = strings.Repeat("=", 60)
	light = strings.Repeat("-", 60)
)

// Consultant answers a completed session profile with free text.
type Consultant interface {
	Consult(ctx context.Context, answers profile.Session) (string, error)
}

// Runner holds the terminal streams for one session.
type Runner struct {
	In         io.Reader
	Out        io.Writer
	Consultant Consultant

	// ShowSpinner animates a spinner on Out while waiting for the reply.
	ShowSpinner bool
}

// Run prints the banner, collects every answer, requests recommendations and
// prints them. A failed request is printed and Run still returns nil.
func (r *Runner) Run(ctx context.Context) error {
	r.banner()

	answers, err := r.Collect()
	if err != nil {
		return err
	}

	fmt.Fprintf(r.Out, "\n%s\nPLEASE BE PATIENT WHILE WE GATHER YOUR RESULTS...\n%s\n\n", light, light)

	text, err := r.consult(ctx, answers)
	if err != nil {
		logging.Get(logging.CategorySession).Error("consultation failed: %v", err)
		fmt.Fprintf(r.Out, "An error occurred: %v\n", err)
		return nil
	}

	fmt.Fprint(r.Out, "\nHERE’S WHAT WE THINK ARE YOUR BEST CHOICES:\n\n")
	fmt.Fprintln(r.Out, text)
	fmt.Fprintf(r.Out, "\n%s\n", rule)
	fmt.Fprintln(r.Out, "WOULD YOU LIKE US TO SEND YOU LINKS TO PURCHASE THESE? (Simulated)")
	fmt.Fprintln(r.Out, "PLEASE LET US KNOW WHAT YOU THINK BY ANSWERING A SHORT SURVEY.")
	fmt.Fprintf(r.Out, "%s\n\n", rule)
	return nil
}

func (r *Runner) banner() {
	fmt.Fprintf(r.Out, "\n%s\n", rule)
	fmt.Fprintln(r.Out, "Welcome to BEST FIT! 👟🏔️")
	fmt.Fprintln(r.Out, "We use AI to match you with the best gear for your pursuits.")
	fmt.Fprintf(r.Out, "%s\n\n", rule)
	fmt.Fprint(r.Out, "Let's get started. Please enter the following information.\n\n")
}

// Collect asks every question in profile.SessionFields order. End of input
// leaves the remaining answers empty.
func (r *Runner) Collect() (profile.Session, error) {
	var answers profile.Session
	scanner := bufio.NewScanner(r.In)
	for _, f := range profile.SessionFields {
		answer, err := r.ask(scanner, f)
		if errors.Is(err, io.EOF) {
			logging.SessionDebug("input closed before %q", f.Label)
			break
		}
		if err != nil {
			return answers, fmt.Errorf("failed to read answer: %w", err)
		}
		*f.Bind(&answers) = answer
	}
	logging.Session("collected session answers (activity=%q)", answers.Activity)
	return answers, nil
}

func (r *Runner) ask(scanner *bufio.Scanner, f profile.SessionField) (string, error) {
	if len(f.Options) > 0 {
		fmt.Fprintf(r.Out, "\nOptions: %s\n", strings.Join(f.Options, ", "))
	}
	fmt.Fprintf(r.Out, "%s: ", f.Label)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(scanner.Text()), nil
}

func (r *Runner) consult(ctx context.Context, answers profile.Session) (string, error) {
	if r.ShowSpinner {
		s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(r.Out))
		s.Suffix = " Consulting BEST FIT..."
		s.Start()
		defer s.Stop()
	}
	return r.Consultant.Consult(ctx, answers)
}
