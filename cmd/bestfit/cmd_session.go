package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"bestfit/internal/completion"
	"bestfit/internal/recommend"
	"bestfit/internal/session"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// MissingKeyMessage is printed when the session flow has no credential.
const MissingKeyMessage = "❌ Error: OPENAI_API_KEY not found in .env file."

// sessionCmd runs the linear consultation
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Answer 14 questions and get Budget, Mid-Range and Premium picks",
	Long: `Runs the linear BEST FIT consultation: fourteen prompts in a fixed order,
then one request that returns three price tiers with biomechanical reasoning.

The API key is read from OPENAI_API_KEY (or GEMINI_API_KEY), optionally via a
.env file in the working directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(cmd.Context(), os.Stdin, os.Stdout)
	},
}

// runSession checks the credential before any prompt, then runs the session.
func runSession(ctx context.Context, in io.Reader, out io.Writer) error {
	if !cfg.HasCredential() {
		fmt.Fprintln(out, MissingKeyMessage)
		logger.Warn("session aborted: no API key configured")
		return errExit
	}

	client, err := completion.New(ctx, cfg.LLM, cfg.GetLLMTimeout())
	if err != nil {
		fmt.Fprintln(out, MissingKeyMessage)
		logger.Error("failed to create completion client", zap.Error(err))
		return errExit
	}

	runner := &session.Runner{
		In:          in,
		Out:         out,
		Consultant:  newService(recommend.StaticClient(client)),
		ShowSpinner: isTerminal(out),
	}
	logger.Debug("starting session", zap.String("provider", cfg.LLM.Provider), zap.String("model", cfg.Session.Model))
	return runner.Run(ctx)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
