// Package recommend compiles a profile into a prompt, sends it to the
// completion API and turns the reply into recommendations.
package recommend

import (
	"context"
	"errors"
	"fmt"

	"bestfit/internal/completion"
	"bestfit/internal/config"
	"bestfit/internal/logging"
	"bestfit/internal/profile"
	"bestfit/internal/prompt"
	"bestfit/internal/usage"
)

// BoundaryError wraps any failure of the completion exchange: a missing
// credential, a transport error or an unparseable reply.
type BoundaryError struct {
	Err error
}

func (e *BoundaryError) Error() string { return e.Err.Error() }
func (e *BoundaryError) Unwrap() error { return e.Err }

// ClientSource resolves the completion client for a call.
type ClientSource func(ctx context.Context) (completion.Client, error)

// StaticClient always returns c.
func StaticClient(c completion.Client) ClientSource {
	return func(context.Context) (completion.Client, error) { return c, nil }
}

// ConfigClient reloads configuration from path on each call, so a credential
// added after startup is picked up without restarting.
func ConfigClient(path string) ClientSource {
	return func(ctx context.Context) (completion.Client, error) {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		return completion.New(ctx, cfg.LLM, cfg.GetLLMTimeout())
	}
}

// Service runs both flows against one client source.
type Service struct {
	clients ClientSource
	wizard  config.FlowConfig
	session config.FlowConfig
	rules   []prompt.Rule
}

// NewService creates a service using the models configured for each flow.
func NewService(clients ClientSource, wizard, session config.FlowConfig) *Service {
	return &Service{
		clients: clients,
		wizard:  wizard,
		session: session,
		rules:   prompt.DefaultRules,
	}
}

// Recommend fetches recommendations for a wizard profile. Every failure is
// returned as a *BoundaryError.
func (s *Service) Recommend(ctx context.Context, p *profile.Profile) ([]Recommendation, error) {
	ctx = usage.WithFlow(ctx, usage.FlowWizard)
	compiled := prompt.CompileWizardWithRules(p, s.rules)

	client, err := s.clients(ctx)
	if err != nil {
		return nil, &BoundaryError{Err: err}
	}

	raw, err := client.Complete(ctx, completion.Request{
		Model:       s.wizard.Model,
		System:      compiled.System,
		User:        compiled.User,
		Mode:        completion.ModeJSON,
		MaxTokens:   s.wizard.MaxTokens,
		Temperature: s.wizard.Temperature,
	})
	if err != nil {
		return nil, &BoundaryError{Err: err}
	}

	recs, err := ParseProducts(raw)
	if err != nil {
		logging.APIWarn("unparseable recommendation payload (%d bytes): %v", len(raw), err)
		return nil, &BoundaryError{Err: err}
	}
	return recs, nil
}

// Consult runs the session flow's request and returns the reply verbatim.
func (s *Service) Consult(ctx context.Context, answers profile.Session) (string, error) {
	ctx = usage.WithFlow(ctx, usage.FlowSession)
	compiled := prompt.CompileSession(answers)

	client, err := s.clients(ctx)
	if err != nil {
		return "", &BoundaryError{Err: err}
	}

	text, err := client.Complete(ctx, completion.Request{
		Model:       s.session.Model,
		System:      compiled.System,
		User:        compiled.User,
		Mode:        completion.ModeText,
		MaxTokens:   s.session.MaxTokens,
		Temperature: s.session.Temperature,
	})
	if err != nil {
		return "", &BoundaryError{Err: err}
	}
	return text, nil
}

// IsMissingCredential reports whether err stems from an absent API key.
func IsMissingCredential(err error) bool {
	return errors.Is(err, completion.ErrMissingCredential)
}

// Message is the short user-facing form of a boundary failure.
func Message(err error) string {
	return fmt.Sprintf("AI Error: %v", err)
}
