package completion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bestfit/internal/logging"
	"bestfit/internal/usage"

	"google.golang.org/genai"
)

// GeminiClient calls the Gemini API through the genai SDK.
type GeminiClient struct {
	client  *genai.Client
	timeout time.Duration
}

// NewGeminiClient creates a client. An empty baseURL uses the SDK default.
func NewGeminiClient(ctx context.Context, apiKey, baseURL string, timeout time.Duration) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrMissingCredential
	}
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiClient{client: client, timeout: timeout}, nil
}

// Complete sends req and concatenates the text parts of the first candidate.
func (c *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := withDefaultTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	logging.APIDebug("[Gemini] Complete: model=%s mode=%s", req.Model, req.Mode)

	gc := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: req.System}}},
	}
	if req.Temperature > 0 {
		t := float32(req.Temperature)
		gc.Temperature = &t
	}
	if req.MaxTokens > 0 {
		gc.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.Mode == ModeJSON {
		gc.ResponseMIMEType = "application/json"
	}

	resp, err := c.client.Models.GenerateContent(ctx, req.Model,
		[]*genai.Content{genai.NewContentFromText(req.User, genai.RoleUser)}, gc)
	if err != nil {
		logging.APIError("[Gemini] request failed after %v: %v", time.Since(start), err)
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}

	logging.API("[Gemini] Complete: model=%s duration=%v", req.Model, time.Since(start))
	if md := resp.UsageMetadata; md != nil {
		usage.Record(ctx, req.Model, ProviderGemini, int(md.PromptTokenCount), int(md.CandidatesTokenCount))
	}
	return sb.String(), nil
}
