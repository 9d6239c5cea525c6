package completion

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"bestfit/internal/logging"
	"bestfit/internal/usage"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"github.com/openai/openai-go/v3/shared/constant"
)

// OpenAIClient calls the Chat Completions API through the official SDK.
type OpenAIClient struct {
	client  openai.Client
	timeout time.Duration
}

// NewOpenAIClient creates a client. An empty baseURL uses the SDK default.
// SDK retries are disabled so a failure is reported to the user at once.
func NewOpenAIClient(apiKey, baseURL string, timeout time.Duration) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIClient{
		client:  openai.NewClient(opts...),
		timeout: timeout,
	}
}

func (c *OpenAIClient) params(req Request) openai.ChatCompletionNewParams {
	p := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(req.System),
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(req.User),
					},
				},
			},
		},
	}
	if req.MaxTokens > 0 {
		p.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		p.Temperature = openai.Float(req.Temperature)
	}
	if req.Mode == ModeJSON {
		var jsonFmt constant.JSONObject
		p.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{
				Type: jsonFmt.Default(),
			},
		}
	}
	return p
}

// Complete sends req and returns the first choice's content.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := withDefaultTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	logging.APIDebug("[OpenAI] Complete: model=%s mode=%s system_len=%d user_len=%d",
		req.Model, req.Mode, len(req.System), len(req.User))

	resp, err := c.client.Chat.Completions.New(ctx, c.params(req))
	if err != nil {
		logging.APIError("[OpenAI] request failed after %v: %v", time.Since(start), err)
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	logging.API("[OpenAI] Complete: model=%s tokens=%d duration=%v",
		resp.Model, resp.Usage.TotalTokens, time.Since(start))
	usage.Record(ctx, req.Model, ProviderOpenAI, int(resp.Usage.PromptTokens), int(resp.Usage.CompletionTokens))
	return resp.Choices[0].Message.Content, nil
}
