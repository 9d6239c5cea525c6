package recommend

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bestfit/internal/completion"
	"bestfit/internal/config"
	"bestfit/internal/profile"
	"bestfit/internal/prompt"
	"bestfit/internal/usage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	reply string
	err   error
	calls []completion.Request
	flows []usage.Flow
}

func (f *fakeClient) Complete(ctx context.Context, req completion.Request) (string, error) {
	f.calls = append(f.calls, req)
	f.flows = append(f.flows, usage.FlowFromContext(ctx))
	return f.reply, f.err
}

func productsJSON(n int) string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"brand":"Brand%d","model":"M%d","price":"$%d","short_desc":"s%d","long_desc":"l%d"}`, i, i, 100+i, i, i)
	}
	return `{"products":[` + strings.Join(items, ",") + `]}`
}

var flows = struct{ wizard, session config.FlowConfig }{
	wizard:  config.FlowConfig{Model: "gpt-4o", MaxTokens: 2048},
	session: config.FlowConfig{Model: "gpt-4o-mini"},
}

func TestParseProducts(t *testing.T) {
	recs, err := ParseProducts(productsJSON(6))
	require.NoError(t, err)
	require.Len(t, recs, 6)
	assert.Equal(t, Recommendation{Brand: "Brand0", Model: "M0", Price: "$100", ShortDesc: "s0", LongDesc: "l0"}, recs[0])
	assert.Equal(t, "Brand0 M0", recs[0].Title())
}

func TestParseProducts_Fenced(t *testing.T) {
	recs, err := ParseProducts("```json\n" + productsJSON(2) + "\n```")
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestParseProducts_CapsCount(t *testing.T) {
	recs, err := ParseProducts(productsJSON(9))
	require.NoError(t, err)
	assert.Len(t, recs, prompt.WizardProductCount)
}

func TestParseProducts_Errors(t *testing.T) {
	_, err := ParseProducts("not json")
	assert.Error(t, err)

	_, err = ParseProducts(`{"products":[]}`)
	assert.True(t, errors.Is(err, ErrNoProducts))

	_, err = ParseProducts(`{"items":[{"brand":"x"}]}`)
	assert.True(t, errors.Is(err, ErrNoProducts))
}

func TestFilter(t *testing.T) {
	recs := []Recommendation{
		{Brand: "Brooks", Model: "Adrenaline GTS", Price: "$140", ShortDesc: "Stability trainer"},
		{Brand: "Salomon", Model: "X Ultra", Price: "$165", LongDesc: "Waterproof GTX membrane"},
	}
	assert.Len(t, Filter(recs, ""), 2)
	assert.Equal(t, "Salomon", Filter(recs, "waterproof")[0].Brand)
	assert.Empty(t, Filter(recs, "sandal"))
}

func TestService_Recommend(t *testing.T) {
	fc := &fakeClient{reply: productsJSON(6)}
	svc := NewService(StaticClient(fc), flows.wizard, flows.session)

	p := profile.New()
	require.NoError(t, p.SetInjury(profile.InjuryOverpronation))
	require.NoError(t, p.SetActivities([]profile.Activity{profile.ActivityRunning}))

	recs, err := svc.Recommend(context.Background(), p)
	require.NoError(t, err)
	assert.Len(t, recs, 6)

	require.Len(t, fc.calls, 1)
	req := fc.calls[0]
	assert.Equal(t, "gpt-4o", req.Model)
	assert.Equal(t, completion.ModeJSON, req.Mode)
	assert.Equal(t, []usage.Flow{usage.FlowWizard}, fc.flows)
	assert.Equal(t, 2048, req.MaxTokens)
	assert.Contains(t, req.System, prompt.OverpronationConstraint)
	assert.Contains(t, req.User, "['Running']")
}

func TestService_RecommendBoundaryErrors(t *testing.T) {
	tests := []struct {
		name    string
		clients ClientSource
	}{
		{"transport", StaticClient(&fakeClient{err: errors.New("connection refused")})},
		{"malformed", StaticClient(&fakeClient{reply: "Sorry, I can't"})},
		{"missing credential", func(context.Context) (completion.Client, error) {
			return nil, completion.ErrMissingCredential
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.clients, flows.wizard, flows.session)
			recs, err := svc.Recommend(context.Background(), profile.New())
			assert.Nil(t, recs)
			var be *BoundaryError
			assert.True(t, errors.As(err, &be))
			assert.True(t, strings.HasPrefix(Message(err), "AI Error: "))
		})
	}
}

func TestService_Consult(t *testing.T) {
	fc := &fakeClient{reply: "1. Premium\n2. Value\n3. Budget"}
	svc := NewService(StaticClient(fc), flows.wizard, flows.session)

	out, err := svc.Consult(context.Background(), profile.Session{Activity: "Hiking", Terrain: "Rocky"})
	require.NoError(t, err)
	assert.Equal(t, "1. Premium\n2. Value\n3. Budget", out)

	req := fc.calls[0]
	assert.Equal(t, "gpt-4o-mini", req.Model)
	assert.Equal(t, completion.ModeText, req.Mode)
	assert.Contains(t, req.User, "Terrain/Conditions: Rocky")
	assert.Equal(t, []usage.Flow{usage.FlowSession}, fc.flows)
}

func TestConfigClient_PicksUpCredentialLater(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	os.Unsetenv("OPENAI_API_KEY")
	t.Setenv("GEMINI_API_KEY", "")
	os.Unsetenv("GEMINI_API_KEY")
	t.Setenv("BESTFIT_API_KEY", "")
	os.Unsetenv("BESTFIT_API_KEY")
	t.Chdir(t.TempDir())

	src := ConfigClient(filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := src(context.Background())
	assert.True(t, IsMissingCredential(err))

	t.Setenv("OPENAI_API_KEY", "now-set")
	c, err := src(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, c)
}
