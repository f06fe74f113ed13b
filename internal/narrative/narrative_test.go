package narrative

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/agentstation/assetmap/pkg/errors"
	"github.com/agentstation/assetmap/pkg/inventory"
)

func testStats() inventory.DashboardStats {
	return inventory.DashboardStats{
		TotalAssets:          120,
		ProductionCount:      100,
		CompliantCount:       80,
		MissingDefenderCount: 7,
		MissingDefenderRatio: 7,
		OrphanCounts:         map[inventory.Source]int{inventory.SourceIntune: 4},
		PlatformCoverage: []inventory.Coverage{
			{Platform: "Windows", Source: inventory.SourceIntune, Covered: 45, Total: 50, Ratio: 90},
		},
	}
}

func TestPrompt(t *testing.T) {
	p := Prompt(testStats(), "")
	assert.Contains(t, p, "- Total assets: 120")
	assert.Contains(t, p, "- Windows coverage (Intune): 90% (45/50)")
	assert.Contains(t, p, "7 devices (7.00% of production)")
	assert.Contains(t, p, "- Intune records with no inventory entry: 4")
	assert.NotContains(t, p, "Jamf records with no inventory entry")
	assert.Contains(t, p, "Write the output in Turkish.")

	assert.Contains(t, Prompt(testStats(), "English"), "Write the output in English.")
}

func TestNewGeminiWithoutKey(t *testing.T) {
	_, err := NewGemini(context.Background(), Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNarrativeUnavailable)

	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestGeminiGenerate(t *testing.T) {
	var gotModel, gotPrompt string
	g := newGemini(Config{}, func(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		gotModel = model
		gotPrompt = contents[0].Parts[0].Text
		return &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []*genai.Part{{Text: "### 1. Executive Summary\n"}}},
			}},
		}, nil
	})

	text, err := g.Generate(context.Background(), testStats())
	require.NoError(t, err)
	assert.Equal(t, "### 1. Executive Summary", text)
	assert.Equal(t, DefaultModel, gotModel)
	assert.Contains(t, gotPrompt, "Total assets: 120")
}

func TestGeminiGenerateErrors(t *testing.T) {
	failing := newGemini(Config{Model: "gemini-test"}, func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		return nil, stderrors.New("quota exceeded")
	})
	_, err := failing.Generate(context.Background(), testStats())
	assert.ErrorContains(t, err, "quota exceeded")

	empty := newGemini(Config{}, func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		return &genai.GenerateContentResponse{}, nil
	})
	_, err = empty.Generate(context.Background(), testStats())
	assert.ErrorContains(t, err, "empty response")
}

func TestAPIKeyFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "google")
	assert.Equal(t, "google", APIKeyFromEnv())

	t.Setenv("GEMINI_API_KEY", "gemini")
	assert.Equal(t, "gemini", APIKeyFromEnv())
}
