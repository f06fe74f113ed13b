// Package narrative turns DashboardStats into an executive risk summary
// using a Gemini model. Only aggregate figures are sent to the model; asset
// records never leave the process.
package narrative

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/agentstation/assetmap/pkg/errors"
	"github.com/agentstation/assetmap/pkg/inventory"
	"github.com/agentstation/assetmap/pkg/logging"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// DefaultLanguage is the language the narrative is written in.
const DefaultLanguage = "Turkish"

// Generator writes a narrative for a set of dashboard figures.
type Generator interface {
	Generate(ctx context.Context, stats inventory.DashboardStats) (string, error)
}

// Config configures the Gemini generator.
type Config struct {
	APIKey   string
	Model    string
	Language string
}

// APIKeyFromEnv returns GEMINI_API_KEY, falling back to GOOGLE_API_KEY.
func APIKeyFromEnv() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("GOOGLE_API_KEY")
}

// generateFunc matches genai's Models.GenerateContent.
type generateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// Gemini generates narratives with the Gemini API.
type Gemini struct {
	model    string
	language string
	generate generateFunc
}

// NewGemini creates a Gemini generator. Without an API key it returns a
// ConfigError that matches ErrNarrativeUnavailable.
func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.NewConfigError("narrative", "GEMINI_API_KEY is not set", errors.ErrNarrativeUnavailable)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  cfg.APIKey,
	})
	if err != nil {
		return nil, errors.NewConfigError("narrative", "creating Gemini client", err)
	}
	return newGemini(cfg, client.Models.GenerateContent), nil
}

func newGemini(cfg Config, generate generateFunc) *Gemini {
	g := &Gemini{model: cfg.Model, language: cfg.Language, generate: generate}
	if g.model == "" {
		g.model = DefaultModel
	}
	if g.language == "" {
		g.language = DefaultLanguage
	}
	return g
}

// Model returns the configured model name.
func (g *Gemini) Model() string {
	return g.model
}

// Generate implements Generator.
func (g *Gemini) Generate(ctx context.Context, stats inventory.DashboardStats) (string, error) {
	logger := logging.FromContext(ctx)
	logger.Debug().Str("model", g.model).Int("assets", stats.TotalAssets).Msg("Requesting narrative")

	resp, err := g.generate(ctx, g.model, genai.Text(Prompt(stats, g.language)), nil)
	if err != nil {
		return "", fmt.Errorf("generating narrative with %s: %w", g.model, err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("generating narrative with %s: empty response", g.model)
	}
	return text, nil
}

// Prompt builds the model prompt from stats alone.
func Prompt(stats inventory.DashboardStats, language string) string {
	if language == "" {
		language = DefaultLanguage
	}

	var b strings.Builder
	b.WriteString("You are a senior IT security auditor. Analyze the inventory figures below and ")
	b.WriteString("write a comprehensive IT Asset Security Risk Report for C-level management.\n\n")
	b.WriteString("REPORT DATA:\n")
	fmt.Fprintf(&b, "- Total assets: %d\n", stats.TotalAssets)
	fmt.Fprintf(&b, "- Production assets measured: %d\n", stats.ProductionCount)
	fmt.Fprintf(&b, "- Fully compliant: %d\n", stats.CompliantCount)
	for _, c := range stats.PlatformCoverage {
		fmt.Fprintf(&b, "- %s coverage (%s): %d%% (%d/%d)\n", c.Platform, c.Source, c.Ratio, c.Covered, c.Total)
	}
	fmt.Fprintf(&b, "- Missing endpoint protection (Defender): %d devices (%.2f%% of production)\n",
		stats.MissingDefenderCount, stats.MissingDefenderRatio)
	fmt.Fprintf(&b, "- Missing from Intune: %d, missing from Jamf: %d\n", stats.MissingIntuneCount, stats.MissingJamfCount)
	fmt.Fprintf(&b, "- Stock devices: %d, of which still enrolled in management: %d\n", stats.StockCount, stats.RiskyStockCount)
	for _, s := range inventory.Sources() {
		if n := stats.OrphanCounts[s]; n > 0 {
			fmt.Fprintf(&b, "- %s records with no inventory entry: %d\n", s, n)
		}
	}
	b.WriteString("\nWrite the report in Markdown with a professional tone using these sections:\n\n")
	b.WriteString("### 1. Executive Summary\nA clear 2-3 sentence summary of the overall security posture.\n\n")
	b.WriteString("### 2. Critical Findings & Risk Analysis\n")
	b.WriteString("State the risk level (Low/Medium/High) for each platform (Windows, iOS, macOS) and explain why. ")
	b.WriteString("Emphasize the risk created by missing Defender coverage.\n\n")
	b.WriteString("### 3. Strategic Recommendations\nThree concrete, urgent actions for management.\n\n")
	fmt.Fprintf(&b, "Use ### for headings and **bold** for key points. Write the output in %s.\n", language)
	return b.String()
}
