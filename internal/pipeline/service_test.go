package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/pipeline/steps"
	"github.com/jonathan/resume-studio/internal/rasterize"
	"github.com/jonathan/resume-studio/internal/types"
)

// MockLLMClient is a mock implementation of llm.Client for testing
type MockLLMClient struct {
	GenerateJSONFunc       func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	GenerateWithImagesFunc func(ctx context.Context, prompt string, images []llm.Image, tier llm.ModelTier) (string, error)
	mu                     sync.Mutex
	closed                 bool
}

func (m *MockLLMClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return m.GenerateJSON(ctx, prompt, tier)
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier)
	}
	return "", errors.New("not configured")
}

func (m *MockLLMClient) GenerateWithImages(ctx context.Context, prompt string, images []llm.Image, tier llm.ModelTier) (string, error) {
	if m.GenerateWithImagesFunc != nil {
		return m.GenerateWithImagesFunc(ctx, prompt, images, tier)
	}
	return "", errors.New("not configured")
}

func (m *MockLLMClient) GetModel(tier llm.ModelTier) string { return "mock-" + string(tier) }
func (m *MockLLMClient) Provider() llm.Provider            { return "mock" }
func (m *MockLLMClient) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

type fakeRasterizer struct {
	doc *types.RasterizedDocument
	err error
	in  rasterize.Input
}

func (f *fakeRasterizer) Rasterize(_ context.Context, in rasterize.Input) (*types.RasterizedDocument, error) {
	f.in = in
	return f.doc, f.err
}

type fakeCompositor struct {
	pdf    []byte
	err    error
	markup string
	calls  int
}

func (f *fakeCompositor) Compose(_ context.Context, markup string) ([]byte, error) {
	f.calls++
	f.markup = markup
	return f.pdf, f.err
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.LLM.GeminiAPIKey = "test-key"
	cfg.LLM.MaxRetries = 0
	cfg.LLM.RequestsPerSecond = 0
	cfg.LLM.CircuitBreaker.Enabled = false
	return cfg
}

type harness struct {
	svc        *Service
	client     *MockLLMClient
	raster     *fakeRasterizer
	compositor *fakeCompositor
	llmConfigs []*llm.Config
}

func newHarness(t *testing.T, cfg *config.Config) *harness {
	t.Helper()
	h := &harness{
		client:     &MockLLMClient{},
		raster:     &fakeRasterizer{},
		compositor: &fakeCompositor{pdf: []byte("%PDF-1.7 test")},
	}
	factory := func(_ context.Context, c *llm.Config) (llm.Client, error) {
		h.llmConfigs = append(h.llmConfigs, c)
		return h.client, nil
	}
	h.svc = NewService(cfg, zerolog.Nop(),
		WithClientFactory(factory),
		WithRasterizer(h.raster),
		WithCompositor(h.compositor),
	)
	return h
}

func sampleResume() types.CanonicalResume {
	return types.CanonicalResume{
		Personal:   types.PersonalInfo{Name: "Ada Lovelace", Title: "Engineer", Email: "ada@example.com", Summary: "i build things"},
		Experience: []types.Experience{{Company: "Acme", Position: "Engineer", Description: "Built the billing system."}},
		Skills:     []types.Skill{{Name: "Go"}, {Name: "SQL"}},
	}
}

func TestGenerate_Success(t *testing.T) {
	h := newHarness(t, testConfig())
	h.client.GenerateJSONFunc = func(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
		switch {
		case strings.Contains(prompt, "professional summary"):
			return `{"summary": "Engineer who builds reliable billing systems."}`, nil
		case strings.Contains(prompt, "at Acme"):
			return `{"bullets": ["Rebuilt billing processing $1M monthly."]}`, nil
		default:
			return `{"skills": "Go, SQL"}`, nil
		}
	}

	var events []ProgressEvent
	res, err := h.svc.Generate(context.Background(), GenerateRequest{
		Resume:     sampleResume(),
		Style:      "modern",
		OnProgress: func(e ProgressEvent) { events = append(events, e) },
	})
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF-1.7 test"), res.PDF)
	assert.Equal(t, types.RenderStyle("modern"), res.Style)
	assert.Contains(t, res.Markup, "style-modern")
	assert.Contains(t, res.Markup, "Rebuilt billing processing $1M monthly.")
	assert.Equal(t, res.Markup, h.compositor.markup)
	assert.Nil(t, res.PolishedJSON)
	assert.Equal(t, "Engineer who builds reliable billing systems.", res.Polished.Enhancements.Summary)
	assert.True(t, h.client.closed)

	require.Len(t, events, 5)
	assert.Equal(t, steps.StepValidateResume, events[0].Step)
	assert.Equal(t, steps.StepCompose, events[4].Step)
	assert.Equal(t, 5, events[4].Position)
	assert.Equal(t, 5, events[4].Total)
	assert.Equal(t, events[0].RequestID, events[4].RequestID)
}

func TestGenerate_DebugSkipsComposition(t *testing.T) {
	h := newHarness(t, testConfig())

	res, err := h.svc.Generate(context.Background(), GenerateRequest{Resume: sampleResume(), Debug: true})
	require.NoError(t, err)

	assert.Zero(t, h.compositor.calls)
	assert.Empty(t, res.PDF)
	assert.Contains(t, res.Markup, "style-classic")

	var decoded types.PolishedResume
	require.NoError(t, json.Unmarshal(res.PolishedJSON, &decoded))
	assert.Equal(t, "Ada Lovelace", decoded.Original.Personal.Name)
	// every section failed, so every section is reported and the originals render
	assert.NotEmpty(t, decoded.Provenance.Failures)
	assert.Contains(t, res.Markup, "Built the billing system.")
}

func TestGenerate_InvalidResume(t *testing.T) {
	h := newHarness(t, testConfig())

	_, err := h.svc.Generate(context.Background(), GenerateRequest{Resume: types.CanonicalResume{}})
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, steps.StepValidateResume, genErr.Stage)
	var vErr *types.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Empty(t, h.llmConfigs)
}

func TestGenerate_UnknownStyle(t *testing.T) {
	h := newHarness(t, testConfig())

	_, err := h.svc.Generate(context.Background(), GenerateRequest{Resume: sampleResume(), Style: "baroque"})
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, steps.StepValidateResume, genErr.Stage)
}

func TestGenerate_MissingAPIKey(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.GeminiAPIKey = ""
	svc := NewService(cfg, zerolog.Nop(), WithRasterizer(&fakeRasterizer{}), WithCompositor(&fakeCompositor{}))

	_, err := svc.Generate(context.Background(), GenerateRequest{Resume: sampleResume()})
	var cfgErr *llm.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, Describe(err), "configuration")
}

func TestGenerate_CompositionFailure(t *testing.T) {
	h := newHarness(t, testConfig())
	h.compositor.err = errors.New("printer exploded")

	_, err := h.svc.Generate(context.Background(), GenerateRequest{Resume: sampleResume()})
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, steps.StepCompose, genErr.Stage)
	assert.Contains(t, err.Error(), "printer exploded")
}

func TestGenerate_ProviderAndModelOverride(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.AnthropicAPIKey = "anthropic-key"
	h := newHarness(t, cfg)

	_, err := h.svc.Generate(context.Background(), GenerateRequest{
		Resume:   sampleResume(),
		Provider: "anthropic",
		Model:    "claude-custom",
		Debug:    true,
	})
	require.NoError(t, err)

	require.Len(t, h.llmConfigs, 1)
	got := h.llmConfigs[0]
	assert.Equal(t, llm.ProviderAnthropic, got.Provider)
	assert.Equal(t, "anthropic-key", got.APIKey)
	assert.Equal(t, "claude-custom", got.GetModel(llm.TierText))
	assert.Equal(t, "claude-custom", got.GetModel(llm.TierVision))
}

const analysis = `{
  "categories": {
    "keyword_match": {"score": 80},
    "structure_formatting": {"score": 70},
    "grammar_clarity": {"score": 90},
    "experience_relevance": {"score": 60},
    "design_layout": {"score": 50}
  },
  "total": 10
}`

func TestScore_Success(t *testing.T) {
	h := newHarness(t, testConfig())
	h.raster.doc = &types.RasterizedDocument{
		Format: types.FormatText,
		Pages:  []types.PageImage{{Index: 0, MIMEType: "image/png", Data: []byte("png")}},
	}
	h.client.GenerateWithImagesFunc = func(_ context.Context, _ string, images []llm.Image, tier llm.ModelTier) (string, error) {
		assert.Equal(t, llm.TierVision, tier)
		assert.Len(t, images, 1)
		return analysis, nil
	}

	var events []ProgressEvent
	report, err := h.svc.Score(context.Background(), ScoreRequest{
		Document:       rasterize.Input{Text: "Ada Lovelace\nEngineer"},
		JobDescription: "Go engineer",
		OnProgress:     func(e ProgressEvent) { events = append(events, e) },
	})
	require.NoError(t, err)

	assert.Equal(t, 69, report.Total)
	require.NotNil(t, report.Meta.ModelReportedTotal)
	assert.Equal(t, 10, *report.Meta.ModelReportedTotal)
	assert.Equal(t, "Ada Lovelace\nEngineer", h.raster.in.Text)
	assert.Len(t, events, 3)
	assert.True(t, h.client.closed)
}

func TestScore_NoInput(t *testing.T) {
	h := newHarness(t, testConfig())

	_, err := h.svc.Score(context.Background(), ScoreRequest{JobDescription: "Go engineer"})
	assert.ErrorIs(t, err, rasterize.ErrNoInput)
	var scoreErr *ScoreError
	require.ErrorAs(t, err, &scoreErr)
	assert.Equal(t, steps.StepValidateRequest, scoreErr.Stage)
	assert.Contains(t, Describe(err), "no input provided")
}

func TestScore_RequiresJobDescription(t *testing.T) {
	h := newHarness(t, testConfig())

	_, err := h.svc.Score(context.Background(), ScoreRequest{Document: rasterize.Input{Text: "cv"}})
	var vErr *types.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "job_description", vErr.Fields[0].Field)
	assert.Empty(t, h.llmConfigs)
}

func TestScore_RasterizationFailure(t *testing.T) {
	h := newHarness(t, testConfig())
	h.raster.err = &rasterize.RasterizationError{Format: types.FormatPDF, Reason: "both renderers failed"}

	_, err := h.svc.Score(context.Background(), ScoreRequest{
		Document:       rasterize.Input{FileName: "cv.pdf", Data: []byte("%PDF-")},
		JobDescription: "Go engineer",
	})
	var scoreErr *ScoreError
	require.ErrorAs(t, err, &scoreErr)
	assert.Equal(t, steps.StepScore, scoreErr.Stage)
	assert.Contains(t, Describe(err), "could not read document")
}

func TestLLMConfig_Defaults(t *testing.T) {
	c := config.Default().LLM
	c.GeminiAPIKey = "g"

	got, err := LLMConfig(c, "", "")
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderGemini, got.Provider)
	assert.Equal(t, "g", got.APIKey)
	assert.NotEmpty(t, got.GetModel(llm.TierText))
	assert.Equal(t, 4096, got.MaxTokens)
}

func TestLLMConfig_ConfiguredModelsAndBaseURL(t *testing.T) {
	c := config.Default().LLM
	c.Provider = "openai"
	c.TextModel = "gpt-text"
	c.VisionModel = "gpt-vision"
	c.OpenAIBaseURL = "http://localhost:8080/v1"

	got, err := LLMConfig(c, "", "")
	require.NoError(t, err)
	assert.Equal(t, "gpt-text", got.GetModel(llm.TierText))
	assert.Equal(t, "gpt-vision", got.GetModel(llm.TierVision))
	assert.Equal(t, "http://localhost:8080/v1", got.BaseURL)
}

func TestLLMConfig_UnknownProvider(t *testing.T) {
	_, err := LLMConfig(config.Default().LLM, "cohere", "")
	var cfgErr *llm.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestGuardOptions_FromConfig(t *testing.T) {
	c := config.Default().LLM
	opts := GuardOptions(c, zerolog.Nop())

	assert.Equal(t, c.Timeout, opts.Timeout)
	assert.Equal(t, c.MaxRetries, opts.MaxRetries)
	assert.Equal(t, c.CircuitBreaker.FailureRatio, opts.Breaker.FailureRatio)
	assert.True(t, opts.Breaker.Enabled)
}

func TestBrowserOptions_FromConfig(t *testing.T) {
	c := config.Default().Browser
	c.ExecPath = "/opt/chrome"
	opts := BrowserOptions(c, zerolog.Nop())

	assert.Equal(t, "/opt/chrome", opts.ExecPath)
	assert.Equal(t, c.SessionTimeout, opts.SessionTimeout)
	assert.Equal(t, c.PDFScale, opts.PDFScale)
}
