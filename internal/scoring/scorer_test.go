package scoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/rasterize"
	"github.com/jonathan/resume-studio/internal/types"
)

// MockLLMClient is a mock implementation of llm.Client for testing
type MockLLMClient struct {
	GenerateWithImagesFunc func(ctx context.Context, prompt string, images []llm.Image, tier llm.ModelTier) (string, error)
	prompt                 string
	images                 []llm.Image
	tier                   llm.ModelTier
}

func (m *MockLLMClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return "", errors.New("not supported")
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return "", errors.New("not supported")
}

func (m *MockLLMClient) GenerateWithImages(ctx context.Context, prompt string, images []llm.Image, tier llm.ModelTier) (string, error) {
	m.prompt, m.images, m.tier = prompt, images, tier
	if m.GenerateWithImagesFunc != nil {
		return m.GenerateWithImagesFunc(ctx, prompt, images, tier)
	}
	return "", nil
}

func (m *MockLLMClient) GetModel(tier llm.ModelTier) string { return "vision-mock" }
func (m *MockLLMClient) Provider() llm.Provider            { return "mock" }
func (m *MockLLMClient) Close() error                      { return nil }

type fakeRasterizer struct {
	doc   *types.RasterizedDocument
	err   error
	calls int
}

func (f *fakeRasterizer) Rasterize(context.Context, rasterize.Input) (*types.RasterizedDocument, error) {
	f.calls++
	return f.doc, f.err
}

func twoPages() *types.RasterizedDocument {
	return &types.RasterizedDocument{
		Format:   types.FormatPDF,
		FileName: "cv.pdf",
		Pages: []types.PageImage{
			{Index: 0, MIMEType: "image/png", Data: []byte("p1")},
			{Index: 1, MIMEType: "image/png", Data: []byte("p2")},
		},
	}
}

func TestScore_Success(t *testing.T) {
	client := &MockLLMClient{GenerateWithImagesFunc: func(context.Context, string, []llm.Image, llm.ModelTier) (string, error) {
		return "Here you go:\n```json\n" + fullAnalysis + "\n```", nil
	}}
	raster := &fakeRasterizer{doc: twoPages()}
	tick := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time {
		tick = tick.Add(250 * time.Millisecond)
		return tick
	}

	report, err := New(client, raster, Options{Now: now}).Score(context.Background(), Request{
		Document:       rasterize.Input{FileName: "cv.pdf", Data: []byte("%PDF-")},
		JobDescription: "Senior Go engineer with Kubernetes",
		Skills:         []string{"Go", " go ", "Terraform"},
	})
	require.NoError(t, err)

	assert.Equal(t, 69, report.Total)
	assert.Equal(t, 2, report.Meta.ImageCount)
	assert.Equal(t, "mock", report.Meta.Provider)
	assert.Equal(t, "vision-mock", report.Meta.Model)
	assert.Equal(t, "cv.pdf", report.Meta.FileName)
	assert.Equal(t, int64(500), report.Meta.ProcessingMillis)
	assert.NotEmpty(t, report.Meta.RequestID)

	assert.Equal(t, llm.TierVision, client.tier)
	require.Len(t, client.images, 2)
	assert.Equal(t, []byte("p2"), client.images[1].Data)
	assert.Contains(t, client.prompt, "Senior Go engineer with Kubernetes")
	assert.Contains(t, client.prompt, "2 image(s)")
	assert.Contains(t, client.prompt, "- Terraform")
}

func TestScore_AnalysisAfterFencedNotes(t *testing.T) {
	client := &MockLLMClient{GenerateWithImagesFunc: func(context.Context, string, []llm.Image, llm.ModelTier) (string, error) {
		return "```text\nChecked {layout} and {keywords}.\n```\nFinal analysis: " + fullAnalysis + "\nScores use {0-100}.", nil
	}}

	report, err := New(client, &fakeRasterizer{doc: twoPages()}, Options{}).Score(context.Background(), Request{JobDescription: "jd"})
	require.NoError(t, err)
	assert.Equal(t, 69, report.Total)
	assert.Equal(t, 80, report.Categories.KeywordMatch.Score)
}

func TestScore_RequiresJobDescription(t *testing.T) {
	raster := &fakeRasterizer{doc: twoPages()}
	_, err := New(&MockLLMClient{}, raster, Options{}).Score(context.Background(), Request{
		Document: rasterize.Input{Text: "resume"},
	})

	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "job_description", verr.Fields[0].Field)
	assert.Equal(t, 0, raster.calls)
}

func TestScore_RasterizationFailureIsFatal(t *testing.T) {
	client := &MockLLMClient{}
	raster := &fakeRasterizer{err: &rasterize.RasterizationError{Format: types.FormatPDF, Reason: "unreadable pdf"}}
	_, err := New(client, raster, Options{}).Score(context.Background(), Request{JobDescription: "jd"})

	var rerr *rasterize.RasterizationError
	require.ErrorAs(t, err, &rerr)
	assert.Empty(t, client.prompt, "no model call after a rasterization failure")
}

func TestScore_ZeroPagesIsFatal(t *testing.T) {
	raster := &fakeRasterizer{doc: &types.RasterizedDocument{Format: types.FormatText}}
	_, err := New(&MockLLMClient{}, raster, Options{}).Score(context.Background(), Request{JobDescription: "jd"})

	var rerr *rasterize.RasterizationError
	require.ErrorAs(t, err, &rerr)
}

func TestScore_ModelFailure(t *testing.T) {
	boom := errors.New("quota exceeded")
	client := &MockLLMClient{GenerateWithImagesFunc: func(context.Context, string, []llm.Image, llm.ModelTier) (string, error) {
		return "", boom
	}}
	_, err := New(client, &fakeRasterizer{doc: twoPages()}, Options{}).Score(context.Background(), Request{JobDescription: "jd"})

	var aerr *AnalysisError
	require.ErrorAs(t, err, &aerr)
	assert.ErrorIs(t, err, boom)
}

func TestScore_UnparseableAnalysis(t *testing.T) {
	client := &MockLLMClient{GenerateWithImagesFunc: func(context.Context, string, []llm.Image, llm.ModelTier) (string, error) {
		return "The resume looks great overall.", nil
	}}
	report, err := New(client, &fakeRasterizer{doc: twoPages()}, Options{}).Score(context.Background(), Request{JobDescription: "jd"})

	assert.Nil(t, report)
	var aerr *AnalysisError
	require.ErrorAs(t, err, &aerr)
}

func TestBuildPrompt(t *testing.T) {
	prompt, err := BuildPrompt("  Build APIs  ", nil, 3)
	require.NoError(t, err)
	assert.Contains(t, prompt, "3 image(s)")
	assert.Contains(t, prompt, "Build APIs")
	assert.NotContains(t, prompt, "Skills the candidate asked")
	assert.Contains(t, prompt, `"keyword_match"`)
}
