package pipeline

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/repoexplain/internal/config"
	rxerrors "git.home.luguber.info/inful/repoexplain/internal/errors"
	"git.home.luguber.info/inful/repoexplain/internal/extract"
	"git.home.luguber.info/inful/repoexplain/internal/filter"
	"git.home.luguber.info/inful/repoexplain/internal/resolve"
	"git.home.luguber.info/inful/repoexplain/internal/ui"
)

type fakeResolver struct {
	desc      *resolve.Descriptor
	err       error
	lastInput string
}

func (f *fakeResolver) Resolve(_ context.Context, input string, _ resolve.Options) (*resolve.Descriptor, error) {
	f.lastInput = input
	if f.err != nil {
		return nil, f.err
	}
	return f.desc, nil
}

type fakeExtractor struct {
	result *extract.Result
	err    error
	called bool
}

func (f *fakeExtractor) Extract(_ context.Context, _ *resolve.Descriptor, _ *filter.Plan) (*extract.Result, error) {
	f.called = true
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeGenerator struct {
	response string
	err      error
	called   bool
}

func (f *fakeGenerator) Generate(context.Context, string) (string, error) {
	f.called = true
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeRenderer struct {
	err      error
	rendered []string
}

func (f *fakeRenderer) Render(_ context.Context, md string) error {
	if f.err != nil {
		return f.err
	}
	f.rendered = append(f.rendered, md)
	return nil
}

type scriptedConfirmer struct {
	answer bool
	err    error
	asked  []string
}

func (s *scriptedConfirmer) Confirm(title, _ string) (bool, error) {
	s.asked = append(s.asked, title)
	return s.answer, s.err
}

type fixture struct {
	cfg       *config.Config
	resolver  *fakeResolver
	extractor *fakeExtractor
	generator *fakeGenerator
	renderer  *fakeRenderer
	fallback  *fakeRenderer
	confirmer *scriptedConfirmer
	out       *bytes.Buffer
}

func newFixture() *fixture {
	return &fixture{
		cfg: config.Default(),
		resolver: &fakeResolver{desc: &resolve.Descriptor{
			Owner: "acme", Name: "widget", Kind: resolve.KindOwnerRepo, Language: "Go",
		}},
		extractor: &fakeExtractor{result: &extract.Result{
			Summary: "Repository: acme/widget\n",
			Tree:    "README.md\n",
			Content: "FILE: README.md\n# hi\n",
		}},
		generator: &fakeGenerator{response: "# Answer\n\nbecause.\n"},
		renderer:  &fakeRenderer{},
		fallback:  &fakeRenderer{},
		confirmer: &scriptedConfirmer{answer: true},
		out:       &bytes.Buffer{},
	}
}

func (f *fixture) pipeline() *Pipeline {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return New(f.cfg, f.resolver, f.extractor, f.generator, f.renderer, f.fallback,
		ui.NewConsole(f.out), f.confirmer, logger)
}

func TestRunHappyPath(t *testing.T) {
	f := newFixture()
	err := f.pipeline().Run(context.Background(), "acme/widget", "what is this?", Options{})
	require.NoError(t, err)

	assert.True(t, f.extractor.called)
	assert.True(t, f.generator.called)
	require.Len(t, f.renderer.rendered, 1)
	assert.Equal(t, "# Answer\n\nbecause.\n", f.renderer.rendered[0])
	assert.Empty(t, f.fallback.rendered)
	assert.Empty(t, f.confirmer.asked, "no gates below thresholds")
}

func TestRunSanitizesInputs(t *testing.T) {
	f := newFixture()
	err := f.pipeline().Run(context.Background(), "acme/widget`;", "what`s this?", Options{})
	require.NoError(t, err)
	assert.Equal(t, "acme/widget", f.resolver.lastInput)
	assert.Contains(t, f.out.String(), "Input Sanitized")
}

func TestRunEmptyInputs(t *testing.T) {
	f := newFixture()

	err := f.pipeline().Run(context.Background(), "   ", "question", Options{})
	require.Error(t, err)
	assert.True(t, rxerrors.IsCategory(err, rxerrors.CategoryValidation))

	err = f.pipeline().Run(context.Background(), "acme/widget", "```", Options{})
	require.Error(t, err)
	assert.True(t, rxerrors.IsCategory(err, rxerrors.CategoryValidation))
}

func TestRunResolutionFailure(t *testing.T) {
	f := newFixture()
	f.resolver.err = rxerrors.NoMatchError("nonexistent")

	err := f.pipeline().Run(context.Background(), "nonexistent", "q", Options{})
	require.Error(t, err)
	assert.True(t, rxerrors.IsCategory(err, rxerrors.CategoryResolution))
	assert.False(t, f.extractor.called)
}

func TestSizeGateDeclined(t *testing.T) {
	f := newFixture()
	f.resolver.desc.SizeMB = 250
	f.confirmer.answer = false

	err := f.pipeline().Run(context.Background(), "acme/widget", "q", Options{})
	require.Error(t, err)
	assert.True(t, rxerrors.IsCancelled(err))
	assert.Contains(t, f.confirmer.asked, "Large Repository")
	assert.False(t, f.extractor.called)
}

func TestSizeGateAccepted(t *testing.T) {
	f := newFixture()
	f.resolver.desc.SizeMB = 250

	err := f.pipeline().Run(context.Background(), "acme/widget", "q", Options{})
	require.NoError(t, err)
	assert.Contains(t, f.confirmer.asked, "Large Repository")
	assert.True(t, f.extractor.called)
}

func TestForceSkipsGates(t *testing.T) {
	f := newFixture()
	f.resolver.desc.SizeMB = 250
	f.extractor.result.Content = strings.Repeat("x", 200_000)
	f.confirmer.answer = false // would cancel if asked

	err := f.pipeline().Run(context.Background(), "acme/widget", "q", Options{Force: true})
	require.NoError(t, err)
	assert.Empty(t, f.confirmer.asked)
}

func TestCostGateDeclined(t *testing.T) {
	f := newFixture()
	// ~50k prompt tokens at gpt-4o pricing is well over the 5 cent gate.
	f.extractor.result.Content = strings.Repeat("x", 200_000)
	f.confirmer.answer = false

	err := f.pipeline().Run(context.Background(), "acme/widget", "q", Options{})
	require.Error(t, err)
	assert.True(t, rxerrors.IsCancelled(err))
	assert.Contains(t, f.confirmer.asked, "Cost Confirmation")
	assert.False(t, f.generator.called)
}

func TestInterruptedPromptCancels(t *testing.T) {
	f := newFixture()
	f.resolver.desc.SizeMB = 250
	f.confirmer.err = context.Canceled

	err := f.pipeline().Run(context.Background(), "acme/widget", "q", Options{})
	require.Error(t, err)
	assert.True(t, rxerrors.IsCancelled(err))
}

func TestGenerationFailurePropagates(t *testing.T) {
	f := newFixture()
	f.generator.err = rxerrors.GenerationError(nil, "model unavailable")

	err := f.pipeline().Run(context.Background(), "acme/widget", "q", Options{})
	require.Error(t, err)
	assert.True(t, rxerrors.IsCategory(err, rxerrors.CategoryGeneration))
	assert.Empty(t, f.renderer.rendered)
}

func TestRendererFailureFallsBack(t *testing.T) {
	f := newFixture()
	f.renderer.err = rxerrors.RenderingError(nil, "glow exploded")

	err := f.pipeline().Run(context.Background(), "acme/widget", "q", Options{})
	require.NoError(t, err, "rendering failures never fail the run")
	require.Len(t, f.fallback.rendered, 1)
	assert.Contains(t, f.out.String(), "Fallback Display")
}

func TestDryRunSkipsExtractionAndModel(t *testing.T) {
	f := newFixture()

	err := f.pipeline().Run(context.Background(), "acme/widget", "q", Options{DryRun: true})
	require.NoError(t, err)
	assert.False(t, f.extractor.called)
	assert.False(t, f.generator.called)
	require.Len(t, f.fallback.rendered, 1)
	assert.Contains(t, f.fallback.rendered[0], "Mock AI Response")
	assert.Contains(t, f.out.String(), "Extraction Plan")
	assert.Contains(t, f.out.String(), "Dry Run Complete")
}

func TestDryRunNeverInvokesConfiguredRenderer(t *testing.T) {
	f := newFixture()

	err := f.pipeline().Run(context.Background(), "acme/widget", "q", Options{DryRun: true})
	require.NoError(t, err)
	assert.Empty(t, f.renderer.rendered, "dry run must not drive the external renderer")
	require.Len(t, f.fallback.rendered, 1)
}

func TestTruncationWarning(t *testing.T) {
	f := newFixture()
	f.extractor.result.Truncated = true

	err := f.pipeline().Run(context.Background(), "acme/widget", "q", Options{})
	require.NoError(t, err)
	assert.Contains(t, f.out.String(), "Content Truncated")
}
