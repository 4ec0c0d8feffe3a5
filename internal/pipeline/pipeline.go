// Package pipeline drives one explanation run from raw user input to
// rendered output.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/repoexplain/internal/ai"
	"git.home.luguber.info/inful/repoexplain/internal/config"
	"git.home.luguber.info/inful/repoexplain/internal/cost"
	rxerrors "git.home.luguber.info/inful/repoexplain/internal/errors"
	"git.home.luguber.info/inful/repoexplain/internal/extract"
	"git.home.luguber.info/inful/repoexplain/internal/filter"
	"git.home.luguber.info/inful/repoexplain/internal/logfields"
	"git.home.luguber.info/inful/repoexplain/internal/prompt"
	"git.home.luguber.info/inful/repoexplain/internal/resolve"
	"git.home.luguber.info/inful/repoexplain/internal/ui"
)

// RepoResolver resolves a raw repository reference to a descriptor.
type RepoResolver interface {
	Resolve(ctx context.Context, input string, opts resolve.Options) (*resolve.Descriptor, error)
}

// Options controls a single run.
type Options struct {
	// DryRun tests the pipeline without network extraction or model calls.
	DryRun bool

	// Force suppresses the size and cost confirmation gates.
	Force bool

	// NoAPI disables GitHub-backed search and enrichment.
	NoAPI bool
}

// Pipeline wires the stages of one explanation run.
type Pipeline struct {
	cfg       *config.Config
	resolver  RepoResolver
	extractor extract.Extractor
	generator ai.Generator
	renderer  ai.Renderer
	fallback  ai.Renderer
	console   *ui.Console
	confirmer ui.Confirmer
	logger    *slog.Logger
}

// New assembles a pipeline. fallback must always succeed; it backs up
// renderer failures.
func New(cfg *config.Config, resolver RepoResolver, extractor extract.Extractor,
	generator ai.Generator, renderer, fallback ai.Renderer,
	console *ui.Console, confirmer ui.Confirmer, logger *slog.Logger,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if console == nil {
		console = ui.NewConsole(nil)
	}
	return &Pipeline{
		cfg:       cfg,
		resolver:  resolver,
		extractor: extractor,
		generator: generator,
		renderer:  renderer,
		fallback:  fallback,
		console:   console,
		confirmer: confirmer,
		logger:    logger,
	}
}

// Run executes the full explanation flow. User-declined gates surface as
// cancelled-category errors so the CLI adapter can map them to exit 0.
func (p *Pipeline) Run(ctx context.Context, repoInput, question string, opts Options) error {
	runID := uuid.NewString()
	log := p.logger.With(logfields.RunID(runID))

	cleanInput := p.sanitize(log, "repository reference", repoInput)
	cleanQuestion := p.sanitize(log, "question", question)
	if cleanInput == "" {
		return rxerrors.ValidationError("repository reference must not be empty")
	}
	if cleanQuestion == "" {
		return rxerrors.ValidationError("question must not be empty")
	}

	log.Info("Starting explanation run",
		logfields.Stage("resolve"),
		slog.String("input", cleanInput))

	desc, err := p.resolver.Resolve(ctx, cleanInput, resolve.Options{
		UseAPI:             !opts.NoAPI,
		RateLimitWarnBelow: p.cfg.Thresholds.RateLimitWarnBelow,
	})
	if err != nil {
		return err
	}
	p.console.Resolved(desc)
	log.Info("Repository resolved", logfields.Repository(desc.FullName()))

	if err := p.sizeGate(log, desc, opts); err != nil {
		return err
	}

	plan := filter.BuildPlan(cleanQuestion, desc.Language,
		int64(p.cfg.Limits.MaxFileSizeMB)<<20,
		int64(p.cfg.Limits.MaxTotalSizeMB)<<20)

	if opts.DryRun {
		return p.dryRun(ctx, log, plan)
	}

	log.Info("Extracting repository content", logfields.Stage("extract"))
	result, err := p.extractor.Extract(ctx, desc, plan)
	if err != nil {
		return err
	}
	if result.Truncated {
		p.console.Warning("Content Truncated",
			fmt.Sprintf("Repository content exceeded the %dMB limit and was truncated.",
				p.cfg.Limits.MaxTotalSizeMB))
	}

	if err := p.costGate(log, result.Content, cleanQuestion, opts); err != nil {
		return err
	}

	log.Info("Generating explanation", logfields.Stage("generate"), logfields.Model(p.cfg.Model))
	fullPrompt := prompt.Build(desc, cleanQuestion, result.Content, result.Tree, result.Summary)
	response, err := p.generator.Generate(ctx, fullPrompt)
	if err != nil {
		return err
	}

	p.render(ctx, log, response)
	log.Info("Run complete", logfields.Stage("done"))
	return nil
}

// sanitize strips dangerous shell characters and reports what was removed.
func (p *Pipeline) sanitize(log *slog.Logger, what, input string) string {
	clean, removed := resolve.Sanitize(input)
	if len(removed) > 0 {
		log.Warn("Removed unsafe characters",
			slog.String("field", what),
			slog.String("removed", string(removed)))
		p.console.Warning("Input Sanitized",
			fmt.Sprintf("Removed unsafe characters from %s: %q", what, string(removed)))
	}
	return clean
}

func (p *Pipeline) sizeGate(log *slog.Logger, desc *resolve.Descriptor, opts Options) error {
	if desc.SizeMB <= p.cfg.Thresholds.LargeRepoMB || opts.Force {
		return nil
	}
	log.Warn("Large repository", slog.Float64("size_mb", desc.SizeMB))
	ok, err := p.confirmer.Confirm("Large Repository",
		fmt.Sprintf("%s is %.0fMB. Cloning and analyzing it may take a while. Continue?",
			desc.FullName(), desc.SizeMB))
	if err != nil || !ok {
		return rxerrors.CancelledError("size confirmation")
	}
	return nil
}

func (p *Pipeline) costGate(log *slog.Logger, content, question string, opts Options) error {
	est := cost.ForRequest(content, question, p.cfg.PriceFor(p.cfg.Model))
	p.console.CostReport(est, p.cfg.Model)
	log.Info("Cost estimated",
		slog.Int("prompt_tokens", est.PromptTokens),
		slog.Float64("usd", est.USD))

	if est.Cents() <= p.cfg.Thresholds.CostCents || opts.Force {
		return nil
	}
	ok, err := p.confirmer.Confirm("Cost Confirmation",
		fmt.Sprintf("This request is estimated to cost $%.4f. Continue?", est.USD))
	if err != nil || !ok {
		return rxerrors.CancelledError("cost confirmation")
	}
	return nil
}

// dryRun shows the extraction plan and exercises the mock generation path.
// No external tool runs during a dry run, so the mock response goes through
// the in-process fallback renderer, never the configured one.
func (p *Pipeline) dryRun(ctx context.Context, log *slog.Logger, plan *filter.Plan) error {
	log.Info("Dry run", logfields.Stage("dry-run"))
	p.console.ExtractionPlan(plan)

	response, err := ai.MockGenerator{}.Generate(ctx, "")
	if err != nil {
		return err
	}
	if p.fallback != nil {
		if rerr := p.fallback.Render(ctx, response); rerr != nil {
			log.Warn("Fallback rendering failed", logfields.Error(rerr))
		}
	}
	p.console.Info("Dry Run Complete", "Pipeline tested without extraction or model calls.")
	return nil
}

// render displays the explanation, degrading to the fallback renderer on
// failure. Rendering problems never fail the run.
func (p *Pipeline) render(ctx context.Context, log *slog.Logger, markdown string) {
	log.Info("Rendering explanation", logfields.Stage("render"))
	if p.renderer != nil {
		err := p.renderer.Render(ctx, markdown)
		if err == nil {
			return
		}
		log.Warn("Renderer failed, falling back", logfields.Error(err))
		p.console.Warning("Fallback Display", "Styled rendering failed; showing plain output.")
	}
	if p.fallback != nil {
		if err := p.fallback.Render(ctx, markdown); err != nil {
			log.Warn("Fallback rendering failed", logfields.Error(err))
		}
	}
}
