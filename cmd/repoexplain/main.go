package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/repoexplain/internal/ai"
	"git.home.luguber.info/inful/repoexplain/internal/cache"
	"git.home.luguber.info/inful/repoexplain/internal/config"
	rxerrors "git.home.luguber.info/inful/repoexplain/internal/errors"
	"git.home.luguber.info/inful/repoexplain/internal/extract"
	"git.home.luguber.info/inful/repoexplain/internal/github"
	"git.home.luguber.info/inful/repoexplain/internal/pipeline"
	"git.home.luguber.info/inful/repoexplain/internal/resolve"
	"git.home.luguber.info/inful/repoexplain/internal/ui"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"repoexplain.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Explain struct {
		Repository string `arg:"" help:"GitHub URL, owner/repo slug, or search term"`
		Question   string `arg:"" help:"Natural-language question about the repository"`

		Model        string `short:"m" help:"Model to use (overrides config)"`
		MaxFileSize  int    `help:"Per-file size ceiling in MB (overrides config)"`
		MaxTotalSize int    `help:"Total content size ceiling in MB (overrides config)"`
		DryRun       bool   `help:"Test the pipeline without cloning or calling the model"`
		Force        bool   `short:"f" help:"Skip size and cost confirmation prompts"`
		NoAPI        bool   `help:"Resolve search terms without the GitHub API"`
		NoCache      bool   `help:"Bypass the GitHub response cache"`
	} `cmd:"" default:"withargs" help:"Explain a GitHub repository by asking a question about it"`

	Resolve struct {
		Repository string `arg:"" help:"GitHub URL, owner/repo slug, or search term"`
		NoAPI      bool   `help:"Resolve search terms without the GitHub API"`
	} `cmd:"" help:"Resolve a repository reference and show its metadata"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`
}

func main() {
	kctx := kong.Parse(&CLI)

	logLevel := slog.LevelWarn
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	adapter := rxerrors.NewCLIErrorAdapter(CLI.Verbose, logger)
	console := ui.NewConsole(os.Stdout)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch kctx.Command() {
	case "explain <repository> <question>":
		err = runExplain(ctx, logger, console)
	case "resolve <repository>":
		err = runResolve(ctx, logger, console)
	case "init":
		err = runInit()
	}

	if err != nil {
		adapter.LogError(err)
		if rxerrors.IsCancelled(err) {
			console.Printf("Cancelled.\n")
		} else {
			console.Error("Error", adapter.FormatError(err))
		}
	}
	os.Exit(adapter.ExitCodeFor(err))
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func runExplain(ctx context.Context, logger *slog.Logger, console *ui.Console) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if CLI.Explain.Model != "" {
		cfg.Model = CLI.Explain.Model
	}
	if CLI.Explain.MaxFileSize > 0 {
		cfg.Limits.MaxFileSizeMB = CLI.Explain.MaxFileSize
	}
	if CLI.Explain.MaxTotalSize > 0 {
		cfg.Limits.MaxTotalSizeMB = CLI.Explain.MaxTotalSize
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if !CLI.Explain.DryRun && os.Getenv("OPENAI_API_KEY") == "" {
		return rxerrors.ConfigError(
			"OPENAI_API_KEY not set. Export it or add it to a .env file, or use --dry-run to test without it.")
	}

	resolver := newResolver(logger, console, cfg, CLI.Explain.NoCache)

	generator := newGenerator(ctx, logger, console, cfg, CLI.Explain.DryRun)
	renderer, fallback := newRenderers(ctx, logger, cfg)

	p := pipeline.New(cfg, resolver,
		extract.NewGitExtractor(logger),
		generator, renderer, fallback,
		console, ui.HuhConfirmer{}, logger)

	return p.Run(ctx, CLI.Explain.Repository, CLI.Explain.Question, pipeline.Options{
		DryRun: CLI.Explain.DryRun,
		Force:  CLI.Explain.Force,
		NoAPI:  CLI.Explain.NoAPI,
	})
}

func runResolve(ctx context.Context, logger *slog.Logger, console *ui.Console) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	resolver := newResolver(logger, console, cfg, false)

	input, removed := resolve.Sanitize(CLI.Resolve.Repository)
	if len(removed) > 0 {
		console.Warning("Input Sanitized",
			"Removed unsafe characters: "+string(removed))
	}

	desc, err := resolver.Resolve(ctx, input, resolve.Options{
		UseAPI:             !CLI.Resolve.NoAPI,
		RateLimitWarnBelow: cfg.Thresholds.RateLimitWarnBelow,
	})
	if err != nil {
		return err
	}
	console.Resolved(desc)
	return nil
}

func runInit() error {
	return config.Init(CLI.Config, CLI.Init.Force)
}

// newResolver wires the GitHub client, response cache, and interactive
// selection into a resolver.
func newResolver(logger *slog.Logger, console *ui.Console, cfg *config.Config, noCache bool) *resolve.Resolver {
	clientOpts := []github.Option{
		github.WithToken(cfg.GitHub.Token),
		github.WithBaseURL(cfg.GitHub.APIURL),
	}

	if cfg.Cache.Enabled && !noCache {
		ttl, err := time.ParseDuration(cfg.Cache.TTL)
		if err != nil {
			ttl = time.Hour
		}
		path := cfg.Cache.Path
		if path == "" {
			path = cache.DefaultPath()
		}
		if store, err := cache.Open(path, ttl, logger); err != nil {
			logger.Warn("cache unavailable, continuing without it", "error", err)
		} else {
			if err := store.Prune(); err != nil {
				logger.Debug("cache prune failed", "error", err)
			}
			clientOpts = append(clientOpts, github.WithCache(store))
		}
	}

	client := github.NewClient(logger, clientOpts...)
	selector := ui.TableSelector{Console: console, Inner: ui.HuhSelector{}}
	return resolve.NewResolver(client, selector, console.RateLimitWarning, logger)
}

// newGenerator probes for the mods binary and reports when it is missing.
// Dry runs never invoke it, so the probe only warns there.
func newGenerator(ctx context.Context, logger *slog.Logger, console *ui.Console, cfg *config.Config, dryRun bool) ai.Generator {
	if !ai.ToolAvailable(ctx, cfg.Tools.Generator) && !dryRun {
		console.Warning("Missing Tool",
			cfg.Tools.Generator+" was not found on PATH.\n"+
				"Install it from https://github.com/charmbracelet/mods or use --dry-run.")
	}
	return ai.NewModsGenerator(cfg.Model, logger, ai.WithBinary(cfg.Tools.Generator))
}

// newRenderers returns the glow renderer when available (nil otherwise) and
// the always-available fallback.
func newRenderers(ctx context.Context, logger *slog.Logger, cfg *config.Config) (ai.Renderer, ai.Renderer) {
	fallback := ai.NewFallbackRenderer(os.Stdout)
	if !ai.ToolAvailable(ctx, cfg.Tools.Renderer) {
		return nil, fallback
	}
	return ai.NewGlowRenderer(logger, ai.WithRendererBinary(cfg.Tools.Renderer)), fallback
}
