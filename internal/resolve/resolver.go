// Package resolve turns a user-supplied repository reference (URL, owner/repo
// slug, or free-text search term) into a validated repository descriptor.
package resolve

import (
	"context"
	"log/slog"
	"regexp"

	rxerrors "git.home.luguber.info/inful/repoexplain/internal/errors"
	"git.home.luguber.info/inful/repoexplain/internal/github"
	"git.home.luguber.info/inful/repoexplain/internal/logfields"
)

var (
	githubURLPattern = regexp.MustCompile(`^https?://github\.com/([a-zA-Z0-9._-]+)/([a-zA-Z0-9._-]+)/?$`)
	ownerRepoPattern = regexp.MustCompile(`^([a-zA-Z0-9._-]+)/([a-zA-Z0-9._-]+)$`)
)

// Classify determines the shape of a repository reference.
func Classify(input string) SourceKind {
	if githubURLPattern.MatchString(input) {
		return KindURL
	}
	if ownerRepoPattern.MatchString(input) {
		return KindOwnerRepo
	}
	return KindSearch
}

// MetadataAPI is the subset of the GitHub client the resolver depends on.
type MetadataAPI interface {
	SearchRepositories(ctx context.Context, query string, limit int) ([]github.SearchResult, error)
	GetRepository(ctx context.Context, owner, name string) (*github.SearchResult, error)
	CheckRateLimit(ctx context.Context) (*github.RateLimit, error)
}

// Selector blocks for a human choice among search results (1-based display,
// 0-based return). A cancelled or interrupted selection returns an error.
type Selector interface {
	Select(results []github.SearchResult) (int, error)
}

// Options controls a single resolution.
type Options struct {
	// UseAPI enables network-backed search and metadata enrichment. When
	// false, search terms resolve through the static fallback table.
	UseAPI bool

	// SearchLimit caps disambiguation results. Defaults to 10.
	SearchLimit int

	// RateLimitWarnBelow triggers the advisory warning. Defaults to 5.
	RateLimitWarnBelow int
}

// Resolver classifies and resolves repository references.
type Resolver struct {
	api      MetadataAPI
	selector Selector
	warn     func(remaining int, reset int64)
	logger   *slog.Logger
}

// NewResolver creates a resolver. warn is invoked (if non-nil) when the
// remaining search quota drops below the configured threshold.
func NewResolver(api MetadataAPI, selector Selector, warn func(remaining int, reset int64), logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		api:      api,
		selector: selector,
		warn:     warn,
		logger:   logger.With("component", "resolver"),
	}
}

// Resolve parses a (pre-sanitized) repository reference into a descriptor.
// Every returned descriptor has passed Validate.
func (r *Resolver) Resolve(ctx context.Context, input string, opts Options) (*Descriptor, error) {
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = 10
	}
	if opts.RateLimitWarnBelow <= 0 {
		opts.RateLimitWarnBelow = 5
	}

	var desc *Descriptor
	switch Classify(input) {
	case KindURL:
		m := githubURLPattern.FindStringSubmatch(input)
		desc = &Descriptor{Owner: m[1], Name: m[2], URL: input, Kind: KindURL}
		r.logger.Debug("detected GitHub URL format", logfields.Repository(desc.FullName()))
		if opts.UseAPI {
			r.enrich(ctx, desc, opts)
		}

	case KindOwnerRepo:
		m := ownerRepoPattern.FindStringSubmatch(input)
		desc = &Descriptor{Owner: m[1], Name: m[2], Kind: KindOwnerRepo}
		desc.URL = desc.GitHubURL()
		r.logger.Debug("detected owner/repo format", logfields.Repository(desc.FullName()))
		if opts.UseAPI {
			r.enrich(ctx, desc, opts)
		}

	default:
		r.logger.Debug("treating input as search term", slog.String("term", input))
		var err error
		if opts.UseAPI {
			desc, err = r.search(ctx, input, opts)
		} else {
			desc = fallbackDescriptor(input)
			r.logger.Debug("resolved via static fallback", logfields.Repository(desc.FullName()))
		}
		if err != nil {
			return nil, err
		}
	}

	if err := Validate(desc); err != nil {
		return nil, err
	}
	return desc, nil
}

// enrich merges metadata into the descriptor. Lookup failures degrade
// silently: the descriptor keeps its unenriched fields.
func (r *Resolver) enrich(ctx context.Context, desc *Descriptor, opts Options) {
	r.checkRateLimit(ctx, opts)

	info, err := r.api.GetRepository(ctx, desc.Owner, desc.Name)
	if err != nil {
		r.logger.Debug("metadata lookup failed", logfields.Repository(desc.FullName()), logfields.Error(err))
		return
	}
	desc.Description = info.Description
	desc.Stars = info.Stars
	desc.SizeMB = info.SizeMB()
	desc.Language = info.Language
}

// search resolves a free-text term via the search API plus, when needed, a
// blocking human selection.
func (r *Resolver) search(ctx context.Context, term string, opts Options) (*Descriptor, error) {
	r.checkRateLimit(ctx, opts)

	results, err := r.api.SearchRepositories(ctx, term, opts.SearchLimit)
	if err != nil {
		return nil, rxerrors.NetworkError(err, "repository search failed")
	}
	if len(results) == 0 {
		return nil, rxerrors.NoMatchError(term)
	}

	selected := results[0]
	if len(results) > 1 {
		idx, err := r.selector.Select(results)
		if err != nil {
			return nil, rxerrors.CancelledError("repository selection")
		}
		selected = results[idx]
	} else {
		r.logger.Info("single search match", logfields.Repository(selected.FullName()))
	}

	return &Descriptor{
		Owner:       selected.Owner,
		Name:        selected.Name,
		URL:         selected.URL,
		Kind:        KindSearch,
		Description: selected.Description,
		Stars:       selected.Stars,
		SizeMB:      selected.SizeMB(),
		Language:    selected.Language,
	}, nil
}

// checkRateLimit is a best-effort advisory probe; failures never block.
func (r *Resolver) checkRateLimit(ctx context.Context, opts Options) {
	rl, err := r.api.CheckRateLimit(ctx)
	if err != nil {
		r.logger.Debug("rate limit check failed", logfields.Error(err))
		return
	}
	r.logger.Debug("rate limit", slog.Int("remaining", rl.Remaining))
	if rl.Remaining < opts.RateLimitWarnBelow && r.warn != nil {
		r.warn(rl.Remaining, rl.Reset)
	}
}
