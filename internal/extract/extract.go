// Package extract clones a repository into a temporary workspace and turns
// the files selected by a filter plan into the text blocks the prompt is
// built from.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"

	rxerrors "git.home.luguber.info/inful/repoexplain/internal/errors"
	"git.home.luguber.info/inful/repoexplain/internal/filter"
	"git.home.luguber.info/inful/repoexplain/internal/logfields"
	"git.home.luguber.info/inful/repoexplain/internal/resolve"
	"git.home.luguber.info/inful/repoexplain/internal/workspace"
)

// Result holds everything extraction produces for prompt assembly.
type Result struct {
	Summary string
	Tree    string
	Content string

	// OriginalBytes counts every regular file in the clone, FilteredBytes
	// only the files that survived the plan.
	OriginalBytes int64
	FilteredBytes int64
	Truncated     bool
	FileCount     int
}

// Extractor produces repository content for a resolved descriptor under a
// filter plan.
type Extractor interface {
	Extract(ctx context.Context, desc *resolve.Descriptor, plan *filter.Plan) (*Result, error)
}

// GitExtractor clones via go-git into an ephemeral workspace and walks the
// checkout. The clone step is injectable so tests can populate a directory
// without the network.
type GitExtractor struct {
	baseDir string
	logger  *slog.Logger
	clone   func(ctx context.Context, url, dest string) error
}

// Option configures a GitExtractor.
type Option func(*GitExtractor)

// WithBaseDir roots workspaces at dir instead of the system temp directory.
func WithBaseDir(dir string) Option {
	return func(e *GitExtractor) { e.baseDir = dir }
}

// WithCloneFunc replaces the shallow-clone step, for tests.
func WithCloneFunc(fn func(ctx context.Context, url, dest string) error) Option {
	return func(e *GitExtractor) { e.clone = fn }
}

// NewGitExtractor creates an extractor that shallow-clones with go-git.
func NewGitExtractor(logger *slog.Logger, opts ...Option) *GitExtractor {
	e := &GitExtractor{logger: logger, clone: shallowClone}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func shallowClone(ctx context.Context, url, dest string) error {
	_, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:          url,
		Depth:        1,
		SingleBranch: true,
	})
	return err
}

// Extract clones the repository, applies the plan, and assembles the result.
// The workspace is removed before returning.
func (e *GitExtractor) Extract(ctx context.Context, desc *resolve.Descriptor, plan *filter.Plan) (*Result, error) {
	ws := workspace.NewManager(e.baseDir)
	if err := ws.Create(); err != nil {
		return nil, rxerrors.ExtractionError(err, "failed to create workspace")
	}
	defer func() {
		if cerr := ws.Cleanup(); cerr != nil {
			e.logger.Warn("workspace cleanup failed", logfields.Error(cerr))
		}
	}()

	cloneDir, err := ws.CreateSubdir(desc.Name)
	if err != nil {
		return nil, rxerrors.ExtractionError(err, "failed to prepare clone directory")
	}
	url := desc.GitHubURL()
	e.logger.Debug("Cloning repository", logfields.URL(url), logfields.Path(cloneDir))

	if err := e.clone(ctx, url, cloneDir); err != nil {
		return nil, rxerrors.ExtractionError(err, fmt.Sprintf("failed to clone %s", desc.FullName()))
	}

	files, originalBytes, err := scanClone(cloneDir, plan)
	if err != nil {
		return nil, rxerrors.ExtractionError(err, "failed to scan repository")
	}
	if len(files) == 0 {
		return nil, rxerrors.ExtractionError(nil, fmt.Sprintf("no analyzable files found in %s", desc.FullName()))
	}

	// Important files first so truncation trims the tail, not the README.
	sort.Slice(files, func(i, j int) bool {
		if files[i].Score != files[j].Score {
			return files[i].Score > files[j].Score
		}
		return files[i].Path < files[j].Path
	})

	result := &Result{
		OriginalBytes: originalBytes,
		FileCount:     len(files),
	}

	var content strings.Builder
	for _, f := range files {
		data, rerr := os.ReadFile(filepath.Join(cloneDir, filepath.FromSlash(f.Path)))
		if rerr != nil {
			e.logger.Warn("skipping unreadable file", logfields.File(f.Path), logfields.Error(rerr))
			continue
		}
		result.FilteredBytes += int64(len(data))
		writeFileBlock(&content, f.Path, data)
	}

	result.Content, result.Truncated = filter.TruncateToBudget(content.String(), plan.MaxTotalBytes)
	result.Tree = renderTree(files)
	result.Summary = renderSummary(desc, files, result.FilteredBytes)

	e.logger.Info("Extraction complete",
		logfields.Repository(desc.FullName()),
		slog.Int("files", len(files)),
		logfields.Bytes(int(result.FilteredBytes)),
		slog.Bool("truncated", result.Truncated))

	return result, nil
}

const fileSeparator = "================"

func writeFileBlock(b *strings.Builder, path string, data []byte) {
	b.WriteString(fileSeparator)
	b.WriteString("\nFILE: ")
	b.WriteString(path)
	b.WriteString("\n")
	b.WriteString(fileSeparator)
	b.WriteString("\n")
	b.Write(data)
	if len(data) == 0 || data[len(data)-1] != '\n' {
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func renderSummary(desc *resolve.Descriptor, files []fileEntry, totalBytes int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Repository: %s\n", desc.FullName())
	if desc.Language != "" {
		fmt.Fprintf(&b, "Language: %s\n", desc.Language)
	}
	fmt.Fprintf(&b, "Files analyzed: %d\n", len(files))
	fmt.Fprintf(&b, "Content size: %d bytes\n", totalBytes)

	top := files
	if len(top) > 5 {
		top = top[:5]
	}
	b.WriteString("Top files:\n")
	for _, f := range top {
		fmt.Fprintf(&b, "  - %s (score %d)\n", f.Path, f.Score)
	}
	return b.String()
}
