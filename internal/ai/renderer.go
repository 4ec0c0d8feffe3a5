package ai

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	rxerrors "git.home.luguber.info/inful/repoexplain/internal/errors"
	"git.home.luguber.info/inful/repoexplain/internal/logfields"
)

// RenderTimeout bounds one glow invocation.
const RenderTimeout = 30 * time.Second

// ProbeTimeout bounds a tool availability check.
const ProbeTimeout = 5 * time.Second

// Renderer displays a Markdown explanation in the terminal.
type Renderer interface {
	Render(ctx context.Context, markdown string) error
}

// ToolAvailable reports whether a CLI tool responds to --version.
func ToolAvailable(ctx context.Context, name string) bool {
	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	// #nosec G204 -- name is a fixed tool name from configuration
	return exec.CommandContext(ctx, name, "--version").Run() == nil
}

// GlowRenderer writes the Markdown to a temp file and hands it to glow,
// inheriting the terminal so glow controls the display.
type GlowRenderer struct {
	binary  string
	timeout time.Duration
	logger  *slog.Logger
	run     func(ctx context.Context, name string, args ...string) error
}

// RendererOption configures a GlowRenderer.
type RendererOption func(*GlowRenderer)

// WithRendererBinary overrides the glow executable name.
func WithRendererBinary(name string) RendererOption {
	return func(r *GlowRenderer) { r.binary = name }
}

// WithRenderExec replaces command execution, for tests.
func WithRenderExec(fn func(ctx context.Context, name string, args ...string) error) RendererOption {
	return func(r *GlowRenderer) { r.run = fn }
}

// NewGlowRenderer creates a glow-backed renderer.
func NewGlowRenderer(logger *slog.Logger, opts ...RendererOption) *GlowRenderer {
	r := &GlowRenderer{
		binary:  "glow",
		timeout: RenderTimeout,
		logger:  logger,
		run:     runInherited,
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func runInherited(ctx context.Context, name string, args ...string) error {
	// #nosec G204 -- name and args are fixed tool invocations, never user input
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Render implements Renderer. The temp file is removed before returning.
func (r *GlowRenderer) Render(ctx context.Context, markdown string) error {
	f, err := os.CreateTemp("", "repoexplain-*.md")
	if err != nil {
		return rxerrors.RenderingError(err, "failed to create temp file")
	}
	path := f.Name()
	defer func() {
		if rerr := os.Remove(path); rerr != nil {
			r.logger.Warn("temp file cleanup failed", logfields.Path(path), logfields.Error(rerr))
		}
	}()

	if _, err := f.WriteString(markdown); err != nil {
		_ = f.Close()
		return rxerrors.RenderingError(err, "failed to write markdown")
	}
	if err := f.Close(); err != nil {
		return rxerrors.RenderingError(err, "failed to write markdown")
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.run(ctx, r.binary, path); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return rxerrors.RenderingError(err, fmt.Sprintf("glow timed out after %s", r.timeout))
		}
		return rxerrors.RenderingError(err, "glow invocation failed")
	}
	return nil
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	codeStyle    = lipgloss.NewStyle().Faint(true)
)

// FallbackRenderer walks the Markdown AST and prints a plain styled
// rendition. It never fails, so it backs up the glow path.
type FallbackRenderer struct {
	Out io.Writer
}

// NewFallbackRenderer creates a fallback renderer writing to out
// (stdout when nil).
func NewFallbackRenderer(out io.Writer) *FallbackRenderer {
	if out == nil {
		out = os.Stdout
	}
	return &FallbackRenderer{Out: out}
}

// Render implements Renderer.
func (r *FallbackRenderer) Render(_ context.Context, markdown string) error {
	src := []byte(markdown)
	root := goldmark.New().Parser().Parse(gmtext.NewReader(src))

	var b strings.Builder
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Heading:
			title := strings.Repeat("#", node.Level) + " " + nodeText(node, src)
			b.WriteString(headingStyle.Render(title))
			b.WriteString("\n\n")
			return gmast.WalkSkipChildren, nil
		case *gmast.FencedCodeBlock:
			writeCodeLines(&b, node.Lines(), src)
			b.WriteString("\n")
			return gmast.WalkSkipChildren, nil
		case *gmast.CodeBlock:
			writeCodeLines(&b, node.Lines(), src)
			b.WriteString("\n")
			return gmast.WalkSkipChildren, nil
		case *gmast.List:
			writeList(&b, node, src)
			b.WriteString("\n")
			return gmast.WalkSkipChildren, nil
		case *gmast.Paragraph:
			b.WriteString(nodeText(node, src))
			b.WriteString("\n\n")
			return gmast.WalkSkipChildren, nil
		case *gmast.ThematicBreak:
			b.WriteString(strings.Repeat("-", 40))
			b.WriteString("\n\n")
		}
		return gmast.WalkContinue, nil
	})

	_, err := io.WriteString(r.Out, b.String())
	return err
}

// nodeText collects the raw text content beneath a node.
func nodeText(n gmast.Node, src []byte) string {
	var b strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if t, ok := c.(*gmast.Text); ok {
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteString(" ")
			}
		}
		return gmast.WalkContinue, nil
	})
	return b.String()
}

func writeCodeLines(b *strings.Builder, lines *gmtext.Segments, src []byte) {
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := strings.TrimRight(string(seg.Value(src)), "\n")
		b.WriteString(codeStyle.Render("    " + line))
		b.WriteString("\n")
	}
}

func writeList(b *strings.Builder, list *gmast.List, src []byte) {
	index := list.Start
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		if list.IsOrdered() {
			fmt.Fprintf(b, "%d. %s\n", index, nodeText(item, src))
			index++
		} else {
			fmt.Fprintf(b, "- %s\n", nodeText(item, src))
		}
	}
}
