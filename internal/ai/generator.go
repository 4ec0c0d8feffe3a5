// Package ai integrates the external mods and glow CLIs for explanation
// generation and terminal rendering.
package ai

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	rxerrors "git.home.luguber.info/inful/repoexplain/internal/errors"
	"git.home.luguber.info/inful/repoexplain/internal/logfields"
)

// GenerateTimeout bounds a single model request.
const GenerateTimeout = 120 * time.Second

// Generator turns a prompt into a Markdown explanation.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// runFunc executes a command with the prompt on stdin and captures output.
// Injectable so generator tests never spawn processes.
type runFunc func(ctx context.Context, name string, args []string, stdin string) (stdout, stderr string, err error)

func runCommand(ctx context.Context, name string, args []string, stdin string) (string, string, error) {
	// #nosec G204 -- name and args are fixed tool invocations, never user input
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Env = os.Environ()

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	return outBuf.String(), errBuf.String(), err
}

// ModsGenerator shells out to the mods CLI against the OpenAI API.
type ModsGenerator struct {
	binary  string
	model   string
	timeout time.Duration
	logger  *slog.Logger
	run     runFunc
}

// GeneratorOption configures a ModsGenerator.
type GeneratorOption func(*ModsGenerator)

// WithBinary overrides the mods executable name.
func WithBinary(name string) GeneratorOption {
	return func(g *ModsGenerator) { g.binary = name }
}

// WithTimeout overrides the request timeout.
func WithTimeout(d time.Duration) GeneratorOption {
	return func(g *ModsGenerator) { g.timeout = d }
}

// WithRunFunc replaces command execution, for tests.
func WithRunFunc(fn runFunc) GeneratorOption {
	return func(g *ModsGenerator) { g.run = fn }
}

// NewModsGenerator creates a generator for the given model.
func NewModsGenerator(model string, logger *slog.Logger, opts ...GeneratorOption) *ModsGenerator {
	g := &ModsGenerator{
		binary:  "mods",
		model:   model,
		timeout: GenerateTimeout,
		logger:  logger,
		run:     runCommand,
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate sends the prompt to mods on stdin and returns the trimmed
// response. Non-zero exits and empty responses are generation errors with
// stderr attached as context.
func (g *ModsGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	args := []string{"-a", "openai", "-m", g.model, "-f"}
	g.logger.Debug("Invoking generator",
		logfields.Model(g.model),
		slog.String("command", g.binary+" "+strings.Join(args, " ")),
		logfields.Bytes(len(prompt)))

	start := time.Now()
	stdout, stderr, err := g.run(ctx, g.binary, args, prompt)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", rxerrors.GenerationError(err, fmt.Sprintf("model request timed out after %s", g.timeout))
		}
		return "", rxerrors.GenerationError(err, "mods invocation failed").
			WithContext("stderr", strings.TrimSpace(stderr))
	}

	response := strings.TrimSpace(stdout)
	if response == "" {
		return "", rxerrors.GenerationError(nil, "received empty response from mods").
			WithContext("stderr", strings.TrimSpace(stderr))
	}

	g.logger.Debug("Generation complete",
		logfields.Bytes(len(response)),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return response, nil
}

// MockGenerator returns a canned response without contacting any model.
// Used by dry runs.
type MockGenerator struct{}

// Generate implements Generator.
func (MockGenerator) Generate(_ context.Context, _ string) (string, error) {
	return "# Mock AI Response\n\n" +
		"This is a mock response for dry-run mode.\n\n" +
		"The actual response would contain a detailed explanation of the repository based on the user's question.", nil
}
