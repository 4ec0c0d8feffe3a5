package filter

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Plan is the per-question filtering contract consumed by extraction.
// Built fresh for every question+repository pair and never mutated after.
type Plan struct {
	Include       []string
	Exclude       []string
	MaxFileBytes  int64
	MaxTotalBytes int64

	// Keywords extracted from the question, used for importance scoring.
	Keywords []string

	// Topical is true when the question triggered topic-specific include
	// patterns; extraction then prioritizes matching files.
	Topical bool
}

// baseIncludes are always part of a plan.
var baseIncludes = []string{
	"README*", "readme*",
	"CONTRIBUTING*", "LICENSE*", "LICENCE*",
}

// languageIncludes maps a repository's primary language to its ecosystem
// manifest and entry-point globs.
var languageIncludes = map[string][]string{
	"go":         {"go.mod", "go.sum", "main.go", "cmd/**/*.go"},
	"python":     {"setup.py", "pyproject.toml", "requirements*.txt", "setup.cfg", "**/__init__.py"},
	"javascript": {"package.json", "index.js", "src/index.js", "webpack.config.js"},
	"typescript": {"package.json", "tsconfig.json", "index.ts", "src/index.ts"},
	"rust":       {"Cargo.toml", "src/main.rs", "src/lib.rs"},
	"java":       {"pom.xml", "build.gradle", "settings.gradle"},
	"ruby":       {"Gemfile", "*.gemspec", "Rakefile"},
}

// topicTriggers maps question trigger terms to extra include globs.
var topicTriggers = []struct {
	terms    []string
	patterns []string
}{
	{
		terms: []string{"api", "rest", "endpoint", "route"},
		patterns: []string{
			"**/api/**", "**/routes/**", "**/handlers/**", "**/controllers/**",
			"docs/api*", "docs/API*",
		},
	},
	{
		terms:    []string{"example", "tutorial", "demo", "usage"},
		patterns: []string{"examples/**", "example/**", "tutorials/**", "demo/**"},
	},
	{
		terms: []string{"setup", "install", "config", "docker", "deploy"},
		patterns: []string{
			"Dockerfile", "docker-compose*", "Makefile",
			"*.toml", "*.ini", "*.cfg", ".env.example",
		},
	},
}

// fixedExcludes is the non-parameterized exclusion set: dependency and build
// directories, VCS/editor state, logs, binaries, media, and large
// structured-data files that would drown the prompt.
var fixedExcludes = []string{
	// Dependency and build output
	"node_modules/**", "vendor/**", "dist/**", "build/**", "target/**",
	"__pycache__/**", "*.pyc", ".gradle/**", ".next/**", ".nuxt/**",
	// Version control and editors
	".git/**", ".svn/**", ".hg/**", ".idea/**", ".vscode/**",
	// Logs and temp
	"*.log", "logs/**", "tmp/**", "*.tmp", "*.swp",
	// Binary and media
	"*.png", "*.jpg", "*.jpeg", "*.gif", "*.svg", "*.ico", "*.pdf",
	"*.zip", "*.tar", "*.gz", "*.exe", "*.dll", "*.so", "*.dylib",
	"*.mp4", "*.webm", "*.woff", "*.woff2", "*.ttf",
	// Large structured data
	"*.csv", "*.json", "*.xml", "*.sql", "*.db", "*.sqlite",
	// Lock files and package-manager caches
	"package-lock.json", "yarn.lock", "pnpm-lock.yaml", "Cargo.lock",
	".yarn/**", ".pnpm-store/**", ".cache/**",
	// Coverage reports
	"coverage/**", "htmlcov/**", ".coverage", ".pytest_cache/**",
}

// BuildPlan derives a fresh filter plan for a question against a repository
// with the given primary language ("" when unknown) and size ceilings.
func BuildPlan(question, language string, maxFileBytes, maxTotalBytes int64) *Plan {
	plan := &Plan{
		MaxFileBytes:  maxFileBytes,
		MaxTotalBytes: maxTotalBytes,
		Keywords:      ExtractKeywords(question),
	}

	plan.Include = append(plan.Include, baseIncludes...)

	if globs, ok := languageIncludes[strings.ToLower(language)]; ok {
		plan.Include = append(plan.Include, globs...)
	}

	lower := strings.ToLower(question)
	for _, trigger := range topicTriggers {
		for _, term := range trigger.terms {
			if strings.Contains(lower, term) {
				plan.Include = append(plan.Include, trigger.patterns...)
				plan.Topical = true
				break
			}
		}
	}

	plan.Exclude = append(plan.Exclude, fixedExcludes...)

	return plan
}

// Excluded reports whether a slash-separated relative path matches any
// exclude pattern.
func (p *Plan) Excluded(relPath string) bool {
	return matchAny(p.Exclude, relPath)
}

// Included reports whether a slash-separated relative path matches any
// include pattern.
func (p *Plan) Included(relPath string) bool {
	return matchAny(p.Include, relPath)
}

func matchAny(patterns []string, relPath string) bool {
	base := relPath
	if idx := strings.LastIndex(relPath, "/"); idx >= 0 {
		base = relPath[idx+1:]
	}
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, relPath); err == nil && ok {
			return true
		}
		// Bare-name patterns (no slash) match against any path's base name.
		if !strings.Contains(pattern, "/") {
			if ok, err := doublestar.Match(pattern, base); err == nil && ok {
				return true
			}
		}
	}
	return false
}
