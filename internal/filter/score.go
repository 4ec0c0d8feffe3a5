package filter

import (
	"path"
	"strings"
)

var sourceExtensions = map[string]struct{}{
	".go": {}, ".py": {}, ".js": {}, ".jsx": {}, ".ts": {}, ".tsx": {},
	".rb": {}, ".rs": {}, ".java": {}, ".c": {}, ".h": {}, ".cpp": {},
	".hpp": {}, ".cs": {}, ".php": {}, ".swift": {}, ".kt": {}, ".scala": {},
}

var configExtensions = map[string]struct{}{
	".yaml": {}, ".yml": {}, ".toml": {}, ".ini": {}, ".cfg": {}, ".conf": {},
}

var manifestNames = map[string]struct{}{
	"package.json": {}, "go.mod": {}, "cargo.toml": {}, "pyproject.toml": {},
	"setup.py": {}, "pom.xml": {}, "build.gradle": {}, "gemfile": {},
	"requirements.txt": {}, "composer.json": {},
}

var entryPointStems = map[string]struct{}{
	"main": {}, "app": {}, "server": {}, "index": {},
}

// Score assigns the importance score for a file path. The base score comes
// from the first matching rule of a fixed priority chain; the keyword bonus
// (+30 per keyword appearing in the path) stacks on top.
//
// The source-extension rule explicitly excludes test paths so that test files
// with recognized extensions fall through to the test-path rule instead of
// scoring as ordinary sources.
func Score(relPath string, keywords []string) int {
	lower := strings.ToLower(relPath)
	base := path.Base(lower)
	stem := strings.TrimSuffix(base, path.Ext(base))
	ext := path.Ext(base)
	isTestPath := strings.Contains(lower, "test") || strings.Contains(lower, "spec")

	score := 0
	switch {
	case strings.HasPrefix(base, "readme"):
		score = 100
	case strings.HasPrefix(base, "contributing") || strings.HasPrefix(base, "license") || strings.HasPrefix(base, "licence"):
		score = 90
	case strings.HasPrefix(lower, "docs/") || strings.Contains(lower, "/docs/"):
		score = 80
	case (ext == ".md" || ext == ".txt") && strings.Contains(base, "doc"):
		score = 75
	case isEntryPoint(stem, ext):
		score = 70
	case isManifest(base):
		score = 65
	case isSourceExt(ext) && !isTestPath:
		score = 60
	case isConfigExt(ext):
		score = 40
	case base == "dockerfile" || base == "makefile" || base == ".env.example":
		score = 45
	case isTestPath:
		score = 20
	case strings.Contains(lower, "example") || strings.Contains(lower, "demo"):
		score = 25
	}

	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			score += 30
		}
	}

	return score
}

func isEntryPoint(stem, ext string) bool {
	if _, ok := entryPointStems[stem]; !ok {
		return false
	}
	_, ok := sourceExtensions[ext]
	return ok
}

func isManifest(base string) bool {
	_, ok := manifestNames[base]
	return ok
}

func isSourceExt(ext string) bool {
	_, ok := sourceExtensions[ext]
	return ok
}

func isConfigExt(ext string) bool {
	_, ok := configExtensions[ext]
	return ok
}
