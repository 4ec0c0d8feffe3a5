package filter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractKeywords(t *testing.T) {
	keywords := ExtractKeywords("How do I set up authentication with the REST API?")

	assert.Contains(t, keywords, "authentication")
	assert.Contains(t, keywords, "api")
	assert.Contains(t, keywords, "rest")
	// "auth" is a technical-vocabulary substring hit inside "authentication".
	assert.Contains(t, keywords, "auth")

	assert.NotContains(t, keywords, "how")
	assert.NotContains(t, keywords, "do")
	assert.NotContains(t, keywords, "with")
	assert.NotContains(t, keywords, "the")
}

func TestExtractKeywordsDiscardsShortTokens(t *testing.T) {
	keywords := ExtractKeywords("is it a db or an io op")
	for _, kw := range keywords {
		assert.Greater(t, len(kw), 2, "token %q too short", kw)
	}
}

func TestExtractKeywordsDeterministic(t *testing.T) {
	a := ExtractKeywords("docker deploy config questions")
	b := ExtractKeywords("docker deploy config questions")
	assert.Equal(t, a, b)
}

func TestBuildPlanBaseIncludes(t *testing.T) {
	plan := BuildPlan("what does this do?", "", 1<<20, 50<<20)

	assert.True(t, plan.Included("README.md"))
	assert.True(t, plan.Included("CONTRIBUTING.md"))
	assert.True(t, plan.Included("LICENSE"))
	assert.False(t, plan.Topical)
	assert.Equal(t, int64(1<<20), plan.MaxFileBytes)
	assert.Equal(t, int64(50<<20), plan.MaxTotalBytes)
}

func TestBuildPlanLanguageIncludes(t *testing.T) {
	plan := BuildPlan("what does this do?", "Go", 1<<20, 50<<20)
	assert.True(t, plan.Included("go.mod"))
	assert.True(t, plan.Included("cmd/server/main.go"))

	jsPlan := BuildPlan("what does this do?", "JavaScript", 1<<20, 50<<20)
	assert.True(t, jsPlan.Included("package.json"))
}

func TestBuildPlanTopicTriggers(t *testing.T) {
	plan := BuildPlan("how do I call the REST API?", "", 1<<20, 50<<20)
	assert.True(t, plan.Topical)
	assert.True(t, plan.Included("src/api/users.go"))
	assert.True(t, plan.Included("app/routes/index.js"))

	setupPlan := BuildPlan("how do I install and deploy this with docker?", "", 1<<20, 50<<20)
	assert.True(t, setupPlan.Included("Dockerfile"))
	assert.True(t, setupPlan.Included("docker-compose.yml"))
}

func TestBuildPlanFreshSlices(t *testing.T) {
	first := BuildPlan("api question", "Go", 1<<20, 50<<20)
	second := BuildPlan("plain question", "", 1<<20, 50<<20)

	assert.NotEqual(t, len(first.Include), len(second.Include))
	// Mutating one plan must not leak into subsequently built plans.
	first.Include[0] = "mutated"
	third := BuildPlan("plain question", "", 1<<20, 50<<20)
	assert.Equal(t, second.Include, third.Include)
}

func TestExcludePatterns(t *testing.T) {
	plan := BuildPlan("anything", "", 1<<20, 50<<20)

	excluded := []string{
		"node_modules/react/index.js",
		"vendor/github.com/pkg/errors/errors.go",
		".git/HEAD",
		"dist/bundle.js",
		"__pycache__/mod.pyc",
		"assets/logo.png",
		"data/dump.sql",
		"records.csv",
		"package-lock.json",
		"coverage/index.html",
		"app.log",
	}
	for _, path := range excluded {
		assert.True(t, plan.Excluded(path), "expected %s to be excluded", path)
	}

	kept := []string{
		"README.md",
		"src/main.py",
		"internal/server/handler.go",
		"go.mod",
	}
	for _, path := range kept {
		assert.False(t, plan.Excluded(path), "expected %s to be kept", path)
	}
}

func TestScorePriorityChain(t *testing.T) {
	none := []string(nil)
	tests := []struct {
		path  string
		score int
	}{
		{"README.md", 100},
		{"readme.rst", 100},
		{"CONTRIBUTING.md", 90},
		{"LICENSE", 90},
		{"docs/guide.md", 80},
		{"architecture-docs.md", 75},
		{"src/main.py", 70}, // entry-point rule fires before source rule
		{"src/handler.py", 60},
		{"package.json", 65},
		{"go.mod", 65},
		{"app/settings.yaml", 40},
		{"Dockerfile", 45},
		{"Makefile", 45},
		{".env.example", 45},
		{"examples/basic/run.sh", 25},
		{"assets/logo.bin", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.score, Score(tt.path, none), "path %s", tt.path)
	}
}

func TestScoreTestPathBeatsSourceExtension(t *testing.T) {
	// A test file with a recognized source extension must fall through to the
	// test-path rule, not score as an ordinary source file.
	assert.Equal(t, 20, Score("tests/test_foo.py", nil))
	assert.Equal(t, 20, Score("internal/server/handler_test.go", nil))
	assert.Equal(t, 20, Score("spec/models/user_spec.rb", nil))

	// And the plain source file keeps its 60.
	assert.Equal(t, 60, Score("internal/server/handler.go", nil))
}

func TestScoreKeywordBonusStacks(t *testing.T) {
	keywords := []string{"auth", "api"}

	// Base 60 + one keyword.
	assert.Equal(t, 90, Score("src/auth.go", keywords))
	// Base 60 + both keywords.
	assert.Equal(t, 120, Score("src/api/auth.go", keywords))
	// Bonus applies on top of every base rule, including zero.
	assert.Equal(t, 30, Score("auth.dat", keywords))
}

func TestTruncateWithinBudgetPassesThrough(t *testing.T) {
	content := strings.Repeat("a", 1000)
	out, applied := TruncateToBudget(content, 2000)
	assert.False(t, applied)
	assert.Equal(t, content, out)
}

func TestTruncateOverBudget(t *testing.T) {
	budget := int64(1 << 20)
	content := strings.Repeat("x", 2<<20) // 2 MB

	out, applied := TruncateToBudget(content, budget)
	require.True(t, applied)
	assert.Contains(t, out, "[CONTENT TRUNCATED")
	assert.Less(t, len(out), len(content), "output must be strictly shorter than input")

	marker := strings.Index(out, "\n\n[CONTENT TRUNCATED")
	require.Positive(t, marker)
	assert.LessOrEqual(t, marker, int(float64(budget)*0.8), "kept content must fit 80%% of budget")
}
