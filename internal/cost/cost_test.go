package cost

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"git.home.luguber.info/inful/repoexplain/internal/config"
)

var gpt4o = config.Price{InputPer1K: 0.005, OutputPer1K: 0.015}

func TestForRequestBasicRatios(t *testing.T) {
	content := strings.Repeat("a", 4000)
	est := ForRequest(content, "", gpt4o)

	assert.Equal(t, 1000, est.PromptTokens)
	assert.Equal(t, 100, est.ResponseTokens)
	assert.Equal(t, 1100, est.TotalTokens)
	assert.InDelta(t, 0.005+0.0015, est.USD, 1e-9)
}

func TestForRequestResponseCap(t *testing.T) {
	content := strings.Repeat("a", 400_000) // 100k prompt tokens
	est := ForRequest(content, "", gpt4o)

	assert.Equal(t, 100_000, est.PromptTokens)
	assert.Equal(t, 1000, est.ResponseTokens)
}

func TestForRequestQuestionCounts(t *testing.T) {
	base := ForRequest(strings.Repeat("a", 400), "", gpt4o)
	withQ := ForRequest(strings.Repeat("a", 400), strings.Repeat("q", 400), gpt4o)
	assert.Greater(t, withQ.PromptTokens, base.PromptTokens)
}

func TestForRequestMonotonicInContent(t *testing.T) {
	small := ForRequest(strings.Repeat("a", 1000), "q", gpt4o)
	large := ForRequest(strings.Repeat("a", 100_000), "q", gpt4o)
	assert.Greater(t, large.USD, small.USD)
	assert.Greater(t, large.PromptTokens, small.PromptTokens)
}

func TestForRequestDeterministic(t *testing.T) {
	a := ForRequest("same content", "same question", gpt4o)
	b := ForRequest("same content", "same question", gpt4o)
	assert.Equal(t, a, b)
}

func TestCents(t *testing.T) {
	est := Estimate{USD: 0.07}
	assert.InDelta(t, 7.0, est.Cents(), 1e-9)
}

func TestEmptyInputsCostNothing(t *testing.T) {
	est := ForRequest("", "", gpt4o)
	assert.Zero(t, est.PromptTokens)
	assert.Zero(t, est.ResponseTokens)
	assert.Zero(t, est.USD)
}
