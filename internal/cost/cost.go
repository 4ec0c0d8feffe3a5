// Package cost estimates token usage and price for a generation request
// before anything is sent to the model.
package cost

import (
	"git.home.luguber.info/inful/repoexplain/internal/config"
)

// charsPerToken is the rough English-text ratio used for estimation.
const charsPerToken = 4

// Estimate summarizes the projected token usage and price of one request.
type Estimate struct {
	PromptTokens   int
	ResponseTokens int
	TotalTokens    int
	USD            float64
}

// Cents returns the estimated cost in US cents.
func (e Estimate) Cents() float64 {
	return e.USD * 100
}

// ForRequest estimates the cost of asking a question over extracted content
// with the given model's price-table entry. The response share is capped at
// 1000 tokens and otherwise scales at a tenth of the prompt.
func ForRequest(content, question string, price config.Price) Estimate {
	promptTokens := (len(content) + len(question)) / charsPerToken
	responseTokens := promptTokens / 10
	if responseTokens > 1000 {
		responseTokens = 1000
	}

	usd := float64(promptTokens)*price.InputPer1K/1000 +
		float64(responseTokens)*price.OutputPer1K/1000

	return Estimate{
		PromptTokens:   promptTokens,
		ResponseTokens: responseTokens,
		TotalTokens:    promptTokens + responseTokens,
		USD:            usd,
	}
}
