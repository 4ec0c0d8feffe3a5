package ui

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"git.home.luguber.info/inful/repoexplain/internal/github"
	"git.home.luguber.info/inful/repoexplain/internal/resolve"
)

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(title, question string) (bool, error)
}

// HuhConfirmer prompts in the terminal.
type HuhConfirmer struct{}

// Confirm implements Confirmer. An interrupted prompt returns the error.
func (HuhConfirmer) Confirm(title, question string) (bool, error) {
	var ok bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Description(question).
			Affirmative("Yes").
			Negative("No").
			Value(&ok),
	))
	if err := form.Run(); err != nil {
		return false, err
	}
	return ok, nil
}

// HuhSelector prompts the user to choose among search results. Implements
// the resolver's Selector contract.
type HuhSelector struct{}

// Select returns the zero-based index of the chosen result.
func (HuhSelector) Select(results []github.SearchResult) (int, error) {
	options := make([]huh.Option[int], 0, len(results))
	for i, r := range results {
		desc := r.Description
		if len(desc) > 50 {
			desc = desc[:47] + "..."
		}
		label := fmt.Sprintf("%s (%d stars)", r.FullName(), r.Stars)
		if desc != "" {
			label += " - " + desc
		}
		options = append(options, huh.NewOption(label, i))
	}

	var choice int
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[int]().
			Title("Select a repository").
			Options(options...).
			Value(&choice),
	))
	if err := form.Run(); err != nil {
		return 0, err
	}
	return choice, nil
}

// TableSelector prints the numbered result table before handing the choice
// to the wrapped selector.
type TableSelector struct {
	Console *Console
	Inner   resolve.Selector
}

// Select implements the resolver's Selector contract.
func (s TableSelector) Select(results []github.SearchResult) (int, error) {
	if s.Console != nil {
		s.Console.SearchResults(results)
	}
	return s.Inner.Select(results)
}

// AutoConfirmer answers every question with a fixed response, for tests.
type AutoConfirmer struct {
	Answer bool
}

// Confirm implements Confirmer.
func (a AutoConfirmer) Confirm(string, string) (bool, error) {
	return a.Answer, nil
}
