// Package wintype classifies windows of interest via wildcard patterns.
package wintype

// WindowType is a classification rule for windows of interest. Patterns are
// case-insensitive glob expressions anchored at both ends; only `*` is a
// wildcard. An empty pattern or "*" matches anything.
type WindowType struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	TitlePattern string `json:"title_pattern"`
	ClassPattern string `json:"class_pattern"`
	Enabled      bool   `json:"enabled"`
}

// DefaultWindowTypes returns the built-in classification rules shipped on
// first run. Users edit these via the types store.
func DefaultWindowTypes() []WindowType {
	return []WindowType{
		{
			ID:           "pokerstars-table",
			Name:         "PokerStars Table",
			TitlePattern: "*no limit hold'em*",
			ClassPattern: "*pokerstars*",
			Enabled:      true,
		},
		{
			ID:           "pokerstars-tourney",
			Name:         "PokerStars Tournament Table",
			TitlePattern: "*tournament*table*",
			ClassPattern: "*pokerstars*",
			Enabled:      true,
		},
		{
			ID:           "ggpoker-table",
			Name:         "GGPoker Table",
			TitlePattern: "*hold'em*",
			ClassPattern: "*ggpoker*",
			Enabled:      true,
		},
	}
}
