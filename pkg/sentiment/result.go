package sentiment

import "github.com/dd0wney/cluso-social/pkg/dataset"

// Result is what the classifier stage stores.
type Result struct {
	LexiconSource string       `json:"lexicon_source"`
	Lexicon       LexiconStats `json:"lexicon"`
	Posts         []ScoredPost `json:"posts"`
	Tally         Tally        `json:"tally"`
}

// NewResult classifies posts against lex.
func NewResult(posts []dataset.Post, lex Lexicon, source string, stats LexiconStats) *Result {
	scored := ClassifyAll(posts, lex)
	return &Result{
		LexiconSource: source,
		Lexicon:       stats,
		Posts:         scored,
		Tally:         NewTally(scored),
	}
}
