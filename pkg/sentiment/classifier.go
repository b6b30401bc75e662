// Package sentiment scores posts by summing per-token valences from a
// static lexicon and labelling them by the sign of the sum.
package sentiment

import (
	"strings"
	"unicode"

	"github.com/dd0wney/cluso-social/pkg/dataset"
)

// Kind is the artifact kind under which classified posts are stored.
const Kind = "sentiment"

// Label is the discrete sentiment of a post.
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

// Labels lists every label in report order.
var Labels = []Label{Positive, Negative, Neutral}

// LabelFor maps a score to its label by sign.
func LabelFor(score int) Label {
	switch {
	case score > 0:
		return Positive
	case score < 0:
		return Negative
	default:
		return Neutral
	}
}

// ScoredPost is a post with its lexicon score.
type ScoredPost struct {
	PostID   string `json:"post_id"`
	AuthorID string `json:"author_id"`
	Text     string `json:"text"`
	Score    int    `json:"score"`
	Label    Label  `json:"label"`
	Hits     int    `json:"hits"` // tokens found in the lexicon
}

// Tokenize lowercases text and splits it on every rune that is not a
// letter, digit or apostrophe. Apostrophes at either end of a token are
// trimmed, so quoted words match their bare form.
func Tokenize(text string) []string {
	raw := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})

	tokens := raw[:0]
	for _, tok := range raw {
		tok = strings.Trim(tok, "'")
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// Score sums the valence of every token of text found in lex and reports
// how many tokens hit.
func Score(text string, lex Lexicon) (score, hits int) {
	for _, tok := range Tokenize(text) {
		if v, ok := lex[tok]; ok {
			score += v
			hits++
		}
	}
	return score, hits
}

// Classify scores one post. It has no side effects; the same post and
// lexicon always give the same result.
func Classify(post dataset.Post, lex Lexicon) ScoredPost {
	score, hits := Score(post.Text, lex)
	return ScoredPost{
		PostID:   post.ID,
		AuthorID: post.AuthorID,
		Text:     post.Text,
		Score:    score,
		Label:    LabelFor(score),
		Hits:     hits,
	}
}

// ClassifyAll scores posts in order.
func ClassifyAll(posts []dataset.Post, lex Lexicon) []ScoredPost {
	out := make([]ScoredPost, 0, len(posts))
	for _, p := range posts {
		out = append(out, Classify(p, lex))
	}
	return out
}
