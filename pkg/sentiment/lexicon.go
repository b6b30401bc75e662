package sentiment

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

//go:embed lexicon_default.tsv
var defaultLexicon string

// ErrEmptyLexicon is returned when a lexicon source holds no usable entries.
var ErrEmptyLexicon = errors.New("lexicon has no entries")

// Lexicon maps a lowercase token to its integer valence. It is loaded once
// and only read afterwards.
type Lexicon map[string]int

// LexiconStats describes what LoadLexicon kept and skipped.
type LexiconStats struct {
	Entries       int `json:"entries"`
	SkippedPhrase int `json:"skipped_phrase"`
	Duplicates    int `json:"duplicates"`
}

// LoadLexicon parses AFINN-style lines: a token, a tab (or other
// whitespace), and an integer valence. Blank lines and lines starting with
// '#' are ignored. Multi-word phrases are skipped because scoring is per
// token. A later duplicate overrides an earlier one.
func LoadLexicon(r io.Reader) (Lexicon, LexiconStats, error) {
	lex := make(Lexicon)
	var stats LexiconStats

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, stats, fmt.Errorf("lexicon line %d: expected token and score, got %q", lineNo, line)
		}

		score, err := strconv.Atoi(fields[len(fields)-1])
		if err != nil {
			return nil, stats, fmt.Errorf("lexicon line %d: invalid score %q: %w", lineNo, fields[len(fields)-1], err)
		}

		if len(fields) > 2 {
			stats.SkippedPhrase++
			continue
		}

		token := strings.ToLower(fields[0])
		if _, dup := lex[token]; dup {
			stats.Duplicates++
		}
		lex[token] = score
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("read lexicon: %w", err)
	}

	if len(lex) == 0 {
		return nil, stats, ErrEmptyLexicon
	}
	stats.Entries = len(lex)
	return lex, stats, nil
}

// LoadLexiconFile loads path, or the embedded default lexicon when path is
// empty.
func LoadLexiconFile(path string) (Lexicon, LexiconStats, error) {
	if path == "" {
		return LoadLexicon(strings.NewReader(defaultLexicon))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, LexiconStats{}, fmt.Errorf("open lexicon: %w", err)
	}
	defer f.Close()

	return LoadLexicon(f)
}
