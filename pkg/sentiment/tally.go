package sentiment

// Tally counts posts per label and keeps one example of each: the post with
// the strongest score for that label (for neutral, the first one seen).
// Ties keep the earlier post.
type Tally struct {
	Counts   map[Label]int        `json:"counts"`
	Examples map[Label]ScoredPost `json:"examples"`
	Total    int                  `json:"total"`
}

// NewTally aggregates scored posts.
func NewTally(posts []ScoredPost) Tally {
	t := Tally{
		Counts:   make(map[Label]int, len(Labels)),
		Examples: make(map[Label]ScoredPost, len(Labels)),
	}
	for _, l := range Labels {
		t.Counts[l] = 0
	}

	for _, p := range posts {
		t.Counts[p.Label]++
		t.Total++

		current, ok := t.Examples[p.Label]
		if !ok || magnitude(p.Score) > magnitude(current.Score) {
			t.Examples[p.Label] = p
		}
	}
	return t
}

func magnitude(score int) int {
	if score < 0 {
		return -score
	}
	return score
}
