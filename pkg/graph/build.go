package graph

import (
	"cmp"
	"slices"

	"github.com/dd0wney/cluso-social/pkg/dataset"
)

// BuildOptions controls how the follow graph is derived from collected users.
type BuildOptions struct {
	// MinCommon keeps a non-collected account only when more than MinCommon
	// collected users follow it. 0 keeps every followed account.
	MinCommon int
	// MinDegree prunes non-collected accounts whose degree is below it.
	// Collected users are never pruned. 0 disables pruning.
	MinDegree int
}

// Build creates the undirected follow graph. Every collected user is a node;
// follows between collected users become edges directly, and follows of
// other accounts are kept subject to opts.
func Build(users []dataset.User, opts BuildOptions) *Graph {
	g := New()
	counts := CountFriends(users)

	collected := make(map[string]struct{}, len(users))
	for _, u := range users {
		collected[u.ID] = struct{}{}
		g.AddNode(u.ID)
	}

	for _, u := range users {
		for _, f := range u.FriendIDs {
			if _, ok := collected[f]; ok || counts[f] > opts.MinCommon {
				g.AddEdge(u.ID, f)
			}
		}
	}

	if opts.MinDegree <= 0 {
		return g
	}

	return g.Subgraph(func(id string) bool {
		if _, ok := collected[id]; ok {
			return true
		}
		return g.Degree(id) >= opts.MinDegree
	})
}

// CountFriends returns, for every followed account, how many collected users
// follow it. Repeated ids in one friend list count once.
func CountFriends(users []dataset.User) map[string]int {
	counts := make(map[string]int)
	for _, u := range users {
		seen := make(map[string]struct{}, len(u.FriendIDs))
		for _, f := range u.FriendIDs {
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			counts[f]++
		}
	}
	return counts
}

// FriendCount pairs an account with the number of collected users following it.
type FriendCount struct {
	ID    string
	Count int
}

// MostCommon returns the n most followed accounts, count desc then id asc.
// n <= 0 returns all of them.
func MostCommon(counts map[string]int, n int) []FriendCount {
	out := make([]FriendCount, 0, len(counts))
	for id, c := range counts {
		out = append(out, FriendCount{ID: id, Count: c})
	}
	slices.SortFunc(out, func(a, b FriendCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// Overlap is the number of accounts two collected users both follow.
type Overlap struct {
	A, B   string
	Shared int
}

// FriendOverlap computes Overlap for every pair of collected users, keyed by
// screen name, sorted by Shared desc then A, then B.
func FriendOverlap(users []dataset.User) []Overlap {
	sets := make([]map[string]struct{}, len(users))
	for i, u := range users {
		sets[i] = make(map[string]struct{}, len(u.FriendIDs))
		for _, f := range u.FriendIDs {
			sets[i][f] = struct{}{}
		}
	}

	out := make([]Overlap, 0, len(users)*(len(users)-1)/2)
	for i := 0; i < len(users); i++ {
		for j := i + 1; j < len(users); j++ {
			shared := 0
			for f := range sets[i] {
				if _, ok := sets[j][f]; ok {
					shared++
				}
			}
			a, b := users[i].ScreenName, users[j].ScreenName
			if b < a {
				a, b = b, a
			}
			out = append(out, Overlap{A: a, B: b, Shared: shared})
		}
	}

	slices.SortFunc(out, func(x, y Overlap) int {
		if c := cmp.Compare(y.Shared, x.Shared); c != 0 {
			return c
		}
		if c := cmp.Compare(x.A, y.A); c != 0 {
			return c
		}
		return cmp.Compare(x.B, y.B)
	})
	return out
}
