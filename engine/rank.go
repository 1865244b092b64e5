package engine

import "sort"

// Rank orders feasible candidates by descending score and returns the top k.
// The sort is stable and the input is chronological, so ties resolve to the
// earliest slot. No minimum spacing between selected slots is enforced;
// near-identical back-to-back slots may all rank.
func Rank(feasible []Candidate, k int) []Candidate {
	sort.SliceStable(feasible, func(i, j int) bool {
		return feasible[i].Score() > feasible[j].Score()
	})
	if len(feasible) > k {
		feasible = feasible[:k]
	}
	return feasible
}
