package ordering

// Placement is the rank assigned to one identifier
type Placement struct {
	ID   string
	Rank int
}

// Assign maps a top-to-bottom display order onto ranks. The item at display
// index i of n items receives rank n-1-i, so retrieving by descending rank
// reproduces ids. An empty input yields no placements.
func Assign(ids []string) []Placement {
	n := len(ids)
	placements := make([]Placement, n)
	for i, id := range ids {
		placements[i] = Placement{ID: id, Rank: n - 1 - i}
	}
	return placements
}

// Ranks returns Assign's result as a map
func Ranks(ids []string) map[string]int {
	ranks := make(map[string]int, len(ids))
	for _, p := range Assign(ids) {
		ranks[p.ID] = p.Rank
	}
	return ranks
}
