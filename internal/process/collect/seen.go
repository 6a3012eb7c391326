package collect

// SeenSet tracks video ids already attributed to a query within one run.
// The first query that returns an id owns it.
type SeenSet struct {
	ids map[string]struct{}
}

// NewSeenSet creates an empty set.
func NewSeenSet() *SeenSet {
	return &SeenSet{ids: make(map[string]struct{})}
}

// Claim returns the ids not seen before, in input order, and marks them seen.
// Empty ids and repeats within the input are dropped.
func (s *SeenSet) Claim(ids []string) (fresh []string, skipped int) {
	fresh = make([]string, 0, len(ids))

	for _, id := range ids {
		if id == "" {
			continue
		}

		if _, ok := s.ids[id]; ok {
			skipped++
			continue
		}

		s.ids[id] = struct{}{}
		fresh = append(fresh, id)
	}

	return fresh, skipped
}

// Len returns the number of claimed ids.
func (s *SeenSet) Len() int {
	return len(s.ids)
}
