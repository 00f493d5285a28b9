package poi

// DefaultMergeCap bounds the merged candidate list to keep downstream
// routing and scoring costs predictable.
const DefaultMergeCap = 80

// Merge combines the primary (parks and paths) and pet-friendly source
// lists, dropping duplicates by (name, rounded coordinates). First
// occurrence wins; the result never exceeds cap. Merge is idempotent:
// merging a merged list with itself returns the same list.
func Merge(primary, petFriendly []Candidate, cap int) []Candidate {
	if cap <= 0 {
		cap = DefaultMergeCap
	}

	seen := make(map[string]struct{}, len(primary)+len(petFriendly))
	out := make([]Candidate, 0, min(cap, len(primary)+len(petFriendly)))

	for _, list := range [][]Candidate{primary, petFriendly} {
		for _, c := range list {
			if len(out) >= cap {
				return out
			}
			key := c.dedupKey()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, c)
		}
	}

	return out
}
