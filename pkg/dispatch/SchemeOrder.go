package dispatch

// orderSchemes returns the distinct schemes present in forms, sorted by
// their position in priority (schemes not present in priority sort after
// every prioritized scheme, in the order they were first discovered).
func orderSchemes(forms []AugmentedForm, priority []string) []string {
	rank := make(map[string]int, len(priority))
	for i, s := range priority {
		rank[s] = i
	}

	var schemes []string
	seen := make(map[string]bool)
	for _, f := range forms {
		if f.HrefScheme == "" || seen[f.HrefScheme] {
			continue
		}
		seen[f.HrefScheme] = true
		schemes = append(schemes, f.HrefScheme)
	}

	unranked := len(priority)
	indexOf := func(s string) int {
		if r, ok := rank[s]; ok {
			return r
		}
		return unranked + 1
	}
	// Stable insertion sort keeps original discovery order among
	// equally (un)ranked schemes, matching "original discovery order"
	// for schemes absent from the priority list.
	for i := 1; i < len(schemes); i++ {
		for j := i; j > 0 && indexOf(schemes[j]) < indexOf(schemes[j-1]); j-- {
			schemes[j], schemes[j-1] = schemes[j-1], schemes[j]
		}
	}
	return schemes
}
