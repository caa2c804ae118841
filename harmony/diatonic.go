package harmony

import (
	"sort"
)

// NearestDiatonic returns the pitch in scale with the smallest absolute
// distance to pitch. The scale must be sorted ascending and deduplicated.
// When the neighbors below and above are equidistant the lower one wins.
// An empty scale returns the pitch unchanged.
func NearestDiatonic(pitch int, scale []int) int {
	if len(scale) == 0 {
		return pitch
	}

	// Insertion point: scale[i-1] < pitch <= scale[i]
	i := sort.SearchInts(scale, pitch)

	best := pitch
	bestDist := -1
	for _, j := range [2]int{i - 1, i} {
		if j < 0 || j >= len(scale) {
			continue
		}
		d := scale[j] - pitch
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist {
			best = scale[j]
			bestDist = d
		}
	}

	return best
}
