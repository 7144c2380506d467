package kuwahara

// SelectQuadrant returns the index of the smallest deviation. Ties go to the
// lowest index.
func SelectQuadrant(stddevs [NumQuadrants]float64) int {
	best := 0
	for i := 1; i < NumQuadrants; i++ {
		if stddevs[i] < stddevs[best] {
			best = i
		}
	}
	return best
}

// selectNonEmpty is SelectQuadrant restricted to bins with samples. It
// reports false when every bin is empty.
func selectNonEmpty(st *[NumQuadrants]QuadrantStats) (int, bool) {
	best := -1
	for i := range st {
		if st[i].Count == 0 {
			continue
		}
		if best < 0 || st[i].StdDev < st[best].StdDev {
			best = i
		}
	}
	return best, best >= 0
}
