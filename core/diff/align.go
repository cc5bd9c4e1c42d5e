package diff

// SegmentTag classifies one region of an alignment.
type SegmentTag string

const (
	// SegEqual marks a run where both sequences match pairwise.
	SegEqual SegmentTag = "equal"
	// SegReplace marks a region present in both sequences with differing
	// content.
	SegReplace SegmentTag = "replace"
	// SegDelete marks a region present only in the current sequence.
	SegDelete SegmentTag = "delete"
	// SegInsert marks a region present only in the desired sequence.
	SegInsert SegmentTag = "insert"
)

// Segment describes one aligned region: current[I1:I2] vs desired[J1:J2].
// For SegDelete J1 == J2, for SegInsert I1 == I2.
type Segment struct {
	Tag SegmentTag
	I1  int
	I2  int
	J1  int
	J2  int
}

// Align computes an alignment of two sequences using a longest common
// subsequence over the given keys (fingerprints). The result is an ordered,
// gapless cover of both sequences, tolerant of inserts, deletes and reorders.
//
// Standard O(n*m) dynamic programming; sequence lengths are bounded by
// practical document sizes, so the quadratic table is acceptable.
func Align(current, desired []string) []Segment {
	n, m := len(current), len(desired)

	// lcs[i][j] = LCS length of current[i:] and desired[j:].
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if current[i] == desired[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var segments []Segment
	i, j := 0, 0
	for i < n || j < m {
		if i < n && j < m && current[i] == desired[j] {
			start1, start2 := i, j
			for i < n && j < m && current[i] == desired[j] {
				i++
				j++
			}
			segments = append(segments, Segment{SegEqual, start1, i, start2, j})
			continue
		}

		// Advance through the mismatched region until the next match point.
		start1, start2 := i, j
		for i < n || j < m {
			if i < n && j < m && current[i] == desired[j] {
				break
			}
			if i < n && (j >= m || lcs[i+1][j] >= lcs[i][j+1]) {
				i++
			} else {
				j++
			}
		}

		switch {
		case start1 < i && start2 < j:
			segments = append(segments, Segment{SegReplace, start1, i, start2, j})
		case start1 < i:
			segments = append(segments, Segment{SegDelete, start1, i, start2, j})
		case start2 < j:
			segments = append(segments, Segment{SegInsert, start1, i, start2, j})
		}
	}

	return segments
}
