package classify

import (
	"math"
	"math/rand"
	"sort"

	"glyph-ocr/internal/dataset"
)

// DuplicateSingletons returns rows with every row whose label occurs exactly
// once repeated, so every label has at least two rows. The copy is appended
// right after the original.
func DuplicateSingletons(rows []dataset.Row) []dataset.Row {
	counts := labelCounts(rows)
	out := make([]dataset.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, r)
		if counts[r.Label] == 1 {
			out = append(out, r)
		}
	}
	return out
}

func labelCounts(rows []dataset.Row) map[string]int {
	counts := make(map[string]int)
	for _, r := range rows {
		counts[r.Label]++
	}
	return counts
}

// testCount is the number of a label's c rows that go to the test split.
// Every label keeps at least one row on each side when c >= 2.
func testCount(c int, fraction float64) int {
	if c < 2 {
		return 0
	}
	t := int(math.Round(float64(c) * fraction))
	return min(max(t, 1), c-1)
}

// StratifiedSplit shuffles each label's rows with rng and sends
// round(count*testFraction) of them to the test split. Labels are processed
// in sorted order so the result depends only on rows and rng.
func StratifiedSplit(rows []dataset.Row, testFraction float64, rng *rand.Rand) (train, test []dataset.Row) {
	byLabel := make(map[string][]int)
	for i, r := range rows {
		byLabel[r.Label] = append(byLabel[r.Label], i)
	}
	labels := make([]string, 0, len(byLabel))
	for l := range byLabel {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	for _, l := range labels {
		idx := byLabel[l]
		rng.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })
		t := testCount(len(idx), testFraction)
		for j, i := range idx {
			if j < t {
				test = append(test, rows[i])
			} else {
				train = append(train, rows[i])
			}
		}
	}
	return train, test
}
