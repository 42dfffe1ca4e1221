package reader

// CharAccuracy compares predicted and true text character by character
// after removing spaces and line breaks. Positions beyond the shorter text
// count as misses; the score is matches over the true length.
func CharAccuracy(predicted, truth string) float64 {
	p, t := stripLayout(predicted), stripLayout(truth)
	if len(t) == 0 {
		return 0
	}
	match := 0
	for i := 0; i < min(len(p), len(t)); i++ {
		if p[i] == t[i] {
			match++
		}
	}
	return float64(match) / float64(len(t))
}

func stripLayout(s string) []rune {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == ' ' || r == '\n' || r == '\r' {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Mismatches lists the positions (after stripping layout) where the texts
// disagree, up to the shorter length.
func Mismatches(predicted, truth string) []int {
	p, t := stripLayout(predicted), stripLayout(truth)
	var out []int
	for i := 0; i < min(len(p), len(t)); i++ {
		if p[i] != t[i] {
			out = append(out, i)
		}
	}
	return out
}
