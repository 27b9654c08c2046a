package checks

import "github.com/agnivade/levenshtein"

// Ratio is a normalized similarity in [0, 1] based on Levenshtein distance
// over runes.
func Ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 1
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}

// PartialRatio slides the shorter string over the longer and returns the best
// window similarity. A target that embeds the source verbatim scores 1.0 even
// when extra text surrounds it.
func PartialRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	short, long := ra, rb
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}
	if len(short) == len(long) {
		return Ratio(string(short), string(long))
	}
	best := 0.0
	shortStr := string(short)
	for i := 0; i+len(short) <= len(long); i++ {
		if r := Ratio(shortStr, string(long[i:i+len(short)])); r > best {
			best = r
			if best == 1 {
				break
			}
		}
	}
	return best
}
