package domain

// MoveToken returns a copy of tokens with the token at index from moved to
// index to. Indices are clamped to the valid range; an unknown from leaves
// the order unchanged.
func MoveToken(tokens []string, from, to int) []string {
	out := make([]string, len(tokens))
	copy(out, tokens)
	if from < 0 || from >= len(out) {
		return out
	}
	if to < 0 {
		to = 0
	}
	if to >= len(out) {
		to = len(out) - 1
	}
	if from == to {
		return out
	}

	tok := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = tok
	return out
}
