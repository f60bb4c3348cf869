package domain

// CognitiveFlag is a derived review signal attached to an idea.
type CognitiveFlag string

// Flags emitted by the consistency analyzer.
const (
	// FlagIsolated marks an idea with no relations in either direction.
	FlagIsolated CognitiveFlag = "ISOLATED"

	// FlagNoEvidence marks a claim that nothing supports.
	FlagNoEvidence CognitiveFlag = "NO_EVIDENCE"

	// FlagUnresolvedContradiction marks an idea involved in a contradiction
	// with no supporting relation pointing at it.
	FlagUnresolvedContradiction CognitiveFlag = "UNRESOLVED_CONTRADICTION"
)

// Flags known to the priority table but never emitted by the analyzer.
const (
	FlagContradiction    CognitiveFlag = "CONTRADICTION"
	FlagUnsupportedClaim CognitiveFlag = "UNSUPPORTED_CLAIM"
	FlagLowConfidence    CognitiveFlag = "LOW_CONFIDENCE"
)

// UnrankedPriority is the rank of a flag absent from the priority table.
const UnrankedPriority = 99

// Rank returns the study priority of the flag; lower is more urgent.
//
// ISOLATED and NO_EVIDENCE are not in the priority table and rank as
// UnrankedPriority alongside unknown values.
func (f CognitiveFlag) Rank() int {
	switch f {
	case FlagContradiction:
		return 1
	case FlagUnresolvedContradiction:
		return 2
	case FlagUnsupportedClaim:
		return 3
	case FlagLowConfidence:
		return 4
	case FlagIsolated, FlagNoEvidence:
		// emitted by Analyze but absent from the priority table
		return UnrankedPriority
	default:
		return UnrankedPriority
	}
}

// String returns the string representation.
func (f CognitiveFlag) String() string {
	return string(f)
}

// StudyItem is one entry of the study queue.
type StudyItem struct {
	Idea     Idea
	Flags    []CognitiveFlag
	Priority int
}

// MinRank returns the lowest rank among flags, or UnrankedPriority when
// flags is empty.
func MinRank(flags []CognitiveFlag) int {
	best := UnrankedPriority
	for _, f := range flags {
		if r := f.Rank(); r < best {
			best = r
		}
	}
	return best
}
