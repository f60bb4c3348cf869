package services

import (
	"sort"

	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/logger"
)

// relationIndex holds the relations touching one idea.
type relationIndex struct {
	touching           []domain.Relation
	hasIncomingSupport bool
}

// Analyze computes the cognitive flags of every idea. Flags are appended in
// the order ISOLATED, NO_EVIDENCE, UNRESOLVED_CONTRADICTION. Ideas without
// flags are omitted. Relations naming unknown ideas have no effect.
func Analyze(ideas []domain.Idea, relations []domain.Relation) map[string][]domain.CognitiveFlag {
	index := make(map[string]*relationIndex, len(ideas))
	for _, idea := range ideas {
		index[idea.ID] = &relationIndex{}
	}
	for _, rel := range relations {
		if from, ok := index[rel.FromIdeaID]; ok {
			from.touching = append(from.touching, rel)
		}
		to, ok := index[rel.ToIdeaID]
		if !ok {
			continue
		}
		if rel.FromIdeaID != rel.ToIdeaID {
			to.touching = append(to.touching, rel)
		}
		if rel.Type == domain.RelationSupports {
			to.hasIncomingSupport = true
		}
	}

	result := make(map[string][]domain.CognitiveFlag)
	for _, idea := range ideas {
		idx := index[idea.ID]
		var flags []domain.CognitiveFlag

		if len(idx.touching) == 0 {
			flags = append(flags, domain.FlagIsolated)
		}
		if idea.Type == domain.IdeaTypeClaim && !idx.hasIncomingSupport {
			flags = append(flags, domain.FlagNoEvidence)
		}
		if touchesContradiction(idx.touching) && !idx.hasIncomingSupport {
			flags = append(flags, domain.FlagUnresolvedContradiction)
		}

		if len(flags) > 0 {
			result[idea.ID] = flags
		}
	}
	return result
}

func touchesContradiction(rels []domain.Relation) bool {
	for _, rel := range rels {
		switch rel.Type {
		case domain.RelationContradicts:
			return true
		case domain.RelationSupports, domain.RelationDependsOn:
			// neither resolves nor raises a contradiction
		}
	}
	return false
}

// StudyQueue returns the flagged ideas ordered by ascending priority, the
// lowest rank among each idea's flags. Ties keep input order.
func StudyQueue(ideas []domain.Idea, relations []domain.Relation) []domain.StudyItem {
	flags := Analyze(ideas, relations)

	queue := make([]domain.StudyItem, 0, len(flags))
	for _, idea := range ideas {
		f, ok := flags[idea.ID]
		if !ok {
			continue
		}
		queue = append(queue, domain.StudyItem{
			Idea:     idea,
			Flags:    f,
			Priority: domain.MinRank(f),
		})
	}

	sort.SliceStable(queue, func(i, j int) bool {
		return queue[i].Priority < queue[j].Priority
	})

	logger.Debug("study queue: %d of %d ideas flagged", len(queue), len(ideas))
	return queue
}
