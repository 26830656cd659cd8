package question

import (
	"sort"

	"github.com/archmich514/kiog/internal/domain/entities"
)

// rankedQuestion pairs a catalog question with its display count
type rankedQuestion struct {
	question *entities.Question
	count    int
}

// rankByCount orders the pool by ascending display count. The sort is
// stable, so ties keep catalog (id) order and selection stays
// deterministic for a given stats snapshot.
func rankByCount(pool []*entities.Question, counts map[string]int) []rankedQuestion {
	ranked := make([]rankedQuestion, 0, len(pool))
	for _, q := range pool {
		ranked = append(ranked, rankedQuestion{question: q, count: counts[q.ID]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].count < ranked[j].count
	})
	return ranked
}

// cycleComplete reports whether every question in the pool has been
// shown at least once, which is the trigger for a counter reset.
func cycleComplete(pool []*entities.Question, counts map[string]int) bool {
	if len(pool) == 0 {
		return false
	}
	for _, q := range pool {
		if counts[q.ID] < 1 {
			return false
		}
	}
	return true
}
