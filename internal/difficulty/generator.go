package difficulty

import (
	"math/rand"

	"github.com/bidouilles/multimaster/internal/models"
)

// Question is one multiplication prompt presented to the learner.
type Question struct {
	Table      int `json:"table"`
	Multiplier int `json:"multiplier"`
}

// Answer returns the expected product.
func (q Question) Answer() int {
	return q.Table * q.Multiplier
}

// weakBias is the probability that the next question is drawn from the
// weak-point distribution instead of picked uniformly.
const weakBias = 0.7

// Generator produces practice questions biased toward a learner's weak
// points. It is not safe for concurrent use; give each quiz its own.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a Generator seeded from src.
func NewGenerator(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// Next picks the next question. With probability 0.7, when weak points
// exist and their distribution is non-degenerate, a fact is sampled from
// the weak-point distribution by a cumulative-sum draw. Otherwise the
// question is uniform over (table in tables, multiplier in 1..10),
// rejecting an immediate repeat of prev when another choice exists.
func (g *Generator) Next(weakPoints []models.FactDifficulty, tables []int, prev *Question) Question {
	if len(weakPoints) > 0 && g.rng.Float64() < weakBias {
		if q, ok := g.sampleWeak(weakPoints); ok {
			return q
		}
	}
	return g.uniform(tables, prev)
}

// DistinctQuestions draws up to n distinct questions uniformly over
// (table in tables, multiplier in 1..10). n is clamped to the pool size.
func (g *Generator) DistinctQuestions(tables []int, n int) []Question {
	if len(tables) == 0 {
		tables = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	}
	if pool := len(tables) * 10; n > pool {
		n = pool
	}

	seen := make(map[Question]bool, n)
	questions := make([]Question, 0, n)
	for len(questions) < n {
		q := Question{
			Table:      tables[g.rng.Intn(len(tables))],
			Multiplier: g.rng.Intn(10) + 1,
		}
		if seen[q] {
			continue
		}
		seen[q] = true
		questions = append(questions, q)
	}
	return questions
}

// Shuffle permutes n elements using the generator's seeded source.
func (g *Generator) Shuffle(n int, swap func(i, j int)) {
	g.rng.Shuffle(n, swap)
}

func (g *Generator) sampleWeak(weakPoints []models.FactDifficulty) (Question, bool) {
	totalWeight := 0.0
	for _, f := range weakPoints {
		totalWeight += 100 - f.SuccessRate
	}
	if totalWeight == 0 {
		return Question{}, false
	}

	draw := g.rng.Float64() * totalWeight
	cumulative := 0.0
	for _, f := range weakPoints {
		cumulative += 100 - f.SuccessRate
		if draw < cumulative {
			return Question{Table: f.Table, Multiplier: f.Multiplier}, true
		}
	}
	// Floating-point rounding can leave draw at the boundary.
	last := weakPoints[len(weakPoints)-1]
	return Question{Table: last.Table, Multiplier: last.Multiplier}, true
}

func (g *Generator) uniform(tables []int, prev *Question) Question {
	if len(tables) == 0 {
		tables = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	}

	q := Question{
		Table:      tables[g.rng.Intn(len(tables))],
		Multiplier: g.rng.Intn(10) + 1,
	}
	if prev == nil || q != *prev {
		return q
	}

	// Bounded retries: avoids looping forever when the pool is tiny.
	for i := 0; i < 10; i++ {
		q = Question{
			Table:      tables[g.rng.Intn(len(tables))],
			Multiplier: g.rng.Intn(10) + 1,
		}
		if q != *prev {
			return q
		}
	}
	return q
}
