package problems

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"mathclash/internal/models"
)

const (
	optionCount = 4

	// Look-ahead cache sizing: refill in batches once a difficulty's queue
	// drops below half its capacity.
	cacheCapacity = 50
	refillBatch   = 10
)

type operator int

const (
	opAdd operator = iota
	opSub
	opMul
	opDiv
)

// tier holds the generation parameters for one difficulty level
type tier struct {
	maxOperand int
	operators  []operator
}

var tiers = map[models.Difficulty]tier{
	models.DifficultyEasy:   {maxOperand: 10, operators: []operator{opAdd, opSub}},
	models.DifficultyMedium: {maxOperand: 20, operators: []operator{opAdd, opSub, opMul}},
	models.DifficultyHard:   {maxOperand: 50, operators: []operator{opAdd, opSub, opMul, opDiv}},
}

// Generator produces arithmetic questions per difficulty tier. Randomness is
// injected so tests can seed it; a small per-difficulty look-ahead queue
// amortizes generation cost across calls.
type Generator struct {
	mu        sync.Mutex
	rng       *rand.Rand
	cache     map[models.Difficulty][]models.Question
	refilling map[models.Difficulty]bool
}

// New creates a generator backed by the given randomness source
func New(rng *rand.Rand) *Generator {
	return &Generator{
		rng:       rng,
		cache:     make(map[models.Difficulty][]models.Question),
		refilling: make(map[models.Difficulty]bool),
	}
}

// Generate returns the next question for a difficulty. The caller always
// receives a ready question immediately: from the look-ahead queue when one
// is available, freshly generated otherwise. Cache refill happens on a
// background goroutine and is never awaited.
func (g *Generator) Generate(difficulty models.Difficulty) models.Question {
	if !difficulty.Valid() {
		difficulty = models.DifficultyEasy
	}

	g.mu.Lock()
	queue := g.cache[difficulty]
	var question models.Question
	if len(queue) > 0 {
		question = queue[len(queue)-1]
		g.cache[difficulty] = queue[:len(queue)-1]
	} else {
		question = g.buildLocked(difficulty)
	}
	needRefill := len(g.cache[difficulty]) < cacheCapacity/2 && !g.refilling[difficulty]
	if needRefill {
		g.refilling[difficulty] = true
	}
	g.mu.Unlock()

	if needRefill {
		go g.refill(difficulty)
	}

	// Cached questions get a fresh id at hand-off so every served question
	// is uniquely identifiable.
	question.ID = uuid.New().String()
	return question
}

// CacheLen reports the current look-ahead queue depth for a difficulty
func (g *Generator) CacheLen(difficulty models.Difficulty) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.cache[difficulty])
}

func (g *Generator) refill(difficulty models.Difficulty) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := 0; i < refillBatch && len(g.cache[difficulty]) < cacheCapacity; i++ {
		g.cache[difficulty] = append(g.cache[difficulty], g.buildLocked(difficulty))
	}
	g.refilling[difficulty] = false
}

// buildLocked generates one question. Callers must hold g.mu (the rng is not
// safe for concurrent use).
func (g *Generator) buildLocked(difficulty models.Difficulty) models.Question {
	params := tiers[difficulty]
	a := g.intn(1, params.maxOperand)
	b := g.intn(1, params.maxOperand)
	op := params.operators[g.rng.Intn(len(params.operators))]

	var answer int
	var prompt string
	switch op {
	case opAdd:
		answer = a + b
		prompt = fmt.Sprintf("%d + %d = ?", a, b)
	case opSub:
		// Larger minus smaller keeps the result non-negative
		larger, smaller := a, b
		if smaller > larger {
			larger, smaller = smaller, larger
		}
		answer = larger - smaller
		prompt = fmt.Sprintf("%d - %d = ?", larger, smaller)
	case opMul:
		answer = a * b
		prompt = fmt.Sprintf("%d × %d = ?", a, b)
	case opDiv:
		// Present (a*b) ÷ b so the quotient is always the integer a
		answer = a
		prompt = fmt.Sprintf("%d ÷ %d = ?", a*b, b)
	}

	return models.Question{
		Prompt:     prompt,
		Answer:     answer,
		Options:    g.buildOptions(answer),
		Difficulty: difficulty,
	}
}

// buildOptions returns optionCount distinct values including the answer.
// Candidates are drawn within a window around the answer; if the attempt
// budget runs out the window widens deterministically until the set fills.
func (g *Generator) buildOptions(answer int) []int {
	window := 2 * answer
	if window < 10 {
		window = 10
	}

	seen := map[int]bool{answer: true}
	options := []int{answer}

	attempts := optionCount * 3
	for attempt := 0; len(options) < optionCount && attempt < attempts; attempt++ {
		low := answer - window
		if low < 0 {
			low = 0
		}
		candidate := g.intn(low, answer+window)
		if candidate != answer && !seen[candidate] {
			seen[candidate] = true
			options = append(options, candidate)
		}
	}

	// Widening fallback: sweep outward from the answer so the set always
	// reaches optionCount regardless of rng behavior
	for offset := 1; len(options) < optionCount; offset++ {
		for _, candidate := range []int{answer + offset, answer - offset} {
			if len(options) == optionCount {
				break
			}
			if candidate >= 0 && !seen[candidate] {
				seen[candidate] = true
				options = append(options, candidate)
			}
		}
	}

	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

// intn draws uniformly from [low, high] inclusive
func (g *Generator) intn(low, high int) int {
	return low + g.rng.Intn(high-low+1)
}
