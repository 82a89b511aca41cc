package problems

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"
	"time"

	"mathclash/internal/models"
)

func newTestGenerator() *Generator {
	return New(rand.New(rand.NewSource(1)))
}

func TestGenerateEasy(t *testing.T) {
	g := newTestGenerator()

	for i := 0; i < 1000; i++ {
		q := g.Generate(models.DifficultyEasy)

		// Operands are 1..10; subtraction of equal operands can reach zero
		if q.Answer < 0 || q.Answer > 20 {
			t.Fatalf("easy answer out of range: %d (%q)", q.Answer, q.Prompt)
		}
		if strings.ContainsAny(q.Prompt, "×÷") {
			t.Fatalf("easy question used a multiplication or division operator: %q", q.Prompt)
		}
		assertOptions(t, q)
	}
}

func TestGenerateMedium(t *testing.T) {
	g := newTestGenerator()

	for i := 0; i < 1000; i++ {
		q := g.Generate(models.DifficultyMedium)

		if q.Answer < 0 || q.Answer > 400 {
			t.Fatalf("medium answer out of range: %d (%q)", q.Answer, q.Prompt)
		}
		if strings.Contains(q.Prompt, "÷") {
			t.Fatalf("medium question used division: %q", q.Prompt)
		}
		assertOptions(t, q)
	}
}

func TestGenerateHardDivision(t *testing.T) {
	g := newTestGenerator()

	sawDivision := false
	for i := 0; i < 1000; i++ {
		q := g.Generate(models.DifficultyHard)
		assertOptions(t, q)

		if !strings.Contains(q.Prompt, "÷") {
			continue
		}
		sawDivision = true

		dividend, divisor := parseDivision(t, q.Prompt)
		if divisor == 0 {
			t.Fatalf("zero divisor: %q", q.Prompt)
		}
		if dividend%divisor != 0 {
			t.Fatalf("non-integer division: %q", q.Prompt)
		}
		if dividend/divisor != q.Answer {
			t.Fatalf("answer %d does not match %q", q.Answer, q.Prompt)
		}
	}
	if !sawDivision {
		t.Error("hard difficulty never produced a division question")
	}
}

func TestGenerateNegativeResultsNeverAppear(t *testing.T) {
	g := newTestGenerator()

	for _, difficulty := range []models.Difficulty{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard} {
		for i := 0; i < 500; i++ {
			if q := g.Generate(difficulty); q.Answer < 0 {
				t.Fatalf("%s produced negative answer: %q", difficulty, q.Prompt)
			}
		}
	}
}

func TestGenerateInvalidDifficultyFallsBackToEasy(t *testing.T) {
	g := newTestGenerator()

	q := g.Generate("impossible")
	if q.Answer > 20 {
		t.Errorf("fallback question outside easy range: %d (%q)", q.Answer, q.Prompt)
	}
}

func TestCacheRefills(t *testing.T) {
	g := newTestGenerator()

	g.Generate(models.DifficultyEasy)

	// Refill runs on a background goroutine; poll until it lands
	deadline := time.Now().Add(2 * time.Second)
	for g.CacheLen(models.DifficultyEasy) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("cache never refilled")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestServedQuestionIDsAreUnique(t *testing.T) {
	g := newTestGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		q := g.Generate(models.DifficultyEasy)
		if q.ID == "" {
			t.Fatal("question served without an id")
		}
		if seen[q.ID] {
			t.Fatalf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestBuildOptionsSmallAnswer(t *testing.T) {
	g := newTestGenerator()

	// Zero is the tightest case: the candidate window is clamped at zero on
	// the low side, so the widening fallback must still fill four slots.
	for i := 0; i < 100; i++ {
		options := g.buildOptions(0)
		if len(options) != 4 {
			t.Fatalf("got %d options, want 4", len(options))
		}
		for _, o := range options {
			if o < 0 {
				t.Fatalf("negative option %d", o)
			}
		}
	}
}

func assertOptions(t *testing.T, q models.Question) {
	t.Helper()

	if len(q.Options) != 4 {
		t.Fatalf("got %d options, want 4 (%q)", len(q.Options), q.Prompt)
	}
	seen := make(map[int]bool)
	hasAnswer := false
	for _, o := range q.Options {
		if seen[o] {
			t.Fatalf("duplicate option %d in %v (%q)", o, q.Options, q.Prompt)
		}
		seen[o] = true
		if o == q.Answer {
			hasAnswer = true
		}
		if o < 0 {
			t.Fatalf("negative option %d (%q)", o, q.Prompt)
		}
	}
	if !hasAnswer {
		t.Fatalf("options %v missing answer %d (%q)", q.Options, q.Answer, q.Prompt)
	}
}

func parseDivision(t *testing.T, prompt string) (dividend, divisor int) {
	t.Helper()

	trimmed := strings.TrimSuffix(prompt, " = ?")
	parts := strings.Split(trimmed, " ÷ ")
	if len(parts) != 2 {
		t.Fatalf("unparseable division prompt %q", prompt)
	}
	dividend, err := strconv.Atoi(parts[0])
	if err != nil {
		t.Fatalf("bad dividend in %q: %v", prompt, err)
	}
	divisor, err = strconv.Atoi(parts[1])
	if err != nil {
		t.Fatalf("bad divisor in %q: %v", prompt, err)
	}
	return dividend, divisor
}
