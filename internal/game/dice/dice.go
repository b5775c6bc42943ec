// Package dice provides the randomness abstraction and roll-result types
// used by character growth, demonic trait rolling, and Lua hooks.
package dice

import "fmt"

// RollResult holds the full audit trail for a single dice roll evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // original expression string, e.g. "2d6+3"
	Dice       []int  // individual die results before modifier
	Modifier   int    // flat modifier (may be negative)
}

// Total returns the sum of all die results plus the modifier.
//
// Postcondition: return value == sum(r.Dice) + r.Modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns a human-readable audit string in the format:
//
//	"2d6+3 → [4 5] +3 = 12"
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	diceStr := fmt.Sprintf("%v", r.Dice)
	modStr := fmt.Sprintf("%+d", r.Modifier)
	return fmt.Sprintf("%s → %s %s = %d", r.Expression, diceStr, modStr, r.Total())
}

// Source is the randomness provider for all game randomness.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Coinflip returns true with probability 1/2.
//
// Precondition: src must be non-nil.
func Coinflip(src Source) bool {
	return src.Intn(2) == 0
}

// Range returns a uniformly random int in [lo, hi], inclusive on both ends.
//
// Precondition: src must be non-nil; lo <= hi.
func Range(src Source, lo, hi int) int {
	if lo > hi {
		panic(fmt.Sprintf("dice: Range called with lo %d > hi %d", lo, hi))
	}
	return lo + src.Intn(hi-lo+1)
}
