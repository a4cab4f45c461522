// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package conc

// defaultContentionThreadThreshold is spec.md §3's default: once this
// many operations are active at once, the stack counts a contended
// sample toward its promotion streak.
const defaultContentionThreadThreshold = 3

// defaultPromotionStreakThreshold is spec.md §3's default: this many
// consecutive contended samples requests promotion to CAS mode.
const defaultPromotionStreakThreshold = 64

// minContentionThreadThreshold and minPromotionStreakThreshold are the
// floors spec.md §3 pins these tunables to.
const (
	minContentionThreadThreshold = 2
	minPromotionStreakThreshold  = 1
)

// stackConfig holds AdaptiveStack construction-time tunables.
type stackConfig struct {
	reserveHint               int
	contentionThreadThreshold uint64
	promotionStreakThreshold  uint64
}

func defaultStackConfig() stackConfig {
	return stackConfig{
		contentionThreadThreshold: defaultContentionThreadThreshold,
		promotionStreakThreshold:  defaultPromotionStreakThreshold,
	}
}

// StackOption configures an AdaptiveStack at construction time. This
// mirrors the teacher's functional-option Builder (options.go) adapted
// to this module's tunables instead of producer/consumer arity.
type StackOption func(*stackConfig)

// WithReserve pre-sizes the spinlock-mode backing buffer. Advisory only
// (spec.md §9): a promotion racing the constructor's first operations
// can still leave the hint unused.
func WithReserve(n int) StackOption {
	return func(c *stackConfig) {
		c.reserveHint = n
	}
}

// WithContentionThreshold overrides the active-operation count that
// counts as a contended sample. Panics if below the spec's floor of 2.
func WithContentionThreshold(n uint64) StackOption {
	if n < minContentionThreadThreshold {
		panic("conc: contention thread threshold must be >= 2")
	}
	return func(c *stackConfig) {
		c.contentionThreadThreshold = n
	}
}

// WithPromotionStreak overrides the number of consecutive contended
// samples required to request promotion. Panics if below the spec's
// floor of 1.
func WithPromotionStreak(n uint64) StackOption {
	if n < minPromotionStreakThreshold {
		panic("conc: promotion streak threshold must be >= 1")
	}
	return func(c *stackConfig) {
		c.promotionStreakThreshold = n
	}
}
