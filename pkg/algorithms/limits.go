package algorithms

import "context"

// Default search limits
const (
	DefaultMaxDepth = 64
	DefaultMaxSteps = 200_000
	DefaultMaxPaths = 1_000
)

// ctxCheckInterval is how many search steps run between context checks.
const ctxCheckInterval = 1024

// Limits bounds the searches whose cost can grow exponentially on dense,
// highly cyclic graphs. Zero values select the defaults.
type Limits struct {
	MaxDepth int // Longest path a single search may extend
	MaxSteps int // Stack pops allowed per search
	MaxPaths int // Paths returned by path enumeration
}

// DefaultLimits returns the default search limits
func DefaultLimits() Limits {
	return Limits{
		MaxDepth: DefaultMaxDepth,
		MaxSteps: DefaultMaxSteps,
		MaxPaths: DefaultMaxPaths,
	}
}

// Normalize fills zero or negative fields with defaults.
func (l Limits) Normalize() Limits {
	if l.MaxDepth <= 0 {
		l.MaxDepth = DefaultMaxDepth
	}
	if l.MaxSteps <= 0 {
		l.MaxSteps = DefaultMaxSteps
	}
	if l.MaxPaths <= 0 {
		l.MaxPaths = DefaultMaxPaths
	}
	return l
}

// budget counts the steps of one search and watches the context deadline.
type budget struct {
	ctx       context.Context
	maxSteps  int
	steps     int
	exhausted bool
}

func newBudget(ctx context.Context, maxSteps int) *budget {
	if ctx == nil {
		ctx = context.Background()
	}
	return &budget{ctx: ctx, maxSteps: maxSteps}
}

// step consumes one unit and reports whether the search may continue.
func (b *budget) step() bool {
	if b.exhausted {
		return false
	}
	b.steps++
	if b.steps > b.maxSteps {
		b.exhausted = true
		return false
	}
	if b.steps%ctxCheckInterval == 0 && b.ctx.Err() != nil {
		b.exhausted = true
		return false
	}
	return true
}
