package replies

import (
	"math/rand/v2"
	"sync"
)

// Picker draws an index uniformly from [0, n). Implementations must be safe
// for concurrent use since a single picker serves every request.
type Picker interface {
	IntN(n int) int
}

// RandomPicker draws from the process-wide math/rand/v2 generator, which is
// already safe for concurrent use.
type RandomPicker struct{}

func (RandomPicker) IntN(n int) int {
	return rand.IntN(n)
}

// SeededPicker is a reproducible picker. Its generator is not goroutine safe
// on its own, so draws are serialized.
type SeededPicker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSeededPicker(seed uint64) *SeededPicker {
	return &SeededPicker{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (p *SeededPicker) IntN(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.IntN(n)
}

// PickOne returns a uniformly chosen element of items. ok is false when
// items is empty.
func PickOne[T any](p Picker, items []T) (item T, ok bool) {
	if len(items) == 0 {
		return item, false
	}
	return items[p.IntN(len(items))], true
}
