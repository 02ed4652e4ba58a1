package core

import "github.com/shopspring/decimal"

// PriceTape is a ring buffer of historical prices (bounded memory).
type PriceTape struct {
	buf   []decimal.Decimal
	size  int
	start int
	count int
}

// NewPriceTape creates a new PriceTape with the given capacity.
func NewPriceTape(capacity int) *PriceTape {
	if capacity <= 0 {
		capacity = 1
	}
	return &PriceTape{
		buf:  make([]decimal.Decimal, capacity),
		size: capacity,
	}
}

// Append adds a price to the tape, dropping the oldest when full.
func (t *PriceTape) Append(p decimal.Decimal) {
	if t.count < t.size {
		t.buf[(t.start+t.count)%t.size] = p
		t.count++
		return
	}
	// overwrite oldest
	t.buf[t.start] = p
	t.start = (t.start + 1) % t.size
}

// Values returns every price on the tape in chronological order.
// Returns a copy (not internal references).
func (t *PriceTape) Values() []decimal.Decimal {
	out := make([]decimal.Decimal, t.count)
	for i := 0; i < t.count; i++ {
		out[i] = t.buf[(t.start+i)%t.size]
	}
	return out
}

// Last returns the most recently appended price.
func (t *PriceTape) Last() (decimal.Decimal, bool) {
	if t.count == 0 {
		return decimal.Zero, false
	}
	return t.buf[(t.start+t.count-1)%t.size], true
}

// Reset empties the tape and seeds it with p.
func (t *PriceTape) Reset(p decimal.Decimal) {
	t.start = 0
	t.count = 0
	t.Append(p)
}

// Len returns the number of prices on the tape.
func (t *PriceTape) Len() int {
	return t.count
}
