package ledger

import (
	"time"

	"github.com/google/uuid"
)

// Kind tags a ledger entry with what produced it.
type Kind uint8

const (
	KindSystem Kind = iota
	KindBuy
	KindSell
)

func (k Kind) String() string {
	switch k {
	case KindSystem:
		return "system"
	case KindBuy:
		return "buy"
	case KindSell:
		return "sell"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Entry is one human-readable line of the session history.
type Entry struct {
	ID      uuid.UUID `json:"id"`
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
	Kind    Kind      `json:"kind"`
}
