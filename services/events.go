package services

import (
	"sync"

	"github.com/shopspring/decimal"
)

const (
	EventMatchFilled    = "match_filled"
	EventMatchCompleted = "match_completed"
)

// SeatResult is one seat's view of a finished match.
type SeatResult struct {
	UserID   uint            `json:"user_id"`
	UserCode string          `json:"user_code"`
	Choice   string          `json:"choice"`
	Payout   decimal.Decimal `json:"payout"`
}

// Event is what bot/web adapters subscribe to: a match filling up, or a
// match settling (decisive, draw or cancellation).
type Event struct {
	Type      string          `json:"type"`
	MatchID   uint            `json:"match_id"`
	BetAmount decimal.Decimal `json:"bet_amount"`
	Seats     []SeatResult    `json:"seats"`
	Outcome   string          `json:"outcome,omitempty"`
	WinnerID  *uint           `json:"winner_id,omitempty"`
	Fee       decimal.Decimal `json:"fee"`
}

// Dispatcher fans engine events out to in-process subscribers. Publish
// never blocks: a subscriber that stopped draining loses events rather
// than stalling settlement.
type Dispatcher struct {
	mu   sync.Mutex
	subs []chan Event
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

func (d *Dispatcher) Subscribe(buffer int) <-chan Event {
	ch := make(chan Event, buffer)
	d.mu.Lock()
	d.subs = append(d.subs, ch)
	d.mu.Unlock()
	return ch
}

func (d *Dispatcher) Publish(ev Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, ch := range d.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
