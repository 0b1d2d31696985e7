// Package scheduling owns the interview slot pool. The pool is the single
// writer of slot availability: reservations are serialized so that checking a
// slot and claiming it is one indivisible step.
package scheduling

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNoSlotsAvailable is returned when a reservation is requested against an
// empty pool. It is recoverable: the orchestrator records it per candidate
// and continues the batch.
var ErrNoSlotsAvailable = errors.New("no interview slots available")

// Slot is a bookable interview time unit. Slots are never deleted, only
// flipped to unavailable, so the pool doubles as an allocation audit log.
type Slot struct {
	ID        int
	Date      string
	Time      string
	Available bool
}

// Reservation binds one candidate to one slot.
type Reservation struct {
	CandidateID string
	SlotID      int
	AssignedAt  time.Time
}

// RecommendFunc asks an external scorer to pick a slot for the candidate from
// the given availability snapshot. The returned id is untrusted: anything not
// matching an available slot falls back to the lowest available id.
type RecommendFunc func(ctx context.Context, available []Slot) (slotID int, err error)

// Pool holds the interview slots and their reservations. Slot ids come from a
// monotonic counter owned by the pool, so ids stay unique and ascending even
// if external bookkeeping ever drops slots.
type Pool struct {
	mu           sync.Mutex
	slots        []Slot
	nextID       int
	reservations []Reservation
	now          func() time.Time
}

// NewPool returns an empty slot pool.
func NewPool() *Pool {
	return &Pool{nextID: 1, now: time.Now}
}

// Add creates a new available slot and returns it. The first slot of an empty
// pool gets id 1, the next id 2, and so on.
func (p *Pool) Add(date, timeOfDay string) Slot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.addLocked(date, timeOfDay)
}

// BulkAdd generates the cross product of days x times starting at start.
// Slots are created in sequence so ids remain unique and ascending.
func (p *Pool) BulkAdd(start time.Time, days int, times []string) []Slot {
	p.mu.Lock()
	defer p.mu.Unlock()

	added := make([]Slot, 0, days*len(times))
	for day := 0; day < days; day++ {
		date := start.AddDate(0, 0, day).Format("2006-01-02")
		for _, timeOfDay := range times {
			added = append(added, p.addLocked(date, timeOfDay))
		}
	}
	return added
}

// Available returns the available slots in ascending id order. The result is
// a snapshot: it does not reflect later reservations.
func (p *Pool) Available() []Slot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.availableLocked()
}

// Snapshot returns every slot, reserved or not, in ascending id order.
func (p *Pool) Snapshot() []Slot {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Slot, len(p.slots))
	copy(out, p.slots)
	return out
}

// Reservations returns all reservations in assignment order.
func (p *Pool) Reservations() []Reservation {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Reservation, len(p.reservations))
	copy(out, p.reservations)
	return out
}

// ReservationFor returns the reservation held by the candidate, if any.
func (p *Pool) ReservationFor(candidateID string) (Reservation, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, r := range p.reservations {
		if r.CandidateID == candidateID {
			return r, true
		}
	}
	return Reservation{}, false
}

// SlotByID returns the slot with the given id.
func (p *Pool) SlotByID(id int) (Slot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range p.slots {
		if s.ID == id {
			return s, true
		}
	}
	return Slot{}, false
}

// RecommendAndReserve picks a slot for the candidate and reserves it. The
// external recommendation runs against an availability snapshot without
// holding the pool lock; the claim itself revalidates under the lock, so a
// recommendation that raced with another reservation degrades to the fallback
// instead of double-booking. Returns ErrNoSlotsAvailable when the pool has no
// free slot at claim time.
func (p *Pool) RecommendAndReserve(ctx context.Context, candidateID string, recommend RecommendFunc) (Slot, error) {
	available := p.Available()
	if len(available) == 0 {
		return Slot{}, ErrNoSlotsAvailable
	}

	wanted := 0
	if recommend != nil {
		slotID, err := recommend(ctx, available)
		if err == nil {
			wanted = slotID
		}
		// A failed or invalid recommendation is absorbed: the claim below
		// falls back to the lowest available id.
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	slot := p.claimLocked(candidateID, wanted)
	if slot == nil {
		return Slot{}, ErrNoSlotsAvailable
	}
	return *slot, nil
}

func (p *Pool) addLocked(date, timeOfDay string) Slot {
	slot := Slot{
		ID:        p.nextID,
		Date:      date,
		Time:      timeOfDay,
		Available: true,
	}
	p.nextID++
	p.slots = append(p.slots, slot)
	return slot
}

func (p *Pool) availableLocked() []Slot {
	out := make([]Slot, 0, len(p.slots))
	for _, s := range p.slots {
		if s.Available {
			out = append(out, s)
		}
	}
	return out
}

// claimLocked flips the wanted slot to unavailable and records the
// reservation. When wanted does not name a currently available slot it falls
// back to the first available one. Returns nil when nothing is free.
func (p *Pool) claimLocked(candidateID string, wanted int) *Slot {
	target := -1
	fallback := -1
	for i := range p.slots {
		if !p.slots[i].Available {
			continue
		}
		if fallback == -1 {
			fallback = i
		}
		if p.slots[i].ID == wanted {
			target = i
			break
		}
	}

	if target == -1 {
		target = fallback
	}
	if target == -1 {
		return nil
	}

	p.slots[target].Available = false
	p.reservations = append(p.reservations, Reservation{
		CandidateID: candidateID,
		SlotID:      p.slots[target].ID,
		AssignedAt:  p.now(),
	})

	slot := p.slots[target]
	return &slot
}
