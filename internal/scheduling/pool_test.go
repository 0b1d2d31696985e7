package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAssignsMonotonicIDs(t *testing.T) {
	pool := NewPool()

	first := pool.Add("2025-04-20", "10:00 AM")
	assert.Equal(t, 1, first.ID)
	assert.True(t, first.Available)

	second := pool.Add("2025-04-20", "2:00 PM")
	assert.Equal(t, 2, second.ID)
}

func TestBulkAddCrossProduct(t *testing.T) {
	pool := NewPool()
	start := mustDate(t, "2025-04-21")

	added := pool.BulkAdd(start, 2, []string{"9:00 AM", "11:00 AM", "2:00 PM"})
	require.Len(t, added, 6)

	assert.Equal(t, "2025-04-21", added[0].Date)
	assert.Equal(t, "9:00 AM", added[0].Time)
	assert.Equal(t, "2025-04-22", added[3].Date)

	for i, slot := range added {
		assert.Equal(t, i+1, slot.ID)
	}
}

func TestAvailableAscendingAndSnapshotsHistory(t *testing.T) {
	pool := NewPool()
	pool.Add("2025-04-20", "10:00 AM")
	pool.Add("2025-04-20", "2:00 PM")
	pool.Add("2025-04-21", "11:00 AM")

	_, err := pool.RecommendAndReserve(context.Background(), "cand-1", pick(2))
	require.NoError(t, err)

	available := pool.Available()
	require.Len(t, available, 2)
	assert.Equal(t, 1, available[0].ID)
	assert.Equal(t, 3, available[1].ID)

	// Reserved slots stay in the pool, only flipped unavailable.
	all := pool.Snapshot()
	require.Len(t, all, 3)
	assert.False(t, all[1].Available)
}

func TestRecommendAndReserveHonorsRecommendation(t *testing.T) {
	pool := NewPool()
	pool.Add("2025-04-20", "10:00 AM")
	pool.Add("2025-04-21", "11:00 AM")

	slot, err := pool.RecommendAndReserve(context.Background(), "cand-1", pick(2))
	require.NoError(t, err)
	assert.Equal(t, 2, slot.ID)
	assert.False(t, slot.Available)

	res, ok := pool.ReservationFor("cand-1")
	require.True(t, ok)
	assert.Equal(t, 2, res.SlotID)
	assert.False(t, res.AssignedAt.IsZero())
}

func TestRecommendAndReserveFallsBack(t *testing.T) {
	cases := []struct {
		name      string
		recommend RecommendFunc
	}{
		{"nonexistent slot", pick(99)},
		{"recommender error", func(context.Context, []Slot) (int, error) {
			return 0, errors.New("model unavailable")
		}},
		{"nil recommender", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pool := NewPool()
			pool.Add("2025-04-20", "10:00 AM")
			pool.Add("2025-04-21", "11:00 AM")

			slot, err := pool.RecommendAndReserve(context.Background(), "cand-1", tc.recommend)
			require.NoError(t, err)
			assert.Equal(t, 1, slot.ID, "fallback must pick the lowest available id")
		})
	}
}

func TestRecommendAndReserveEmptyPool(t *testing.T) {
	pool := NewPool()
	_, err := pool.RecommendAndReserve(context.Background(), "cand-1", pick(1))
	require.ErrorIs(t, err, ErrNoSlotsAvailable)
}

func TestStaleRecommendationDoesNotDoubleBook(t *testing.T) {
	pool := NewPool()
	pool.Add("2025-04-20", "10:00 AM")
	pool.Add("2025-04-20", "2:00 PM")

	// The second caller's recommendation points at the slot the first caller
	// grabs between snapshot and claim.
	grabby := func(ctx context.Context, available []Slot) (int, error) {
		_, err := pool.RecommendAndReserve(ctx, "cand-1", pick(1))
		require.NoError(t, err)
		return 1, nil
	}

	slot, err := pool.RecommendAndReserve(context.Background(), "cand-2", grabby)
	require.NoError(t, err)
	assert.Equal(t, 2, slot.ID)
}

func TestNoSlotReservedTwiceUnderContention(t *testing.T) {
	const slots = 5
	const callers = 20

	pool := NewPool()
	for i := 0; i < slots; i++ {
		pool.Add("2025-04-22", fmt.Sprintf("%d:00 PM", i+1))
	}

	var wg sync.WaitGroup
	results := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = pool.RecommendAndReserve(context.Background(),
				fmt.Sprintf("cand-%d", i), pick(1))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrNoSlotsAvailable)
		}
	}
	assert.Equal(t, slots, succeeded)

	reservations := pool.Reservations()
	require.Len(t, reservations, slots)
	seen := map[int]bool{}
	for _, r := range reservations {
		assert.False(t, seen[r.SlotID], "slot %d reserved twice", r.SlotID)
		seen[r.SlotID] = true
	}
	assert.Empty(t, pool.Available())
}

func pick(id int) RecommendFunc {
	return func(context.Context, []Slot) (int, error) { return id, nil }
}

func mustDate(t *testing.T, date string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	return parsed
}
