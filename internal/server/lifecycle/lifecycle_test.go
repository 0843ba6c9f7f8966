package lifecycle

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/auctionhouse/internal/common"
	"github.com/dmitrijs2005/auctionhouse/internal/server/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func TestCanTransition(t *testing.T) {
	all := []models.AuctionStatus{
		models.AuctionPending, models.AuctionActive, models.AuctionEnded, models.AuctionCancelled,
	}
	legal := map[[2]models.AuctionStatus]bool{
		{models.AuctionPending, models.AuctionActive}:    true,
		{models.AuctionPending, models.AuctionCancelled}: true,
		{models.AuctionActive, models.AuctionEnded}:      true,
		{models.AuctionActive, models.AuctionCancelled}:  true,
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, legal[[2]models.AuctionStatus{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, models.AuctionActive, InitialStatus(now.Add(-5*time.Minute), now))
	assert.Equal(t, models.AuctionActive, InitialStatus(now, now))
	assert.Equal(t, models.AuctionPending, InitialStatus(now.Add(time.Second), now))
}

func TestActivate(t *testing.T) {
	a := &models.Auction{Status: models.AuctionPending, StartTime: now.Add(time.Minute)}
	assert.False(t, Activate(a, now))
	assert.Equal(t, models.AuctionPending, a.Status)

	assert.True(t, Activate(a, now.Add(time.Minute)))
	assert.Equal(t, models.AuctionActive, a.Status)

	assert.False(t, Activate(a, now.Add(time.Hour)), "already active")
}

func TestDueForResolution(t *testing.T) {
	a := &models.Auction{Status: models.AuctionActive, EndTime: now}
	assert.True(t, DueForResolution(a, now))
	assert.False(t, DueForResolution(a, now.Add(-time.Nanosecond)))

	a.Status = models.AuctionPending
	assert.False(t, DueForResolution(a, now.Add(time.Hour)))
}

func TestResolve_WithWinningBid(t *testing.T) {
	a := &models.Auction{ID: "a1", Status: models.AuctionActive, StartPrice: decimal.NewFromInt(10)}
	bid := &models.Bid{BidderID: "u2", Amount: decimal.RequireFromString("25.00")}

	changed, err := Resolve(a, bid)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.AuctionEnded, a.Status)
	require.NotNil(t, a.WinnerID)
	assert.Equal(t, "u2", *a.WinnerID)
	assert.True(t, a.CurrentHighestBid.Valid)
	assert.True(t, a.CurrentHighestBid.Decimal.Equal(decimal.NewFromInt(25)))

	o := OutcomeOf(a)
	assert.Equal(t, "a1", o.AuctionID)
	assert.Equal(t, "u2", *o.WinnerID)
}

func TestResolve_NoBids(t *testing.T) {
	a := &models.Auction{Status: models.AuctionActive}

	changed, err := Resolve(a, nil)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.AuctionEnded, a.Status)
	assert.Nil(t, a.WinnerID)
	assert.False(t, a.CurrentHighestBid.Valid)
}

func TestResolve_IsIdempotent(t *testing.T) {
	a := &models.Auction{Status: models.AuctionActive}
	bid := &models.Bid{BidderID: "u2", Amount: decimal.NewFromInt(20)}

	_, err := Resolve(a, bid)
	require.NoError(t, err)
	first := *a.Clone()

	changed, err := Resolve(a, &models.Bid{BidderID: "u3", Amount: decimal.NewFromInt(99)})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, first, *a)
}

func TestResolve_RejectsNonActive(t *testing.T) {
	for _, st := range []models.AuctionStatus{models.AuctionPending, models.AuctionCancelled} {
		a := &models.Auction{Status: st}
		_, err := Resolve(a, nil)
		assert.ErrorIs(t, err, common.ErrorInvalidState)
		assert.Equal(t, st, a.Status)
	}
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name    string
		status  models.AuctionStatus
		hasBids bool
		wantErr bool
	}{
		{"pending without bids", models.AuctionPending, false, false},
		{"active without bids", models.AuctionActive, false, false},
		{"active with bids", models.AuctionActive, true, true},
		{"ended", models.AuctionEnded, false, true},
		{"cancelled", models.AuctionCancelled, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &models.Auction{Status: tt.status}
			err := Cancel(a, tt.hasBids)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrorInvalidState)
				assert.Equal(t, tt.status, a.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.AuctionCancelled, a.Status)
		})
	}
}

func TestSoftClose_Apply(t *testing.T) {
	sc := SoftClose{Window: 5 * time.Minute, Extension: 5 * time.Minute}
	end := now.Add(time.Hour)

	got, extended := sc.Apply(end, now)
	assert.False(t, extended)
	assert.Equal(t, end, got)

	got, extended = sc.Apply(end, end.Add(-time.Minute))
	assert.True(t, extended)
	assert.Equal(t, end.Add(5*time.Minute), got, "extension counts from the old deadline, not from now")

	got, extended = sc.Apply(end, end.Add(-5*time.Minute))
	assert.True(t, extended, "window boundary is inclusive")
	assert.Equal(t, end.Add(5*time.Minute), got)

	got, extended = sc.Apply(end, end.Add(-5*time.Minute-time.Nanosecond))
	assert.False(t, extended)
	assert.Equal(t, end, got)
}

func TestSoftClose_NeverMovesDeadlineBack(t *testing.T) {
	end := now.Add(3 * time.Minute)

	tests := []struct {
		name string
		sc   SoftClose
	}{
		{"negative extension", SoftClose{Window: 5 * time.Minute, Extension: -10 * time.Minute}},
		{"zero extension", SoftClose{Window: 5 * time.Minute}},
		{"negative window", SoftClose{Window: -time.Minute, Extension: 5 * time.Minute}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, extended := tt.sc.Apply(end, now)
			assert.False(t, extended)
			assert.Equal(t, end, got)
		})
	}
}

func TestSoftClose_Validate(t *testing.T) {
	assert.NoError(t, SoftClose{Window: 5 * time.Minute, Extension: 5 * time.Minute}.Validate())
	assert.NoError(t, SoftClose{}.Validate())
	assert.Error(t, SoftClose{Window: -time.Second}.Validate())
	assert.Error(t, SoftClose{Extension: -time.Second}.Validate())
}
