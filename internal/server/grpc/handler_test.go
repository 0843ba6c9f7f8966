package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/auctionhouse/internal/common"
	"github.com/dmitrijs2005/auctionhouse/internal/server/models"
	"github.com/dmitrijs2005/auctionhouse/internal/server/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var t0 = time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

type fakeAuctions struct {
	created   services.CreateAuctionParams
	sellerID  string
	listed    *models.AuctionStatus
	page      services.Page
	auction   *models.Auction
	err       error
	cancelled string
}

func (f *fakeAuctions) Create(ctx context.Context, sellerID string, p services.CreateAuctionParams) (*models.Auction, error) {
	f.sellerID, f.created = sellerID, p
	return f.auction, f.err
}

func (f *fakeAuctions) Get(ctx context.Context, id string) (*models.Auction, error) {
	return f.auction, f.err
}

func (f *fakeAuctions) List(ctx context.Context, status *models.AuctionStatus, page services.Page) ([]*models.Auction, error) {
	f.listed, f.page = status, page
	if f.err != nil {
		return nil, f.err
	}
	return []*models.Auction{f.auction}, nil
}

func (f *fakeAuctions) Cancel(ctx context.Context, sellerID, id string) (*models.Auction, error) {
	f.sellerID, f.cancelled = sellerID, id
	return f.auction, f.err
}

type fakeBids struct {
	bidderID string
	amount   decimal.Decimal
	res      *services.PlaceBidResult
	err      error
}

func (f *fakeBids) PlaceBid(ctx context.Context, auctionID, bidderID string, amount decimal.Decimal) (*services.PlaceBidResult, error) {
	f.bidderID, f.amount = bidderID, amount
	return f.res, f.err
}

func (f *fakeBids) ListBids(ctx context.Context, auctionID string, page services.Page) ([]*models.Bid, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []*models.Bid{f.res.Bid}, nil
}

func authed(userID string) context.Context {
	return context.WithValue(context.Background(), userIDKey, userID)
}

func sampleAuction() *models.Auction {
	w := "bidder-1"
	return &models.Auction{
		ID:                "a1",
		ItemID:            "i1",
		SellerID:          "seller",
		StartPrice:        decimal.RequireFromString("10"),
		CurrentHighestBid: decimal.NewNullDecimal(decimal.RequireFromString("12.5")),
		StartTime:         t0,
		EndTime:           t0.Add(time.Hour),
		OriginalEndTime:   t0.Add(time.Hour),
		Status:            models.AuctionEnded,
		WinnerID:          &w,
		CreatedAt:         t0,
	}
}

func TestCodeOf(t *testing.T) {
	cases := []struct {
		err  error
		want codes.Code
	}{
		{fmt.Errorf("%w: x", common.ErrorNotFound), codes.NotFound},
		{fmt.Errorf("%w: x", common.ErrorInvalidState), codes.FailedPrecondition},
		{fmt.Errorf("%w: x", common.ErrorForbidden), codes.PermissionDenied},
		{fmt.Errorf("%w: x", common.ErrorInvalidInput), codes.InvalidArgument},
		{fmt.Errorf("%w: x", common.ErrorConflict), codes.AlreadyExists},
		{common.ErrorUnauthorized, codes.Unauthenticated},
		{common.ErrTokenExpired, codes.Unauthenticated},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{errors.New("pq: connection reset"), codes.Internal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, codeOf(tc.err), tc.err.Error())
	}
}

func TestToStatus_HidesInternalDetail(t *testing.T) {
	s := newTestServer("secret")

	err := s.toStatus(context.Background(), errors.New("dial tcp 10.0.0.1:5432"))
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Equal(t, "internal error", status.Convert(err).Message())

	err = s.toStatus(context.Background(), fmt.Errorf("%w: bid must be greater than 10.00", common.ErrorInvalidInput))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Contains(t, status.Convert(err).Message(), "bid must be greater than 10.00")
}

func TestParseAmount(t *testing.T) {
	v, err := parseAmount("amount", "15.50")
	require.NoError(t, err)
	assert.True(t, v.Equal(decimal.RequireFromString("15.5")))

	_, err = parseAmount("amount", "15.505")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = parseAmount("amount", "abc")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestAuctionToWire(t *testing.T) {
	w := auctionToWire(sampleAuction())

	assert.Equal(t, "10.00", w.StartPrice)
	require.NotNil(t, w.CurrentHighestBid)
	assert.Equal(t, "12.50", *w.CurrentHighestBid)
	require.NotNil(t, w.WinnerID)
	assert.Equal(t, "bidder-1", *w.WinnerID)
	assert.Equal(t, "ended", w.Status)

	a := sampleAuction()
	a.CurrentHighestBid = decimal.NullDecimal{}
	a.WinnerID = nil
	w = auctionToWire(a)
	assert.Nil(t, w.CurrentHighestBid)
	assert.Nil(t, w.WinnerID)
}

func TestPlaceBid_UsesCallerAsBidder(t *testing.T) {
	bids := &fakeBids{res: &services.PlaceBidResult{
		Bid:         &models.Bid{ID: "b1", AuctionID: "a1", BidderID: "u1", Amount: decimal.RequireFromString("20"), CreatedAt: t0},
		WasExtended: true,
		EndTime:     t0.Add(5 * time.Minute),
	}}
	s := newTestServer("secret")
	s.bids = bids

	resp, err := s.PlaceBid(authed("u1"), &PlaceBidRequest{AuctionID: "a1", Amount: "20"})
	require.NoError(t, err)

	assert.Equal(t, "u1", bids.bidderID)
	assert.Equal(t, "20.00", resp.Bid.Amount)
	assert.True(t, resp.WasExtended)
	assert.Equal(t, t0.Add(5*time.Minute), resp.AuctionEndTime)
}

func TestPlaceBid_Errors(t *testing.T) {
	s := newTestServer("secret")
	s.bids = &fakeBids{err: fmt.Errorf("%w: auction is not active", common.ErrorInvalidState)}

	_, err := s.PlaceBid(context.Background(), &PlaceBidRequest{AuctionID: "a1", Amount: "20"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = s.PlaceBid(authed("u1"), &PlaceBidRequest{AuctionID: "a1", Amount: "20.001"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.PlaceBid(authed("u1"), &PlaceBidRequest{AuctionID: "a1", Amount: "20"})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestCreateAuction_PassesParams(t *testing.T) {
	auctions := &fakeAuctions{auction: sampleAuction()}
	s := newTestServer("secret")
	s.auctions = auctions

	_, err := s.CreateAuction(authed("seller"), &CreateAuctionRequest{
		ItemID:     "i1",
		StartPrice: "10.00",
		StartTime:  t0,
		EndTime:    t0.Add(time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, "seller", auctions.sellerID)
	assert.Equal(t, "i1", auctions.created.ItemID)
	assert.True(t, auctions.created.StartPrice.Equal(decimal.RequireFromString("10")))
	assert.Equal(t, t0.Add(time.Hour), auctions.created.EndTime)
}

func TestCancelAuction_Forbidden(t *testing.T) {
	s := newTestServer("secret")
	s.auctions = &fakeAuctions{err: fmt.Errorf("%w: not your auction", common.ErrorForbidden)}

	_, err := s.CancelAuction(authed("intruder"), &CancelAuctionRequest{AuctionID: "a1"})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
}

func TestListAuctions_StatusFilter(t *testing.T) {
	auctions := &fakeAuctions{auction: sampleAuction()}
	s := newTestServer("secret")
	s.auctions = auctions

	resp, err := s.ListAuctions(context.Background(), &ListAuctionsRequest{Status: "ACTIVE", Offset: 5, Limit: 10})
	require.NoError(t, err)
	require.NotNil(t, auctions.listed)
	assert.Equal(t, models.AuctionActive, *auctions.listed)
	assert.Equal(t, services.Page{Offset: 5, Limit: 10}, auctions.page)
	assert.Len(t, resp.Auctions, 1)

	_, err = s.ListAuctions(context.Background(), &ListAuctionsRequest{})
	require.NoError(t, err)
	assert.Nil(t, auctions.listed)

	_, err = s.ListAuctions(context.Background(), &ListAuctionsRequest{Status: "sold"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGetAuction_NotFound(t *testing.T) {
	s := newTestServer("secret")
	s.auctions = &fakeAuctions{err: fmt.Errorf("%w: auction a1", common.ErrorNotFound)}

	_, err := s.GetAuction(context.Background(), &GetAuctionRequest{AuctionID: "a1"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}
