package grpc

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/auctionhouse/internal/server/models"
	"github.com/dmitrijs2005/auctionhouse/internal/server/services"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// UserService is the account API the transport needs.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, userName, password string) (string, error)
}

type ItemService interface {
	Create(ctx context.Context, sellerID, title, description string) (*models.Item, error)
}

type AuctionService interface {
	Create(ctx context.Context, sellerID string, p services.CreateAuctionParams) (*models.Auction, error)
	Get(ctx context.Context, id string) (*models.Auction, error)
	List(ctx context.Context, status *models.AuctionStatus, page services.Page) ([]*models.Auction, error)
	Cancel(ctx context.Context, sellerID, id string) (*models.Auction, error)
}

type BidService interface {
	PlaceBid(ctx context.Context, auctionID, bidderID string, amount decimal.Decimal) (*services.PlaceBidResult, error)
	ListBids(ctx context.Context, auctionID string, page services.Page) ([]*models.Bid, error)
}

func (s *GRPCServer) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	u, err := s.users.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &RegisterResponse{UserID: u.ID, Username: u.UserName}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	token, err := s.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &LoginResponse{AccessToken: token, TokenType: "bearer"}, nil
}

func (s *GRPCServer) CreateItem(ctx context.Context, req *CreateItemRequest) (*Item, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	it, err := s.items.Create(ctx, userID, req.Title, req.Description)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &Item{
		ID:          it.ID,
		SellerID:    it.SellerID,
		Title:       it.Title,
		Description: it.Description,
		CreatedAt:   it.CreatedAt,
	}, nil
}

func (s *GRPCServer) CreateAuction(ctx context.Context, req *CreateAuctionRequest) (*Auction, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	price, err := parseAmount("start_price", req.StartPrice)
	if err != nil {
		return nil, err
	}

	a, err := s.auctions.Create(ctx, userID, services.CreateAuctionParams{
		ItemID:     req.ItemID,
		StartPrice: price,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return auctionToWire(a), nil
}

func (s *GRPCServer) GetAuction(ctx context.Context, req *GetAuctionRequest) (*Auction, error) {
	a, err := s.auctions.Get(ctx, req.AuctionID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return auctionToWire(a), nil
}

func (s *GRPCServer) ListAuctions(ctx context.Context, req *ListAuctionsRequest) (*ListAuctionsResponse, error) {
	var filter *models.AuctionStatus
	if req.Status != "" {
		st, err := models.ParseAuctionStatus(strings.ToLower(req.Status))
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		filter = &st
	}

	list, err := s.auctions.List(ctx, filter, services.Page{Offset: req.Offset, Limit: req.Limit})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	resp := &ListAuctionsResponse{Auctions: make([]*Auction, 0, len(list))}
	for _, a := range list {
		resp.Auctions = append(resp.Auctions, auctionToWire(a))
	}
	return resp, nil
}

func (s *GRPCServer) CancelAuction(ctx context.Context, req *CancelAuctionRequest) (*Auction, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	a, err := s.auctions.Cancel(ctx, userID, req.AuctionID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return auctionToWire(a), nil
}

func (s *GRPCServer) PlaceBid(ctx context.Context, req *PlaceBidRequest) (*PlaceBidResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		return nil, err
	}

	res, err := s.bids.PlaceBid(ctx, req.AuctionID, userID, amount)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &PlaceBidResponse{
		Bid:            bidToWire(res.Bid),
		WasExtended:    res.WasExtended,
		AuctionEndTime: res.EndTime.UTC(),
	}, nil
}

func (s *GRPCServer) ListBids(ctx context.Context, req *ListBidsRequest) (*ListBidsResponse, error) {
	list, err := s.bids.ListBids(ctx, req.AuctionID, services.Page{Offset: req.Offset, Limit: req.Limit})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	resp := &ListBidsResponse{Bids: make([]*Bid, 0, len(list))}
	for _, b := range list {
		resp.Bids = append(resp.Bids, bidToWire(b))
	}
	return resp, nil
}

// parseAmount accepts a plain decimal string with at most two fractional
// digits.
func parseAmount(field, raw string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, status.Errorf(codes.InvalidArgument, "%s: invalid decimal %q", field, raw)
	}
	if !v.Equal(v.Truncate(2)) {
		return decimal.Decimal{}, status.Errorf(codes.InvalidArgument, "%s: at most 2 decimal places allowed", field)
	}
	return v, nil
}

func formatAmount(v decimal.Decimal) string {
	return v.StringFixed(2)
}

func auctionToWire(a *models.Auction) *Auction {
	out := &Auction{
		ID:              a.ID,
		ItemID:          a.ItemID,
		SellerID:        a.SellerID,
		StartPrice:      formatAmount(a.StartPrice),
		StartTime:       a.StartTime.UTC(),
		EndTime:         a.EndTime.UTC(),
		OriginalEndTime: a.OriginalEndTime.UTC(),
		Status:          string(a.Status),
		CreatedAt:       a.CreatedAt.UTC(),
	}
	if a.CurrentHighestBid.Valid {
		v := formatAmount(a.CurrentHighestBid.Decimal)
		out.CurrentHighestBid = &v
	}
	if a.WinnerID != nil {
		w := *a.WinnerID
		out.WinnerID = &w
	}
	return out
}

func bidToWire(b *models.Bid) *Bid {
	return &Bid{
		ID:        b.ID,
		AuctionID: b.AuctionID,
		BidderID:  b.BidderID,
		Amount:    formatAmount(b.Amount),
		CreatedAt: b.CreatedAt.UTC(),
	}
}
