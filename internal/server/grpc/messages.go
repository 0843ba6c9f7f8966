package grpc

import "time"

// Amounts travel as decimal strings with at most two fractional digits.

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type CreateItemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Item struct {
	ID          string    `json:"id"`
	SellerID    string    `json:"seller_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateAuctionRequest struct {
	ItemID     string    `json:"item_id"`
	StartPrice string    `json:"start_price"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
}

type Auction struct {
	ID                string    `json:"id"`
	ItemID            string    `json:"item_id"`
	SellerID          string    `json:"seller_id"`
	StartPrice        string    `json:"start_price"`
	CurrentHighestBid *string   `json:"current_highest_bid"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	OriginalEndTime   time.Time `json:"original_end_time"`
	Status            string    `json:"status"`
	WinnerID          *string   `json:"winner_id"`
	CreatedAt         time.Time `json:"created_at"`
}

type GetAuctionRequest struct {
	AuctionID string `json:"auction_id"`
}

type ListAuctionsRequest struct {
	Status string `json:"status,omitempty"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type ListAuctionsResponse struct {
	Auctions []*Auction `json:"auctions"`
}

type CancelAuctionRequest struct {
	AuctionID string `json:"auction_id"`
}

type PlaceBidRequest struct {
	AuctionID string `json:"auction_id"`
	Amount    string `json:"amount"`
}

type Bid struct {
	ID        string    `json:"id"`
	AuctionID string    `json:"auction_id"`
	BidderID  string    `json:"bidder_id"`
	Amount    string    `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

type PlaceBidResponse struct {
	Bid            *Bid      `json:"bid"`
	WasExtended    bool      `json:"was_extended"`
	AuctionEndTime time.Time `json:"auction_end_time"`
}

type ListBidsRequest struct {
	AuctionID string `json:"auction_id"`
	Offset    int    `json:"offset"`
	Limit     int    `json:"limit"`
}

type ListBidsResponse struct {
	Bids []*Bid `json:"bids"`
}
