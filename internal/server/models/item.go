package models

import "time"

// Item is the catalog entry an auction sells. The catalog itself is owned
// elsewhere; the auction server only needs existence and ownership.
type Item struct {
	ID          string
	SellerID    string
	Title       string
	Description string
	CreatedAt   time.Time
}
