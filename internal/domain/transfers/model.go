package transfers

import (
	"errors"
	"time"
)

var (
	ErrSameCampus     = errors.New("destination campus must differ from source campus")
	ErrBadQuantity    = errors.New("transfer quantity must be at least 1")
	ErrInsufficient   = errors.New("transfer quantity exceeds available stock")
	ErrStockNotFound  = errors.New("source stock item not found")
	ErrCampusNotFound = errors.New("destination campus not found")
	ErrCampusMismatch = errors.New("stock item does not belong to the claimed campus")
)

// StockTransfer records one completed transfer. Immutable once created;
// StockID goes null if the source row is later deleted.
type StockTransfer struct {
	ID            int64     `json:"id"`
	StockID       *int64    `json:"stock_id,omitempty"`
	ItemName      string    `json:"item_name"`
	Quantity      int       `json:"quantity"`
	FromCampusID  int64     `json:"from_campus_id"`
	ToCampusID    int64     `json:"to_campus_id"`
	TransferredBy string    `json:"transferred_by"`
	Remarks       string    `json:"remarks,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Request describes one transfer to perform. FromCampusID is the campus the
// caller claims the stock belongs to; the workflow verifies the claim.
type Request struct {
	StockID      int64  `json:"stock_id"`
	FromCampusID int64  `json:"from_campus_id"`
	ToCampusID   int64  `json:"to_campus_id"`
	Quantity     int    `json:"quantity"`
	Actor        string `json:"-"`
	Remarks      string `json:"remarks,omitempty"`
}

// Validate checks the preconditions that need no storage access.
func (req Request) Validate() error {
	if req.Quantity < 1 {
		return ErrBadQuantity
	}
	if req.FromCampusID == req.ToCampusID {
		return ErrSameCampus
	}
	return nil
}
