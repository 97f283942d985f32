package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/campusops/stocktrack/internal/domain/history"
	"github.com/campusops/stocktrack/internal/domain/stock"
	"github.com/campusops/stocktrack/internal/infra/metrics"
)

type stockRequest struct {
	ItemName          string  `json:"item_name"`
	Category          string  `json:"category"`
	Quantity          int     `json:"quantity"`
	Unit              string  `json:"unit"`
	UnitPrice         float64 `json:"unit_price"`
	Condition         string  `json:"condition"`
	Status            string  `json:"status"`
	LowStockThreshold int     `json:"low_stock_threshold"`
	AssetTag          string  `json:"asset_tag"`
	SerialNumber      string  `json:"serial_number"`
	Manufacturer      string  `json:"manufacturer"`
	Model             string  `json:"model"`
	Department        string  `json:"department"`
	PurchaseDate      string  `json:"purchase_date"`
	WarrantyExpiry    string  `json:"warranty_expiry"`
	Remarks           string  `json:"remarks"`
	CampusID          int64   `json:"campus_id"`
}

func (req stockRequest) validate() string {
	if req.ItemName == "" {
		return "Item name is required."
	}
	if req.Quantity < 0 {
		return "Quantity cannot be negative."
	}
	if req.UnitPrice < 0 {
		return "Unit price cannot be negative."
	}
	if req.CampusID == 0 {
		return "Campus is required."
	}
	return ""
}

func (req stockRequest) toStock() *stock.Stock {
	return &stock.Stock{
		ItemName:          req.ItemName,
		Category:          req.Category,
		Quantity:          req.Quantity,
		Unit:              req.Unit,
		UnitPrice:         req.UnitPrice,
		Condition:         stock.Condition(req.Condition),
		Status:            stock.Status(req.Status),
		LowStockThreshold: req.LowStockThreshold,
		AssetTag:          req.AssetTag,
		SerialNumber:      req.SerialNumber,
		Manufacturer:      req.Manufacturer,
		Model:             req.Model,
		Department:        req.Department,
		PurchaseDate:      parseDate(req.PurchaseDate),
		WarrantyExpiry:    parseDate(req.WarrantyExpiry),
		Remarks:           req.Remarks,
		CampusID:          req.CampusID,
	}
}

func parseDate(v string) *time.Time {
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return nil
	}
	return &t
}

func (s *Server) createStock(w http.ResponseWriter, r *http.Request) {
	var req stockRequest
	if err := decodeJSON(r, &req); err != nil {
		respondDanger(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if msg := req.validate(); msg != "" {
		respondDanger(w, http.StatusBadRequest, msg)
		return
	}

	item := req.toStock()
	item.AddedBy = actorFrom(r.Context()).Username
	if err := s.stocks.Create(r.Context(), item); err != nil {
		switch {
		case errors.Is(err, stock.ErrDuplicateAssetTag):
			respondDanger(w, http.StatusConflict, "Asset tag already exists.")
		case errors.Is(err, stock.ErrNotFound):
			respondNotFound(w, "Campus not found.")
		default:
			s.fail(w, r, "create stock", err)
		}
		return
	}

	metrics.StockOperations.WithLabelValues("create").Inc()
	respond(w, http.StatusCreated, "success", fmt.Sprintf("Stock item %q added.", item.ItemName), item)
}

func (s *Server) getStock(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondDanger(w, http.StatusBadRequest, "Invalid stock id.")
		return
	}
	item, err := s.stocks.GetByID(r.Context(), id)
	if err != nil {
		s.fail(w, r, "get stock", err)
		return
	}
	if item == nil {
		respondNotFound(w, "Stock item not found.")
		return
	}
	respondOK(w, "", map[string]any{
		"stock":        item,
		"is_low_stock": item.IsLowStock(),
	})
}

func (s *Server) updateStock(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondDanger(w, http.StatusBadRequest, "Invalid stock id.")
		return
	}
	var req stockRequest
	if err := decodeJSON(r, &req); err != nil {
		respondDanger(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if msg := req.validate(); msg != "" {
		respondDanger(w, http.StatusBadRequest, msg)
		return
	}

	item := req.toStock()
	item.ID = id
	if err := s.stocks.Update(r.Context(), item, actorFrom(r.Context()).Username); err != nil {
		switch {
		case errors.Is(err, stock.ErrNotFound):
			respondNotFound(w, "Stock item not found.")
		case errors.Is(err, stock.ErrDuplicateAssetTag):
			respondDanger(w, http.StatusConflict, "Asset tag already exists.")
		default:
			s.fail(w, r, "update stock", err)
		}
		return
	}

	metrics.StockOperations.WithLabelValues("update").Inc()
	respondOK(w, fmt.Sprintf("Stock item %q updated.", item.ItemName), item)
}

func (s *Server) deleteStock(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondDanger(w, http.StatusBadRequest, "Invalid stock id.")
		return
	}
	if err := s.stocks.Delete(r.Context(), id, actorFrom(r.Context()).Username); err != nil {
		if errors.Is(err, stock.ErrNotFound) {
			respondNotFound(w, "Stock item not found.")
			return
		}
		s.fail(w, r, "delete stock", err)
		return
	}
	metrics.StockOperations.WithLabelValues("delete").Inc()
	respondOK(w, "Stock item deleted.", nil)
}

type assignRequest struct {
	UserID int64 `json:"user_id"`
}

func (s *Server) assignStock(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondDanger(w, http.StatusBadRequest, "Invalid stock id.")
		return
	}
	var req assignRequest
	if err := decodeJSON(r, &req); err != nil || req.UserID == 0 {
		respondDanger(w, http.StatusBadRequest, "A user_id is required.")
		return
	}

	if err := s.stocks.Assign(r.Context(), id, &req.UserID, actorFrom(r.Context()).Username); err != nil {
		if errors.Is(err, stock.ErrNotFound) {
			respondNotFound(w, "Stock item or user not found.")
			return
		}
		s.fail(w, r, "assign stock", err)
		return
	}
	metrics.StockOperations.WithLabelValues("assign").Inc()
	respondOK(w, "Asset assigned.", nil)
}

func (s *Server) unassignStock(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondDanger(w, http.StatusBadRequest, "Invalid stock id.")
		return
	}
	if err := s.stocks.Assign(r.Context(), id, nil, actorFrom(r.Context()).Username); err != nil {
		if errors.Is(err, stock.ErrNotFound) {
			respondNotFound(w, "Stock item not found.")
			return
		}
		s.fail(w, r, "unassign stock", err)
		return
	}
	metrics.StockOperations.WithLabelValues("unassign").Inc()
	respondOK(w, "Asset unassigned.", nil)
}

func (s *Server) stockHistory(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondDanger(w, http.StatusBadRequest, "Invalid stock id.")
		return
	}
	entries, err := s.history.ListByStock(r.Context(), id)
	if err != nil {
		s.fail(w, r, "list stock history", err)
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	respondOK(w, "", entries)
}
