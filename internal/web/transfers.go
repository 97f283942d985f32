package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/campusops/stocktrack/internal/domain/transfers"
	"github.com/campusops/stocktrack/internal/infra/metrics"
)

func (s *Server) createTransfer(w http.ResponseWriter, r *http.Request) {
	var req transfers.Request
	if err := decodeJSON(r, &req); err != nil {
		respondDanger(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	req.Actor = actorFrom(r.Context()).Username

	t, err := s.transfers.Transfer(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, transfers.ErrBadQuantity), errors.Is(err, transfers.ErrSameCampus):
			respondDanger(w, http.StatusBadRequest, capitalize(err.Error())+".")
		case errors.Is(err, transfers.ErrInsufficient), errors.Is(err, transfers.ErrCampusMismatch):
			respondDanger(w, http.StatusConflict, capitalize(err.Error())+".")
		case errors.Is(err, transfers.ErrStockNotFound), errors.Is(err, transfers.ErrCampusNotFound):
			respondNotFound(w, capitalize(err.Error())+".")
		default:
			s.fail(w, r, "transfer stock", err)
		}
		return
	}

	metrics.TransfersTotal.Inc()
	metrics.StockOperations.WithLabelValues("transfer").Inc()
	respond(w, http.StatusCreated, "success",
		fmt.Sprintf("Transferred %d x %q.", t.Quantity, t.ItemName), t)
}

func (s *Server) listTransfers(w http.ResponseWriter, r *http.Request) {
	ts, err := s.transfers.List(r.Context(), queryInt64(r, "stock_id"), queryInt64(r, "campus_id"))
	if err != nil {
		s.fail(w, r, "list transfers", err)
		return
	}
	if ts == nil {
		ts = []transfers.StockTransfer{}
	}
	respondOK(w, "", ts)
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
