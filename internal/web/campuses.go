package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/campusops/stocktrack/internal/domain/campuses"
)

type campusRequest struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Address string `json:"address"`
}

func (req campusRequest) validate() string {
	if req.Name == "" {
		return "Campus name is required."
	}
	if req.Code == "" {
		return "Campus code is required."
	}
	return ""
}

func (s *Server) listCampuses(w http.ResponseWriter, r *http.Request) {
	cs, err := s.campuses.List(r.Context())
	if err != nil {
		s.fail(w, r, "list campuses", err)
		return
	}
	if cs == nil {
		cs = []campuses.Campus{}
	}
	respondOK(w, "", cs)
}

func (s *Server) createCampus(w http.ResponseWriter, r *http.Request) {
	var req campusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondDanger(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if msg := req.validate(); msg != "" {
		respondDanger(w, http.StatusBadRequest, msg)
		return
	}

	c, err := s.campuses.Create(r.Context(), req.Name, req.Code, req.Address)
	if err != nil {
		if errors.Is(err, campuses.ErrDuplicate) {
			respondDanger(w, http.StatusConflict, "Campus code already exists.")
			return
		}
		s.fail(w, r, "create campus", err)
		return
	}
	respond(w, http.StatusCreated, "success", fmt.Sprintf("Campus %q added successfully!", c.Name), c)
}

func (s *Server) getCampus(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondDanger(w, http.StatusBadRequest, "Invalid campus id.")
		return
	}
	c, err := s.campuses.GetByID(r.Context(), id)
	if err != nil {
		s.fail(w, r, "get campus", err)
		return
	}
	if c == nil {
		respondNotFound(w, "Campus not found.")
		return
	}
	respondOK(w, "", c)
}

func (s *Server) updateCampus(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondDanger(w, http.StatusBadRequest, "Invalid campus id.")
		return
	}
	var req campusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondDanger(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if msg := req.validate(); msg != "" {
		respondDanger(w, http.StatusBadRequest, msg)
		return
	}

	c, err := s.campuses.Update(r.Context(), id, req.Name, req.Code, req.Address)
	if err != nil {
		if errors.Is(err, campuses.ErrDuplicate) {
			respondDanger(w, http.StatusConflict, "Campus code already exists.")
			return
		}
		s.fail(w, r, "update campus", err)
		return
	}
	if c == nil {
		respondNotFound(w, "Campus not found.")
		return
	}
	respondOK(w, fmt.Sprintf("Campus %q updated.", c.Name), c)
}

func (s *Server) deleteCampus(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondDanger(w, http.StatusBadRequest, "Invalid campus id.")
		return
	}
	c, err := s.campuses.GetByID(r.Context(), id)
	if err != nil {
		s.fail(w, r, "get campus", err)
		return
	}
	if c == nil {
		respondNotFound(w, "Campus not found.")
		return
	}
	if err := s.campuses.Delete(r.Context(), id); err != nil {
		s.fail(w, r, "delete campus", err)
		return
	}
	respondOK(w, fmt.Sprintf("Campus %q and all its stock deleted.", c.Name), nil)
}

func (s *Server) campusStocks(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondDanger(w, http.StatusBadRequest, "Invalid campus id.")
		return
	}
	c, err := s.campuses.GetByID(r.Context(), id)
	if err != nil {
		s.fail(w, r, "get campus", err)
		return
	}
	if c == nil {
		respondNotFound(w, "Campus not found.")
		return
	}

	q := r.URL.Query()
	items, err := s.stocks.ListByCampus(r.Context(), id, q.Get("search"), q.Get("category"))
	if err != nil {
		s.fail(w, r, "list campus stocks", err)
		return
	}
	categories, err := s.stocks.Categories(r.Context(), id)
	if err != nil {
		s.fail(w, r, "list campus categories", err)
		return
	}

	respondOK(w, "", map[string]any{
		"campus":     c,
		"stocks":     items,
		"categories": categories,
	})
}

func (s *Server) campusCategories(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondDanger(w, http.StatusBadRequest, "Invalid campus id.")
		return
	}
	categories, err := s.stocks.Categories(r.Context(), id)
	if err != nil {
		s.fail(w, r, "list campus categories", err)
		return
	}
	respondOK(w, "", categories)
}

// fail logs the underlying error and returns a generic message; internals are
// never surfaced to the caller.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	s.log.Error(op+" failed", "err", err, "request_id", r.Header.Get("X-Request-ID"))
	respondDanger(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
}
