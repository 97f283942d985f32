package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/campusops/stocktrack/internal/domain/stock"
	"github.com/campusops/stocktrack/internal/domain/users"
)

type userRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Email      string `json:"email"`
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	us, err := s.users.List(r.Context())
	if err != nil {
		s.fail(w, r, "list users", err)
		return
	}
	if us == nil {
		us = []users.User{}
	}
	respondOK(w, "", us)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		respondDanger(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if len(req.Username) < 3 {
		respondDanger(w, http.StatusBadRequest, "Username must be at least 3 characters.")
		return
	}
	if len(req.Password) < 6 {
		respondDanger(w, http.StatusBadRequest, "Password must be at least 6 characters.")
		return
	}
	role := users.Role(req.Role)
	if role != users.RoleAdmin && role != users.RoleStaff {
		respondDanger(w, http.StatusBadRequest, "Role must be admin or staff.")
		return
	}

	u := &users.User{
		Username:   req.Username,
		Role:       role,
		Department: req.Department,
		Email:      req.Email,
	}
	if err := u.SetPassword(req.Password); err != nil {
		s.fail(w, r, "hash password", err)
		return
	}
	if err := s.users.Create(r.Context(), u); err != nil {
		if errors.Is(err, users.ErrDuplicateUsername) {
			respondDanger(w, http.StatusConflict, "Username already exists.")
			return
		}
		s.fail(w, r, "create user", err)
		return
	}
	respond(w, http.StatusCreated, "success", fmt.Sprintf("User %q created successfully!", u.Username), u)
}

// userAssets lists the stock items currently assigned to a user.
func (s *Server) userAssets(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondDanger(w, http.StatusBadRequest, "Invalid user id.")
		return
	}
	u, err := s.users.GetByID(r.Context(), id)
	if err != nil {
		s.fail(w, r, "get user", err)
		return
	}
	if u == nil {
		respondNotFound(w, "User not found.")
		return
	}
	items, err := s.stocks.ListAssignedTo(r.Context(), id)
	if err != nil {
		s.fail(w, r, "list user assets", err)
		return
	}
	if items == nil {
		items = []stock.Stock{}
	}
	respondOK(w, "", map[string]any{"user": u, "assets": items})
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondDanger(w, http.StatusBadRequest, "Invalid user id.")
		return
	}
	u, err := s.users.GetByID(r.Context(), id)
	if err != nil {
		s.fail(w, r, "get user", err)
		return
	}
	if u == nil {
		respondNotFound(w, "User not found.")
		return
	}
	if err := s.users.Delete(r.Context(), id); err != nil {
		s.fail(w, r, "delete user", err)
		return
	}
	respondOK(w, fmt.Sprintf("User %q deleted.", u.Username), nil)
}
