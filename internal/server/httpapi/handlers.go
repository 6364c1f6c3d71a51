package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/walletvault/internal/common"
	"github.com/dmitrijs2005/walletvault/internal/server/auth"
	"github.com/dmitrijs2005/walletvault/internal/server/models"
)

// minPasswordLen is the shell-level registration rule; the core itself
// accepts any password.
const minPasswordLen = 6

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type createWalletRequest struct {
	Name      string `json:"name"`
	Login     string `json:"login"`
	Password  string `json:"password"`
	Host      string `json:"host"`
	MasterKey string `json:"master_key"`
}

type sendRequestRequest struct {
	TargetUsername string `json:"target_username"`
}

type respondRequest struct {
	Accept bool `json:"accept"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, statusResponse{Success: false, Message: msg})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Username == "" {
		writeError(w, http.StatusBadRequest, "username must not be empty")
		return
	}
	if len(req.Password) < minPasswordLen {
		writeError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	ok, err := s.accounts.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		s.logger.Error(r.Context(), "registration failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !ok {
		writeError(w, http.StatusConflict, "username already taken")
		return
	}

	writeJSON(w, http.StatusCreated, statusResponse{Success: true})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	creds, err := s.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		s.logger.Error(r.Context(), "login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	token, err := auth.GenerateToken(creds.UserName, creds.MasterKey, s.jwtSecret, s.sessionValidity)
	if err != nil {
		s.logger.Error(r.Context(), "token generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

func (s *Server) handleCreateWallet(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.Login == "" || req.Password == "" || req.Host == "" {
		writeError(w, http.StatusBadRequest, "all wallet fields are required")
		return
	}

	// The caller may supply a borrowed master key; their own is the default.
	masterKey := req.MasterKey
	if masterKey == "" {
		masterKey = session.MasterKey
	}

	ok, err := s.wallets.Create(r.Context(), req.Name, req.Login, req.Password, req.Host, masterKey)
	if err != nil {
		s.logger.Error(r.Context(), "wallet creation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !ok {
		writeError(w, http.StatusBadRequest, "could not create wallet")
		return
	}

	writeJSON(w, http.StatusCreated, statusResponse{Success: true})
}

func (s *Server) handleSearchWallets(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	nameFilter := r.URL.Query().Get("name_filter")
	masterKey := r.URL.Query().Get("master_key")
	if masterKey == "" {
		masterKey = session.MasterKey
	}

	records, err := s.wallets.Search(r.Context(), nameFilter, models.KeyPrefix(masterKey), masterKey)
	if err != nil {
		s.logger.Error(r.Context(), "wallet search failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleSendRequest(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req sendRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Shell-level convenience check; the core permits self-requests.
	if req.TargetUsername == session.UserName {
		writeError(w, http.StatusBadRequest, "cannot send a request to yourself")
		return
	}

	ok, err := s.keyShares.SendRequest(r.Context(), session.UserName, req.TargetUsername)
	if err != nil {
		s.logger.Error(r.Context(), "key request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !ok {
		writeError(w, http.StatusBadRequest, "user not found")
		return
	}

	writeJSON(w, http.StatusCreated, statusResponse{Success: true})
}

func (s *Server) handleListIncoming(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	requests, err := s.keyShares.ListIncoming(r.Context(), session.UserName)
	if err != nil {
		s.logger.Error(r.Context(), "listing requests failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, requests)
}

func (s *Server) handleRespond(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	requestID := chi.URLParam(r, "id")

	if err := s.keyShares.Respond(r.Context(), session.UserName, requestID, req.Accept); err != nil {
		s.logger.Error(r.Context(), "responding to request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Success: true})
}

func (s *Server) handleListShared(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	keys, err := s.keyShares.ListShared(r.Context(), session.UserName)
	if err != nil {
		s.logger.Error(r.Context(), "listing shared keys failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, keys)
}
