package server

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/nanum-dev/nanum/internal/logging"
	"github.com/nanum-dev/nanum/internal/metadata"
	"github.com/nanum-dev/nanum/internal/relay/auth"
	"github.com/nanum-dev/nanum/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("OK"))
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"primaryEmail": claims.PrimaryEmail,
		"emails":       claims.Emails,
		"exp":          claims.ExpiresAt.Unix(),
	})
}

func (s *Server) handleCreateMetadata(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var req metadata.CreationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid metadata", http.StatusBadRequest)
		return
	}

	desc := req.IntoDescriptor(claims.PrimaryEmail)
	data, err := desc.Marshal()
	if err != nil {
		http.Error(w, "invalid metadata", http.StatusBadRequest)
		return
	}

	id, err := s.newShareID(r.Context())
	if err != nil {
		s.logger.Error("generating share id", logging.KeyError, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if err := s.store.PutMetadata(r.Context(), id, data); err != nil {
		s.metrics.RecordStorageError("put_metadata")
		s.logger.Error("storing metadata", logging.KeyShareID, id, logging.KeyError, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.metrics.SharesCreated.Inc()
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (s *Server) handleGetMetadata(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	data, err := s.store.GetMetadata(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.metrics.RecordStorageError("get_metadata")
		s.logger.Error("fetching metadata", logging.KeyShareID, id, logging.KeyError, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handlePutBlock(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	seq, err := strconv.Atoi(r.PathValue("seq"))
	if err != nil || seq < 1 {
		http.Error(w, "invalid block sequence", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if err := s.store.PutBlock(r.Context(), id, seq, data); err != nil {
		s.metrics.RecordStorageError("put_block")
		s.logger.Error("storing block", logging.KeyShareID, id, logging.KeyBlockSeq, seq, logging.KeyError, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.metrics.RecordBlockUpload(len(data))
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleGetBlock(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	seq, err := strconv.Atoi(r.PathValue("seq"))
	if err != nil || seq < 1 {
		http.Error(w, "invalid block sequence", http.StatusBadRequest)
		return
	}

	data, err := s.store.GetBlock(r.Context(), id, seq)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.metrics.RecordStorageError("get_block")
		s.logger.Error("fetching block", logging.KeyShareID, id, logging.KeyBlockSeq, seq, logging.KeyError, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.metrics.RecordBlockDownload(len(data))
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(data)
}

func (s *Server) handleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := randomState()
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, s.github.AuthCodeURL(state), http.StatusFound)
}

func (s *Server) handleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing code", http.StatusBadRequest)
		return
	}

	primaryEmail, emails, err := s.github.Exchange(r.Context(), code)
	if err != nil {
		s.metrics.RecordAuthFailure("oauth_exchange")
		s.logger.Warn("github oauth exchange failed", logging.KeyError, err)
		http.Error(w, "authentication failed", http.StatusBadGateway)
		return
	}

	if !s.cfg.IsAllowed(emails) {
		s.metrics.RecordAuthFailure("not_allowlisted")
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	token, err := s.jwt.IssueSession(primaryEmail, emails)
	if err != nil {
		s.logger.Error("issuing session", logging.KeyError, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.metrics.AuthSuccesses.Inc()
	auth.SetSessionCookie(w, token)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) newShareID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		id, err := randomShareID(s.cfg.RandomURILength)
		if err != nil {
			return "", err
		}
		if _, err := s.store.GetMetadata(ctx, id); errors.Is(err, store.ErrNotFound) {
			return id, nil
		}
	}
	return "", errors.New("server: exhausted share id generation attempts")
}

func randomState() string {
	buf := make([]byte, 16)
	rand.Read(buf)
	return base64.RawURLEncoding.EncodeToString(buf)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
