package profile

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/tgarcade/game-backend/db"
	"github.com/tgarcade/game-backend/internal/session"
)

type Handler struct {
	service  *Service
	sessions session.Store
}

func NewHandler(service *Service, sessions session.Store) *Handler {
	return &Handler{
		service:  service,
		sessions: sessions,
	}
}

type contextKey string

const userIDKey contextKey = "userID"

type gameStatsPayload struct {
	Score       int `json:"score"`
	Level       int `json:"level"`
	GamesPlayed int `json:"gamesPlayed"`
}

type userPayload struct {
	ID         int64            `json:"id"`
	TelegramID int64            `json:"telegramId"`
	Username   string           `json:"username"`
	FirstName  string           `json:"firstName"`
	LastName   string           `json:"lastName"`
	GameStats  gameStatsPayload `json:"gameStats"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TelegramID int64  `json:"telegram_id"`
		Username   string `json:"username"`
		FirstName  string `json:"first_name"`
		LastName   string `json:"last_name"`
		AuthToken  string `json:"auth_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.TelegramID == 0 || req.AuthToken == "" {
		writeError(w, http.StatusBadRequest, "Missing telegram_id or auth_token")
		return
	}

	userID, sessionID, err := h.service.Register(r.Context(), req.TelegramID, req.Username, req.FirstName, req.LastName, req.AuthToken)
	if err != nil {
		log.Printf("Failed to register telegram user %d: %v", req.TelegramID, err)
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	setSessionCookie(w, sessionID)
	writeJSON(w, http.StatusOK, struct {
		Success bool  `json:"success"`
		UserID  int64 `json:"userId"`
	}{Success: true, UserID: userID})
}

func (h *Handler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.Token == "" {
		writeError(w, http.StatusBadRequest, "Missing token")
		return
	}

	profile, sessionID, err := h.service.VerifyToken(r.Context(), req.Token)
	if errors.Is(err, ErrInvalidToken) {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	if err != nil {
		log.Printf("Failed to verify token: %v", err)
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	setSessionCookie(w, sessionID)
	writeJSON(w, http.StatusOK, struct {
		User userPayload `json:"user"`
	}{User: toUserPayload(profile)})
}

func (h *Handler) UpdateStats(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Score int `json:"score"`
		Level int `json:"level"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	userID := r.Context().Value(userIDKey).(int64)
	if err := h.service.UpdateStats(r.Context(), userID, req.Score, req.Level); err != nil {
		log.Printf("Failed to update stats for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
	}{Success: true})
}

func (h *Handler) UserStats(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(userIDKey).(int64)

	profile, err := h.service.GetStats(r.Context(), userID)
	if errors.Is(err, ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		log.Printf("Failed to load stats for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Stats db.GameStats `json:"stats"`
	}{Stats: profile.Stats})
}

// RequireSession gates a handler behind session presence. The session id is
// read from the cookie only; a body-supplied id is never trusted.
func (h *Handler) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(session.CookieName)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		userID, ok, err := h.sessions.Resolve(r.Context(), cookie.Value)
		if err != nil {
			log.Printf("Failed to resolve session: %v", err)
			writeError(w, http.StatusInternalServerError, "Session error")
			return
		}
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	}
}

// Routes builds the API mux. The two stats routes are gated; register and
// verify-token are open because they are how a session gets created.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/register", h.Register)
	mux.HandleFunc("POST /api/verify-token", h.VerifyToken)
	mux.HandleFunc("POST /api/update-stats", h.RequireSession(h.UpdateStats))
	mux.HandleFunc("GET /api/user-stats", h.RequireSession(h.UserStats))
	return mux
}

func setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    sessionID,
		Path:     "/",
		Expires:  time.Now().Add(session.TTL),
		HttpOnly: true,
	})
}

func toUserPayload(p *db.Profile) userPayload {
	return userPayload{
		ID:         p.User.ID,
		TelegramID: p.User.TelegramID,
		Username:   p.User.Username,
		FirstName:  p.User.FirstName,
		LastName:   p.User.LastName,
		GameStats: gameStatsPayload{
			Score:       p.Stats.Score,
			Level:       p.Stats.Level,
			GamesPlayed: p.Stats.GamesPlayed,
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
