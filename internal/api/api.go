// ABOUTME: HTTP API handlers wrapping the tracker service
// ABOUTME: Cookie session transport, JSON bodies, error-to-status mapping

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/streakfit/streakd/internal/backup"
	"github.com/streakfit/streakd/internal/tracker"
)

const (
	// sessionCookieName is the cookie carrying the opaque session token.
	sessionCookieName = "session_id"

	// sessionCookieMaxAge is the cookie validity window. The registry is
	// process-lifetime, so a restart invalidates the token long before the
	// cookie expires; clients just get a 401 and log in again.
	sessionCookieMaxAge = 30 * 24 * time.Hour
)

// Server exposes the tracker service over HTTP.
type Server struct {
	service *tracker.Service
	logger  *slog.Logger
}

// NewServer creates an API server around the given service.
func NewServer(service *tracker.Service) *Server {
	return &Server{
		service: service,
		logger:  slog.Default().With("component", "api"),
	}
}

// RegisterRoutes registers all API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/logout", s.handleLogout)
	mux.HandleFunc("POST /api/mark-workout", s.handleMark)
	mux.HandleFunc("POST /api/unmark-workout", s.handleUnmark)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/export", s.handleExport)

	s.logger.Info("api routes registered")
}

// CredentialsRequest is the JSON request body for register and login.
type CredentialsRequest struct {
	Name string `json:"name"`
	PIN  string `json:"pin"`
}

// AuthResponse is the JSON response for register and login.
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Name    string `json:"name"`
}

// MarkRequest is the JSON request body for mark and unmark. Date is optional
// for mark (defaults to today) and required for unmark.
type MarkRequest struct {
	Date string `json:"date,omitempty"`
}

// MarkResponse is the JSON response for mark and unmark.
type MarkResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Streak    int    `json:"streak"`
	TotalDays int    `json:"total_days"`
}

// DashboardResponse is the JSON response for the dashboard view.
type DashboardResponse struct {
	Name            string         `json:"name"`
	TodayDate       string         `json:"today_date"`
	CurrentStreak   int            `json:"current_streak"`
	TotalDays       int            `json:"total_workout_days"`
	LastWorkoutDate *string        `json:"last_workout_date"`
	TodayMarked     bool           `json:"today_marked"`
	WorkoutHistory  []HistoryEntry `json:"workout_history"`
}

// HistoryEntry is one completed day in the dashboard history.
type HistoryEntry struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

// LeaderboardEntry is one row of the leaderboard response.
type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	Name          string `json:"name"`
	CurrentStreak int    `json:"current_streak"`
	TotalDays     int    `json:"total_workout_days"`
	IsCurrentUser bool   `json:"is_current_user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	auth, err := s.service.Register(r.Context(), req.Name, req.PIN)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.setSessionCookie(w, r, auth.Token)
	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "Registration successful", Name: auth.Name})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	auth, err := s.service.Login(r.Context(), req.Name, req.PIN)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.setSessionCookie(w, r, auth.Token)
	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "Login successful", Name: auth.Name})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := s.sessionToken(r); token != "" {
		s.service.Logout(token)
	}
	s.clearSessionCookie(w, r)
	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "Logged out successfully"})
}

func (s *Server) handleMark(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeMarkBody(w, r)
	if !ok {
		return
	}

	res, err := s.service.Mark(r.Context(), s.sessionToken(r), req.Date)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, markResponse(res))
}

func (s *Server) handleUnmark(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeMarkBody(w, r)
	if !ok {
		return
	}

	res, err := s.service.Unmark(r.Context(), s.sessionToken(r), req.Date)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, markResponse(res))
}

// decodeMarkBody parses the optional JSON body of a mark/unmark request.
// A missing body is fine; malformed JSON is not.
func (s *Server) decodeMarkBody(w http.ResponseWriter, r *http.Request) (MarkRequest, bool) {
	var req MarkRequest
	if r.Body == nil || r.ContentLength == 0 {
		return req, true
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return req, false
	}
	return req, true
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := s.service.Dashboard(r.Context(), s.sessionToken(r))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	resp := DashboardResponse{
		Name:           dash.Name,
		TodayDate:      dash.Today,
		CurrentStreak:  dash.Streak,
		TotalDays:      dash.Total,
		TodayMarked:    dash.TodayMarked,
		WorkoutHistory: make([]HistoryEntry, 0, len(dash.History)),
	}
	if dash.LastDate != "" {
		resp.LastWorkoutDate = &dash.LastDate
	}
	for _, h := range dash.History {
		resp.WorkoutHistory = append(resp.WorkoutHistory, HistoryEntry{Date: h.Date, Status: h.Status})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.service.Leaderboard(r.Context(), s.sessionToken(r))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	resp := make([]LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, LeaderboardEntry{
			Rank:          e.Rank,
			Name:          e.Name,
			CurrentStreak: e.Streak,
			TotalDays:     e.Total,
			IsCurrentUser: e.IsCurrentUser,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleExport streams a zip snapshot of both collections. The snapshot is
// taken under the service write lock, so the pair is always consistent.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if _, err := s.service.Dashboard(r.Context(), s.sessionToken(r)); err != nil {
		s.writeServiceError(w, err)
		return
	}

	snap, err := s.service.Snapshot(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	name := fmt.Sprintf("streakd-backup-%s.zip", time.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if err := backup.Write(w, snap); err != nil {
		// Headers are gone; all we can do is log.
		s.logger.Error("writing export archive", "error", err)
	}
}

func markResponse(res tracker.Result) MarkResponse {
	return MarkResponse{
		Success:   res.Applied,
		Message:   res.Message,
		Streak:    res.Streak,
		TotalDays: res.Total,
	}
}

// sessionToken extracts the session token from the request cookie. Missing
// cookies yield an empty token, which the service rejects as unauthorized.
func (s *Server) sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (s *Server) setSessionCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// writeServiceError maps service errors to HTTP statuses.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tracker.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, tracker.ErrValidation), errors.Is(err, tracker.ErrConflict):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
