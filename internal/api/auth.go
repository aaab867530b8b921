package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/Amdragz/fiya/internal/auth"
)

// refreshCookieName is the HttpOnly cookie carrying the refresh token
// for browser clients.
const refreshCookieName = "refresh_token"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"user_type"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type updatePasswordRequest struct {
	NewPassword string `json:"new_password"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// handleLogin authenticates a user by email, password and user type,
// returning a fresh token pair. Browser clients additionally receive
// the refresh token in an HttpOnly cookie.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeBadRequest(w, "Email and password are required")
		return
	}

	role, err := auth.ParseRole(req.UserType)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	pair, err := s.auth.Login(r.Context(), req.Email, req.Password, role)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	if isBrowser(r.UserAgent()) {
		s.setRefreshCookie(w, pair.RefreshToken, pair.ExpiresAt)
	}

	writeSuccess(w, http.StatusOK, "Login successful", pair)
}

// handleRefreshToken rotates a refresh token for a new token pair. The
// token is taken from the request body when present, falling back to
// the refresh cookie; a body token always wins over the cookie.
func (s *Server) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	//nolint:errcheck // an empty or absent body falls through to the cookie
	decodeBody(r, &req)

	token := req.RefreshToken
	if token == "" {
		if cookie, err := r.Cookie(refreshCookieName); err == nil {
			token = cookie.Value
		}
	}
	if token == "" {
		writeUnauthorized(w, "Invalid refresh token request")
		return
	}

	pair, err := s.auth.Refresh(r.Context(), token)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	if isBrowser(r.UserAgent()) {
		s.setRefreshCookie(w, pair.RefreshToken, pair.ExpiresAt)
	}

	writeSuccess(w, http.StatusOK, "Token refreshed successfully", pair)
}

// handleLogout revokes the caller's session. Logout always succeeds
// from the client's point of view; revocation failures are logged.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		writeUnauthorized(w, "Unauthorized")
		return
	}

	s.auth.Logout(r.Context(), identity.UserID)
	s.clearRefreshCookie(w)

	writeSuccess(w, http.StatusOK, "Logout successful", nil)
}

// handleMe returns the authenticated user's profile.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		writeUnauthorized(w, "Unauthorized")
		return
	}

	user, err := s.auth.AuthenticatedUser(r.Context(), identity.UserID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "User retrieved successfully", user)
}

// handleUpdatePassword sets a new password without checking the old
// one. Customers use it to replace their generated starter password.
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		writeUnauthorized(w, "Unauthorized")
		return
	}

	var req updatePasswordRequest
	if err := decodeBody(r, &req); err != nil || req.NewPassword == "" {
		writeBadRequest(w, "New password is required")
		return
	}

	if err := s.auth.SetPassword(r.Context(), identity.UserID, req.NewPassword); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Password updated successfully", nil)
}

// handleChangePassword replaces the caller's password after verifying
// the old one.
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		writeUnauthorized(w, "Unauthorized")
		return
	}

	var req changePasswordRequest
	if err := decodeBody(r, &req); err != nil || req.OldPassword == "" || req.NewPassword == "" {
		writeBadRequest(w, "Old and new passwords are required")
		return
	}

	if err := s.auth.ChangePassword(r.Context(), identity.UserID, req.OldPassword, req.NewPassword); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Password changed successfully", nil)
}

// setRefreshCookie stores the refresh token in an HttpOnly cookie
// scoped to the whole site, expiring with the token itself.
func (s *Server) setRefreshCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearRefreshCookie expires the refresh cookie immediately.
func (s *Server) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// browserMarkers are User-Agent substrings identifying browser clients
// that should receive the refresh cookie. Non-browser clients (mobile
// apps, curl) manage the refresh token themselves.
var browserMarkers = []string{"Chrome", "Firefox", "Safari", "Edge", "Opera"}

// isBrowser reports whether the User-Agent looks like a web browser.
func isBrowser(userAgent string) bool {
	for _, marker := range browserMarkers {
		if strings.Contains(userAgent, marker) {
			return true
		}
	}
	return false
}
