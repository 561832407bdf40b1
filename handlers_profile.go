package main

import (
	"errors"
	"net/http"

	"landcheck/views"
)

// authCookie holds the token issued by the external auth service.
const authCookie = "auth_token"

func userToken(r *http.Request) string {
	if tok := bearerToken(r); tok != "" {
		return tok
	}
	if c, err := r.Cookie(authCookie); err == nil {
		return c.Value
	}
	return ""
}

// handleMe forwards the caller's token to the auth service's current-user call.
func (a *App) handleMe(w http.ResponseWriter, r *http.Request) {
	tok := bearerToken(r)
	if tok == "" {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return
	}
	u, err := a.api.CurrentUser(r.Context(), tok)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		a.log.Error("current user", "err", err)
		http.Error(w, "auth service unavailable", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// handleDashboard shows the signed-in user's profile.
func (a *App) handleDashboard(w http.ResponseWriter, r *http.Request) {
	tok := userToken(r)
	if tok == "" {
		a.render(w, http.StatusUnauthorized, views.DashboardPage(nil, "Please sign in to see your account."))
		return
	}
	u, err := a.api.CurrentUser(r.Context(), tok)
	switch {
	case errors.Is(err, ErrUnauthorized):
		a.render(w, http.StatusUnauthorized, views.DashboardPage(nil, "Your sign-in has expired. Please sign in again."))
	case err != nil:
		a.log.Error("current user", "err", err)
		a.render(w, http.StatusBadGateway, views.DashboardPage(nil, "We could not load your account. Please try again."))
	default:
		a.render(w, http.StatusOK, views.DashboardPage(u, ""))
	}
}
