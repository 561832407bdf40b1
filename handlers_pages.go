package main

import (
	"context"
	"errors"
	"net/http"

	g "maragu.dev/gomponents"

	"landcheck/sessions"
	"landcheck/views"
	"landcheck/wizard"
)

func (a *App) render(w http.ResponseWriter, status int, page g.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := page.Render(w); err != nil {
		a.log.Error("render page", "err", err)
	}
}

func (a *App) handleHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/eligibility", http.StatusFound)
}

// pageSession returns the visitor's wizard session, starting a new one
// when the cookie is missing, invalid or points at an expired session.
func (a *App) pageSession(w http.ResponseWriter, r *http.Request) (string, error) {
	if sid, ok := a.cookieSession(r); ok {
		return sid, nil
	}
	return a.newPageSession(r.Context(), w)
}

func (a *App) newPageSession(ctx context.Context, w http.ResponseWriter) (string, error) {
	sid, err := a.sessions.Create(ctx)
	if err != nil {
		return "", err
	}
	tok, err := signSessionToken(a.cfg.SessionSecret, sid, a.cfg.SessionTTL)
	if err != nil {
		return "", err
	}
	a.setSessionCookie(w, tok)
	return sid, nil
}

// handleEligibilityPage renders the current wizard step.
func (a *App) handleEligibilityPage(w http.ResponseWriter, r *http.Request) {
	sid, err := a.pageSession(w, r)
	if err != nil {
		a.log.Error("start session", "err", err)
		a.render(w, http.StatusInternalServerError, views.ErrorPage("Something went wrong", "Please try again in a moment."))
		return
	}
	var view wizard.View
	err = a.sessions.With(r.Context(), sid, func(wz *wizard.Wizard) error {
		view = wz.View()
		return nil
	})
	if errors.Is(err, sessions.ErrNotFound) {
		if _, err = a.newPageSession(r.Context(), w); err == nil {
			http.Redirect(w, r, "/eligibility", http.StatusSeeOther)
			return
		}
	}
	if err != nil {
		a.log.Error("load session", "session_id", sid, "err", err)
		a.render(w, http.StatusInternalServerError, views.ErrorPage("Something went wrong", "Please try again in a moment."))
		return
	}
	a.render(w, http.StatusOK, views.WizardPage(view, a.locs))
}

// handleEligibilityForm applies the posted answers for the current step,
// performs the requested action and redirects back to the page. Field
// errors, notices and submission failures live in the session and show up
// on the next render.
func (a *App) handleEligibilityForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	sid, ok := a.cookieSession(r)
	if !ok {
		http.Redirect(w, r, "/eligibility", http.StatusSeeOther)
		return
	}
	action := r.PostForm.Get("action")
	if action == "" && r.PostForm.Has("step") {
		// Step indicator buttons post only their step number.
		action = "goto"
	}
	if action == "restart" {
		_ = a.sessions.Delete(r.Context(), sid)
		if _, err := a.newPageSession(r.Context(), w); err != nil {
			a.log.Error("restart session", "err", err)
		}
		http.Redirect(w, r, "/eligibility", http.StatusSeeOther)
		return
	}

	err := a.sessions.With(r.Context(), sid, func(wz *wizard.Wizard) error {
		if !wz.Finalized() {
			values := map[wizard.Field]string{}
			for _, f := range wizard.StepFields[wz.Step()] {
				if _, ok := r.PostForm[string(f)]; ok {
					values[f] = r.PostForm.Get(string(f))
				}
			}
			if len(values) > 0 {
				// Parse failures are recorded on the wizard itself.
				var verr *wizard.ValidationError
				if err := wz.SetFields(values); err != nil && !errors.As(err, &verr) {
					return err
				}
			}
		}
		switch action {
		case "next":
			from := wz.Step()
			err := wz.Advance(r.Context())
			a.metrics.transition(from, err)
			return err
		case "back":
			if s := wz.Step(); s > wizard.StepPersonalInfo {
				return wz.GoToStep(r.Context(), s-1)
			}
		case "goto":
			target, err := parseStep(r.PostForm.Get("step"))
			if err != nil {
				return err
			}
			return wz.GoToStep(r.Context(), target)
		}
		return nil
	})
	switch status := wizardStatus(err); {
	case errors.Is(err, sessions.ErrNotFound):
		if _, err := a.newPageSession(r.Context(), w); err != nil {
			a.log.Error("start session", "err", err)
		}
	case status == http.StatusInternalServerError:
		a.log.Error("wizard form failed", "session_id", sid, "err", err)
		a.render(w, status, views.ErrorPage("Something went wrong", "Please try again in a moment."))
		return
	}
	http.Redirect(w, r, "/eligibility", http.StatusSeeOther)
}
