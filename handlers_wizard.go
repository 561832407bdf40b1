package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"landcheck/sessions"
	"landcheck/wizard"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// wizardStatus maps a wizard outcome to an HTTP status.
func wizardStatus(err error) int {
	var verr *wizard.ValidationError
	var serr *wizard.SubmitError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &serr):
		return http.StatusBadGateway
	case errors.Is(err, wizard.ErrHardStop),
		errors.Is(err, wizard.ErrNoOwnLand),
		errors.Is(err, wizard.ErrFinalized),
		errors.Is(err, wizard.ErrFieldNotOnStep),
		errors.Is(err, wizard.ErrSubmissionInFlight):
		return http.StatusConflict
	case errors.Is(err, wizard.ErrUnknownField), errors.Is(err, wizard.ErrInvalidStep):
		return http.StatusBadRequest
	case errors.Is(err, sessions.ErrNotFound):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// errorMessage is the text sent to clients; internal failures stay generic.
func errorMessage(status int, err error) string {
	var serr *wizard.SubmitError
	switch {
	case errors.Is(err, sessions.ErrNotFound):
		return "session expired"
	case errors.As(err, &serr):
		return "We could not save your details. Please try again."
	case errors.Is(err, wizard.ErrNoOwnLand):
		return wizard.NoOwnLandNotice
	case status == http.StatusInternalServerError:
		return "internal error"
	}
	return err.Error()
}

// withWizard runs op against the caller's wizard and replies with its view.
func (a *App) withWizard(w http.ResponseWriter, r *http.Request, op func(context.Context, *wizard.Wizard) error) {
	var view *wizard.View
	err := a.sessions.With(r.Context(), mustSessionID(r), func(wz *wizard.Wizard) error {
		err := op(r.Context(), wz)
		v := wz.View()
		view = &v
		return err
	})
	if err == nil {
		writeJSON(w, http.StatusOK, wizardResp{View: *view})
		return
	}
	status := wizardStatus(err)
	if status == http.StatusInternalServerError {
		a.log.Error("wizard request failed", "session_id", mustSessionID(r), "err", err)
	}
	writeJSON(w, status, errorResp{Error: errorMessage(status, err), View: view})
}

// handleCreateWizard starts a session and returns its bearer token.
func (a *App) handleCreateWizard(w http.ResponseWriter, r *http.Request) {
	id, err := a.sessions.Create(r.Context())
	if err != nil {
		a.log.Error("create session", "err", err)
		http.Error(w, "session store error", http.StatusInternalServerError)
		return
	}
	tok, err := signSessionToken(a.cfg.SessionSecret, id, a.cfg.SessionTTL)
	if err != nil {
		http.Error(w, "jwt error", http.StatusInternalServerError)
		return
	}
	resp := createWizardResp{ID: id, Token: tok}
	_ = a.sessions.With(r.Context(), id, func(wz *wizard.Wizard) error {
		resp.View = wz.View()
		return nil
	})
	writeJSON(w, http.StatusCreated, resp)
}

func (a *App) handleGetWizard(w http.ResponseWriter, r *http.Request) {
	a.withWizard(w, r, func(context.Context, *wizard.Wizard) error { return nil })
}

func (a *App) handleDeleteWizard(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Delete(r.Context(), mustSessionID(r)); err != nil {
		a.log.Error("delete session", "err", err)
		http.Error(w, "session store error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSetFields applies a batch of field values without leaving the step.
func (a *App) handleSetFields(w http.ResponseWriter, r *http.Request) {
	var req setFieldsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if len(req.Fields) == 0 {
		http.Error(w, "fields are required", http.StatusBadRequest)
		return
	}
	a.withWizard(w, r, func(_ context.Context, wz *wizard.Wizard) error {
		return wz.SetFields(req.Fields)
	})
}

func (a *App) handleNext(w http.ResponseWriter, r *http.Request) {
	a.withWizard(w, r, func(ctx context.Context, wz *wizard.Wizard) error {
		from := wz.Step()
		err := wz.Advance(ctx)
		a.metrics.transition(from, err)
		return err
	})
}

func (a *App) handleGoTo(w http.ResponseWriter, r *http.Request) {
	target, err := parseStep(chi.URLParam(r, "step"))
	if err != nil {
		http.Error(w, "invalid step", http.StatusBadRequest)
		return
	}
	a.withWizard(w, r, func(ctx context.Context, wz *wizard.Wizard) error {
		from := wz.Step()
		err := wz.GoToStep(ctx, target)
		if target > from {
			a.metrics.transition(from, err)
		}
		return err
	})
}

// parseStep accepts a step number or its name, e.g. "3" or "location".
func parseStep(raw string) (wizard.Step, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		s := wizard.Step(n)
		if !s.Valid() {
			return 0, wizard.ErrInvalidStep
		}
		return s, nil
	}
	for s := wizard.StepPersonalInfo; s <= wizard.StepResults; s++ {
		if s.String() == raw {
			return s, nil
		}
	}
	return 0, wizard.ErrInvalidStep
}

func (a *App) handleProvinces(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, locationsResp{Items: a.locs.Provinces()})
}

func (a *App) handleDistricts(w http.ResponseWriter, r *http.Request) {
	province := chi.URLParam(r, "province")
	if !a.locs.ValidProvince(province) {
		http.Error(w, "unknown province", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, locationsResp{Items: a.locs.Districts(province)})
}

func (a *App) handleCities(w http.ResponseWriter, r *http.Request) {
	province, district := chi.URLParam(r, "province"), chi.URLParam(r, "district")
	if !a.locs.ValidDistrict(province, district) {
		http.Error(w, "unknown district", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, locationsResp{Items: a.locs.Cities(district)})
}
