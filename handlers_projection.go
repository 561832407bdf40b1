package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"landcheck/projection"
	"landcheck/views"
)

// projectRequest reads the land size and customer name of a projection
// request. The name falls back to the default customer name.
func (a *App) projectRequest(rawSize, rawName string) (projection.Report, string, error) {
	size, err := strconv.ParseFloat(strings.TrimSpace(rawSize), 64)
	if err != nil {
		return projection.Report{}, "", projection.ErrInvalidLandSize
	}
	rep, err := projection.Project(size)
	if err != nil {
		return projection.Report{}, "", err
	}
	a.metrics.projections.Inc()
	name := strings.TrimSpace(rawName)
	if name == "" {
		name = projection.DefaultCustomerName
	}
	return rep, name, nil
}

// handleProjection returns the report and its formatted lines.
func (a *App) handleProjection(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rep, name, err := a.projectRequest(q.Get("landSize"), q.Get("name"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, projectionResp{
		CustomerName: name,
		Report:       rep,
		Lines:        a.format.Lines(rep),
	})
}

func (a *App) handleResultsPage(w http.ResponseWriter, r *http.Request) {
	rawSize := chi.URLParam(r, "landSize")
	rep, name, err := a.projectRequest(rawSize, r.URL.Query().Get("name"))
	if err != nil {
		a.render(w, http.StatusBadRequest, views.ErrorPage("Invalid land size", "Land size must be a positive number of perches."))
		return
	}
	a.render(w, http.StatusOK, views.ResultsPage(views.Results{
		CustomerName: name,
		Lines:        a.format.Lines(rep),
		Disclaimer:   a.format.Disclaimer(),
		ExportURL:    reportURL(rawSize, r.URL.Query().Get("name")),
		ExportFailed: r.URL.Query().Get("export") == "failed",
	}))
}

// handleReportPDF streams the report as a PDF download. On failure the
// visitor is sent back to the results page, which shows the error.
func (a *App) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	rawSize := chi.URLParam(r, "landSize")
	rawName := r.URL.Query().Get("name")
	rep, name, err := a.projectRequest(rawSize, rawName)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	key := fmt.Sprintf("%g|%s", rep.LandSize, name)
	doc, shared, err := a.exporter.Export(r.Context(), key, rep, name)
	a.metrics.export(err)
	if err != nil {
		a.log.Error("export report", "land_size", rep.LandSize, "err", err)
		back := resultsURL(rawSize, rawName, url.Values{"export": {"failed"}})
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	if shared {
		a.log.Debug("export shared", "key", key)
	}
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Body)))
	_, _ = w.Write(doc.Body)
}

func resultsURL(rawSize, name string, extra url.Values) string {
	q := url.Values{}
	if name != "" {
		q.Set("name", name)
	}
	for k, v := range extra {
		q[k] = v
	}
	u := "/results/" + url.PathEscape(rawSize)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func reportURL(rawSize, name string) string {
	u := "/results/" + url.PathEscape(rawSize) + "/report.pdf"
	if name != "" {
		u += "?" + url.Values{"name": {name}}.Encode()
	}
	return u
}

