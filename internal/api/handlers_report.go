// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package api

import (
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tereport/internal/logging"
	"github.com/tomtom215/tereport/internal/reportdata"
	"github.com/tomtom215/tereport/internal/reports"
	"github.com/tomtom215/tereport/internal/upstream"
	"github.com/tomtom215/tereport/internal/validation"
)

// MissingCredentialsMessage is the 400 body for a request without json,
// signature, or portal_token. The Portal report page shows it verbatim.
const MissingCredentialsMessage = "Server - Missing json, signature, or token"

// reportForm carries the POST / fields, from a form or a JSON body.
type reportForm struct {
	JSON        string `json:"json"`
	Signature   string `json:"signature"`
	PortalToken string `json:"portal_token"`
}

// readReportForm reads the request fields. URL-encoded and multipart forms
// are read with ParseForm; application/json bodies are decoded directly.
func readReportForm(r *http.Request) (reportForm, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var form reportForm
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			return reportForm{}, fmt.Errorf("failed to decode JSON body: %w", err)
		}
		return form, nil
	}

	if err := r.ParseForm(); err != nil {
		return reportForm{}, fmt.Errorf("failed to parse form: %w", err)
	}
	return reportForm{
		JSON:        r.PostForm.Get("json"),
		Signature:   r.PostForm.Get("signature"),
		PortalToken: r.PostForm.Get("portal_token"),
	}, nil
}

// Report fetches the signed event log, builds report data, and streams the
// selected report as a CSV attachment.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, h.config.Server.MaxBodyBytes)

	form, err := readReportForm(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondReportError(w, r, http.StatusRequestEntityTooLarge, "VALIDATION_ERROR",
				fmt.Sprintf("Server - Request body exceeds %d bytes", tooLarge.Limit), err)
			return
		}
		respondReportError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Server - Unreadable request body", err)
		return
	}

	req := validation.ReportRequest{
		Report:      r.URL.Query().Get("report"),
		JSON:        form.JSON,
		Signature:   form.Signature,
		PortalToken: form.PortalToken,
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		switch {
		case verr.MissingCredentials():
			respondValidationError(w, r, "", MissingCredentialsMessage, verr)
		case verr.HasTag("jsonobject"):
			respondValidationError(w, r, "", "Server - json is not a JSON object", verr)
		default:
			respondValidationError(w, r, "UNKNOWN_REPORT",
				fmt.Sprintf("Server - Undefined query parameter for reportType %q", sanitizeLogValue(req.Report)), verr)
		}
		return
	}

	kind, err := reports.ParseReportType(req.Report)
	if err != nil {
		respondReportError(w, r, http.StatusBadRequest, "UNKNOWN_REPORT", err.Error(), nil)
		return
	}

	logReq, err := upstream.NewLogRequest(req.JSON, req.Signature)
	if err != nil {
		respondReportError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Server - Invalid log request json", err)
		return
	}

	logging.CtxInfo(ctx).
		Str("report", string(kind)).
		Str("domain", sanitizeLogValue(logReq.Query.Domain)).
		Int("runnables", len(logReq.Query.Runnables)).
		Msg("Report requested")

	events, err := h.events.FetchEvents(ctx, logReq)
	if err != nil {
		respondReportError(w, r, http.StatusInternalServerError, "UPSTREAM_ERROR",
			fmt.Sprintf("Server - Failed to fetch event log: %v", err), err)
		return
	}

	var identity upstream.IdentitySource
	if h.identity != nil {
		identity = h.identity(req.PortalToken)
	}
	data, err := reportdata.NewBuilder(h.content, identity, h.buildOpts).Build(ctx, events)
	if err != nil {
		respondReportError(w, r, http.StatusInternalServerError, "BUILD_ERROR",
			fmt.Sprintf("Server - Failed to build report data: %v", err), err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+reports.FileName(kind, h.now()))
	w.Header().Set("Cache-Control", "no-cache")

	if err := reports.Generate(w, kind, data); err != nil {
		// Headers are already sent.
		logging.CtxErr(ctx, err).Str("report", string(kind)).Msg("Failed to write report")
	}
}
