// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tereport/internal/logging"
	"github.com/tomtom215/tereport/internal/models"
	"github.com/tomtom215/tereport/internal/validation"
)

// sanitizeLogValue removes control characters from strings to prevent log
// injection.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates a simple ETag from data using FNV-1a hash
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// respondError sends an error envelope.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", sanitizeLogValue(code)).Str("error", sanitizeLogValue(err.Error())).Msg("API Error")
	}

	respondAPIError(w, status, &models.APIError{
		Code:    code,
		Message: message,
	})
}

func respondAPIError(w http.ResponseWriter, status int, apiErr *models.APIError) {
	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Data:   nil,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: apiErr,
	})
}

// respondText writes a plain-text body.
func respondText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		logging.Error().Err(err).Msg("Failed to write text response")
	}
}

// wantsJSON reports whether the client asked for JSON error bodies.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// respondReportError answers a failed report request. The body is the bare
// message unless the client accepts JSON.
func respondReportError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if wantsJSON(r) {
		respondError(w, status, code, message, err)
		return
	}
	if err != nil {
		logging.CtxErr(r.Context(), err).
			Str("code", sanitizeLogValue(code)).
			Int("status", status).
			Msg("Report request failed")
	}
	respondText(w, status, message)
}

// respondValidationError answers a report request that failed validation
// with 400. Plain-text clients get message; JSON clients get the failed
// fields. An empty code keeps the validator's VALIDATION_ERROR.
func respondValidationError(w http.ResponseWriter, r *http.Request, code, message string, verr *validation.RequestValidationError) {
	failed := make([]string, 0, len(verr.Errors()))
	for _, fe := range verr.Errors() {
		failed = append(failed, fe.Field()+":"+fe.Tag())
	}
	logging.CtxWarn(r.Context()).Strs("failed", failed).Msg("Report request rejected")

	if !wantsJSON(r) {
		respondText(w, http.StatusBadRequest, message)
		return
	}
	apiErr := verr.ToAPIError()
	if code == "" {
		code = apiErr.Code
	}
	respondAPIError(w, http.StatusBadRequest, &models.APIError{
		Code:    code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	})
}
