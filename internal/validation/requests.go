// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package validation

// ReportRequest is the POST / form plus its report query parameter.
type ReportRequest struct {
	Report      string `validate:"required,oneof=usageReport sessionReport"`
	JSON        string `validate:"required,jsonobject"`
	Signature   string `validate:"required"`
	PortalToken string `validate:"required"`
}

// MissingCredentials reports whether the failure is an absent form field
// rather than a malformed one.
func (ve *RequestValidationError) MissingCredentials() bool {
	for _, err := range ve.errors {
		if err.tag == "required" && err.field != "Report" {
			return true
		}
	}
	return false
}

// GenerateRequest is the offline CLI's input.
type GenerateRequest struct {
	Report     string `validate:"required,oneof=usageReport sessionReport"`
	EventsFile string `validate:"required,file"`
	ContentDir string `validate:"required,dir"`
	NamesFile  string `validate:"omitempty,file"`
}
