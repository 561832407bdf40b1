package main

import (
	"landcheck/projection"
	"landcheck/wizard"
)

// Request/response DTOs. Keep them minimal and explicit.

type createWizardResp struct {
	ID    string      `json:"id"`
	Token string      `json:"token"`
	View  wizard.View `json:"view"`
}

type wizardResp struct {
	View wizard.View `json:"view"`
}

type setFieldsReq struct {
	Fields map[wizard.Field]string `json:"fields"`
}

// errorResp carries the wizard view when the failure concerns a session,
// so clients can render field errors without a second request.
type errorResp struct {
	Error string       `json:"error"`
	View  *wizard.View `json:"view,omitempty"`
}

type locationsResp struct {
	Items []string `json:"items"`
}

type projectionResp struct {
	CustomerName string            `json:"customerName"`
	Report       projection.Report `json:"report"`
	Lines        []projection.Line `json:"lines"`
}
