package server

import (
	"github.com/raysh454/phishguard/internal/model"
	"github.com/raysh454/phishguard/internal/navigation"
)

// ScanRequest is the payload that triggers a scan on a session.
type ScanRequest = model.ScanRequest

// NavigationResponse is the route table marked for one path.
type NavigationResponse struct {
	Path   string             `json:"path" example:"/history"`
	Routes []navigation.Entry `json:"routes"`
}

// CopyResponse carries the clipboard summary of a session's result.
type CopyResponse struct {
	Text string `json:"text" example:"PhishGuard AI Analysis Results\nURL: example.com\nRisk Score: 12%"`
}

// ErrorResponse is a uniform error payload returned by the API.
type ErrorResponse struct {
	Error string `json:"error" example:"session not found"`
}
