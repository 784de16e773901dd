package handler

import "appforms/internal/templates"

// ListResponse is the body of GET /templates.
type ListResponse struct {
	Templates []templates.Summary `json:"templates"`
}
