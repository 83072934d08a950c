// Package handlers implements the ops HTTP endpoints served by the
// schedule command.
package handlers

// StatusResponse is a generic status response body.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}
