// Package dto holds the request and response shapes of the HTTP API.
// Domain entities never serialize directly; everything crosses through a
// DTO so the wire format stays stable when the domain changes.
package dto

import "tokopos/internal/core/id"

// ListResponse is the envelope for every paginated collection.
type ListResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

type IDResponse struct {
	ID string `json:"id"`
}

func NewIDResponse(i id.ID) IDResponse {
	return IDResponse{ID: i.String()}
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse mirrors what the error middleware renders.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type SetDeletionMarkRequest struct {
	Marked bool `json:"marked"`
}
