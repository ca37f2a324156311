package dto

import (
	"time"

	"github.com/yigit/programhub/internal/pkg/helpers"
)

// APIResponse is the envelope of every JSON response
type APIResponse struct {
	Success    bool                    `json:"success"`
	Data       interface{}             `json:"data,omitempty"`
	Pagination *helpers.PaginationInfo `json:"pagination,omitempty"`
	Error      *ErrorDetail            `json:"error,omitempty"`
	Timestamp  time.Time               `json:"timestamp"`
}

// NewSuccessResponse wraps data in a successful envelope
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewPagedResponse wraps one page of a listing with its pagination block
func NewPagedResponse(data interface{}, pagination helpers.PaginationInfo) APIResponse {
	return APIResponse{
		Success:    true,
		Data:       data,
		Pagination: &pagination,
		Timestamp:  time.Now(),
	}
}

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message"`
}
