package dto

import "time"

// ErrorResponse is the JSON body returned for every non-2xx response.
type ErrorResponse struct {
	Message      string    `json:"message" example:"symbols is required"`
	ErrorDetails string    `json:"error,omitempty" example:"Key: 'CrawlBatchRequest.Symbols' Error:Field validation for 'Symbols' failed on the 'required' tag"`
	Timestamp    time.Time `json:"timestamp" example:"2025-09-01T12:00:00Z"`
}

// NewErrorResponse builds an ErrorResponse; err may be nil.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}

// Error implements the error interface.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}
