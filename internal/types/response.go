package types

// ErrorResponse is the JSON error body every failing endpoint returns.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewErrorResponse builds the error payload from any taxonomy error.
func NewErrorResponse(err error) ErrorResponse {
	return ErrorResponse{Error: PublicMessage(err)}
}
