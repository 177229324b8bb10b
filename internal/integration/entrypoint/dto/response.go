// Package dto defines data transfer objects for API requests and responses.
package dto

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool          `json:"success"`
	Data    any           `json:"data,omitempty"`
	Error   *ErrorBody    `json:"error,omitempty"`
	Meta    *ResponseMeta `json:"meta,omitempty"`
}

// ErrorBody carries a stable machine code and a generic message.
// Detailed causes stay in the server logs.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ResponseMeta carries request metadata alongside the data payload.
type ResponseMeta struct {
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes the cursor position of a list response.
type Pagination struct {
	Cursor  *string `json:"cursor,omitempty"`
	HasMore bool    `json:"hasMore"`
	Total   *int64  `json:"total,omitempty"`
}

// OK wraps a successful payload.
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// OKPaginated wraps a successful list payload with its cursor position.
func OKPaginated(data any, cursor *string, hasMore bool) Response {
	return Response{
		Success: true,
		Data:    data,
		Meta:    &ResponseMeta{Pagination: &Pagination{Cursor: cursor, HasMore: hasMore}},
	}
}

// Fail wraps an error code and message.
func Fail(code, message string) Response {
	return Response{Success: false, Error: &ErrorBody{Code: code, Message: message}}
}
