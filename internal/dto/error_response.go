package dto

// ErrorResponse carries a user-visible notification.
type ErrorResponse struct {
	Error string `json:"error"`
}
