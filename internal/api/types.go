package api

// MsgBodyTooLarge is returned when the body exceeds the configured limit
const MsgBodyTooLarge = "Request body too large"

// GenerateMealsRequest is the body of POST /api/generate-meals
type GenerateMealsRequest struct {
	MenuText string `json:"menuText"`
}

// GenerateMealsResponse carries the model output unmodified
type GenerateMealsResponse struct {
	Suggestions string `json:"suggestions"`
}

// ErrorResponse is returned for every failed request
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}
