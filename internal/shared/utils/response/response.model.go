package response

// StandardApiResponse is the envelope every handler writes. Status mirrors
// the outcome ("success"/"error") and StatusCode repeats the HTTP code so
// clients reading the body alone can branch on it.
type StandardApiResponse struct {
	Status     string      `json:"status"`
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`   // present on success
	Errors     interface{} `json:"errors,omitempty"` // field errors and the like
}
