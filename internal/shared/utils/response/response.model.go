package response

// Envelope is the uniform API response shape. Provider callback endpoints
// (M-Pesa, Stripe) bypass it and answer in the provider-expected format.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}
