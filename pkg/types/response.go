package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// MessageResponse is the body of acknowledgements that carry no record.
type MessageResponse struct {
	Message string `json:"message"`
}

// RemovedResponse acknowledges a cart line deleted through a zero-quantity update.
type RemovedResponse struct {
	Removed bool   `json:"removed"`
	Message string `json:"message"`
}
