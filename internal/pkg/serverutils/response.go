package serverutils

// WebResponse is the uniform envelope for every JSON endpoint.
type WebResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(message string, data interface{}) WebResponse {
	return WebResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(message string) WebResponse {
	return WebResponse{
		Status:  "error",
		Message: message,
	}
}
