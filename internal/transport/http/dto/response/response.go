package response

type Response struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

type ErrorResponse struct {
	Status  string      `json:"status"`
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func SuccessResponse(data interface{}) Response {
	return Response{
		Status: "success",
		Data:   data,
	}
}

func MessageResponse(message string, data interface{}) Response {
	return Response{
		Status:  "success",
		Data:    data,
		Message: message,
	}
}

func ErrorResponseWithDetails(err string, details interface{}) ErrorResponse {
	return ErrorResponse{
		Status:  "error",
		Error:   err,
		Details: details,
	}
}
