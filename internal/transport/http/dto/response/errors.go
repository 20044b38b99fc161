package response

const (
	CodeInvalidRequest   = "invalid_request"
	CodeValidationFailed = "validation_failed"
	CodeUnauthorized     = "unauthorized"
	CodeForbidden        = "forbidden"
	CodeNotFound         = "not_found"
	CodeInternal         = "internal_error"
)

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   CodeInvalidRequest,
		Details: "Invalid request format",
	}

	ErrUnauthorized = ErrorResponse{
		Status:  "error",
		Error:   CodeUnauthorized,
		Details: "Missing or invalid bearer token",
	}

	ErrForbidden = ErrorResponse{
		Status:  "error",
		Error:   CodeForbidden,
		Details: "Admin permission required",
	}

	ErrPostNotFound = ErrorResponse{
		Status:  "error",
		Error:   CodeNotFound,
		Details: "Post not found",
	}

	ErrInternal = ErrorResponse{
		Status:  "error",
		Error:   CodeInternal,
		Details: "Internal server error",
	}
)
