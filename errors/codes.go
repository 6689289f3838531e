package errors

// ErrorCode is the application-level error code returned in error envelopes
type ErrorCode int32

const (
	ErrorCode_HTTP_OK ErrorCode = 200

	// General
	ErrorCode_INTERNAL          ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT  ErrorCode = 1001
	ErrorCode_NOT_FOUND         ErrorCode = 1002
	ErrorCode_PERMISSION_DENIED ErrorCode = 1004
	ErrorCode_UNAUTHENTICATED   ErrorCode = 1005
	ErrorCode_FORBIDDEN         ErrorCode = 1006

	// Authentication
	ErrorCode_AUTH_INVALID_TOKEN  ErrorCode = 2000
	ErrorCode_AUTH_TOKEN_EXPIRED  ErrorCode = 2001
	ErrorCode_AUTH_USER_NOT_FOUND ErrorCode = 2002

	// Meetings
	ErrorCode_MEETING_NOT_FOUND    ErrorCode = 3000
	ErrorCode_MEETING_INVALID_TYPE ErrorCode = 3001

	// Directory
	ErrorCode_TEAM_NOT_FOUND       ErrorCode = 4000
	ErrorCode_EMPLOYEE_NOT_FOUND   ErrorCode = 4001
	ErrorCode_HIERARCHY_CYCLE      ErrorCode = 4002
	ErrorCode_DEPARTMENT_NOT_FOUND ErrorCode = 4003

	// Webhooks
	ErrorCode_INVALID_PAYLOAD           ErrorCode = 5000
	ErrorCode_INVALID_WEBHOOK_SIGNATURE ErrorCode = 5001
	ErrorCode_PROCESSING_FAILED         ErrorCode = 5002
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                   "HTTP_OK",
	ErrorCode_INTERNAL:                  "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:          "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                 "NOT_FOUND",
	ErrorCode_PERMISSION_DENIED:         "PERMISSION_DENIED",
	ErrorCode_UNAUTHENTICATED:           "UNAUTHENTICATED",
	ErrorCode_FORBIDDEN:                 "FORBIDDEN",
	ErrorCode_AUTH_INVALID_TOKEN:        "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:        "AUTH_TOKEN_EXPIRED",
	ErrorCode_AUTH_USER_NOT_FOUND:       "AUTH_USER_NOT_FOUND",
	ErrorCode_MEETING_NOT_FOUND:         "MEETING_NOT_FOUND",
	ErrorCode_MEETING_INVALID_TYPE:      "MEETING_INVALID_TYPE",
	ErrorCode_TEAM_NOT_FOUND:            "TEAM_NOT_FOUND",
	ErrorCode_EMPLOYEE_NOT_FOUND:        "EMPLOYEE_NOT_FOUND",
	ErrorCode_HIERARCHY_CYCLE:           "HIERARCHY_CYCLE",
	ErrorCode_DEPARTMENT_NOT_FOUND:      "DEPARTMENT_NOT_FOUND",
	ErrorCode_INVALID_PAYLOAD:           "INVALID_PAYLOAD",
	ErrorCode_INVALID_WEBHOOK_SIGNATURE: "INVALID_WEBHOOK_SIGNATURE",
	ErrorCode_PROCESSING_FAILED:         "PROCESSING_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
