package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/errors"
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-insights/pkg/validator"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{}       `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// getRequestID reads the request id set by the RequestID middleware
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	return respond(logger, c, http.StatusOK, data)
}

// HandleCreated writes a standardized 201 response
func HandleCreated(logger *zap.Logger, c echo.Context, data interface{}) error {
	return respond(logger, c, http.StatusCreated, data)
}

func respond(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := success{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)
	appErr := toAppError(err)

	if logger != nil {
		fields := []zap.Field{
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.String("app_code", appErr.Code.String()),
			zap.Error(err),
		}
		if appErr.HTTPCode >= http.StatusInternalServerError {
			logger.Error("http.response.error", fields...)
		} else {
			logger.Warn("http.response.error", fields...)
		}
	}

	info := ""
	if appErr.Raw != nil && appErr.HTTPCode < http.StatusInternalServerError {
		info = appErr.Raw.Error()
	}

	body := errs{
		Code:    appErr.Code,
		Message: appErr.Message,
		Info:    info,
		Details: appErr.Details,
	}

	return c.JSON(appErr.HTTPCode, body)
}

// HTTPErrorHandler renders errors returned by middleware and the router
// (404/405, auth failures) with the same envelope as handlers
func HTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if hErr := HandleError(logger, c, err); hErr != nil && logger != nil {
			logger.Error("failed to write error response", zap.Error(hErr))
		}
	}
}

// toAppError maps domain sentinels and echo errors onto the application error catalogue
func toAppError(err error) errors.AppError {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}

	var httpErr *echo.HTTPError
	if stdErrors.As(err, &httpErr) {
		return fromHTTPError(httpErr)
	}

	switch {
	case stdErrors.Is(err, entities.ErrMeetingNotFound):
		return errors.ErrMeetingNotFound()
	case stdErrors.Is(err, entities.ErrTeamNotFound):
		return errors.ErrTeamNotFound()
	case stdErrors.Is(err, entities.ErrEmployeeNotFound):
		return errors.ErrEmployeeNotFound()
	case stdErrors.Is(err, entities.ErrDepartmentNotFound):
		return errors.ErrDepartmentNotFound()
	case stdErrors.Is(err, entities.ErrOrganizationNotFound):
		return errors.ErrNotFound("organization")
	case stdErrors.Is(err, entities.ErrUserNotFound):
		return errors.ErrNotFound("user")
	case stdErrors.Is(err, entities.ErrHierarchyCycle):
		return errors.ErrHierarchyCycle()
	case stdErrors.Is(err, entities.ErrInvalidMeetingType):
		return errors.ErrInvalidMeetingType()
	case stdErrors.Is(err, entities.ErrInvalidScheduleTime):
		return errors.ErrInvalidArgument("scheduled_time is required")
	case stdErrors.Is(err, entities.ErrInvalidTeamName):
		return errors.ErrInvalidArgument("team name is required")
	case stdErrors.Is(err, entities.ErrInvalidExternalID):
		return errors.ErrMissingField("id")
	case stdErrors.Is(err, entities.ErrForbidden):
		return errors.ErrForbidden("not a member of an organization")
	case stdErrors.Is(err, entities.ErrUnauthorized):
		return errors.ErrUnauthenticated()
	}
	return errors.ErrInternal(err)
}

func fromHTTPError(he *echo.HTTPError) errors.AppError {
	message := http.StatusText(he.Code)
	if s, ok := he.Message.(string); ok && s != "" {
		message = s
	}
	code := errors.ErrorCode_INTERNAL
	switch he.Code {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		code = errors.ErrorCode_INVALID_ARGUMENT
	case http.StatusUnauthorized:
		code = errors.ErrorCode_UNAUTHENTICATED
	case http.StatusForbidden:
		code = errors.ErrorCode_FORBIDDEN
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		code = errors.ErrorCode_NOT_FOUND
	}
	return errors.AppError{
		Raw:      he.Internal,
		HTTPCode: he.Code,
		Code:     code,
		Message:  message,
	}
}

// bindAndValidate decodes the request body into req and runs the registered validator
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.ErrInvalidPayload()
	}
	if err := c.Validate(req); err != nil {
		appErr := errors.ErrInvalidArgument("Validation failed")
		for field, tag := range validator.FieldErrors(err) {
			appErr = appErr.WithDetail(field, tag)
		}
		return appErr
	}
	return nil
}

// principal returns the authenticated principal or an unauthenticated error
func principal(c echo.Context) (entities.Principal, error) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		return entities.Principal{}, errors.ErrUnauthenticated()
	}
	return p, nil
}

// pathUUID parses a uuid path parameter
func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errors.ErrInvalidArgument("invalid "+name).WithDetail(name, c.Param(name))
	}
	return id, nil
}
