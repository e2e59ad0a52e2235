package httputil

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/andremq/user-accounts-backend/internal/domain"
	"github.com/andremq/user-accounts-backend/internal/pkg/apperror"
)

// ErrorResponse is the envelope every failure renders as. Message carries a
// single human-readable reason; Errors carries the per-field violation list
// for validation failures. Exactly one of the two is set.
type ErrorResponse struct {
	Code      string           `json:"code"`
	Message   string           `json:"message,omitempty"`
	Errors    []FieldViolation `json:"errors,omitempty"`
	RequestID string           `json:"request_id,omitempty"`
}

type FieldViolation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{
		Code:      code,
		Message:   message,
		RequestID: GetRequestID(c),
	})
}

// ValidationError renders DTO binding failures. Constraint violations keep
// their per-field detail; malformed payloads get a plain bad-request message.
func ValidationError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		violations := make([]FieldViolation, 0, len(verrs))
		for _, fe := range verrs {
			violations = append(violations, FieldViolation{
				Field:   strings.ToLower(fe.Field()),
				Rule:    fe.Tag(),
				Message: violationMessage(fe),
			})
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:      apperror.CodeValidation,
			Errors:    violations,
			RequestID: GetRequestID(c),
		})
		return
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Code:      apperror.CodeBadRequest,
		Message:   err.Error(),
		RequestID: GetRequestID(c),
	})
}

func InternalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Code:      apperror.CodeInternal,
		Message:   "internal server error",
		RequestID: GetRequestID(c),
	})
}

// HandleError is the single boundary translating service errors into the
// envelope. Anything it does not recognize renders as an internal error with
// a generic message; internal detail never reaches the client.
func HandleError(c *gin.Context, err error) {
	var (
		notFound *domain.UserNotFoundError
		exists   *domain.UserAlreadyExistsError
		taken    *domain.UsernameTakenError
		appErr   *apperror.AppError
	)

	switch {
	case errors.As(err, &notFound):
		Error(c, http.StatusNotFound, apperror.CodeUserNotFound, notFound.Error())
	case errors.As(err, &exists):
		Error(c, http.StatusConflict, apperror.CodeUserExists, exists.Error())
	case errors.As(err, &taken):
		Error(c, http.StatusConflict, apperror.CodeUsernameTaken, taken.Error())
	case errors.As(err, &appErr):
		Error(c, appErr.StatusCode, appErr.Code, appErr.Message)
	default:
		_ = c.Error(err)
		InternalError(c)
	}
}

func GetRequestID(c *gin.Context) string {
	if id, exists := c.Get("request_id"); exists {
		return id.(string)
	}
	return ""
}

func violationMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "userpassword":
		return "password too weak"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
