package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"toolbay/internal/service"
)

// Machine-readable error codes. Clients key off these and the status code,
// so both must stay stable.
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeDuplicateURL  = "DUPLICATE_URL"
	CodeDuplicate     = "DUPLICATE_ENTRY"
	CodeToolNotFound  = "TOOL_NOT_FOUND"
	CodeNotFound      = "NOT_FOUND"
	CodeAccountBanned = "ACCOUNT_BANNED"
	CodeForbidden     = "FORBIDDEN"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeInternal      = "INTERNAL_SERVER_ERROR"
)

type errorBody struct {
	Message    string `json:"message"`
	Code       string `json:"code"`
	StatusCode int    `json:"statusCode"`
}

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   *errorBody  `json:"error,omitempty"`
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, envelope{Success: true, Data: data})
}

func respondMessage(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, envelope{Success: false, Error: &errorBody{
		Message:    message,
		Code:       code,
		StatusCode: status,
	}})
}

// serviceError maps the service layer's sentinel errors onto stable
// (status, code) pairs. Storage-level detail never leaks to the caller;
// unexpected errors are logged and surface as a generic 500.
func serviceError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrAccountBanned):
		respondError(c, http.StatusForbidden, CodeAccountBanned, "Account has been banned")
	case errors.Is(err, service.ErrDuplicateURL):
		respondError(c, http.StatusConflict, CodeDuplicateURL, err.Error())
	case errors.Is(err, service.ErrDuplicateOpinion):
		respondError(c, http.StatusConflict, CodeDuplicate, "You have already submitted an opinion for this tool")
	case errors.Is(err, service.ErrDuplicateVote):
		respondError(c, http.StatusConflict, CodeDuplicate, err.Error())
	case errors.Is(err, service.ErrToolNotFound):
		respondError(c, http.StatusNotFound, CodeToolNotFound, "Tool not found")
	case errors.Is(err, service.ErrOpinionNotFound):
		respondError(c, http.StatusNotFound, CodeNotFound, "Opinion not found")
	case errors.Is(err, service.ErrUserNotFound):
		respondError(c, http.StatusNotFound, CodeNotFound, "User not found")
	case errors.Is(err, service.ErrNotOwner):
		respondError(c, http.StatusForbidden, CodeForbidden, "You can only edit your own opinions")
	case errors.Is(err, service.ErrInvalidVoteType),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrContentTooShort),
		errors.Is(err, service.ErrInvalidURL),
		errors.Is(err, service.ErrInvalidPricing),
		errors.Is(err, service.ErrUnknownCategory):
		respondError(c, http.StatusBadRequest, CodeValidation, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, CodeUnauthorized, "Invalid credentials")
	default:
		logger.Error("Unhandled service error",
			zap.String("path", c.Request.URL.Path), zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "Internal server error")
	}
}
