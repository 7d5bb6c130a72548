package httpx

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorBody struct {
	Success bool         `json:"success"`
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
	Count   *int64       `json:"count,omitempty"`
}

func ValidationFailed(c echo.Context, details []FieldError) error {
	return c.JSON(http.StatusBadRequest, ErrorBody{Error: "Validation failed", Details: details})
}

func BadRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorBody{Error: msg})
}

func Unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorBody{Error: "Unauthorized"})
}

func Forbidden(c echo.Context) error {
	return c.JSON(http.StatusForbidden, ErrorBody{Error: "Forbidden"})
}

func NotFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, ErrorBody{Error: msg})
}

func Conflict(c echo.Context, msg string) error {
	return c.JSON(http.StatusConflict, ErrorBody{Error: msg})
}

// ConflictCount is used for deletes blocked by referential dependents; the
// count tells the admin UI how many records are in the way.
func ConflictCount(c echo.Context, msg string, count int64) error {
	return c.JSON(http.StatusConflict, ErrorBody{Error: msg, Count: &count})
}

func ServerError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, ErrorBody{Error: "Server error"})
}
