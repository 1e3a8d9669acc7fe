package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pawsitter-api/logger"
	"github.com/kendall-kelly/pawsitter-api/middleware"
	"github.com/kendall-kelly/pawsitter-api/services"
)

// Entity names used to build NOT_FOUND / EXISTS error codes
const (
	entityUser     = "USER"
	entitySupplier = "SUPPLIER"
	entityOrder    = "ORDER"
)

var entityLabels = map[string]string{
	entityUser:     "User",
	entitySupplier: "Supplier",
	entityOrder:    "Order",
}

func errorResponse(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func validationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

func dataResponse(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// serviceError translates a service error into a response. It is the only
// place that maps domain errors to HTTP status codes.
func serviceError(c *gin.Context, entity string, err error) {
	label := entityLabels[entity]

	switch {
	case errors.Is(err, services.ErrNotFound):
		errorResponse(c, http.StatusNotFound, entity+"_NOT_FOUND", label+" not found")
	case errors.Is(err, services.ErrInvalidInput):
		validationError(c, err)
	case errors.Is(err, services.ErrInvalidReference):
		errorResponse(c, http.StatusUnprocessableEntity, "INVALID_REFERENCE", err.Error())
	case errors.Is(err, services.ErrConflict):
		errorResponse(c, http.StatusConflict, entity+"_EXISTS", label+" already exists")
	default:
		logger.FromContext(c.Request.Context()).Error().Err(err).Str("entity", label).Msg("request failed")
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "An internal error occurred")
	}
}

// currentSubject returns the authenticated subject or writes a 401
func currentSubject(c *gin.Context) (string, bool) {
	subject, err := middleware.GetUserID(c)
	if err != nil {
		errorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return "", false
	}
	return subject, true
}

// resolveOwner returns the owner named in a request body. An empty owner
// means the caller; any other subject is rejected with a 403.
func resolveOwner(c *gin.Context, subject, requested string) (string, bool) {
	if requested == "" || requested == subject {
		return subject, true
	}
	errorResponse(c, http.StatusForbidden, "FORBIDDEN", "userAuth0Id must match the authenticated user")
	return "", false
}

// parseIDParam reads a positive numeric path parameter or writes a 400
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		errorResponse(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}
