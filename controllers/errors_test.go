package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"

	"github.com/huey-app/huey/services"
)

func TestRespondServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err     error
		code    int
		message string
	}{
		{&services.ValidationError{Message: "missing required fields"}, http.StatusBadRequest, "missing required fields"},
		{&services.UnauthorizedError{Message: "invalid credentials"}, http.StatusUnauthorized, "invalid credentials"},
		{&services.ForbiddenError{}, http.StatusForbidden, "forbidden"},
		{&services.NotFoundError{Resource: "waitlist entry"}, http.StatusNotFound, "waitlist entry not found"},
		{&services.ConflictError{Message: "user already exists"}, http.StatusConflict, "user already exists"},
		{&services.PersistenceError{Op: "list waitlist", Err: errors.New("FOREIGN KEY constraint failed")}, http.StatusInternalServerError, "internal server error"},
		{errors.New("anything else"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		respondServiceError(c, tt.err)

		assert.Equal(t, tt.code, w.Code)
		assert.Equal(t, tt.message, gjson.Get(w.Body.String(), "message").String())
		assert.NotContains(t, w.Body.String(), "FOREIGN KEY")
	}
}
