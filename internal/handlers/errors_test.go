package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ricolabs/procure-api/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestRespondError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err    error
		status int
	}{
		{services.ErrValidation, http.StatusBadRequest},
		{services.ErrNotFound, http.StatusNotFound},
		{services.ErrUnauthorized, http.StatusForbidden},
		{services.ErrInvalidState, http.StatusConflict},
		{services.ErrClaimNotSatisfied, http.StatusUnprocessableEntity},
		{services.ErrDependency, http.StatusBadGateway},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		respondError(c, fmt.Errorf("%w: context", tc.err))
		assert.Equal(t, tc.status, w.Code)
		assert.Contains(t, w.Body.String(), "error")
	}
}

func TestBindFormJSON(t *testing.T) {
	var payload struct {
		Name string `json:"name"`
	}

	assert.NoError(t, bindFormJSON(`{"name":"invoice"}`, &payload))
	assert.Equal(t, "invoice", payload.Name)

	assert.Error(t, bindFormJSON("", &payload))
	assert.Error(t, bindFormJSON("{not json", &payload))
}
