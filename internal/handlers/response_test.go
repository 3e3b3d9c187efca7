package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursewagon/coursewagon-backend/internal/apierr"
)

func TestRespondErrorMapsKindsToStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err    error
		status int
		code   string
	}{
		{apierr.Validation("bad_rating", "rating out of range"), http.StatusBadRequest, "bad_rating"},
		{apierr.NotFound("course_not_found", "no such course"), http.StatusNotFound, "course_not_found"},
		{apierr.Unauthorized("bad_credentials", "nope"), http.StatusUnauthorized, "bad_credentials"},
		{apierr.Forbidden("not_course_owner", "nope"), http.StatusForbidden, "not_course_owner"},
		{apierr.Conflict("email_taken", "exists"), http.StatusConflict, "email_taken"},
		{apierr.Upstream("llm_call_failed", fmt.Errorf("boom")), http.StatusBadGateway, "llm_call_failed"},
		{fmt.Errorf("plain database explosion"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			RespondError(c, tt.err)
			assert.Equal(t, tt.status, w.Code)

			var envelope ErrorEnvelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
			assert.Equal(t, tt.code, envelope.Error.Code)
		})
	}
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondError(c, fmt.Errorf("pq: connection refused on 10.0.0.3"))

	var envelope ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "internal server error", envelope.Error.Message)
	assert.NotContains(t, w.Body.String(), "10.0.0.3")
}
