// Package handlers is the HTTP boundary: bind the request, call the service,
// translate the tagged error to a status code.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coursewagon/coursewagon-backend/internal/apierr"
	"github.com/coursewagon/coursewagon-backend/internal/requestdata"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError maps the error's kind to a status code; untagged errors are
// 500s with a generic message so internals never leak to the client.
func RespondError(c *gin.Context, err error) {
	status := apierr.HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    apierr.CodeOf(err),
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func bindError(c *gin.Context, err error) {
	RespondError(c, apierr.Validation("bad_request_body", "invalid request body: %v", err))
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondError(c, apierr.Validation("bad_id", "invalid %s", name))
		return uuid.Nil, false
	}
	return id, true
}

func parseUUIDForm(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.PostForm(name))
	if err != nil {
		RespondError(c, apierr.Validation("bad_id", "invalid %s", name))
		return uuid.Nil, false
	}
	return id, true
}

func parseUUIDQuery(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Query(name))
	if err != nil {
		RespondError(c, apierr.Validation("bad_id", "invalid %s", name))
		return uuid.Nil, false
	}
	return id, true
}

// currentUser pulls the authenticated identity the middleware stashed on the
// request context; absent means the route was wired without RequireAuth.
func currentUser(c *gin.Context) (*requestdata.RequestData, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, apierr.Unauthorized("not_logged_in", "authentication required"))
		return nil, false
	}
	return rd, true
}
