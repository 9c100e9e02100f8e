package server

import (
	"errors"
	"net/http"

	"github.com/danmuck/blestack/internal/catalog"
	"github.com/danmuck/blestack/internal/explorer"
	"github.com/danmuck/blestack/internal/navigator"
	"github.com/danmuck/blestack/internal/sessions"
	"github.com/gin-gonic/gin"
)

// Error kinds reported next to the message in error bodies.
const (
	KindNotFound     = "not_found"
	KindUnknownLayer = "unknown_layer"
	KindBadEvent     = "bad_event"
	KindInternal     = "internal"
)

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// classify maps an error to its HTTP status and stable kind.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, sessions.ErrNotFound):
		return http.StatusNotFound, KindNotFound
	case errors.Is(err, navigator.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, navigator.KindInvalidTransition
	case errors.Is(err, navigator.ErrNotInHistory):
		return http.StatusConflict, navigator.KindNotInHistory
	case errors.Is(err, navigator.ErrAtRoot):
		return http.StatusConflict, navigator.KindAtRoot
	case errors.Is(err, explorer.ErrBadEvent):
		return http.StatusBadRequest, KindBadEvent
	case errors.Is(err, catalog.ErrUnknownLayer):
		return http.StatusNotFound, KindUnknownLayer
	default:
		return http.StatusInternalServerError, KindInternal
	}
}

func newErrorBody(err error) (int, errorBody) {
	status, kind := classify(err)
	return status, errorBody{Error: err.Error(), Kind: kind}
}

func abortError(c *gin.Context, err error) {
	status, body := newErrorBody(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}
