package server

import (
	"fmt"
	"net/http"

	"github.com/danmuck/blestack/internal/catalog"
	"github.com/danmuck/blestack/internal/explorer"
	"github.com/danmuck/blestack/internal/navigator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// layerDetail is a layer plus its packet diagram.
type layerDetail struct {
	catalog.Layer
	Layout navigator.Layout `json:"layout"`
}

type sessionResponse struct {
	ID   string        `json:"id"`
	View explorer.View `json:"view"`
}

func (s *Server) listLayers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"root":   s.Catalog.Root(),
		"layers": s.Catalog.Stack(),
	})
}

func (s *Server) getLayer(c *gin.Context) {
	id, err := catalog.ParseLayerID(c.Param("id"))
	if err != nil {
		abortError(c, err)
		return
	}
	layer, ok := s.Catalog.Layer(id)
	if !ok {
		abortError(c, catalog.ErrUnknownLayer)
		return
	}
	c.JSON(http.StatusOK, layerDetail{Layer: layer, Layout: navigator.ComputeLayout(layer)})
}

func (s *Server) getGraph(c *gin.Context) {
	root := s.Catalog.Root()
	c.JSON(http.StatusOK, gin.H{
		"root":  root,
		"edges": s.Catalog.Graph(),
		"chain": s.Catalog.Chain(root),
		"depth": s.Catalog.Depth(),
	})
}

func (s *Server) createSession(c *gin.Context) {
	id, view, err := s.Sessions.Create()
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sessionResponse{ID: id, View: view})
}

func (s *Server) getSession(c *gin.Context) {
	id := c.Param("id")
	view, err := s.Sessions.Get(id)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{ID: id, View: view})
}

func (s *Server) postEvent(c *gin.Context) {
	id := c.Param("id")
	var ev explorer.Event
	if err := c.ShouldBindJSON(&ev); err != nil {
		if _, lookupErr := s.Sessions.Get(id); lookupErr != nil {
			abortError(c, lookupErr)
			return
		}
		abortError(c, fmt.Errorf("%w: %v", explorer.ErrBadEvent, err))
		return
	}
	view, err := s.Sessions.Dispatch(id, ev)
	if err != nil {
		log.Debug().Str("session", id).Str("event", string(ev.Kind)).Err(err).Msg("event rejected")
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{ID: id, View: view})
}
