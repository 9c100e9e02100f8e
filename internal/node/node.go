// Package node is the surface shared by processes that serve the blestack
// HTTP API.
package node

import "github.com/gin-gonic/gin"

type Node interface {
	NodeID() string
	Kind() string
	HTTPRouter() *gin.Engine
	RegisterRoutes()
	Serve() error
}
