package server

import (
	"encoding/json"
	"fmt"

	"github.com/danmuck/blestack/internal/explorer"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// socketReply answers exactly one inbound event message.
type socketReply struct {
	View  *explorer.View `json:"view,omitempty"`
	Error string         `json:"error,omitempty"`
	Kind  string         `json:"kind,omitempty"`
}

func errorReply(err error) socketReply {
	_, body := newErrorBody(err)
	return socketReply{Error: body.Error, Kind: body.Kind}
}

// sessionSocket streams events for one session. Messages are handled one at
// a time in arrival order.
func (s *Server) sessionSocket(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.Sessions.Get(id); err != nil {
		abortError(c, err)
		return
	}
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Str("session", id).Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsReadLimit)
	log.Debug().Str("session", id).Str("remote", conn.RemoteAddr().String()).Msg("websocket attached")

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Str("session", id).Err(err).Msg("websocket read failed")
			}
			return
		}
		var reply socketReply
		if msgType == websocket.TextMessage {
			reply = s.handleSocketMessage(id, data)
		} else {
			reply = errorReply(fmt.Errorf("%w: expected a text message", explorer.ErrBadEvent))
		}
		if err := conn.WriteJSON(reply); err != nil {
			log.Warn().Str("session", id).Err(err).Msg("websocket write failed")
			return
		}
	}
}

func (s *Server) handleSocketMessage(id string, data []byte) socketReply {
	var ev explorer.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return errorReply(fmt.Errorf("%w: %v", explorer.ErrBadEvent, err))
	}
	view, err := s.Sessions.Dispatch(id, ev)
	if err != nil {
		return errorReply(err)
	}
	return socketReply{View: &view}
}
