package realtime

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from a separate frontend origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// clientMessage is what subscribers send to manage their board rooms.
type clientMessage struct {
	Type    string `json:"type"`
	BoardID uint64 `json:"boardId"`
}

const (
	messageJoinBoard  = "joinBoard"
	messageLeaveBoard = "leaveBoard"
)

// ServeWS upgrades the request and runs the subscriber read loop until the
// client disconnects. The caller authenticates the request first and passes
// the session's user id.
func (h *Hub) ServeWS(c *gin.Context, userID uint64) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("realtime: upgrade: %v", err)
		return
	}

	cl := &client{
		id:     uuid.NewString(),
		userID: userID,
		conn:   conn,
		boards: make(map[uint64]bool),
	}
	h.register(cl)
	log.Printf("realtime: client %s connected (user %d)", cl.id, userID)

	defer func() {
		h.unregister(cl)
		conn.Close()
		log.Printf("realtime: client %s disconnected", cl.id)
	}()

	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case messageJoinBoard:
			h.join(cl, msg.BoardID)
		case messageLeaveBoard:
			h.leave(cl, msg.BoardID)
		}
	}
}
