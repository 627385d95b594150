package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/huey-app/huey/board"
	"github.com/huey-app/huey/middlewares"
	"github.com/huey-app/huey/services"
	"github.com/huey-app/huey/utils"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type BoardController struct {
	Hub       *board.Hub
	Directory *services.DirectoryService
	upgrader  websocket.Upgrader
}

// NewBoardController accepts handshakes from allowedOrigins. An empty list or
// "*" accepts any origin.
func NewBoardController(hub *board.Hub, directory *services.DirectoryService, allowedOrigins []string) *BoardController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &BoardController{
		Hub:       hub,
		Directory: directory,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || allowed["*"] || origin == "" || allowed[origin]
			},
		},
	}
}

// Connect upgrades to a WebSocket subscribed to the caller's restaurant and
// holds it until the client goes away.
func (bc *BoardController) Connect(c *gin.Context) {
	restaurant, err := bc.Directory.ForOwner(c.Request.Context(), middlewares.CurrentPrincipal(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	ws, err := bc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.InfoLogger.WithError(err).Warn("Board upgrade failed")
		return
	}

	bc.Hub.Register(restaurant.ID, ws)
	utils.InfoLogger.WithField("restaurant_id", restaurant.ID).Info("Board connected")

	done := make(chan struct{})
	go keepAlive(ws, done)

	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	close(done)

	bc.Hub.Unregister(restaurant.ID, ws)
	utils.InfoLogger.WithField("restaurant_id", restaurant.ID).Info("Board disconnected")
}

// keepAlive pings until done is closed. WriteControl may run concurrently
// with the hub's writes.
func keepAlive(ws *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}
