// Package ws streams order tracking snapshots over a websocket, as an
// alternative to the browser polling the snapshot endpoint itself.
package ws

import (
	"context"
	"net/http"
	"strconv"

	"github.com/DarshanKumarGP/MEAL-MATE/internal/adapter/http/middleware"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/logging"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/observ"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type OrderStream struct {
	tracker  *usecase.Tracker
	upgrader websocket.Upgrader
}

func NewOrderStream(tracker *usecase.Tracker, allowedOrigins []string) *OrderStream {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &OrderStream{
		tracker: tracker,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// Serve upgrades the connection and writes one JSON snapshot per poll
// until the order reaches a terminal status or the peer goes away. The
// tracker's polling cadence and backoff apply unchanged.
func (s *OrderStream) Serve(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || orderID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_id"})
		return
	}
	sess := middleware.Session(c)

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	observ.ActiveOrderStreams.Inc()
	defer observ.ActiveOrderStreams.Dec()

	log := logging.From(c).With("order_id", orderID)
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// the read pump exists only to notice the peer closing
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for snap := range s.tracker.Watch(ctx, sess.Credentials(), orderID) {
		if err := conn.WriteJSON(snap); err != nil {
			log.Info("order stream closed by peer", "error", err)
			return
		}
		if snap.Terminal {
			break
		}
	}

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "order reached terminal status")
	_ = conn.WriteMessage(websocket.CloseMessage, msg)
}
