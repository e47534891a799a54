package http

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/lexprep/lexprep/internal/attempt"
	"github.com/lexprep/lexprep/internal/toeic"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin policy is enforced by the CORS layer
	},
}

type clockFrame struct {
	Remaining int                 `json:"remaining"`
	Display   string              `json:"display"`
	Status    toeic.WarningStatus `json:"status"`
	Message   string              `json:"message,omitempty"`
	Submitted bool                `json:"submitted,omitempty"`
}

// ClockStreamHandler pushes the attempt countdown over a websocket once a
// second. When the attempt disappears from the live registry (submitted,
// manually or by expiry) a final submitted frame is sent and the socket
// closes.
func ClockStreamHandler(mgr *attempt.Manager, store attempt.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := ownAttempt(w, r, store)
		if !ok {
			return
		}
		attemptID := a.ID
		if _, _, err := mgr.ClockState(attemptID); err != nil {
			writeErr(w, err)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("clock stream upgrade failed", zap.Error(err))
			return
		}
		defer conn.Close()

		// Drain client frames so pings and close messages are processed.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			remaining, warn, err := mgr.ClockState(attemptID)
			if err != nil {
				final := clockFrame{
					Display:   toeic.FormatClock(0),
					Status:    toeic.WarningCritical,
					Message:   "Time is up!",
					Submitted: true,
				}
				_ = conn.WriteJSON(final)
				return
			}
			frame := clockFrame{
				Remaining: remaining,
				Display:   toeic.FormatClock(remaining),
				Status:    warn.Status,
				Message:   warn.Message,
			}
			if err := conn.WriteJSON(frame); err != nil {
				return
			}
			select {
			case <-ticker.C:
			case <-r.Context().Done():
				return
			}
		}
	}
}
