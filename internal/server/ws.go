// Package server provides the HTTP server for the Drishti face monitoring system.
package server

import (
	"log"
	"net/http"

	"github.com/ayusman/drishti/internal/app"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// LiveHandler streams per-frame monitoring results over WebSocket. Each
// connection gets its own pipeline subscription, so a slow client only
// ever skips frames rather than stalling the pipeline or other clients.
type LiveHandler struct {
	app *app.App
}

// NewLiveHandler creates a new LiveHandler backed by the given app.
func NewLiveHandler(a *app.App) *LiveHandler {
	return &LiveHandler{app: a}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	results, cancel := h.app.Subscribe()
	defer cancel()

	// Drain reads so client close is noticed
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case res := <-results:
			if err := conn.WriteJSON(res); err != nil {
				return
			}
		}
	}
}
