package http

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/samirrijal/dayroute/internal/adapters/nats"
	"github.com/samirrijal/dayroute/internal/core/domain"
	"github.com/samirrijal/dayroute/internal/pkg/metrics"
)

// wsMessage is sent from client to subscribe/unsubscribe to feeds.
type wsMessage struct {
	Action  string `json:"action"`  // "subscribe" | "unsubscribe"
	Channel string `json:"channel"` // "optimizations" (default)
	Mode    string `json:"mode"`    // travel mode filter, "" = all
}

// wsSubject maps a client message to the NATS subject it refers to.
func wsSubject(m wsMessage) (string, string) {
	channel := m.Channel
	if channel == "" {
		channel = "optimizations"
	}
	if channel != "optimizations" {
		return "", "unknown channel: " + channel
	}
	if m.Mode == "" {
		return natsadapter.OptimizedFilter(""), ""
	}
	mode, err := domain.ParseTravelMode(m.Mode)
	if err != nil {
		return "", err.Error()
	}
	return natsadapter.OptimizedFilter(mode), ""
}

// WebSocketHandler relays optimization events from NATS to connected
// clients. Every client starts subscribed to all modes and can narrow or
// widen that with {"action":"subscribe","channel":"optimizations","mode":"walking"}.
func WebSocketHandler(nc *nats.Conn) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		remoteAddr := c.RemoteAddr().String()
		logger := slog.Default().With("remote_addr", remoteAddr)
		logger.Info("ws client connected")
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		var mu sync.Mutex
		subs := make(map[string]*nats.Subscription) // subject -> subscription

		writeJSON := func(v any) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}
		relay := func(msg *nats.Msg) {
			_ = writeJSON(json.RawMessage(msg.Data))
		}

		if nc == nil {
			_ = writeJSON(map[string]string{"error": "event stream is not configured"})
			return
		}

		defaultSubject := natsadapter.OptimizedFilter("")
		sub, err := nc.Subscribe(defaultSubject, relay)
		if err != nil {
			logger.Error("ws default subscribe", "error", err)
			return
		}
		subs[defaultSubject] = sub

		// Keep-alive ping
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}
			subject, problem := wsSubject(m)
			if problem != "" {
				_ = writeJSON(map[string]string{"error": problem})
				continue
			}

			switch m.Action {
			case "subscribe":
				if _, exists := subs[subject]; exists {
					_ = writeJSON(map[string]string{"status": "already subscribed", "subject": subject})
					continue
				}
				s, err := nc.Subscribe(subject, relay)
				if err != nil {
					_ = writeJSON(map[string]string{"error": "subscribe failed: " + err.Error()})
					continue
				}
				subs[subject] = s
				_ = writeJSON(map[string]string{"status": "subscribed", "subject": subject})

			case "unsubscribe":
				if s, exists := subs[subject]; exists {
					_ = s.Unsubscribe()
					delete(subs, subject)
					_ = writeJSON(map[string]string{"status": "unsubscribed", "subject": subject})
				} else {
					_ = writeJSON(map[string]string{"error": "not subscribed to " + subject})
				}

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		close(done)
		for _, s := range subs {
			_ = s.Unsubscribe()
		}
		logger.Info("ws client disconnected")
	}
}
