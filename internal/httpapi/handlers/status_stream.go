package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"cicd-demo/backend/internal/httpapi/response"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	wsReadTimeout  = 60 * time.Second
	wsWriteTimeout = 10 * time.Second
	wsReadLimit    = 1 << 16
)

type wsClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

type wsIncomingMessage struct {
	Type string `json:"type"`
}

type wsOutgoingMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// StatusStreamHandler pushes the /api/status payload to WebSocket clients on
// a fixed interval.
type StatusStreamHandler struct {
	status   *StatusHandler
	interval time.Duration

	// readTimeout bounds how long a silent peer is kept; control pings go
	// out at half of it so listen-only clients keep the stream alive.
	readTimeout  time.Duration
	writeTimeout time.Duration

	mu       sync.RWMutex
	clients  map[*websocket.Conn]*wsClient
	upgrader websocket.Upgrader
}

func NewStatusStreamHandler(status *StatusHandler, interval time.Duration) *StatusStreamHandler {
	if interval <= 0 {
		interval = 25 * time.Second
	}
	return &StatusStreamHandler{
		status:       status,
		interval:     interval,
		readTimeout:  wsReadTimeout,
		writeTimeout: wsWriteTimeout,
		clients:      make(map[*websocket.Conn]*wsClient),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The stream carries only public status data.
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
	}
}

func (h *StatusStreamHandler) Connect(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		log.Ctx(r.Context()).Debug().Err(err).Msg("ws.upgrade_failed")
		return
	}

	client := &wsClient{conn: conn}
	h.registerClient(client)

	if err := h.send(client, "status", h.status.snapshot()); err != nil {
		h.unregisterClient(client)
		return
	}

	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(h.readTimeout))
	conn.SetPongHandler(func(_ string) error {
		return conn.SetReadDeadline(time.Now().Add(h.readTimeout))
	})

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		heartbeat := time.NewTicker(h.interval)
		defer heartbeat.Stop()
		ping := time.NewTicker(h.readTimeout / 2)
		defer ping.Stop()
		for {
			select {
			case <-stop:
				return
			case <-heartbeat.C:
				if err := h.send(client, "heartbeat", h.status.snapshot()); err != nil {
					return
				}
			case <-ping.C:
				if err := h.ping(client); err != nil {
					return
				}
			}
		}
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			break
		}
		_ = conn.SetReadDeadline(time.Now().Add(h.readTimeout))

		var incoming wsIncomingMessage
		if err := json.Unmarshal(payload, &incoming); err != nil {
			_ = h.send(client, "error", map[string]string{"message": "invalid message payload"})
			continue
		}

		switch strings.ToLower(strings.TrimSpace(incoming.Type)) {
		case "ping":
			_ = h.send(client, "pong", nil)
		case "status":
			_ = h.send(client, "status", h.status.snapshot())
		default:
			_ = h.send(client, "error", map[string]string{"message": "unsupported message type"})
		}
	}

	// Closing the conn unblocks a writer stuck on a peer that stopped reading.
	close(stop)
	h.unregisterClient(client)
	<-done
}

func (h *StatusStreamHandler) Stats(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, map[string]int{"connections": h.Connections()})
}

func (h *StatusStreamHandler) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *StatusStreamHandler) registerClient(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.conn] = client
}

func (h *StatusStreamHandler) unregisterClient(client *wsClient) {
	h.mu.Lock()
	delete(h.clients, client.conn)
	h.mu.Unlock()
	_ = client.conn.Close()
}

func (h *StatusStreamHandler) send(client *wsClient, messageType string, data interface{}) error {
	client.writeMu.Lock()
	defer client.writeMu.Unlock()
	if err := client.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout)); err != nil {
		return err
	}
	return client.conn.WriteJSON(wsOutgoingMessage{
		Type:      messageType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *StatusStreamHandler) ping(client *wsClient) error {
	client.writeMu.Lock()
	defer client.writeMu.Unlock()
	return client.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.writeTimeout))
}
