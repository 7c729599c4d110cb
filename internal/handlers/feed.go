package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/eugenek0529/reservation-system/internal/schedule"
)

const (
	feedWriteWait  = 10 * time.Second
	feedPongWait   = 60 * time.Second
	feedPingPeriod = 50 * time.Second
	feedFetchWait  = 15 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// feedRequest selects the date shown on a feed connection
type feedRequest struct {
	Date string `json:"date"`
}

// ScheduleFeed - GET /api/admin/schedule/feed (websocket)
// Each connection owns a store; the client sends {"date": "YYYY-MM-DD"} to
// select a date and receives a snapshot on every change.
func (h *Handlers) ScheduleFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	store := schedule.NewStore(h.loader)
	defer store.Close()
	updates, cancel := store.Subscribe()
	defer cancel()

	if h.metrics != nil {
		h.metrics.FeedSubscribers.Inc()
		defer h.metrics.FeedSubscribers.Dec()
	}

	ctx, stop := context.WithCancel(c.Request.Context())
	defer stop()

	if date := c.Query("date"); date != "" {
		go h.selectDate(ctx, store, date)
	}

	go func() {
		defer stop()
		conn.SetReadLimit(1024)
		_ = conn.SetReadDeadline(time.Now().Add(feedPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(feedPongWait))
		})
		for {
			var req feedRequest
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			if req.Date != "" {
				go h.selectDate(ctx, store, req.Date)
			}
		}
	}()

	ticker := time.NewTicker(feedPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := conn.WriteJSON(snap); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Handlers) selectDate(ctx context.Context, store *schedule.Store, date string) {
	fetchCtx, cancel := context.WithTimeout(ctx, feedFetchWait)
	defer cancel()
	if _, err := store.SelectDate(fetchCtx, date); err != nil {
		slog.Debug("Schedule feed fetch failed", "date", date, "error", err)
	}
}
