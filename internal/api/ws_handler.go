package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"resumeSync/internal/metrics"
	"resumeSync/internal/page"
	"resumeSync/internal/worker"
)

const (
	wsChangeBuffer = 64
	wsPingInterval = 30 * time.Second
	wsWriteTimeout = 5 * time.Second
)

// WsHandler 将页面变更实时推送给浏览器，并转发 Worker 的打印结果通知。
type WsHandler struct {
	doc         *page.Document
	redisClient *redis.Client
	logger      *slog.Logger
	upgrader    websocket.Upgrader
}

// NewWsHandler 构造 WebSocket 处理器。redisClient 为 nil 时不转发打印通知。
func NewWsHandler(doc *page.Document, redisClient *redis.Client, logger *slog.Logger) *WsHandler {
	h := &WsHandler{
		doc:         doc,
		redisClient: redisClient,
		logger:      logger,
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false
			}
			return strings.EqualFold(u.Host, r.Host)
		},
	}
	return h
}

// HandleConnection 负责升级连接并启动读写循环。
func (h *WsHandler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("upgrade websocket failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	untrack := metrics.TrackLiveConnection()
	defer untrack()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	log := h.logger.With(slog.String("client_ip", c.ClientIP()))
	log.Info("live preview connected")

	errCh := make(chan error, 2)
	go h.readLoop(ctx, conn, errCh, cancel)
	go h.writeLoop(ctx, conn, errCh, cancel, log)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			log.Info("websocket connection closed", slog.Any("error", err))
		} else {
			log.Info("websocket connection closed")
		}
	}
}

// readLoop 不处理客户端消息，仅用于检测断开。
func (h *WsHandler) readLoop(ctx context.Context, conn *websocket.Conn, errCh chan<- error, cancel context.CancelFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if _, _, err := conn.ReadMessage(); err != nil {
			errCh <- fmt.Errorf("read message: %w", err)
			cancel()
			return
		}
	}
}

func writeClose(conn *websocket.Conn, code int, text string) {
	deadline := time.Now().Add(wsWriteTimeout)
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), deadline)
}

func (h *WsHandler) writeLoop(
	ctx context.Context,
	conn *websocket.Conn,
	errCh chan<- error,
	cancel context.CancelFunc,
	log *slog.Logger,
) {
	changes, unsubscribe := h.doc.Subscribe(wsChangeBuffer)
	defer unsubscribe()

	var notify <-chan *redis.Message
	if h.redisClient != nil {
		pubsub := h.redisClient.Subscribe(ctx, worker.NotifyChannel)
		defer pubsub.Close()
		notify = pubsub.Channel()
		log.Info("subscribed to redis channel", slog.String("channel", worker.NotifyChannel))
	}

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	fail := func(err error) {
		errCh <- err
		cancel()
	}

	for {
		select {
		case <-ctx.Done():
			writeClose(conn, websocket.CloseNormalClosure, "bye")
			return
		case change, ok := <-changes:
			if !ok {
				fail(fmt.Errorf("document subscription closed"))
				return
			}
			data, err := json.Marshal(change)
			if err != nil {
				fail(fmt.Errorf("marshal change: %w", err))
				return
			}
			if err := h.write(conn, data); err != nil {
				fail(err)
				return
			}
		case msg, ok := <-notify:
			if !ok {
				fail(fmt.Errorf("pubsub channel closed"))
				return
			}
			log.Info("forwarding print notification", slog.String("channel", msg.Channel))
			if err := h.write(conn, []byte(msg.Payload)); err != nil {
				fail(err)
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(wsWriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), deadline); err != nil {
				fail(fmt.Errorf("write ping: %w", err))
				return
			}
		}
	}
}

func (h *WsHandler) write(conn *websocket.Conn, data []byte) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}
