// Package realtime is the push half of the remote service client: one
// WebSocket per session carrying {"event", "data"} envelopes.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"livechat/logging"
	"livechat/models"
)

var (
	ErrClosed    = errors.New("realtime connection closed")
	ErrHandshake = errors.New("realtime handshake rejected")
)

type Options struct {
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	ReadLimit        int64
}

func (o Options) withDefaults() Options {
	if o.HandshakeTimeout <= 0 {
		o.HandshakeTimeout = 10 * time.Second
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 10 * time.Second
	}
	if o.ReadLimit <= 0 {
		o.ReadLimit = 512 * 1024 // 512KB max message size
	}
	return o
}

// Conn is an authenticated realtime connection. Emit may be called from any goroutine;
// frames are written by a single writer goroutine in call order.
type Conn struct {
	ws     *websocket.Conn
	opts   Options
	out    chan []byte
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
	log    *slog.Logger

	errMu sync.Mutex
	err   error // write failure that ended the connection
}

// Dial opens the connection, presenting token both as a bearer header and as the token query parameter
func Dial(ctx context.Context, rawURL, token string, opts Options, log *slog.Logger) (*Conn, error) {
	if log == nil {
		log = slog.Default()
	}
	opts = opts.withDefaults()
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("realtime: parse url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: opts.HandshakeTimeout,
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	ws, resp, err := dialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("%w: status %d", ErrHandshake, resp.StatusCode)
		}
		return nil, fmt.Errorf("realtime: dial: %w", err)
	}

	id := uuid.NewString()
	cctx, cancel := context.WithCancel(context.Background())
	c := &Conn{
		ws:     ws,
		opts:   opts,
		out:    make(chan []byte, 256),
		ctx:    cctx,
		cancel: cancel,
		log:    log.With(logging.ConnID(id)),
	}
	go c.writeLoop()
	c.log.InfoContext(ctx, "realtime - dial - connected", "url", rawURL)
	return c, nil
}

// Emit queues one event for the writer
func (c *Conn) Emit(ctx context.Context, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("realtime: encode %s: %w", event, err)
	}
	frame, err := json.Marshal(models.Envelope{Event: event, Data: data})
	if err != nil {
		return fmt.Errorf("realtime: encode %s: %w", event, err)
	}
	if c.ctx.Err() != nil {
		return ErrClosed
	}
	select {
	case c.out <- frame:
		return nil
	case <-c.ctx.Done():
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// JoinChats subscribes the connection to pushes for the given chats
func (c *Conn) JoinChats(ctx context.Context, chatIDs []string) error {
	if len(chatIDs) == 0 {
		return nil
	}
	return c.Emit(ctx, models.EventJoinChats, models.JoinChatsPayload{ChatIDs: chatIDs})
}

// SendMessage sends over the socket instead of REST; the server echoes it back as message:new
func (c *Conn) SendMessage(ctx context.Context, chatID string, params models.SendMessageParams) error {
	params, err := params.Normalize()
	if err != nil {
		return err
	}
	return c.Emit(ctx, models.EventSendMessage, models.SendMessagePayload{
		ChatID:  chatID,
		Content: params.Content,
		Type:    params.Type,
	})
}

// Run reads frames and dispatches them on bus until the connection ends. It returns nil
// when the connection was closed by Close, by ctx, or by a normal close from the server.
// A failed write ends the connection too and Run returns that error.
func (c *Conn) Run(ctx context.Context, bus *Bus) error {
	stop := context.AfterFunc(ctx, c.Close)
	defer stop()

	c.ws.SetReadLimit(c.opts.ReadLimit)
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			closedLocally := c.ctx.Err() != nil
			c.Close()
			if werr := c.writeErr(); werr != nil {
				c.log.Error("realtime - run - connection lost on write", logging.Err(werr))
				return fmt.Errorf("realtime: write: %w", werr)
			}
			if closedLocally || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Info("realtime - run - closed")
				return nil
			}
			c.log.Error("realtime - run - connection lost", logging.Err(err))
			return fmt.Errorf("realtime: read: %w", err)
		}

		var env models.Envelope
		if err := json.Unmarshal(data, &env); err != nil || env.Event == "" {
			c.log.Warn("realtime - run - malformed frame dropped", "size", len(data))
			continue
		}
		bus.Dispatch(env)
	}
}

// Close sends a close frame and tears the connection down. Safe to call more than once.
func (c *Conn) Close() {
	c.closeWithError(nil)
}

// closeWithError records err as the reason the connection ended, unless it is already closed
func (c *Conn) closeWithError(err error) {
	c.once.Do(func() {
		c.errMu.Lock()
		c.err = err
		c.errMu.Unlock()
		c.cancel()
		deadline := time.Now().Add(time.Second)
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		_ = c.ws.Close()
	})
}

func (c *Conn) writeErr() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

func (c *Conn) writeLoop() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case data := <-c.out:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				c.log.Error("realtime - write - failed", logging.Err(err))
				c.closeWithError(err)
				return
			}
		}
	}
}
