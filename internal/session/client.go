package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024
)

type Client struct {
	hub     *Hub
	session *Session
	conn    *websocket.Conn
	send    chan []byte

	mu     sync.Mutex
	closed bool

	SessionID string
	ClientID  string
}

func NewClient(hub *Hub, s *Session, conn *websocket.Conn, clientID string) *Client {
	return &Client{
		hub:       hub,
		session:   s,
		conn:      conn,
		send:      make(chan []byte, 256),
		SessionID: s.ID,
		ClientID:  clientID,
	}
}

func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			slog.Debug("read error", "error", err, "client", c.ClientID)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "client", c.ClientID)
			c.Send(newMessage(TypeError, c.SessionID, ErrorPayload{Message: "invalid message"}))
			continue
		}

		msg.ClientID = c.ClientID
		msg.SessionID = c.SessionID

		if err := c.handleMessage(ctx, &msg); errors.Is(err, ErrClosed) {
			return
		}
	}
}

func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				slog.Debug("write error", "error", err, "client", c.ClientID)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) handleMessage(ctx context.Context, msg *Message) error {
	switch msg.Type {
	case TypePointerDown, TypePointerMove, TypePointerUp:
		var ev PointerPayload
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			c.Send(newMessage(TypeError, c.SessionID, ErrorPayload{Message: "invalid pointer payload"}))
			return nil
		}
		return c.session.Pointer(ctx, msg.Type, ev)

	case TypeOpSubmit:
		var submit OperationSubmitPayload
		if err := json.Unmarshal(msg.Payload, &submit); err != nil {
			c.Send(newMessage(TypeOpNack, c.SessionID, OperationNackPayload{Reason: "invalid operation payload"}))
			return nil
		}
		ack, err := c.session.Apply(ctx, submit.Operation)
		if errors.Is(err, ErrClosed) || errors.Is(err, context.Canceled) {
			return err
		}
		if err != nil {
			slog.Debug("operation rejected", "error", err, "op", submit.Operation.Type, "client", c.ClientID)
			c.Send(newMessage(TypeOpNack, c.SessionID, OperationNackPayload{
				OperationID: submit.Operation.ID,
				Reason:      err.Error(),
			}))
			return nil
		}
		reply := newMessage(TypeOpAck, c.SessionID, ack)
		reply.Seq = msg.Seq
		c.Send(reply)
		return nil

	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", c.ClientID)
		c.Send(newMessage(TypeError, c.SessionID, ErrorPayload{Message: "unknown message type " + msg.Type}))
		return nil
	}
}

func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		slog.Warn("client send buffer full, dropping message", "client", c.ClientID)
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
