package live

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/evopoker/internal/evolve"
)

// Event is one decoded message from a live run.
type Event struct {
	Hello    *Hello
	Snapshot *evolve.Snapshot
	Complete *Complete
	Err      error
}

// Client consumes a live run feed.
type Client struct {
	conn   *websocket.Conn
	logger *log.Logger
	events chan Event

	closeOnce sync.Once
}

// Dial connects to a live hub. http(s) schemes are rewritten to ws(s).
func Dial(rawURL string, logger *log.Logger) (*Client, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid live URL: %w", err)
	}
	switch u.Scheme {
	case "http", "":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", u.String(), err)
	}

	c := &Client{
		conn:   conn,
		logger: logger.WithPrefix("live"),
		events: make(chan Event, 16),
	}
	go c.readPump()
	return c, nil
}

// Events returns the decoded message stream. The channel closes when the
// connection drops or Close is called; a terminal read error is delivered
// as the final event.
func (c *Client) Events() <-chan Event {
	return c.events
}

// Close terminates the connection.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.conn.Close()
	})
	return err
}

func (c *Client) readPump() {
	defer close(c.events)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return
			}
			c.events <- Event{Err: err}
			return
		}

		env, err := Unmarshal(data)
		if err != nil {
			c.logger.Warn("skipping bad frame", "error", err)
			continue
		}

		switch env.Type {
		case TypeHello:
			var hello Hello
			if err := json.Unmarshal(env.Payload, &hello); err != nil {
				c.events <- Event{Err: fmt.Errorf("decode hello: %w", err)}
				return
			}
			c.events <- Event{Hello: &hello}
		case TypeSnapshot:
			var snap evolve.Snapshot
			if err := json.Unmarshal(env.Payload, &snap); err != nil {
				c.events <- Event{Err: fmt.Errorf("decode snapshot: %w", err)}
				return
			}
			c.events <- Event{Snapshot: &snap}
		case TypeComplete:
			var complete Complete
			if err := json.Unmarshal(env.Payload, &complete); err != nil {
				c.events <- Event{Err: fmt.Errorf("decode complete: %w", err)}
				return
			}
			c.events <- Event{Complete: &complete}
		}
	}
}
