package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	dialTimeout  = 5 * time.Second
	writeTimeout = 5 * time.Second
	maxBackoff   = 30 * time.Second
)

var ErrNotConnected = errors.New("telemetry feed not connected")

// Command is a control message sent back to the shelf gateway, for door
// and hatch actuation.
type Command struct {
	Action string `json:"action"`
	Value  bool   `json:"value"`
}

// Client maintains a websocket connection to the shelf telemetry gateway,
// reconnecting with backoff when the feed drops. Decoded samples are
// delivered on Samples; the channel closes when Run returns.
type Client struct {
	url       string
	slotCount int
	log       zerolog.Logger

	Samples chan Sample

	mu   sync.Mutex
	conn *websocket.Conn
}

func NewClient(url string, slotCount int, log zerolog.Logger) *Client {
	return &Client{
		url:       url,
		slotCount: slotCount,
		log:       log.With().Str("component", "telemetry").Logger(),
		Samples:   make(chan Sample, 32),
	}
}

// retrySchedule tracks the reconnect delay: it doubles per failed attempt
// up to maxBackoff, and starts over at one second once a connection has
// succeeded, so a feed that drops after hours of uptime retries promptly.
type retrySchedule struct {
	next time.Duration
}

func (s *retrySchedule) delay(connected bool) time.Duration {
	if connected || s.next == 0 {
		s.next = time.Second
		return s.next
	}
	s.next *= 2
	if s.next > maxBackoff {
		s.next = maxBackoff
	}
	return s.next
}

// Run dials the gateway and pumps samples until ctx is cancelled. Dial
// failures and dropped connections retry with exponential backoff.
func (c *Client) Run(ctx context.Context) {
	defer close(c.Samples)
	var retry retrySchedule
	for {
		connected, err := c.connectAndRead(ctx)
		wait := retry.delay(connected)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Warn().Err(err).Dur("retry_in", wait).Msg("telemetry feed lost")
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// connectAndRead reports whether a connection was established, so the
// caller can restart the retry schedule even when the feed later drops.
func (c *Client) connectAndRead(ctx context.Context) (bool, error) {
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, c.url, nil)
	if err != nil {
		return false, err
	}
	c.setConn(conn)
	defer func() {
		c.setConn(nil)
		conn.Close()
	}()
	c.log.Info().Str("url", c.url).Msg("telemetry feed connected")

	// unblock ReadMessage when the context ends
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return true, err
		}
		sample, err := DecodeSample(raw, c.slotCount, time.Now())
		if err != nil {
			c.log.Debug().Err(err).Msg("dropping frame")
			continue
		}
		select {
		case c.Samples <- sample:
		case <-ctx.Done():
			return true, ctx.Err()
		}
	}
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
}

// Publish sends a control command over the current connection.
func (c *Client) Publish(cmd Command) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	payload, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, payload)
}
