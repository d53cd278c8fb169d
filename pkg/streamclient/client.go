// Package streamclient follows a rescue SSE stream and merges its frames into a deltaset.
//
// The client is a small state machine: Run moves Idle to Streaming; a failed or finished
// stream moves to Backoff for the server's retry hint (3s by default) and then back to
// Streaming; cancelling the context moves to Closed.
package streamclient

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Temutjin2k/rescue-coordination/pkg/deltaset"
	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
)

const DefaultRetry = 3 * time.Second

type State int

const (
	Idle State = iota
	Streaming
	Backoff
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Streaming:
		return "streaming"
	case Backoff:
		return "backoff"
	case Closed:
		return "closed"
	}
	return "unknown"
}

var ErrUnexpectedStatus = errors.New("unexpected stream response status")

// Frame is one event of the stream.
type Frame struct {
	Kind     string          `json:"kind"`
	RescueID int64           `json:"rescueId"`
	Seq      int64           `json:"seq"`
	Payload  json.RawMessage `json:"payload"`
}

// mergeable kinds carry fields of the rescue record itself.
var mergeable = map[string]bool{"created": true, "status": true, "assigned": true, "location": true}

type Config struct {
	URL   string
	Token string
	// Retry is used until the server sends a retry hint.
	Retry  time.Duration
	Client *http.Client

	// Snapshot, if set, reseeds the set before every connection.
	Snapshot func(ctx context.Context) ([]json.RawMessage, error)
	// OnFrame sees every frame, including candidate and message frames that are not merged.
	OnFrame func(Frame)
	// OnState is called on every transition; delay is set for Backoff.
	OnState func(s State, delay time.Duration)
	// RemoveResolved drops records once a frame reports them resolved.
	RemoveResolved bool
}

type Client struct {
	cfg Config
	set *deltaset.Set
	l   logger.Logger

	mu    sync.Mutex
	state State
	retry time.Duration
}

func New(cfg Config, set *deltaset.Set, l logger.Logger) *Client {
	if cfg.Retry <= 0 {
		cfg.Retry = DefaultRetry
	}
	if cfg.Client == nil {
		cfg.Client = http.DefaultClient
	}
	return &Client{cfg: cfg, set: set, l: l, retry: cfg.Retry}
}

func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) setState(s State, delay time.Duration) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	if c.cfg.OnState != nil {
		c.cfg.OnState(s, delay)
	}
}

// Run streams until ctx is done. It only returns an error when it was not Idle.
func (c *Client) Run(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, "stream_client_run")
	if c.State() != Idle {
		return fmt.Errorf("stream client is %s", c.State())
	}

	b := backoff.NewConstantBackOff(c.cfg.Retry)

	op := func() error {
		c.setState(Streaming, 0)
		err := c.stream(ctx, b)
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		if err == nil {
			err = io.EOF
		}
		return err
	}
	notify := func(err error, delay time.Duration) {
		c.l.Warn(ctx, "stream interrupted, reconnecting", "error", err.Error(), "retry_in", delay.String())
		c.setState(Backoff, delay)
	}

	err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify)
	c.setState(Closed, 0)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

func (c *Client) stream(ctx context.Context, b *backoff.ConstantBackOff) error {
	if c.cfg.Snapshot != nil {
		docs, err := c.cfg.Snapshot(ctx)
		if err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}
		if err := c.set.Seed(docs); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.cfg.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return c.read(ctx, resp.Body, b)
}

// read parses text/event-stream framing: "retry:" lines update the backoff, "data:" lines
// accumulate until a blank line ends the event, lines starting with ':' are comments.
func (c *Client) read(ctx context.Context, r io.Reader, b *backoff.ConstantBackOff) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	var data strings.Builder
	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == "":
			if data.Len() > 0 {
				c.dispatch(ctx, data.String())
				data.Reset()
			}
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "retry:"):
			if ms, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "retry:"))); err == nil && ms > 0 {
				b.Interval = time.Duration(ms) * time.Millisecond
				c.mu.Lock()
				c.retry = b.Interval
				c.mu.Unlock()
			}
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	return sc.Err()
}

func (c *Client) dispatch(ctx context.Context, raw string) {
	var f Frame
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		c.l.Warn(ctx, "skipping malformed frame", "error", err.Error())
		return
	}

	if mergeable[f.Kind] && len(f.Payload) > 0 {
		if _, err := c.set.Apply(f.RescueID, f.Seq, f.Payload); err != nil {
			c.l.Warn(ctx, "failed to apply frame", "error", err.Error(), "rescue_id", f.RescueID)
		} else if c.cfg.RemoveResolved && resolved(f.Payload) {
			c.set.Remove(f.RescueID)
		}
	}

	if c.cfg.OnFrame != nil {
		c.cfg.OnFrame(f)
	}
}

// RetryInterval returns the current reconnect delay.
func (c *Client) RetryInterval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.retry
}

func resolved(payload json.RawMessage) bool {
	var p struct {
		Status string `json:"status"`
	}
	return json.Unmarshal(payload, &p) == nil && p.Status == "resolved"
}
