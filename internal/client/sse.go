package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"agentview/internal/config"
	"agentview/internal/logging"
	"agentview/internal/types"
)

const eventBuffer = 256

var (
	streamLogger     logging.Logger
	streamLoggerOnce sync.Once
)

func streamDebugLogger() logging.Logger {
	streamLoggerOnce.Do(func() {
		streamLogger = logging.New(io.Discard, logging.Debug)
		path, err := config.StreamLogPath()
		if err != nil {
			return
		}
		logger, _, err := logging.OpenFile(path, logging.Debug)
		if err != nil {
			return
		}
		streamLogger = logger.With(logging.F("component", "ui-stream"))
	})
	return streamLogger
}

func (c *Client) streamLog() logging.Logger {
	if c == nil || !c.streamDebug {
		return logging.Nop()
	}
	return streamDebugLogger()
}

// EventChannel is one open chat stream. Events arrive in server order on
// Events until the server ends the stream, the transport fails or Cancel is
// called.
type EventChannel struct {
	sessionID string
	events    chan types.Event
	done      chan struct{}
	cancel    context.CancelFunc
	once      sync.Once

	mu  sync.Mutex
	err error
}

func (ch *EventChannel) SessionID() string {
	if ch == nil {
		return ""
	}
	return ch.sessionID
}

func (ch *EventChannel) Events() <-chan types.Event {
	if ch == nil {
		return nil
	}
	return ch.events
}

// Done is closed once the reader has stopped and Events is closed.
func (ch *EventChannel) Done() <-chan struct{} {
	if ch == nil {
		return nil
	}
	return ch.done
}

// Err reports why the stream ended. It is nil while the stream is open, after
// the server closed it normally, and after Cancel.
func (ch *EventChannel) Err() error {
	if ch == nil {
		return nil
	}
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.err
}

// Cancel aborts the stream. It may be called any number of times, from any
// goroutine, before or after the stream ends. When it returns the events
// channel is closed and empty, so nothing more is delivered.
func (ch *EventChannel) Cancel() {
	if ch == nil {
		return
	}
	ch.once.Do(func() {
		if ch.cancel != nil {
			ch.cancel()
		}
		for range ch.events {
		}
	})
	<-ch.done
}

func (ch *EventChannel) fail(err error) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.err == nil {
		ch.err = err
	}
}

// Chat posts a message to the session and returns the event stream that
// carries the agent's reaction. An empty message with an EventID re-attaches
// to a running agent after that event.
func (c *Client) Chat(ctx context.Context, sessionID string, req ChatRequest) (*EventChannel, error) {
	path, err := sessionPath(sessionID, "/chat")
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	log := c.streamLog().With(logging.F("session_id", sessionID))
	log.Debug("stream open", logging.F("cursor", req.EventID), logging.F("has_message", req.Message != ""))
	ch, err := c.openEventStream(ctx, path, body, log)
	if err != nil {
		return nil, err
	}
	ch.sessionID = sessionID
	return ch, nil
}

// StreamSessions subscribes to the session list. The server pushes a
// "sessions" event carrying the full list whenever it polls, until the
// channel is cancelled.
func (c *Client) StreamSessions(ctx context.Context) (*EventChannel, error) {
	log := c.streamLog().With(logging.F("stream", "sessions"))
	return c.openEventStream(ctx, "/sessions", []byte("{}"), log)
}

func (c *Client) openEventStream(ctx context.Context, path string, body []byte, log logging.Logger) (*EventChannel, error) {
	ctx, cancel := context.WithCancel(ctx)
	url := c.baseURL + apiPrefix + path
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		cancel()
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	c.authorize(httpReq)

	resp, err := c.roundTrip(c.stream, httpReq)
	if err != nil {
		cancel()
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		cancel()
		log.Debug("stream error", logging.F("url", url), logging.F("status", resp.StatusCode))
		return nil, decodeAPIError(resp)
	}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		defer resp.Body.Close()
		cancel()
		if err := decodeEnvelope(resp, nil); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%s: expected an event stream, got %s", path, resp.Header.Get("Content-Type"))
	}

	ch := &EventChannel{
		events: make(chan types.Event, eventBuffer),
		done:   make(chan struct{}),
		cancel: cancel,
	}
	go ch.read(ctx, resp.Body, log)
	return ch, nil
}

func (ch *EventChannel) read(ctx context.Context, body io.ReadCloser, log logging.Logger) {
	defer close(ch.done)
	defer close(ch.events)
	defer body.Close()

	start := time.Now()
	count := 0
	err := scanEvents(body, func(event types.Event) bool {
		select {
		case ch.events <- event:
		case <-ctx.Done():
			return false
		}
		count++
		if count == 1 {
			log.Debug("stream first", logging.F("kind", event.Kind), logging.F("event_id", event.ID))
		}
		return true
	})
	if err != nil && ctx.Err() == nil {
		ch.fail(err)
		log.Debug("stream scan error", logging.Err(err))
	}
	log.Debug("stream close", logging.F("count", count), logging.F("dur", time.Since(start)))
}

// scanEvents parses a text/event-stream body and calls emit for each event
// until emit returns false or the body ends.
func scanEvents(r io.Reader, emit func(types.Event) bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	kind := ""
	var dataLines []string
	dispatch := func() bool {
		defer func() {
			kind = ""
			dataLines = dataLines[:0]
		}()
		if len(dataLines) == 0 {
			return true
		}
		eventKind := types.EventKind(kind)
		if eventKind == "" {
			eventKind = types.EventMessage
		}
		return emit(types.NewEvent(eventKind, []byte(strings.Join(dataLines, "\n"))))
	}

	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			if !dispatch() {
				return nil
			}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}
		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			kind = strings.TrimSpace(value)
		case "data":
			dataLines = append(dataLines, value)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	dispatch()
	return nil
}
