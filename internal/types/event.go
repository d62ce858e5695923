package types

import (
	"encoding/json"
	"errors"
	"fmt"
)

type EventKind string

const (
	EventMessage EventKind = "message"
	EventTool    EventKind = "tool"
	EventStep    EventKind = "step"
	EventDone    EventKind = "done"
	EventWait    EventKind = "wait"
	EventError   EventKind = "error"
	EventTitle   EventKind = "title"
	EventPlan    EventKind = "plan"

	// EventSessions only appears on the session list stream.
	EventSessions EventKind = "sessions"
)

type ToolStatus string

const (
	ToolStatusCalling ToolStatus = "calling"
	ToolStatusCalled  ToolStatus = "called"
)

type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusRunning   StepStatus = "running"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
)

// Event is one unit of an agent session stream. ID is the event_id carried in
// every payload and doubles as the resume cursor. Data keeps the raw payload
// so each kind can be decoded on demand.
type Event struct {
	Kind EventKind
	ID   string
	Data json.RawMessage
}

type wireEvent struct {
	Event EventKind       `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type eventEnvelope struct {
	EventID string `json:"event_id"`
}

// NewEvent builds an event from an SSE frame. The event id is read from the
// payload; a payload that is not a JSON object yields an event without id.
func NewEvent(kind EventKind, data []byte) Event {
	event := Event{Kind: kind}
	if len(data) > 0 {
		event.Data = append(json.RawMessage(nil), data...)
		var envelope eventEnvelope
		if err := json.Unmarshal(data, &envelope); err == nil {
			event.ID = envelope.EventID
		}
	}
	return event
}

func (e Event) MarshalJSON() ([]byte, error) {
	data := e.Data
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	return json.Marshal(wireEvent{Event: e.Kind, Data: data})
}

func (e *Event) UnmarshalJSON(b []byte) error {
	var wire wireEvent
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	if wire.Event == "" {
		return errors.New("event kind is required")
	}
	*e = NewEvent(wire.Event, wire.Data)
	return nil
}

type MessageData struct {
	EventID     string     `json:"event_id"`
	Timestamp   Timestamp  `json:"timestamp"`
	Role        string     `json:"role"`
	Content     string     `json:"content"`
	Attachments []FileInfo `json:"attachments,omitempty"`
}

type ToolData struct {
	EventID    string          `json:"event_id"`
	Timestamp  Timestamp       `json:"timestamp"`
	ToolCallID string          `json:"tool_call_id"`
	Name       string          `json:"name"`
	Function   string          `json:"function"`
	Args       map[string]any  `json:"args,omitempty"`
	Content    json.RawMessage `json:"content,omitempty"`
	Status     ToolStatus      `json:"status"`
}

type StepData struct {
	EventID     string     `json:"event_id"`
	Timestamp   Timestamp  `json:"timestamp"`
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Status      StepStatus `json:"status"`
}

type ErrorData struct {
	EventID   string    `json:"event_id"`
	Timestamp Timestamp `json:"timestamp"`
	Error     string    `json:"error"`
}

type TitleData struct {
	EventID   string    `json:"event_id"`
	Timestamp Timestamp `json:"timestamp"`
	Title     string    `json:"title"`
}

type PlanData struct {
	EventID   string     `json:"event_id"`
	Timestamp Timestamp  `json:"timestamp"`
	Steps     []StepData `json:"steps"`
}

func (e Event) Message() (MessageData, error) {
	var data MessageData
	return data, e.decode(EventMessage, &data)
}

func (e Event) Tool() (ToolData, error) {
	var data ToolData
	return data, e.decode(EventTool, &data)
}

func (e Event) Step() (StepData, error) {
	var data StepData
	return data, e.decode(EventStep, &data)
}

func (e Event) Failure() (ErrorData, error) {
	var data ErrorData
	return data, e.decode(EventError, &data)
}

func (e Event) Title() (TitleData, error) {
	var data TitleData
	return data, e.decode(EventTitle, &data)
}

func (e Event) Plan() (PlanData, error) {
	var data PlanData
	return data, e.decode(EventPlan, &data)
}

func (e Event) decode(kind EventKind, out any) error {
	if e.Kind != kind {
		return fmt.Errorf("event kind %q is not %q", e.Kind, kind)
	}
	if len(e.Data) == 0 {
		return fmt.Errorf("%s event has no data", kind)
	}
	if err := json.Unmarshal(e.Data, out); err != nil {
		return fmt.Errorf("decode %s event: %w", kind, err)
	}
	return nil
}

// MustEvent marshals data into an event of the given kind. It is meant for
// tests and fixtures and panics when data cannot be encoded.
func MustEvent(kind EventKind, data any) Event {
	raw, err := json.Marshal(data)
	if err != nil {
		panic(err)
	}
	return NewEvent(kind, raw)
}
