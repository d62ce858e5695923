package types

import "encoding/json"

type SessionStatus string

const (
	SessionStatusPending   SessionStatus = "pending"
	SessionStatusRunning   SessionStatus = "running"
	SessionStatusWaiting   SessionStatus = "waiting"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusFailed    SessionStatus = "failed"
)

// Active reports whether the remote agent may still be producing events for
// the session, in which case a client should re-attach to its stream.
func (s SessionStatus) Active() bool {
	return s == SessionStatusPending || s == SessionStatusRunning
}

type Session struct {
	ID     string        `json:"session_id"`
	Title  string        `json:"title,omitempty"`
	Status SessionStatus `json:"status"`
	Events []Event       `json:"events,omitempty"`

	// SkippedEvents counts history entries that could not be decoded.
	SkippedEvents int `json:"-"`
}

// UnmarshalJSON drops undecodable history entries instead of rejecting the
// whole session, so the rest of the history can still be replayed.
func (s *Session) UnmarshalJSON(b []byte) error {
	type sessionFields Session
	var wire struct {
		sessionFields
		Events []json.RawMessage `json:"events,omitempty"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	*s = Session(wire.sessionFields)
	s.Events = nil
	for _, raw := range wire.Events {
		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			s.SkippedEvents++
			continue
		}
		s.Events = append(s.Events, event)
	}
	return nil
}

type SessionSummary struct {
	ID                 string        `json:"session_id"`
	Title              string        `json:"title,omitempty"`
	LatestMessage      string        `json:"latest_message,omitempty"`
	LatestMessageAt    Timestamp     `json:"latest_message_at,omitempty"`
	Status             SessionStatus `json:"status"`
	UnreadMessageCount int           `json:"unread_message_count"`
}

// SessionsData is the payload of a session list stream event.
type SessionsData struct {
	Sessions []SessionSummary `json:"sessions"`
}

func (e Event) Sessions() ([]SessionSummary, error) {
	var data SessionsData
	if err := e.decode(EventSessions, &data); err != nil {
		return nil, err
	}
	return data.Sessions, nil
}
