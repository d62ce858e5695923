package app

import (
	"agentview/internal/types"
)

// StreamController holds the single open chat stream and drains it in
// bounded batches on each tick.
type StreamController struct {
	stream           ChatStream
	maxEventsPerTick int
}

func NewStreamController(maxEventsPerTick int) *StreamController {
	if maxEventsPerTick <= 0 {
		maxEventsPerTick = defaultMaxEventsPerTick
	}
	return &StreamController{maxEventsPerTick: maxEventsPerTick}
}

// Reset cancels the open stream, if any. Events already consumed stay
// consumed.
func (s *StreamController) Reset() {
	if s == nil {
		return
	}
	if s.stream != nil {
		s.stream.Cancel()
	}
	s.stream = nil
}

// SetStream installs stream, cancelling any previous one first.
func (s *StreamController) SetStream(stream ChatStream) {
	if s == nil {
		return
	}
	s.Reset()
	s.stream = stream
}

func (s *StreamController) Active() bool {
	return s != nil && s.stream != nil
}

// ConsumeTick returns up to maxEventsPerTick events in stream order. When the
// stream has ended, closed is true and err carries the transport failure, if
// any; the handle is released.
func (s *StreamController) ConsumeTick() (events []types.Event, closed bool, err error) {
	if s == nil || s.stream == nil {
		return nil, false, nil
	}
	ch := s.stream.Events()
	for i := 0; i < s.maxEventsPerTick; i++ {
		select {
		case event, ok := <-ch:
			if !ok {
				err = s.stream.Err()
				s.stream = nil
				return events, true, err
			}
			events = append(events, event)
		default:
			return events, false, nil
		}
	}
	return events, false, nil
}
