package transcript

import (
	"bytes"

	"agentview/internal/types"
)

// Effect summarizes what folding one event did, so the owner of the state can
// drive loading indicators, the inspector and session status without
// re-inspecting the transcript.
type Effect struct {
	Changed      bool
	LiveTool     ToolRef
	StopLoading  bool
	TitleChanged bool
	PlanChanged  bool
	Terminal     bool
	Status       types.SessionStatus
}

// Apply folds one event into the state. It never fails: events that cannot
// be decoded, or that reference missing antecedents, leave the transcript
// untouched. The resume cursor always advances to the event's id.
func (s *State) Apply(event types.Event) Effect {
	effect := Effect{LiveTool: NoTool}
	if s == nil {
		return effect
	}
	if s.toolsByID == nil {
		s.toolsByID = map[string]ToolRef{}
	}
	if event.ID != "" {
		s.lastEventID = event.ID
	}

	switch event.Kind {
	case types.EventMessage:
		effect.Changed = s.applyMessage(event)
	case types.EventTool:
		s.applyTool(event, &effect)
	case types.EventStep:
		s.applyStep(event, &effect)
	case types.EventError:
		effect.StopLoading = true
		effect.Terminal = true
		effect.Status = types.SessionStatusFailed
		if data, err := event.Failure(); err == nil {
			s.entries = append(s.entries, AssistantMessage{Content: data.Error, Timestamp: data.Timestamp.Time})
			effect.Changed = true
		}
	case types.EventTitle:
		if data, err := event.Title(); err == nil {
			s.title = data.Title
			effect.TitleChanged = true
		}
	case types.EventPlan:
		if data, err := event.Plan(); err == nil {
			plan := make([]PlanStep, 0, len(data.Steps))
			for _, step := range data.Steps {
				plan = append(plan, PlanStep{ID: step.ID, Description: step.Description, Status: step.Status})
			}
			s.plan = plan
			effect.PlanChanged = true
		}
	case types.EventDone:
		effect.Terminal = true
		effect.Status = types.SessionStatusCompleted
	case types.EventWait:
		effect.Terminal = true
		effect.Status = types.SessionStatusWaiting
	}
	return effect
}

func (s *State) applyMessage(event types.Event) bool {
	data, err := event.Message()
	if err != nil {
		return false
	}
	at := data.Timestamp.Time
	if data.Role == "user" {
		s.entries = append(s.entries, UserMessage{Content: data.Content, Timestamp: at})
	} else {
		s.entries = append(s.entries, AssistantMessage{Content: data.Content, Timestamp: at})
	}
	if len(data.Attachments) > 0 {
		s.entries = append(s.entries, AttachmentSet{Role: data.Role, Files: data.Attachments, Timestamp: at})
	}
	return true
}

func (s *State) applyTool(event types.Event, effect *Effect) {
	data, err := event.Tool()
	if err != nil || data.ToolCallID == "" {
		return
	}
	ref, known := s.toolsByID[data.ToolCallID]
	if known {
		mergeTool(&s.tools[ref], data)
	} else {
		ref = ToolRef(len(s.tools))
		s.tools = append(s.tools, ToolCall{
			ID:        data.ToolCallID,
			Name:      data.Name,
			Function:  data.Function,
			Args:      data.Args,
			Content:   contentOrNil(data.Content),
			Status:    data.Status,
			Timestamp: data.Timestamp.Time,
			Step:      NoStep,
		})
		s.toolsByID[data.ToolCallID] = ref
		if open := s.openStep(); open != NoStep {
			s.steps[open].Tools = append(s.steps[open].Tools, ref)
			s.tools[ref].Step = open
		} else {
			s.entries = append(s.entries, ToolCallEntry{Ref: ref})
		}
	}
	effect.Changed = true
	s.lastTool = ref
	if s.tools[ref].Name != MessageToolName {
		s.lastNoMessageTool = ref
		effect.LiveTool = ref
	}
}

func mergeTool(tool *ToolCall, data types.ToolData) {
	if data.Status != "" {
		tool.Status = data.Status
	}
	if content := contentOrNil(data.Content); content != nil {
		tool.Content = content
	}
	if data.Name != "" {
		tool.Name = data.Name
	}
	if data.Function != "" {
		tool.Function = data.Function
	}
	if len(data.Args) > 0 {
		tool.Args = data.Args
	}
	if !data.Timestamp.IsZero() {
		tool.Timestamp = data.Timestamp.Time
	}
}

func contentOrNil(raw []byte) []byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return append([]byte(nil), trimmed...)
}

func (s *State) applyStep(event types.Event, effect *Effect) {
	data, err := event.Step()
	if err != nil {
		return
	}
	switch data.Status {
	case types.StepStatusRunning:
		ref := StepRef(len(s.steps))
		s.steps = append(s.steps, Step{ID: data.ID, Description: data.Description, Status: types.StepStatusRunning})
		s.entries = append(s.entries, StepEntry{Ref: ref})
		effect.Changed = true
	case types.StepStatusCompleted:
		if ref := s.lastStep(); ref != NoStep {
			s.steps[ref].Status = types.StepStatusCompleted
			effect.Changed = true
		}
	case types.StepStatusFailed:
		effect.StopLoading = true
		if ref := s.openStep(); ref != NoStep {
			s.steps[ref].Status = types.StepStatusFailed
			effect.Changed = true
		}
	}
}
