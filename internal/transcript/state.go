package transcript

import (
	"time"

	"agentview/internal/types"
)

// MessageToolName is the tool name the agent uses for tools that only carry
// messages to the user. Such tools never become the inspector's live tool.
const MessageToolName = "message"

// State is the folded transcript of one session. Entries are append-only;
// tool calls and steps live in arenas addressed by ToolRef and StepRef so
// later events can update them in place.
type State struct {
	entries           []Entry
	tools             []ToolCall
	steps             []Step
	toolsByID         map[string]ToolRef
	plan              []PlanStep
	title             string
	lastEventID       string
	lastTool          ToolRef
	lastNoMessageTool ToolRef
}

func New() *State {
	return &State{
		toolsByID:         map[string]ToolRef{},
		lastTool:          NoTool,
		lastNoMessageTool: NoTool,
	}
}

func (s *State) Reset() {
	if s == nil {
		return
	}
	*s = *New()
}

func (s *State) Entries() []Entry {
	if s == nil {
		return nil
	}
	return s.entries
}

func (s *State) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

func (s *State) Tool(ref ToolRef) (ToolCall, bool) {
	if s == nil || ref < 0 || int(ref) >= len(s.tools) {
		return ToolCall{}, false
	}
	return s.tools[ref], true
}

func (s *State) ToolByID(id string) (ToolRef, bool) {
	if s == nil {
		return NoTool, false
	}
	ref, ok := s.toolsByID[id]
	return ref, ok
}

func (s *State) Step(ref StepRef) (Step, bool) {
	if s == nil || ref < 0 || int(ref) >= len(s.steps) {
		return Step{}, false
	}
	return s.steps[ref], true
}

// Tools lists every tool call in the order it first appeared, nested or not.
func (s *State) Tools() []ToolRef {
	if s == nil {
		return nil
	}
	refs := make([]ToolRef, 0, len(s.tools))
	for i := range s.tools {
		refs = append(refs, ToolRef(i))
	}
	return refs
}

func (s *State) Plan() []PlanStep {
	if s == nil {
		return nil
	}
	return s.plan
}

func (s *State) Title() string {
	if s == nil {
		return ""
	}
	return s.title
}

func (s *State) SetTitle(title string) {
	if s == nil {
		return
	}
	s.title = title
}

func (s *State) LastEventID() string {
	if s == nil {
		return ""
	}
	return s.lastEventID
}

func (s *State) LastTool() ToolRef {
	if s == nil {
		return NoTool
	}
	return s.lastTool
}

func (s *State) LastNoMessageTool() ToolRef {
	if s == nil {
		return NoTool
	}
	return s.lastNoMessageTool
}

// LastAssistantMessage returns the content of the newest assistant entry.
func (s *State) LastAssistantMessage() (string, bool) {
	if s == nil {
		return "", false
	}
	for i := len(s.entries) - 1; i >= 0; i-- {
		if msg, ok := s.entries[i].(AssistantMessage); ok {
			return msg.Content, true
		}
	}
	return "", false
}

// AppendUserMessage adds a locally composed message ahead of the server
// acknowledging it. It does not move the resume cursor.
func (s *State) AppendUserMessage(localID, content string, attachments []types.FileInfo, at time.Time) bool {
	if s == nil || content == "" {
		return false
	}
	s.entries = append(s.entries, UserMessage{LocalID: localID, Content: content, Timestamp: at})
	if len(attachments) > 0 {
		s.entries = append(s.entries, AttachmentSet{
			Role:      "user",
			Files:     append([]types.FileInfo(nil), attachments...),
			Timestamp: at,
		})
	}
	return true
}

func (s *State) openStep() StepRef {
	ref := s.lastStep()
	if ref == NoStep || s.steps[ref].Status != types.StepStatusRunning {
		return NoStep
	}
	return ref
}

func (s *State) lastStep() StepRef {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if entry, ok := s.entries[i].(StepEntry); ok {
			return entry.Ref
		}
	}
	return NoStep
}
