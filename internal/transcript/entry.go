package transcript

import (
	"encoding/json"
	"time"

	"agentview/internal/types"
)

type EntryKind int

const (
	EntryUserMessage EntryKind = iota
	EntryAssistantMessage
	EntryToolCall
	EntryStep
	EntryAttachments
)

func (k EntryKind) String() string {
	switch k {
	case EntryUserMessage:
		return "user"
	case EntryAssistantMessage:
		return "assistant"
	case EntryToolCall:
		return "tool"
	case EntryStep:
		return "step"
	case EntryAttachments:
		return "attachments"
	default:
		return "unknown"
	}
}

// Entry is one displayable unit of a transcript. The set of implementations
// is closed: UserMessage, AssistantMessage, ToolCallEntry, StepEntry and
// AttachmentSet.
type Entry interface {
	Kind() EntryKind
	entry()
}

type UserMessage struct {
	LocalID   string
	Content   string
	Timestamp time.Time
}

type AssistantMessage struct {
	Content   string
	Timestamp time.Time
}

// ToolCallEntry places a tool call at the top level of the transcript. The
// call itself lives in the state's tool arena so later events can update it.
type ToolCallEntry struct {
	Ref ToolRef
}

// StepEntry places a step in the transcript; the step lives in the step arena.
type StepEntry struct {
	Ref StepRef
}

type AttachmentSet struct {
	Role      string
	Files     []types.FileInfo
	Timestamp time.Time
}

func (UserMessage) Kind() EntryKind      { return EntryUserMessage }
func (AssistantMessage) Kind() EntryKind { return EntryAssistantMessage }
func (ToolCallEntry) Kind() EntryKind    { return EntryToolCall }
func (StepEntry) Kind() EntryKind        { return EntryStep }
func (AttachmentSet) Kind() EntryKind    { return EntryAttachments }

func (UserMessage) entry()      {}
func (AssistantMessage) entry() {}
func (ToolCallEntry) entry()    {}
func (StepEntry) entry()        {}
func (AttachmentSet) entry()    {}

// ToolRef is a stable handle into the tool arena. NoTool means none.
type ToolRef int

// StepRef is a stable handle into the step arena. NoStep means none.
type StepRef int

const (
	NoTool ToolRef = -1
	NoStep StepRef = -1
)

type ToolCall struct {
	ID        string
	Name      string
	Function  string
	Args      map[string]any
	Content   json.RawMessage
	Status    types.ToolStatus
	Timestamp time.Time
	Step      StepRef
}

// Calling reports whether the tool has not produced its result yet.
func (t ToolCall) Calling() bool {
	return t.Status != types.ToolStatusCalled
}

// Arg returns a string argument, or "" when missing or not a string.
func (t ToolCall) Arg(key string) string {
	if t.Args == nil {
		return ""
	}
	value, _ := t.Args[key].(string)
	return value
}

type Step struct {
	ID          string
	Description string
	Status      types.StepStatus
	Tools       []ToolRef
}

type PlanStep struct {
	ID          string
	Description string
	Status      types.StepStatus
}
