package app

import (
	"time"

	"agentview/internal/transcript"
)

const defaultLiveWindow = 5 * time.Minute

// Inspector tracks which tool call the side pane shows. In real-time mode it
// follows the newest non-message tool; pinning a tool stops that until the
// user jumps back.
type Inspector struct {
	realtime   bool
	focus      transcript.ToolRef
	liveWindow time.Duration
	now        func() time.Time
	onFocus    func(transcript.ToolRef)
}

func NewInspector(liveWindow time.Duration) *Inspector {
	if liveWindow <= 0 {
		liveWindow = defaultLiveWindow
	}
	return &Inspector{
		realtime:   true,
		focus:      transcript.NoTool,
		liveWindow: liveWindow,
		now:        time.Now,
	}
}

// SetFocusListener registers fn to run whenever a live tool takes focus.
func (i *Inspector) SetFocusListener(fn func(transcript.ToolRef)) {
	if i == nil {
		return
	}
	i.onFocus = fn
}

func (i *Inspector) Reset() {
	if i == nil {
		return
	}
	i.realtime = true
	i.focus = transcript.NoTool
}

func (i *Inspector) Focus() transcript.ToolRef {
	if i == nil {
		return transcript.NoTool
	}
	return i.focus
}

func (i *Inspector) Realtime() bool {
	return i != nil && i.realtime
}

// OnLiveTool is called for each new non-message tool event. It moves focus
// only in real-time mode and reports whether it did.
func (i *Inspector) OnLiveTool(ref transcript.ToolRef) bool {
	if i == nil || !i.realtime || ref == transcript.NoTool {
		return false
	}
	i.focus = ref
	if i.onFocus != nil {
		i.onFocus(ref)
	}
	return true
}

// Pin shows ref and leaves real-time mode.
func (i *Inspector) Pin(ref transcript.ToolRef) {
	if i == nil {
		return
	}
	i.realtime = false
	i.focus = ref
}

// JumpToRealtime re-enters real-time mode focused on the newest non-message
// tool of state.
func (i *Inspector) JumpToRealtime(state *transcript.State) {
	if i == nil {
		return
	}
	i.realtime = true
	i.focus = state.LastNoMessageTool()
}

// Live reports whether the focused tool is still in progress: either it has
// not returned yet, or it is the newest non-message tool and recent enough.
func (i *Inspector) Live(state *transcript.State) bool {
	if i == nil {
		return false
	}
	tool, ok := state.Tool(i.focus)
	if !ok {
		return false
	}
	if tool.Calling() {
		return true
	}
	if i.focus != state.LastNoMessageTool() || tool.Timestamp.IsZero() {
		return false
	}
	return i.now().Sub(tool.Timestamp) <= i.liveWindow
}
