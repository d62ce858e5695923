package app

import (
	"testing"
	"time"

	"agentview/internal/transcript"
	"agentview/internal/types"
)

func TestInspectorFollowsLiveToolsInRealtime(t *testing.T) {
	state := transcript.New()
	inspector := NewInspector(0)
	var seen []transcript.ToolRef
	inspector.SetFocusListener(func(ref transcript.ToolRef) { seen = append(seen, ref) })

	effect := state.Apply(fixtureToolEvent("e1", "t1", "shell", types.ToolStatusCalling))
	if !inspector.OnLiveTool(effect.LiveTool) {
		t.Fatalf("expected focus to move")
	}
	inspector.Pin(effect.LiveTool)
	effect = state.Apply(fixtureToolEvent("e2", "t2", "file", types.ToolStatusCalling))
	if inspector.OnLiveTool(effect.LiveTool) {
		t.Fatalf("pinned inspector must not move")
	}
	if len(seen) != 1 {
		t.Fatalf("expected one focus notification, got %d", len(seen))
	}
	inspector.JumpToRealtime(state)
	if inspector.Focus() != effect.LiveTool {
		t.Fatalf("expected focus on newest tool")
	}
}

func TestInspectorMessageToolIsNeverLive(t *testing.T) {
	state := transcript.New()
	inspector := NewInspector(time.Minute)
	effect := state.Apply(fixtureToolEvent("e1", "t1", transcript.MessageToolName, types.ToolStatusCalling))
	if inspector.OnLiveTool(effect.LiveTool) {
		t.Fatalf("message tools must not take focus")
	}
	if inspector.Focus() != transcript.NoTool {
		t.Fatalf("expected no focus")
	}
}

func TestInspectorLiveWindow(t *testing.T) {
	state := transcript.New()
	state.Apply(fixtureToolEvent("e1", "t1", "shell", types.ToolStatusCalled))
	state.Apply(fixtureToolEvent("e2", "t2", "shell", types.ToolStatusCalled))
	older, _ := state.ToolByID("t1")
	newest, _ := state.ToolByID("t2")

	tests := []struct {
		name  string
		focus transcript.ToolRef
		now   time.Time
		want  bool
	}{
		{name: "newest within window", focus: newest, now: fixtureTime.Add(4 * time.Minute), want: true},
		{name: "newest past window", focus: newest, now: fixtureTime.Add(6 * time.Minute), want: false},
		{name: "older completed tool", focus: older, now: fixtureTime, want: false},
		{name: "no focus", focus: transcript.NoTool, now: fixtureTime, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inspector := NewInspector(5 * time.Minute)
			inspector.now = func() time.Time { return tt.now }
			inspector.Pin(tt.focus)
			if got := inspector.Live(state); got != tt.want {
				t.Fatalf("expected live=%v, got %v", tt.want, got)
			}
		})
	}
}

func TestInspectorCallingToolIsLive(t *testing.T) {
	state := transcript.New()
	state.Apply(fixtureToolEvent("e1", "t1", "shell", types.ToolStatusCalling))
	state.Apply(fixtureToolEvent("e2", "t2", "file", types.ToolStatusCalled))
	first, _ := state.ToolByID("t1")
	inspector := NewInspector(time.Second)
	inspector.now = func() time.Time { return fixtureTime.Add(time.Hour) }
	inspector.Pin(first)
	if !inspector.Live(state) {
		t.Fatalf("a tool that has not returned is live")
	}
}
