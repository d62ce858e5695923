package app

import (
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"

	"agentview/internal/transcript"
	"agentview/internal/types"
)

func TestRenderTranscriptNestsToolsUnderStep(t *testing.T) {
	state := transcript.New()
	state.Apply(fixtureMessageEvent("e1", "user", "list files"))
	state.Apply(fixtureStepEvent("e2", "1", types.StepStatusRunning))
	state.Apply(fixtureToolEvent("e3", "t1", "shell", types.ToolStatusCalling))
	state.Apply(fixtureMessageEvent("e4", "assistant", "Here they are."))

	ref, _ := state.ToolByID("t1")
	out := xansi.Strip(renderTranscript(state, 80, transcriptRenderOptions{Focus: ref}))
	for _, want := range []string{"list files", "step 1", "  … shell_exec ls", "Here they are."} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in transcript:\n%s", want, out)
		}
	}
	if strings.Index(out, "step 1") > strings.Index(out, "shell_exec") {
		t.Fatalf("expected tool after its step header")
	}
}

func TestLayoutTranscriptMapsToolRows(t *testing.T) {
	state := transcript.New()
	state.Apply(fixtureMessageEvent("e1", "user", "list files"))
	state.Apply(fixtureStepEvent("e2", "1", types.StepStatusRunning))
	state.Apply(fixtureToolEvent("e3", "t1", "shell", types.ToolStatusCalling))
	state.Apply(fixtureMessageEvent("e4", "assistant", "Here they are."))

	ref, _ := state.ToolByID("t1")
	content, rows := layoutTranscript(state, 80, transcriptRenderOptions{Focus: transcript.NoTool})
	if len(rows) != 1 {
		t.Fatalf("expected one tool row, got %#v", rows)
	}
	lines := strings.Split(xansi.Strip(content), "\n")
	for idx, got := range rows {
		if got != ref {
			t.Fatalf("unexpected tool at row %d", idx)
		}
		if !strings.Contains(lines[idx], "shell_exec") {
			t.Fatalf("expected row %d to draw the tool, got %q", idx, lines[idx])
		}
	}
}

func TestRenderTranscriptEmptyAndLoading(t *testing.T) {
	state := transcript.New()
	if out := xansi.Strip(renderTranscript(state, 40, transcriptRenderOptions{Focus: transcript.NoTool})); !strings.Contains(out, "No messages yet.") {
		t.Fatalf("expected placeholder, got %q", out)
	}
	out := xansi.Strip(renderTranscript(state, 40, transcriptRenderOptions{Focus: transcript.NoTool, Loading: "| thinking"}))
	if !strings.Contains(out, "thinking") {
		t.Fatalf("expected loading line, got %q", out)
	}
}

func TestRenderTranscriptAttachments(t *testing.T) {
	state := transcript.New()
	state.AppendUserMessage("local-1", "see file", []types.FileInfo{{FileID: "f1", Filename: "report.pdf"}}, fixtureTime)
	out := xansi.Strip(renderTranscript(state, 60, transcriptRenderOptions{Focus: transcript.NoTool}))
	if !strings.Contains(out, "attached: report.pdf") {
		t.Fatalf("expected attachment line:\n%s", out)
	}
}

func TestRenderPlan(t *testing.T) {
	plan := []transcript.PlanStep{
		{ID: "1", Description: "collect", Status: types.StepStatusCompleted},
		{ID: "2", Description: "write", Status: types.StepStatusPending},
	}
	out := xansi.Strip(renderPlan(plan, 40))
	if !strings.Contains(out, "● collect") || !strings.Contains(out, "○ write") {
		t.Fatalf("unexpected plan:\n%s", out)
	}
	if renderPlan(nil, 40) != "" {
		t.Fatalf("expected empty plan")
	}
}
