package app

import (
	"testing"

	"agentview/internal/types"
)

func TestStepMarkersAreDistinct(t *testing.T) {
	statuses := []types.StepStatus{
		types.StepStatusPending,
		types.StepStatusRunning,
		types.StepStatusCompleted,
		types.StepStatusFailed,
	}
	seen := map[string]types.StepStatus{}
	for _, status := range statuses {
		marker := stepMarker(status)
		if prev, ok := seen[marker]; ok {
			t.Fatalf("%s and %s share marker %q", prev, status, marker)
		}
		seen[marker] = status
	}
	if stepMarker("") != stepMarker(types.StepStatusPending) {
		t.Fatalf("expected unknown status to render as pending")
	}
}

func TestFailedStepUsesFailureStyle(t *testing.T) {
	if stepStyle(types.StepStatusFailed).GetForeground() != stepFailedStyle.GetForeground() {
		t.Fatalf("expected failed step style")
	}
	if stepStyle(types.StepStatusRunning).GetForeground() != stepHeaderStyle.GetForeground() {
		t.Fatalf("expected header style for running step")
	}
}

func TestToastLevelsHaveDistinctBackgrounds(t *testing.T) {
	m := &Model{}
	backgrounds := map[toastLevel]any{}
	for _, level := range []toastLevel{toastLevelInfo, toastLevelWarning, toastLevelError} {
		m.toast.level = level
		bg := m.toastStyle().GetBackground()
		for other, seen := range backgrounds {
			if seen == bg {
				t.Fatalf("toast levels %v and %v share a background", other, level)
			}
		}
		backgrounds[level] = bg
	}
}

func TestInspectorBadgesDiffer(t *testing.T) {
	if liveBadgeStyle.GetBackground() == pinnedBadgeStyle.GetBackground() {
		t.Fatalf("expected realtime and pinned badges to be distinguishable")
	}
	if userBubbleStyle.GetPaddingLeft() != chatBubblePaddingHorizontal || agentBubbleStyle.GetPaddingTop() != chatBubblePaddingVertical {
		t.Fatalf("expected bubbles to share padding")
	}
}
