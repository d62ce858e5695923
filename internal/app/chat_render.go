package app

import (
	"strings"

	"charm.land/lipgloss/v2"

	"agentview/internal/transcript"
	"agentview/internal/types"
)

type transcriptRenderOptions struct {
	Focus   transcript.ToolRef
	Loading string
}

// renderTranscript lays out every entry of state for a pane of the given
// width. Tools nested in a step are drawn under the step header.
func renderTranscript(state *transcript.State, width int, opts transcriptRenderOptions) string {
	content, _ := layoutTranscript(state, width, opts)
	return content
}

// layoutTranscript renders the transcript and maps each tool line index to
// the tool drawn on it.
func layoutTranscript(state *transcript.State, width int, opts transcriptRenderOptions) (string, map[int]transcript.ToolRef) {
	if width <= 0 {
		width = 80
	}
	entries := state.Entries()
	if len(entries) == 0 && opts.Loading == "" {
		return helpStyle.Render("No messages yet."), nil
	}
	lines := make([]string, 0, len(entries)*4)
	rows := make(map[int]transcript.ToolRef)
	for _, entry := range entries {
		block, tools := renderEntry(state, entry, width, opts.Focus)
		if len(block) == 0 {
			continue
		}
		for offset, ref := range tools {
			rows[len(lines)+offset] = ref
		}
		lines = append(lines, block...)
		lines = append(lines, "")
	}
	if opts.Loading != "" {
		lines = append(lines, activityStyle.Render(opts.Loading))
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n"), rows
}

func renderEntry(state *transcript.State, entry transcript.Entry, width int, focus transcript.ToolRef) ([]string, map[int]transcript.ToolRef) {
	switch e := entry.(type) {
	case transcript.UserMessage:
		return renderBubble(escapeMarkdown(e.Content), userBubbleStyle, lipgloss.Right, width), nil
	case transcript.AssistantMessage:
		return renderBubble(e.Content, agentBubbleStyle, lipgloss.Left, width), nil
	case transcript.ToolCallEntry:
		tool, ok := state.Tool(e.Ref)
		if !ok {
			return nil, nil
		}
		return []string{renderToolLine(tool, e.Ref == focus, width, "")}, map[int]transcript.ToolRef{0: e.Ref}
	case transcript.StepEntry:
		step, ok := state.Step(e.Ref)
		if !ok {
			return nil, nil
		}
		lines := []string{truncateToWidth(stepMarker(step.Status)+" "+stepStyle(step.Status).Render(step.Description), width)}
		tools := make(map[int]transcript.ToolRef, len(step.Tools))
		for _, ref := range step.Tools {
			tool, ok := state.Tool(ref)
			if !ok {
				continue
			}
			tools[len(lines)] = ref
			lines = append(lines, renderToolLine(tool, ref == focus, width, "  "))
		}
		return lines, tools
	case transcript.AttachmentSet:
		names := make([]string, 0, len(e.Files))
		for _, file := range e.Files {
			names = append(names, file.DisplayName())
		}
		align := lipgloss.Left
		if e.Role == "user" {
			align = lipgloss.Right
		}
		line := chatMetaStyle.Render(truncateToWidth("attached: "+strings.Join(names, ", "), width))
		return []string{lipgloss.PlaceHorizontal(width, align, line)}, nil
	}
	return nil, nil
}

func renderBubble(text string, style lipgloss.Style, align lipgloss.Position, width int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	maxBubbleWidth := width - 4
	if maxBubbleWidth < 10 {
		maxBubbleWidth = width
	}
	innerWidth := max(1, maxBubbleWidth-2-2*chatBubblePaddingHorizontal)
	bubble := style.Render(renderMarkdown(text, innerWidth))
	placed := lipgloss.PlaceHorizontal(width, align, bubble)
	return strings.Split(placed, "\n")
}

func renderToolLine(tool transcript.ToolCall, focused bool, width int, indent string) string {
	marker := "✓"
	if tool.Calling() {
		marker = "…"
	}
	line := truncateToWidth(indent+marker+" "+toolLabel(tool), width)
	if focused {
		return selectedToolStyle.Render(line)
	}
	return toolStyle.Render(line)
}

func stepMarker(status types.StepStatus) string {
	switch status {
	case types.StepStatusCompleted:
		return "●"
	case types.StepStatusFailed:
		return "✗"
	case types.StepStatusRunning:
		return "◐"
	default:
		return "○"
	}
}

func stepStyle(status types.StepStatus) lipgloss.Style {
	if status == types.StepStatusFailed {
		return stepFailedStyle
	}
	return stepHeaderStyle
}

// renderPlan lists the current plan steps, one per line.
func renderPlan(plan []transcript.PlanStep, width int) string {
	if len(plan) == 0 {
		return ""
	}
	lines := make([]string, 0, len(plan)+1)
	lines = append(lines, headerStyle.Render("Plan"))
	for _, step := range plan {
		lines = append(lines, truncateToWidth(stepMarker(step.Status)+" "+step.Description, width))
	}
	return strings.Join(lines, "\n")
}
