package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"agentview/internal/transcript"
	"agentview/internal/types"
)

const (
	toolShell   = "shell"
	toolFile    = "file"
	toolSearch  = "search"
	toolBrowser = "browser"
	toolMCP     = "mcp"
)

// toolLabel is the one-line summary shown in the transcript.
func toolLabel(tool transcript.ToolCall) string {
	var detail string
	switch tool.Name {
	case toolShell:
		detail = tool.Arg("command")
	case toolFile:
		detail = tool.Arg("file")
	case toolSearch:
		detail = tool.Arg("query")
	case toolBrowser:
		detail = tool.Arg("url")
	}
	name := tool.Function
	if name == "" {
		name = tool.Name
	}
	if detail == "" {
		return name
	}
	return name + " " + strings.Join(strings.Fields(detail), " ")
}

// renderToolBody renders the inspector body for tool at the given width.
func renderToolBody(tool transcript.ToolCall, width int) string {
	var b strings.Builder
	b.WriteString(toolLabel(tool))
	b.WriteString("\n")
	if len(tool.Args) > 0 {
		b.WriteString(formatArgs(tool.Args))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if len(tool.Content) == 0 {
		if tool.Calling() {
			b.WriteString("(running)")
		} else {
			b.WriteString("(no output)")
		}
		return wrapPlain(b.String(), width)
	}
	b.WriteString(renderToolContent(tool.Name, tool.Content))
	return wrapPlain(b.String(), width)
}

func renderToolContent(name string, raw json.RawMessage) string {
	switch name {
	case toolShell:
		var content types.ShellToolContent
		if json.Unmarshal(raw, &content) == nil && len(content.Console) > 0 {
			return renderConsole(content.Console, "")
		}
	case toolFile:
		var content types.FileToolContent
		if json.Unmarshal(raw, &content) == nil && content.Content != "" {
			return content.Content
		}
	case toolSearch:
		var content types.SearchToolContent
		if json.Unmarshal(raw, &content) == nil && len(content.Results) > 0 {
			return renderSearchResults(content.Results)
		}
	case toolBrowser:
		var content types.BrowserToolContent
		if json.Unmarshal(raw, &content) == nil && content.Screenshot != "" {
			return "screenshot: " + content.Screenshot
		}
	case toolMCP:
		var content types.MCPToolContent
		if json.Unmarshal(raw, &content) == nil && len(content.Result) > 0 {
			return prettyJSON(content.Result)
		}
	}
	return prettyJSON(raw)
}

// renderConsole formats shell console records the way a terminal would show
// them. output is used when there are no records.
func renderConsole(records []types.ConsoleRecord, output string) string {
	if len(records) == 0 {
		return strings.TrimRight(output, "\n")
	}
	var b strings.Builder
	for i, record := range records {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(record.PS1)
		if record.PS1 != "" && !strings.HasSuffix(record.PS1, " ") {
			b.WriteString(" ")
		}
		b.WriteString(record.Command)
		if out := strings.TrimRight(record.Output, "\n"); out != "" {
			b.WriteString("\n")
			b.WriteString(out)
		}
	}
	return b.String()
}

func renderSearchResults(results []types.SearchResult) string {
	lines := make([]string, 0, len(results)*3)
	for i, result := range results {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, result.Title))
		if result.Link != "" {
			lines = append(lines, "   "+result.Link)
		}
		if result.Snippet != "" {
			lines = append(lines, "   "+strings.TrimSpace(result.Snippet))
		}
	}
	return strings.Join(lines, "\n")
}

func formatArgs(args map[string]any) string {
	raw, err := json.Marshal(args)
	if err != nil {
		return ""
	}
	return prettyJSON(raw)
}

func prettyJSON(raw []byte) string {
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return string(raw)
	}
	return out.String()
}

// wrapPlain hard-wraps unstyled text to width display cells.
func wrapPlain(text string, width int) string {
	if width <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = strings.ReplaceAll(line, "\t", "    ")
		if runewidth.StringWidth(line) > width {
			line = runewidth.Wrap(line, width)
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// refreshTarget names the remote view that holds fresher output for tool,
// if any.
func refreshTarget(tool transcript.ToolCall) (kind, arg string, ok bool) {
	switch tool.Name {
	case toolShell:
		if id := tool.Arg("id"); id != "" {
			return toolShell, id, true
		}
	case toolFile:
		if file := tool.Arg("file"); file != "" {
			return toolFile, file, true
		}
	}
	return "", "", false
}
