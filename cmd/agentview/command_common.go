package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"agentview/internal/transcript"
	"agentview/internal/types"
)

func printSessions(output io.Writer, sessions []types.SessionSummary) {
	writer := tabwriter.NewWriter(output, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tSTATUS\tUNREAD\tTITLE")
	for _, session := range sessions {
		title := session.Title
		if title == "" {
			title = "-"
		}
		fmt.Fprintf(writer, "%s\t%s\t%d\t%s\n", session.ID, session.Status, session.UnreadMessageCount, title)
	}
	_ = writer.Flush()
}

func printFiles(output io.Writer, files []types.FileInfo) {
	writer := tabwriter.NewWriter(output, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tSIZE\tNAME")
	for _, file := range files {
		fmt.Fprintf(writer, "%s\t%d\t%s\n", file.FileID, file.Size, file.DisplayName())
	}
	_ = writer.Flush()
}

// printTranscript writes a plain-text rendition of the folded transcript.
func printTranscript(output io.Writer, state *transcript.State) {
	if title := state.Title(); title != "" {
		fmt.Fprintf(output, "# %s\n\n", title)
	}
	for _, entry := range state.Entries() {
		switch e := entry.(type) {
		case transcript.UserMessage:
			fmt.Fprintf(output, "you: %s\n", e.Content)
		case transcript.AssistantMessage:
			fmt.Fprintf(output, "agent: %s\n", e.Content)
		case transcript.AttachmentSet:
			fmt.Fprintf(output, "%s attached: %s\n", e.Role, fileNames(e.Files))
		case transcript.ToolCallEntry:
			if tool, ok := state.Tool(e.Ref); ok {
				fmt.Fprintf(output, "  %s\n", toolLine(tool))
			}
		case transcript.StepEntry:
			step, ok := state.Step(e.Ref)
			if !ok {
				continue
			}
			fmt.Fprintf(output, "[%s] %s\n", step.Status, step.Description)
			for _, ref := range step.Tools {
				if tool, ok := state.Tool(ref); ok {
					fmt.Fprintf(output, "    %s\n", toolLine(tool))
				}
			}
		}
	}
}

func toolLine(tool transcript.ToolCall) string {
	name := tool.Function
	if name == "" {
		name = tool.Name
	}
	mark := "done"
	if tool.Calling() {
		mark = "running"
	}
	return fmt.Sprintf("%s (%s)", name, mark)
}

func fileNames(files []types.FileInfo) string {
	names := make([]string, 0, len(files))
	for _, file := range files {
		names = append(names, file.DisplayName())
	}
	return strings.Join(names, ", ")
}

type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func exitOnErr(label string, err error, stderr io.Writer) {
	if err == nil {
		return
	}
	fmt.Fprintf(stderr, "%s error: %v\n", label, err)
	os.Exit(1)
}
