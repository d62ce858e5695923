package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	serverclient "agentview/internal/client"
	"agentview/internal/types"
)

type SendCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
	now       func() time.Time
}

func NewSendCommand(stdout, stderr io.Writer, newClient clientFactory) *SendCommand {
	return &SendCommand{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newClient,
		now:       time.Now,
	}
}

func (c *SendCommand) Run(args []string) error {
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	var attachments stringList
	fs.Var(&attachments, "attach", "local file to upload and attach (repeatable)")
	after := fs.String("after", "", "resume after this event id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("send requires a session id")
	}
	id := fs.Arg(0)
	message := strings.TrimSpace(strings.Join(fs.Args()[1:], " "))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := c.newClient()
	if err != nil {
		return err
	}
	fileIDs := make([]string, 0, len(attachments))
	for _, path := range attachments {
		file, err := client.UploadFile(ctx, path)
		if err != nil {
			return fmt.Errorf("upload %s: %w", path, err)
		}
		fileIDs = append(fileIDs, file.FileID)
	}

	stream, err := client.Chat(ctx, id, serverclient.ChatRequest{
		Message:     message,
		Timestamp:   types.NewTimestamp(c.now()),
		EventID:     *after,
		Attachments: fileIDs,
	})
	if err != nil {
		return err
	}
	defer stream.Cancel()

	for event := range stream.Events() {
		if line := formatEvent(event); line != "" {
			fmt.Fprintln(c.stdout, line)
		}
	}
	if err := stream.Err(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// formatEvent renders one streamed event as a single line. Events with
// nothing to show yield "".
func formatEvent(event types.Event) string {
	switch event.Kind {
	case types.EventMessage:
		data, err := event.Message()
		if err != nil || data.Role == "user" {
			return ""
		}
		return "agent: " + data.Content
	case types.EventTool:
		data, err := event.Tool()
		if err != nil || data.Status != types.ToolStatusCalled {
			return ""
		}
		name := data.Function
		if name == "" {
			name = data.Name
		}
		return "  tool " + name
	case types.EventStep:
		data, err := event.Step()
		if err != nil {
			return ""
		}
		return fmt.Sprintf("[%s] %s", data.Status, data.Description)
	case types.EventError:
		data, err := event.Failure()
		if err != nil {
			return "error"
		}
		return "error: " + data.Error
	case types.EventTitle:
		data, err := event.Title()
		if err != nil {
			return ""
		}
		return "# " + data.Title
	case types.EventWait:
		return "(waiting for input)"
	}
	return ""
}
