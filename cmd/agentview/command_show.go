package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"

	"agentview/internal/transcript"
)

type ShowCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
}

func NewShowCommand(stdout, stderr io.Writer, newClient clientFactory) *ShowCommand {
	return &ShowCommand{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newClient,
	}
}

func (c *ShowCommand) Run(args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	asJSON := fs.Bool("json", false, "print the raw event history as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("show requires a session id")
	}

	client, err := c.newClient()
	if err != nil {
		return err
	}
	session, err := client.GetSession(context.Background(), fs.Arg(0))
	if err != nil {
		return err
	}
	if *asJSON {
		encoder := json.NewEncoder(c.stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(session.Events)
	}

	state := transcript.New()
	for _, event := range session.Events {
		state.Apply(event)
	}
	if state.Title() == "" {
		state.SetTitle(session.Title)
	}
	printTranscript(c.stdout, state)
	return nil
}
