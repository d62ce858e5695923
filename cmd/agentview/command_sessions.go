package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
)

type ListCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
}

func NewListCommand(stdout, stderr io.Writer, newClient clientFactory) *ListCommand {
	return &ListCommand{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newClient,
	}
}

func (c *ListCommand) Run(args []string) error {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := c.newClient()
	if err != nil {
		return err
	}
	sessions, err := client.ListSessions(context.Background())
	if err != nil {
		return err
	}
	printSessions(c.stdout, sessions)
	return nil
}

type CreateCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
}

func NewCreateCommand(stdout, stderr io.Writer, newClient clientFactory) *CreateCommand {
	return &CreateCommand{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newClient,
	}
}

func (c *CreateCommand) Run(args []string) error {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := c.newClient()
	if err != nil {
		return err
	}
	id, err := client.CreateSession(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, id)
	return nil
}

// sessionActionCommand runs one id-addressed call, as rm and stop do.
type sessionActionCommand struct {
	name      string
	done      string
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
	action    func(ctx context.Context, client commandClient, id string) error
}

func NewDeleteCommand(stdout, stderr io.Writer, newClient clientFactory) commandRunner {
	return &sessionActionCommand{
		name:      "rm",
		done:      "deleted",
		stdout:    stdout,
		stderr:    stderr,
		newClient: newClient,
		action: func(ctx context.Context, client commandClient, id string) error {
			return client.DeleteSession(ctx, id)
		},
	}
}

func NewStopCommand(stdout, stderr io.Writer, newClient clientFactory) commandRunner {
	return &sessionActionCommand{
		name:      "stop",
		done:      "stopped",
		stdout:    stdout,
		stderr:    stderr,
		newClient: newClient,
		action: func(ctx context.Context, client commandClient, id string) error {
			return client.StopSession(ctx, id)
		},
	}
}

func (c *sessionActionCommand) Run(args []string) error {
	fs := flag.NewFlagSet(c.name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New(c.name + " requires a session id")
	}

	client, err := c.newClient()
	if err != nil {
		return err
	}
	id := fs.Arg(0)
	if err := c.action(context.Background(), client, id); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "%s %s\n", c.done, id)
	return nil
}

type FilesCommand struct {
	stdout    io.Writer
	stderr    io.Writer
	newClient clientFactory
}

func NewFilesCommand(stdout, stderr io.Writer, newClient clientFactory) *FilesCommand {
	return &FilesCommand{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newClient,
	}
}

func (c *FilesCommand) Run(args []string) error {
	fs := flag.NewFlagSet("files", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("files requires a session id")
	}

	client, err := c.newClient()
	if err != nil {
		return err
	}
	files, err := client.SessionFiles(context.Background(), fs.Arg(0))
	if err != nil {
		return err
	}
	printFiles(c.stdout, files)
	return nil
}
