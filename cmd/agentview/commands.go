package main

import (
	"io"
	"os"

	"agentview/internal/config"
)

type commandRunner interface {
	Run(args []string) error
}

type commandWiring struct {
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	loadConfig func() (config.Config, error)
	newClient  clientFactory
	runUI      uiRunner
	login      loginFunc
}

func defaultCommandWiring(stdout, stderr io.Writer) commandWiring {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return commandWiring{
		stdin:      os.Stdin,
		stdout:     stdout,
		stderr:     stderr,
		loadConfig: config.Load,
		newClient:  newServerClient,
		runUI:      runTerminalUI,
		login:      loginWithServer,
	}
}

func buildCommands(wiring commandWiring) map[string]commandRunner {
	return map[string]commandRunner{
		"ui":     NewUICommand(wiring.stderr, wiring.loadConfig, wiring.runUI),
		"ls":     NewListCommand(wiring.stdout, wiring.stderr, wiring.newClient),
		"new":    NewCreateCommand(wiring.stdout, wiring.stderr, wiring.newClient),
		"rm":     NewDeleteCommand(wiring.stdout, wiring.stderr, wiring.newClient),
		"stop":   NewStopCommand(wiring.stdout, wiring.stderr, wiring.newClient),
		"show":   NewShowCommand(wiring.stdout, wiring.stderr, wiring.newClient),
		"send":   NewSendCommand(wiring.stdout, wiring.stderr, wiring.newClient),
		"files":  NewFilesCommand(wiring.stdout, wiring.stderr, wiring.newClient),
		"config": NewConfigCommand(wiring.stdout, wiring.stderr, wiring.loadConfig),
		"login":  NewLoginCommand(wiring.stdin, wiring.stdout, wiring.stderr, wiring.loadConfig, wiring.login),
	}
}
