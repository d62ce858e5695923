package main

import (
	"fmt"
	"os"
)

const usageText = `agentview is a terminal client for remote agent sessions.

Usage:
  agentview <command> [flags]

Commands:
  ui       run the terminal UI
  ls       list sessions
  new      create a session
  rm       delete a session
  stop     stop the agent of a session
  show     print a session transcript
  send     send a message and follow the reply
  files    list files of a session
  config   print configuration (effective or defaults)
  login    sign in and save the access and refresh tokens
  help     show help

Flags:
  -h, --help   show help

Examples:
  agentview ui
  agentview ui --session 7f3c2a
  agentview send --attach report.pdf 7f3c2a "summarize the report"
  agentview show --json 7f3c2a
  agentview config --format toml
  agentview login --email ada@example.com
`

func printUsage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		return
	}

	wiring := defaultCommandWiring(os.Stdout, os.Stderr)
	commands := buildCommands(wiring)

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return
	}

	runner, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
	exitOnErr(args[0], runner.Run(args[1:]), wiring.stderr)
}
