package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	serverclient "agentview/internal/client"
	"agentview/internal/config"

	"golang.org/x/term"
)

type loginFunc func(ctx context.Context, cfg config.Config, email, password string) (*serverclient.LoginResponse, error)

type LoginCommand struct {
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	loadConfig func() (config.Config, error)
	login      loginFunc
}

func NewLoginCommand(stdin io.Reader, stdout, stderr io.Writer, loadConfig func() (config.Config, error), login loginFunc) *LoginCommand {
	return &LoginCommand{
		stdin:      stdin,
		stdout:     stdout,
		stderr:     stderr,
		loadConfig: loadConfig,
		login:      login,
	}
}

func (c *LoginCommand) Run(args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	email := fs.String("email", "", "account email")
	passwordStdin := fs.Bool("password-stdin", false, "read the password from stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*email) == "" {
		return errors.New("login requires --email")
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	password, err := c.readPassword(*passwordStdin)
	if err != nil {
		return err
	}
	resp, err := c.login(context.Background(), cfg, strings.TrimSpace(*email), password)
	if err != nil {
		return err
	}
	if err := cfg.SaveTokens(resp.AccessToken, resp.RefreshToken); err != nil {
		return fmt.Errorf("save tokens: %w", err)
	}
	name := resp.User.Email
	if name == "" {
		name = strings.TrimSpace(*email)
	}
	fmt.Fprintf(c.stdout, "logged in as %s\n", name)
	return nil
}

// readPassword prompts without echo when stdin is a terminal, otherwise it
// reads the first line.
func (c *LoginCommand) readPassword(fromStdin bool) (string, error) {
	if f, ok := c.stdin.(*os.File); ok && !fromStdin && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(c.stderr, "password: ")
		data, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(c.stderr)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	line, err := bufio.NewReader(c.stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password is required")
	}
	return password, nil
}

func loginWithServer(ctx context.Context, cfg config.Config, email, password string) (*serverclient.LoginResponse, error) {
	client := serverclient.NewWithBaseURL(cfg.BaseURL(), "")
	return client.Login(ctx, email, password)
}
