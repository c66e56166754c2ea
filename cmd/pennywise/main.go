package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/calebmoore/pennywise/internal/config"
	"github.com/calebmoore/pennywise/internal/session"
	"github.com/calebmoore/pennywise/internal/tui"
	"github.com/calebmoore/pennywise/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	godotenv.Load() //nolint:errcheck // .env is optional

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store := session.NewStore(cfg.Home)

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("pennywise " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "login":
			return runLogin(cfg, store)
		case "register":
			return runRegister(cfg, store)
		case "logout":
			return runLogout(store)
		case "whoami":
			return runWhoami(store)
		default:
			printHelp()
			return fmt.Errorf("unknown command %q", os.Args[1])
		}
	}

	return launch(cfg, store)
}

// launch starts the TUI. With no stored session it opens on the login form.
func launch(cfg *config.Config, store *session.Store) error {
	c := client.New(cfg.APIBaseURL, "")
	app := tui.NewApp(c, store)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// runLogin authenticates on the terminal without entering the TUI first,
// then opens the dashboard.
func runLogin(cfg *config.Config, store *session.Store) error {
	p := newPrompter(os.Stdin, os.Stdout)
	email, err := p.line("Email: ")
	if err != nil {
		return err
	}
	password, err := p.password()
	if err != nil {
		return err
	}

	c := client.New(cfg.APIBaseURL, "")
	resp, err := c.Login(context.Background(), email, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	sess := resp.Session()
	if err := store.Save(sess); err != nil {
		return err
	}
	fmt.Printf("Logged in as %s %s <%s>\n", sess.User.FirstName, sess.User.LastName, sess.User.Email)

	return launch(cfg, store)
}

func runRegister(cfg *config.Config, store *session.Store) error {
	p := newPrompter(os.Stdin, os.Stdout)
	reg := client.Registration{}
	fields := []struct {
		label string
		dest  *string
	}{
		{"First name: ", &reg.FirstName},
		{"Last name: ", &reg.LastName},
		{"Email: ", &reg.Email},
	}
	for _, f := range fields {
		v, err := p.line(f.label)
		if err != nil {
			return err
		}
		*f.dest = v
	}
	password, err := p.password()
	if err != nil {
		return err
	}
	reg.Password = password

	c := client.New(cfg.APIBaseURL, "")
	resp, err := c.Register(context.Background(), reg)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	fmt.Println("Registration successful!")

	if err := store.Save(resp.Session()); err != nil {
		return err
	}
	return launch(cfg, store)
}

func runLogout(store *session.Store) error {
	if store.Token() == "" {
		fmt.Println("Already logged out.")
		return nil
	}
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

func runWhoami(store *session.Store) error {
	sess, err := store.Load()
	if err != nil {
		return err
	}
	if sess == nil {
		fmt.Println("Not logged in.")
		return nil
	}
	if sess.User.Email == "" {
		fmt.Println("Logged in (token from environment).")
		return nil
	}
	fmt.Printf("%s %s <%s>\n", sess.User.FirstName, sess.User.LastName, sess.User.Email)
	return nil
}

// prompter reads interactive input for a command. All prompts of one command
// share a single scanner: the scanner buffers ahead of what it returns, so a
// fresh one per prompt would swallow later lines on piped stdin.
type prompter struct {
	in  *bufio.Scanner
	raw io.Reader // retained for terminal detection
	out io.Writer
}

func newPrompter(stdin io.Reader, stdout io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(stdin), raw: stdin, out: stdout}
}

// line reads one trimmed line after printing label.
func (p *prompter) line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if p.in.Scan() {
		v := strings.TrimSpace(p.in.Text())
		if v == "" {
			return "", fmt.Errorf("%s is required", strings.TrimSuffix(strings.TrimSpace(label), ":"))
		}
		return v, nil
	}
	if err := p.in.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// password reads a password without echo when stdin is a terminal, falling
// back to a plain line read for pipes and tests.
func (p *prompter) password() (string, error) {
	fmt.Fprint(p.out, "Password: ")
	if f, ok := p.raw.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", err
		}
		if len(bytePassword) == 0 {
			return "", fmt.Errorf("password cannot be empty")
		}
		return string(bytePassword), nil
	}

	if p.in.Scan() {
		pw := p.in.Text()
		if strings.TrimSpace(pw) == "" {
			return "", fmt.Errorf("password cannot be empty")
		}
		return pw, nil
	}
	if err := p.in.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func printHelp() {
	fmt.Println(`pennywise — terminal client for the expense tracker

Usage:
  pennywise            open the dashboard (or the login form)
  pennywise login      sign in on the terminal, then open the dashboard
  pennywise register   create an account, then open the dashboard
  pennywise logout     clear the stored session
  pennywise whoami     show the stored profile
  pennywise version    show version

Environment:
  PENNYWISE_API_URL    API root (default https://api.pennywise.app)
  PENNYWISE_HOME       session directory (default ~/.pennywise)
  PENNYWISE_TOKEN      session token override`)
}
