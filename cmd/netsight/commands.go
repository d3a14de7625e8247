package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"netsight/pkg/chat"
	"netsight/pkg/config"
	"netsight/pkg/inventory"
	"netsight/pkg/rbac"
	"netsight/pkg/ui"
	"netsight/pkg/ui/components/inventorytable"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var errNotSignedIn = errors.New("not signed in, run 'netsight login' first")

// cmdLogin signs in and stores the session.
func (a *app) cmdLogin(ctx context.Context, in *os.File, out io.Writer, args []string) error {
	reader := bufio.NewReader(in)
	readPassword := func() (string, error) { return readLine(reader) }
	if term.IsTerminal(int(in.Fd())) {
		readPassword = func() (string, error) {
			b, err := term.ReadPassword(int(in.Fd()))
			fmt.Fprintln(out)
			return string(b), err
		}
	}

	username, password, err := promptCredentials(reader, out, args, readPassword)
	if err != nil {
		return err
	}

	landing, err := a.ctrl.Submit(ctx, username, password)
	if err != nil {
		return err
	}
	if !a.ctrl.IsLoggedIn() {
		color.New(color.FgYellow).Fprintf(out, "Warning: signed in, but the session could not be stored in %s; you are still signed out.\n", a.cfg.SessionFile)
		return nil
	}

	sess, _ := a.ctrl.Session()
	role := a.ctrl.Role()
	color.New(color.FgGreen).Fprintf(out, "Signed in as %s (%s)\n", sess.User, role)
	fmt.Fprintf(out, "%s, landing page: %s\n", rbac.Banner(role), landing)
	return nil
}

// promptCredentials takes the username from args when given and reads the
// rest from the prompt.
func promptCredentials(r *bufio.Reader, out io.Writer, args []string, readPassword func() (string, error)) (string, string, error) {
	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		fmt.Fprint(out, "Username: ")
		line, err := readLine(r)
		if err != nil {
			return "", "", fmt.Errorf("read username: %w", err)
		}
		username = line
	}

	fmt.Fprint(out, "Password: ")
	password, err := readPassword()
	if err != nil {
		return "", "", fmt.Errorf("read password: %w", err)
	}
	return username, password, nil
}

// readLine returns one line without its terminator. A final line without a
// newline is accepted.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *app) cmdLogout(out io.Writer) error {
	if !a.ctrl.IsLoggedIn() {
		fmt.Fprintln(out, "Not signed in.")
		return nil
	}
	a.ctrl.Logout()
	color.New(color.FgGreen).Fprintln(out, "Signed out.")
	return nil
}

func (a *app) cmdWhoAmI(out io.Writer) error {
	sess, ok := a.ctrl.Session()
	if !ok || !sess.LoggedIn() {
		return errNotSignedIn
	}
	role := a.ctrl.Role()

	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)

	fmt.Fprintln(out)
	cyan.Fprintln(out, "  Identity")
	cyan.Fprintln(out, "  --------")
	fmt.Fprintf(out, "  User:       %s\n", sess.User)
	green.Fprintf(out, "  Role:       %s\n", role)
	fmt.Fprintf(out, "  Mode:       %s\n", rbac.Banner(role))
	fmt.Fprintf(out, "  Landing:    %s\n", rbac.Landing(role))

	titles := make([]string, 0, len(rbac.NavItems))
	for _, item := range rbac.VisibleItems(role) {
		titles = append(titles, item.Title())
	}
	fmt.Fprintf(out, "  Navigation: %s\n", strings.Join(titles, ", "))

	if !sess.IssuedAt.IsZero() {
		fmt.Fprintf(out, "  Issued:     %s\n", sess.IssuedAt.Local().Format(time.RFC1123))
	}
	if p, ok := a.store.LoadProfile(); ok && !p.Timestamp.IsZero() {
		fmt.Fprintf(out, "  Last login: %s\n", p.Timestamp.Local().Format(time.RFC1123))
	}
	fmt.Fprintln(out)
	return nil
}

// cmdChat sends one question, or runs a REPL when no message is given.
func (a *app) cmdChat(ctx context.Context, in io.Reader, out io.Writer, args []string) error {
	if len(args) > 0 {
		answer, ok := a.router.Send(ctx, strings.Join(args, " "))
		if !ok {
			return errors.New("nothing to send")
		}
		printAnswer(out, answer)
		return nil
	}
	return chatREPL(ctx, a.router, in, out)
}

func chatREPL(ctx context.Context, router *chat.Router, in io.Reader, out io.Writer) error {
	if greeting, ok := router.LastAnswer(); ok {
		printAnswer(out, greeting)
	}
	color.New(color.FgHiBlack).Fprintf(out, "Mode: %s. Type /quit to leave.\n", router.Mode().Label())

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		}

		answer, ok := router.Send(ctx, line)
		if !ok {
			continue
		}
		printAnswer(out, answer)
		if ctx.Err() != nil {
			return nil
		}
	}
}

func printAnswer(out io.Writer, answer string) {
	c := color.New(color.FgCyan)
	if strings.HasPrefix(answer, "Error:") {
		c = color.New(color.FgRed)
	}
	c.Fprint(out, "NetSight: ")
	fmt.Fprintln(out, answer)
}

// cmdMode shows the routing modes, or persists a new default to the config
// file.
func (a *app) cmdMode(out io.Writer, args []string) error {
	if len(args) == 0 {
		current := a.router.Mode()
		for _, m := range chat.Modes {
			marker := "  "
			if m == current {
				marker = "* "
			}
			fmt.Fprintf(out, "%s%-13s %s\n", marker, m, m.Label())
		}
		return nil
	}

	mode, err := chat.ParseMode(args[0])
	if err != nil {
		return err
	}

	// Reload the file so env overrides are not written back.
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	cfg.ChatMode = string(mode)
	if err := config.Save(a.configPath, cfg); err != nil {
		return err
	}
	if err := a.router.SetMode(mode); err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(out, "Chat mode set to %s\n", mode.Label())
	return nil
}

func (a *app) cmdInventory(ctx context.Context, out io.Writer, width int) error {
	if !a.ctrl.RequireAuth(ui.TargetLogin) {
		return errNotSignedIn
	}
	role := a.ctrl.Role()
	if !rbac.Visible(role, rbac.NavEcosystem) {
		return fmt.Errorf("the ecosystem inventory is not available in %s", rbac.Banner(role))
	}

	services, err := a.inventory.List(ctx)
	if err != nil {
		return err
	}
	printInventory(out, services, width)
	return nil
}

func printInventory(out io.Writer, services []inventory.Service, width int) {
	up, down := inventory.Summary(services)
	color.New(color.FgHiBlack).Fprintf(out, "%d services, %d up, %d down\n", len(services), up, down)

	lines := inventorytable.Render(services, width)
	color.New(color.Bold).Fprintln(out, lines[0])
	red := color.New(color.FgRed)
	for i, line := range lines[1:] {
		if !services[i].Up() {
			red.Fprintln(out, line)
			continue
		}
		fmt.Fprintln(out, line)
	}
}

// cmdQuiz handles "quiz submit <module> <score>".
func (a *app) cmdQuiz(ctx context.Context, out io.Writer, args []string) error {
	if len(args) != 3 || args[0] != "submit" {
		return errors.New("usage: netsight quiz submit <module> <score>")
	}
	score, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("score must be a whole number, got %q", args[2])
	}
	if !a.ctrl.RequireAuth(ui.TargetLogin) {
		return errNotSignedIn
	}

	rec, err := a.quiz.SubmitScore(ctx, args[1], score)
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(out, "Recorded %d for %s at %s\n", rec.Score, rec.Module, rec.Timestamp)
	return nil
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 120
}
