package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"netsight/pkg/config"
	"netsight/pkg/version"

	"github.com/fatih/color"
)

func main() {
	cmd := ""
	args := os.Args[1:]
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "version", "--version", "-v":
		fmt.Println(version.Info())
		return
	case "help", "-h", "--help":
		printUsage()
		return
	}

	configPath := config.GetConfigPath()
	a, err := newApp(configPath, nil)
	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "":
		err = a.runTUI(ctx)
	case "login":
		err = a.cmdLogin(ctx, os.Stdin, os.Stdout, args)
	case "logout":
		err = a.cmdLogout(os.Stdout)
	case "whoami":
		err = a.cmdWhoAmI(os.Stdout)
	case "chat":
		err = a.cmdChat(ctx, os.Stdin, os.Stdout, args)
	case "mode":
		err = a.cmdMode(os.Stdout, args)
	case "inventory":
		err = a.cmdInventory(ctx, os.Stdout, terminalWidth())
	case "quiz":
		err = a.cmdQuiz(ctx, os.Stdout, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		stop()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan, color.Bold)
	yellow := color.New(color.FgYellow)

	cyan.Println("NetSight")
	fmt.Println("AIOps portal client")
	fmt.Println()
	fmt.Println("Usage: netsight [command] [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  (none)                        Open the portal TUI")
	fmt.Println("  login [username]              Sign in (prompts for the password)")
	fmt.Println("  logout                        Sign out and clear the stored session")
	fmt.Println("  whoami                        Show the signed-in user and role")
	fmt.Println("  chat [message]                Ask NetSight (REPL if no message)")
	fmt.Println("  mode [local_only|hybrid|chatgpt_only]")
	fmt.Println("                                Show or set the chat routing mode")
	fmt.Println("  inventory                     List ecosystem services (admin, superuser)")
	fmt.Println("  quiz submit <module> <score>  Record an awareness quiz score")
	fmt.Println("  version                       Show build information")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  NETSIGHT_GATEWAY_URL       Gateway base URL (default: http://localhost:8089)")
	fmt.Println("  NETSIGHT_LOGIN_FORMAT      form or json")
	fmt.Println("  NETSIGHT_CHAT_MODE         Chat routing mode for this run")
	fmt.Println("  NETSIGHT_SESSION_FILE      Session file (default: ~/.netsight/session.json)")
	fmt.Println("  NETSIGHT_TIMEOUT_SECONDS   Gateway request timeout")
	fmt.Println("  NETSIGHT_LOG_LEVEL         trace, debug, info, warn or error")
	fmt.Println()
	fmt.Printf("Config file: %s\n", config.GetConfigPath())
}
