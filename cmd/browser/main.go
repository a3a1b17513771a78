package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"lms-resource-center/internal/library"
	"lms-resource-center/internal/tui"
)

func main() {
	var (
		server  = flag.String("server", "http://localhost:8080", "resource API base URL")
		token   = flag.String("token", os.Getenv("RESOURCE_CENTER_TOKEN"), "bearer token for the API")
		timeout = flag.Duration("timeout", 30*time.Second, "request timeout")
	)
	flag.Parse()

	if *token == "" {
		fmt.Fprintln(os.Stderr, "no auth token: pass -token or set RESOURCE_CENTER_TOKEN")
		os.Exit(1)
	}

	client := library.NewClient(library.Config{
		BaseURL:   *server,
		AuthToken: *token,
		Timeout:   *timeout,
	})
	session := library.NewSession(client, library.NewMemoryRecents(50), "Library")

	app := tui.NewApp(tui.AppParams{Session: session})
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running browser: %v\n", err)
		os.Exit(1)
	}
}
