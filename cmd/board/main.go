// Command board shows the referral board in a terminal, reading from a
// running referrals server.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/browser"
	"github.com/spf13/pflag"

	"github.com/kud/referrals/internal/apiclient"
	"github.com/kud/referrals/internal/board"
	"github.com/kud/referrals/internal/tui"
)

func main() {
	var (
		apiURL    string
		countdown int
		logFile   string
	)
	pflag.StringVar(&apiURL, "api", envOr("REFERRALS_API_URL", "http://localhost:8080"), "base URL of the referrals server")
	pflag.IntVar(&countdown, "countdown", board.DefaultCountdown, "seconds between copying a code and opening its link")
	pflag.StringVar(&logFile, "log-file", "", "write logs to this file (logs are discarded otherwise)")
	pflag.Parse()

	logger, closeLog, err := newLogger(logFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()

	toasts := tui.NewToasts()
	b := board.New(apiclient.New(apiURL),
		board.WithClipboard(board.ClipboardFunc(clipboard.WriteAll)),
		board.WithOpener(board.OpenerFunc(browser.OpenURL)),
		board.WithNotifier(toasts),
		board.WithCountdown(countdown),
		board.WithLogger(logger),
	)
	defer b.Close()

	if _, err := tea.NewProgram(tui.NewModel(b, toasts), tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "board: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// newLogger keeps log output off the terminal the TUI is drawing on.
func newLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, nil)), func() { _ = f.Close() }, nil
}
