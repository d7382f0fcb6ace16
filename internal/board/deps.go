package board

import (
	"context"
	"errors"
	"log/slog"

	"github.com/kud/referrals/internal/models"
)

// Source loads the records a board shows.
type Source interface {
	FetchReferrals(ctx context.Context) ([]models.Record, error)
}

type SourceFunc func(ctx context.Context) ([]models.Record, error)

func (f SourceFunc) FetchReferrals(ctx context.Context) ([]models.Record, error) { return f(ctx) }

// Clipboard matches github.com/atotto/clipboard.WriteAll.
type Clipboard interface {
	WriteAll(text string) error
}

type ClipboardFunc func(text string) error

func (f ClipboardFunc) WriteAll(text string) error { return f(text) }

// Opener opens a URL in a new browsing context.
type Opener interface {
	Open(url string) error
}

type OpenerFunc func(url string) error

func (f OpenerFunc) Open(url string) error { return f(url) }

var (
	ErrNoClipboard = errors.New("board: no clipboard available")
	ErrNoOpener    = errors.New("board: no browser available")
)

type NoticeLevel int

const (
	NoticeSuccess NoticeLevel = iota
	NoticeError
)

// Notice is a transient message for the visitor.
type Notice struct {
	Level   NoticeLevel
	Message string
}

type Notifier interface {
	Notify(Notice)
}

type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type logNotifier struct {
	logger *slog.Logger
}

func (l logNotifier) Notify(n Notice) {
	if n.Level == NoticeError {
		l.logger.Warn(n.Message)
		return
	}
	l.logger.Info(n.Message)
}
