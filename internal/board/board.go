// Package board holds the client-side state of the referral board: the
// loaded records, the category filter and the copy-then-open countdown.
//
// All transitions go through one mutex. Side effects (clipboard, browser,
// notices, update signals) run with the mutex released.
package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kud/referrals/internal/clock"
	"github.com/kud/referrals/internal/models"
)

const DefaultCountdown = 3

var (
	ErrUnknownRecord = errors.New("board: unknown record")
	// ErrInactive is returned when activating a card outside the selected category.
	ErrInactive = errors.New("board: record is not in the selected category")
)

type LoadState int

const (
	Loading LoadState = iota
	Ready
	Failed
)

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("LoadState(%d)", int(s))
}

// Interaction is the countdown slot. The zero value is idle.
type Interaction struct {
	Key       models.Key
	Remaining int
}

func (i Interaction) Idle() bool { return i.Key == "" }

// View is a consistent copy of the board for rendering.
type View struct {
	State       LoadState
	Err         error
	Categories  []string
	Selected    string
	Entries     []Entry
	Interaction Interaction
}

type Board struct {
	source    Source
	clock     clock.Clock
	clipboard Clipboard
	opener    Opener
	notifier  Notifier
	countdown int
	logger    *slog.Logger
	updates   chan struct{}

	mountOnce sync.Once
	mountErr  error

	mu       sync.Mutex
	state    LoadState
	err      error
	records  []models.Record
	byKey    map[models.Key]models.Record
	selected string
	active   *countdown
}

type countdown struct {
	key       models.Key
	record    models.Record
	remaining int
	timer     *clock.Timer
}

type Option func(*Board)

func WithClock(c clock.Clock) Option {
	return func(b *Board) { b.clock = c }
}

func WithClipboard(c Clipboard) Option {
	return func(b *Board) { b.clipboard = c }
}

func WithOpener(o Opener) Option {
	return func(b *Board) { b.opener = o }
}

func WithNotifier(n Notifier) Option {
	return func(b *Board) { b.notifier = n }
}

// WithCountdown sets how many seconds pass between a click and opening the URL.
func WithCountdown(seconds int) Option {
	return func(b *Board) {
		if seconds > 0 {
			b.countdown = seconds
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(b *Board) { b.logger = logger }
}

func New(source Source, opts ...Option) *Board {
	b := &Board{
		source:    source,
		clock:     clock.Real(),
		clipboard: ClipboardFunc(func(string) error { return ErrNoClipboard }),
		opener:    OpenerFunc(func(string) error { return ErrNoOpener }),
		countdown: DefaultCountdown,
		logger:    slog.Default(),
		updates:   make(chan struct{}, 1),
		selected:  AllCategories,
		byKey:     make(map[models.Key]models.Record),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.notifier == nil {
		b.notifier = logNotifier{logger: b.logger}
	}
	return b
}

// Mount loads the records once. Later calls return the first result.
func (b *Board) Mount(ctx context.Context) error {
	b.mountOnce.Do(func() {
		b.mountErr = b.load(ctx)
	})
	return b.mountErr
}

func (b *Board) load(ctx context.Context) error {
	records, err := b.source.FetchReferrals(ctx)

	b.mu.Lock()
	if err != nil {
		b.state = Failed
		b.err = err
	} else {
		b.state = Ready
		b.records = records
		keys := models.AssignKeys(records)
		for i, r := range records {
			b.byKey[keys[i]] = r
		}
	}
	b.mu.Unlock()
	b.signal()

	if err != nil {
		b.logger.Error("Failed to load referrals", "error", err)
		return fmt.Errorf("load referrals: %w", err)
	}
	return nil
}

// Select changes the category filter. An empty category selects all.
func (b *Board) Select(category string) {
	if category == "" {
		category = AllCategories
	}
	b.mu.Lock()
	b.selected = category
	b.mu.Unlock()
	b.signal()
}

func (b *Board) Snapshot() View {
	b.mu.Lock()
	defer b.mu.Unlock()

	v := View{
		State:      b.state,
		Err:        b.err,
		Categories: Categories(b.records),
		Selected:   b.selected,
		Entries:    VisibleOrder(b.records, b.selected),
	}
	if b.active != nil {
		v.Interaction = Interaction{Key: b.active.key, Remaining: b.active.remaining}
		for i := range v.Entries {
			if v.Entries[i].Key == b.active.key {
				v.Entries[i].Remaining = b.active.remaining
			}
		}
	}
	return v
}

// Updates signals after every state change. Signals coalesce; read
// Snapshot after each one.
func (b *Board) Updates() <-chan struct{} {
	return b.updates
}

func (b *Board) signal() {
	select {
	case b.updates <- struct{}{}:
	default:
	}
}

// Close cancels a running countdown without opening its URL.
func (b *Board) Close() {
	b.mu.Lock()
	b.stopLocked()
	b.mu.Unlock()
}

// Activate handles a click on a card. It never opens the URL directly:
// the code is copied, then the URL opens when the countdown finishes.
// A countdown already running for any card is cancelled first.
func (b *Board) Activate(key models.Key) error {
	b.mu.Lock()
	record, ok := b.byKey[key]
	if !ok {
		b.mu.Unlock()
		return ErrUnknownRecord
	}
	if b.selected != AllCategories && record.Type != b.selected {
		b.mu.Unlock()
		return ErrInactive
	}
	// The clipboard may be slow; the previous countdown must not fire
	// while it runs.
	b.stopLocked()
	b.mu.Unlock()

	if record.Code != "" {
		b.copyCode(record)
	}

	b.mu.Lock()
	b.stopLocked()
	cd := &countdown{key: key, record: record, remaining: b.countdown}
	b.active = cd
	cd.timer = b.clock.AfterFunc(time.Second, func() { b.tick(cd) })
	b.mu.Unlock()
	b.signal()
	return nil
}

func (b *Board) copyCode(record models.Record) {
	if err := b.clipboard.WriteAll(record.Code); err != nil {
		err = fmt.Errorf("copy code for %q: %w", record.Name, err)
		b.logger.Warn("Failed to copy code", "name", record.Name, "error", err)
		b.notifier.Notify(Notice{Level: NoticeError, Message: fmt.Sprintf("Could not copy the code for %s", record.Name)})
		return
	}
	b.notifier.Notify(Notice{Level: NoticeSuccess, Message: fmt.Sprintf("Code for %s copied to clipboard! 🎉", record.Name)})
}

func (b *Board) stopLocked() {
	if b.active == nil {
		return
	}
	if b.active.timer != nil {
		b.active.timer.Stop()
	}
	b.active = nil
}

func (b *Board) tick(cd *countdown) {
	b.mu.Lock()
	if b.active != cd {
		b.mu.Unlock()
		return
	}
	cd.remaining--
	if cd.remaining > 0 {
		cd.timer = b.clock.AfterFunc(time.Second, func() { b.tick(cd) })
		b.mu.Unlock()
		b.signal()
		return
	}
	b.active = nil
	b.mu.Unlock()
	defer b.signal()

	if cd.record.URL == "" {
		return
	}
	if err := b.opener.Open(cd.record.URL); err != nil {
		b.logger.Warn("Failed to open referral", "url", cd.record.URL, "error", err)
		b.notifier.Notify(Notice{Level: NoticeError, Message: fmt.Sprintf("Could not open %s", cd.record.URL)})
	}
}
