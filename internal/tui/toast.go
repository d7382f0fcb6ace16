package tui

import (
	"sync"
	"time"

	"github.com/kud/referrals/internal/board"
)

const toastTTL = 3 * time.Second

// Toasts keeps the latest board notice for a few seconds. It is the
// board's Notifier in the terminal client.
type Toasts struct {
	mu     sync.Mutex
	notice board.Notice
	shown  time.Time
	now    func() time.Time
}

func NewToasts() *Toasts {
	return &Toasts{now: time.Now}
}

func (t *Toasts) Notify(n board.Notice) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notice = n
	t.shown = t.now()
}

// Current returns the notice still on screen, if any.
func (t *Toasts) Current() (board.Notice, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.shown.IsZero() || t.now().Sub(t.shown) >= toastTTL {
		return board.Notice{}, false
	}
	return t.notice, true
}
