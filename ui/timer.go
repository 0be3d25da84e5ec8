package ui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

// timer renders elapsed time since a settable start point. Until Set is
// called it shows a placeholder.
type timer struct {
	startTime time.Time
	mtx       *sync.Mutex
	text      *canvas.Text
}

func newTimer() *timer {
	return &timer{
		mtx:  &sync.Mutex{},
		text: canvas.NewText("--:--", nil),
	}
}

func (t *timer) Set(start time.Time) {
	t.mtx.Lock()
	t.startTime = start
	t.mtx.Unlock()
}

func (t *timer) Go(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			fyne.Do(func() {
				t.mtx.Lock()
				if !t.startTime.IsZero() {
					elapsed := time.Since(t.startTime)
					minutes := int(elapsed.Minutes())
					seconds := int(elapsed.Seconds()) % 60
					t.text.Text = fmt.Sprintf("%02d:%02d", minutes, seconds)
					t.text.Refresh()
				}
				t.mtx.Unlock()
			})
		}
	}()
}
