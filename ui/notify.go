package ui

import (
	"sync"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	notificationTTL = 4 * time.Second
	maxToasts       = 5
)

// NotificationLevel selects the toast color.
type NotificationLevel int

const (
	NotifyInfo NotificationLevel = iota
	NotifySuccess
	NotifyError
)

type toast struct {
	text    string
	level   NotificationLevel
	expires time.Time
}

// Notifications holds transient toast messages. Push is safe to call from
// any goroutine; Draw runs on the render thread.
type Notifications struct {
	mu       sync.Mutex
	renderer *Renderer
	toasts   []toast
}

// NewNotifications creates an empty notification area.
func NewNotifications() *Notifications {
	return &Notifications{renderer: NewRenderer()}
}

// Push adds a toast that expires after a few seconds. The oldest toast is
// dropped once the stack is full.
func (n *Notifications) Push(text string, level NotificationLevel) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.toasts = append(n.toasts, toast{
		text:    text,
		level:   level,
		expires: time.Now().Add(notificationTTL),
	})
	if len(n.toasts) > maxToasts {
		n.toasts = n.toasts[len(n.toasts)-maxToasts:]
	}
}

// Draw renders live toasts stacked above the bottom-right corner and drops
// expired ones.
func (n *Notifications) Draw(screenWidth, screenHeight int32) {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := time.Now()
	live := n.toasts[:0]
	for _, t := range n.toasts {
		if now.Before(t.expires) {
			live = append(live, t)
		}
	}
	n.toasts = live

	r := n.renderer
	const toastH = 28
	y := screenHeight - 40 - int32(len(n.toasts))*(toastH+6)

	for _, t := range n.toasts {
		w := rl.MeasureText(t.text, r.Theme.FontSize) + r.Theme.Padding*2
		x := screenWidth - w - 14

		r.DrawPanel(x, y, w, toastH)
		rl.DrawText(t.text, x+r.Theme.Padding, y+(toastH-r.Theme.FontSize)/2, r.Theme.FontSize, levelColor(t.level))
		y += toastH + 6
	}
}

func levelColor(level NotificationLevel) rl.Color {
	switch level {
	case NotifySuccess:
		return rl.Green
	case NotifyError:
		return rl.Color{R: 240, G: 100, B: 100, A: 255}
	default:
		return rl.White
	}
}
