// Package notify holds the severity tagged banners shown above every screen.
package notify

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultTTL = 5 * time.Second

type Severity string

const (
	Info    Severity = "info"
	Success Severity = "success"
	Warning Severity = "warning"
	Error   Severity = "error"
)

type Notification struct {
	ID        string    `json:"id"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (n Notification) Expired(now time.Time) bool {
	return !now.Before(n.ExpiresAt)
}

// Center keeps the notifications of one workspace until they expire or are
// dismissed.
type Center struct {
	mu    sync.Mutex
	items []Notification
	ttl   time.Duration
	now   func() time.Time
}

func NewCenter() *Center {
	return &Center{ttl: DefaultTTL, now: time.Now}
}

func (c *Center) Push(severity Severity, message string) Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	n := Notification{
		ID:        uuid.NewString(),
		Severity:  severity,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}
	c.items = append(c.prune(now), n)
	return n
}

func (c *Center) Info(message string) Notification    { return c.Push(Info, message) }
func (c *Center) Success(message string) Notification { return c.Push(Success, message) }
func (c *Center) Warning(message string) Notification { return c.Push(Warning, message) }
func (c *Center) Error(message string) Notification   { return c.Push(Error, message) }

// Active returns the notifications that have not expired, oldest first.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = c.prune(c.now())
	return slices.Clone(c.items)
}

func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	before := len(c.items)
	c.items = slices.DeleteFunc(c.items, func(n Notification) bool { return n.ID == id })
	return len(c.items) != before
}

func (c *Center) prune(now time.Time) []Notification {
	return slices.DeleteFunc(c.items, func(n Notification) bool { return n.Expired(now) })
}
