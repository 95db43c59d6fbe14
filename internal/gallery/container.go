package gallery

import (
	"context"
	"fmt"
	"sync"
)

// MessageEmpty is shown when the manifest has no groups.
const MessageEmpty = "No demos found."

// GroupView is one rendered category section.
type GroupView struct {
	ID         string
	CategoryID string
	Title      string
	Disclaimer string
	Cards      []*Card
}

// Container is the root of the gallery. It holds either a list of groups or a
// single inline message.
type Container struct {
	mu      sync.Mutex
	groups  []GroupView
	cards   map[string]*Card
	message string
	failed  bool
	pending chan struct{}
}

// NewContainer returns an empty container.
func NewContainer() *Container {
	return &Container{cards: make(map[string]*Card)}
}

// Reset drops all content. Background work from an earlier build keeps
// running but only touches cards that are no longer reachable.
func (c *Container) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.groups = nil
	c.cards = make(map[string]*Card)
	c.message = ""
	c.failed = false
	c.pending = nil
}

// Fail replaces the content with the load failure message.
func (c *Container) Fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.groups = nil
	c.cards = make(map[string]*Card)
	c.message = fmt.Sprintf("Failed to load demos: %v", err)
	c.failed = true
}

// Message returns the inline message, if any.
func (c *Container) Message() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

// Failed reports whether the message is a load failure.
func (c *Container) Failed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failed
}

// Groups returns the rendered groups in manifest order.
func (c *Container) Groups() []GroupView {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]GroupView, len(c.groups))
	for i, g := range c.groups {
		g.Cards = append([]*Card(nil), g.Cards...)
		out[i] = g
	}
	return out
}

// Card looks up a card by ID.
func (c *Container) Card(id string) (*Card, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	card, ok := c.cards[id]
	return card, ok
}

// Wait blocks until the background work of the latest build has settled or
// ctx is done.
func (c *Container) Wait(ctx context.Context) error {
	c.mu.Lock()
	pending := c.pending
	c.mu.Unlock()
	if pending == nil {
		return nil
	}
	select {
	case <-pending:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Container) showMessage(msg string) {
	c.mu.Lock()
	c.message = msg
	c.mu.Unlock()
}

func (c *Container) addGroup(g GroupView) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.groups = append(c.groups, g)
	for _, card := range g.Cards {
		c.cards[card.ID] = card
	}
}

func (c *Container) setPending(done chan struct{}) {
	c.mu.Lock()
	c.pending = done
	c.mu.Unlock()
}
