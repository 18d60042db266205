package session

import "sync"

// Container owns the single Manager instance permitted to touch the
// persisted credential store. Installing a new manager destroys the previous
// one synchronously before ownership changes hands, and bumps a generation
// counter so completions issued by a superseded manager no-op instead of
// mutating its successor's state.
type Container struct {
	lock       sync.Mutex
	current    *Manager
	generation uint64
}

// NewContainer creates an empty container.
func NewContainer() *Container {
	return &Container{}
}

// Install destroys the currently installed manager (if any), takes ownership
// of m, and restores its session from the persisted store.
func (c *Container) Install(m *Manager) *Manager {
	c.lock.Lock()
	if c.current != nil {
		c.current.Destroy()
	}
	c.generation++
	m.bind(c, c.generation)
	c.current = m
	c.lock.Unlock()

	m.Restore()
	return m
}

// Current returns the installed manager, or nil.
func (c *Container) Current() *Manager {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.current
}

func (c *Container) isCurrent(generation uint64) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.current != nil && c.generation == generation
}
