package gallery

import (
	"context"
	"errors"
	"sync"

	"github.com/LordSri/bragadeesh-portfolio/internal/models"
)

// State is the controller's top-level view state
type State string

const (
	StateLoading  State = "loading"
	StateLoaded   State = "loaded"
	StateSelected State = "selected"
	StateFailed   State = "failed"
)

// Direction is a navigation step through the item list
type Direction int

const (
	DirectionNext Direction = iota
	DirectionPrev
)

var (
	// ErrNoSelection is returned by operations that require an open item.
	ErrNoSelection = errors.New("no item selected")
	// ErrNotEditing is returned by SaveEdit outside of edit mode.
	ErrNotEditing = errors.New("not editing")
	// ErrBusy is returned while a previous mutation is still in flight.
	ErrBusy = errors.New("operation already in progress")
	// ErrNotLoaded is returned when the list is not available yet.
	ErrNotLoaded = errors.New("gallery not loaded")
)

// ModalLock scopes a page-level resource to the lifetime of an open item
// view, such as a scroll lock. Release must be safe to call when not held.
type ModalLock interface {
	Acquire()
	Release()
}

type nopLock struct{}

func (nopLock) Acquire() {}
func (nopLock) Release() {}

// Controller holds the per-session gallery view state: the loaded item list,
// the open selection, and edit mode. All methods are safe for concurrent use.
type Controller struct {
	mu      sync.Mutex
	service *Service
	lock    ModalLock

	state    State
	items    []models.MediaItem
	selected string
	editing  bool
	inFlight bool
}

// NewController creates a controller in the loading state
func NewController(service *Service, lock ModalLock) *Controller {
	if lock == nil {
		lock = nopLock{}
	}
	return &Controller{
		service: service,
		lock:    lock,
		state:   StateLoading,
	}
}

// Load fetches the item list. Any open selection is closed first so the lock
// cannot leak across a reload.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrBusy
	}
	c.inFlight = true
	if c.state == StateSelected {
		c.lock.Release()
	}
	c.state = StateLoading
	c.selected = ""
	c.editing = false
	c.mu.Unlock()

	items, err := c.service.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	if err != nil {
		c.state = StateFailed
		c.items = nil
		return err
	}
	c.items = items
	c.state = StateLoaded
	return nil
}

// State returns the current view state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Items returns a copy of the loaded item list
func (c *Controller) Items() []models.MediaItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.MediaItem, len(c.items))
	copy(out, c.items)
	return out
}

// Selected returns the open item, if any
func (c *Controller) Selected() (*models.MediaItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item := c.find(c.selected)
	if item == nil {
		return nil, false
	}
	out := *item
	return &out, true
}

// Editing reports whether the open item is in edit mode
func (c *Controller) Editing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editing
}

// Select opens the item with the given ID and acquires the modal lock. The
// lock is acquired once per open view, not per selection change.
func (c *Controller) Select(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateLoaded && c.state != StateSelected {
		return ErrNotLoaded
	}
	if c.find(id) == nil {
		return ErrNoSelection
	}
	if c.state != StateSelected {
		c.lock.Acquire()
	}
	c.selected = id
	c.state = StateSelected
	c.editing = false
	return nil
}

// Close dismisses the open item and releases the modal lock
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateSelected {
		return
	}
	c.lock.Release()
	c.selected = ""
	c.editing = false
	c.state = StateLoaded
}

// Navigate moves the selection to the next or previous item, wrapping around
// at both ends. No-op on lists with fewer than two items or when the current
// selection is no longer in the list.
func (c *Controller) Navigate(dir Direction) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateSelected || c.editing || len(c.items) < 2 {
		return
	}
	idx := -1
	for i := range c.items {
		if c.items[i].ID == c.selected {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	if dir == DirectionNext {
		idx = (idx + 1) % len(c.items)
	} else {
		idx = (idx - 1 + len(c.items)) % len(c.items)
	}
	c.selected = c.items[idx].ID
}

// BeginEdit enters edit mode on the open item
func (c *Controller) BeginEdit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateSelected {
		return ErrNoSelection
	}
	c.editing = true
	return nil
}

// CancelEdit leaves edit mode without saving
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = false
}

// SaveEdit persists the edited fields, reloads the list, and re-resolves the
// selection by ID. If the item vanished in between, the view falls back to the
// plain loaded state and the lock is released.
func (c *Controller) SaveEdit(ctx context.Context, params models.UpdateMediaParams) error {
	c.mu.Lock()
	if c.state != StateSelected {
		c.mu.Unlock()
		return ErrNoSelection
	}
	if !c.editing {
		c.mu.Unlock()
		return ErrNotEditing
	}
	if c.inFlight {
		c.mu.Unlock()
		return ErrBusy
	}
	c.inFlight = true
	params.ID = c.selected
	c.mu.Unlock()

	_, err := c.service.Update(ctx, params)
	var items []models.MediaItem
	if err == nil {
		items, err = c.service.List(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	if err != nil {
		return err
	}

	c.items = items
	c.editing = false
	if c.find(c.selected) == nil {
		c.lock.Release()
		c.selected = ""
		c.state = StateLoaded
	}
	return nil
}

// DeleteSelected deletes the open item, closes the view, and reloads the list
func (c *Controller) DeleteSelected(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateSelected {
		c.mu.Unlock()
		return ErrNoSelection
	}
	if c.inFlight {
		c.mu.Unlock()
		return ErrBusy
	}
	c.inFlight = true
	id := c.selected
	c.mu.Unlock()

	err := c.service.Delete(ctx, id)
	var items []models.MediaItem
	if err == nil {
		items, err = c.service.List(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	if err != nil {
		return err
	}

	c.lock.Release()
	c.selected = ""
	c.editing = false
	c.items = items
	c.state = StateLoaded
	return nil
}

// HandleKey maps keyboard input onto the open item view. Keys are inert
// unless an item is open; arrows are inert while editing.
func (c *Controller) HandleKey(key string) {
	c.mu.Lock()
	editing := c.editing
	selected := c.state == StateSelected
	c.mu.Unlock()

	if !selected {
		return
	}

	switch key {
	case "Escape":
		if editing {
			c.CancelEdit()
			return
		}
		c.Close()
	case "ArrowRight":
		c.Navigate(DirectionNext)
	case "ArrowLeft":
		c.Navigate(DirectionPrev)
	}
}

// Shutdown releases the modal lock if an item is still open
func (c *Controller) Shutdown() {
	c.Close()
}

// find returns the loaded item with the given ID. Caller holds the lock.
func (c *Controller) find(id string) *models.MediaItem {
	if id == "" {
		return nil
	}
	for i := range c.items {
		if c.items[i].ID == id {
			return &c.items[i]
		}
	}
	return nil
}
