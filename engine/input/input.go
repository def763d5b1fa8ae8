// Package input defines the host events the hero reacts to and a small dispatcher that delivers them.
// Windows publish through a Dispatcher; tests inject the same events synthetically.
package input

import "sync"

// Kind identifies an event type.
type Kind int

const (
	// KindResize carries a new viewport size in CSS pixels.
	KindResize Kind = iota
	// KindScroll carries an absolute scroll offset in CSS pixels.
	KindScroll
	// KindWheel carries a relative wheel delta. Positive scrolls down the page.
	KindWheel
	// KindVisibility reports the page or window becoming visible or hidden.
	KindVisibility
	// KindFocus reports the window gaining or losing focus.
	KindFocus
	// KindPageShow reports the page being restored, e.g. from a back/forward cache.
	KindPageShow
	// KindCursor carries the pointer position in CSS pixels.
	KindCursor
	// KindKey carries a key press.
	KindKey
)

func (k Kind) String() string {
	switch k {
	case KindResize:
		return "resize"
	case KindScroll:
		return "scroll"
	case KindWheel:
		return "wheel"
	case KindVisibility:
		return "visibility"
	case KindFocus:
		return "focus"
	case KindPageShow:
		return "pageshow"
	case KindCursor:
		return "cursor"
	case KindKey:
		return "key"
	default:
		return "unknown"
	}
}

// Key is a navigation key the hero understands.
type Key int

const (
	KeyUnknown Key = iota
	KeyUp
	KeyDown
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyToggleOverlay
)

// Event is a single host event. Only the fields relevant to Kind are set.
type Event struct {
	Kind    Kind
	Width   float64
	Height  float64
	Offset  float64
	DeltaY  float64
	Visible bool
	Focused bool
	X       float64
	Y       float64
	Key     Key
}

// Resize builds a KindResize event.
func Resize(w, h float64) Event { return Event{Kind: KindResize, Width: w, Height: h} }

// Scroll builds a KindScroll event.
func Scroll(offset float64) Event { return Event{Kind: KindScroll, Offset: offset} }

// Wheel builds a KindWheel event.
func Wheel(deltaY float64) Event { return Event{Kind: KindWheel, DeltaY: deltaY} }

// Visibility builds a KindVisibility event.
func Visibility(visible bool) Event { return Event{Kind: KindVisibility, Visible: visible} }

// Focus builds a KindFocus event.
func Focus(focused bool) Event { return Event{Kind: KindFocus, Focused: focused} }

// PageShow builds a KindPageShow event.
func PageShow() Event { return Event{Kind: KindPageShow} }

// Cursor builds a KindCursor event.
func Cursor(x, y float64) Event { return Event{Kind: KindCursor, X: x, Y: y} }

// KeyPress builds a KindKey event.
func KeyPress(k Key) Event { return Event{Kind: KindKey, Key: k} }

// Handler receives events.
type Handler func(Event)

// Port is an event source the hero subscribes to.
type Port interface {
	// Subscribe registers h and returns a function that removes it.
	Subscribe(h Handler) func()
}

// Dispatcher is a Port that fans events out to its subscribers in subscription order.
type Dispatcher struct {
	mu       sync.Mutex
	next     int
	order    []int
	handlers map[int]Handler
}

var _ Port = &Dispatcher{}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[int]Handler)}
}

func (d *Dispatcher) Subscribe(h Handler) func() {
	if h == nil {
		return func() {}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.next
	d.next++
	d.handlers[id] = h
	d.order = append(d.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			delete(d.handlers, id)
			for i, v := range d.order {
				if v == id {
					d.order = append(d.order[:i], d.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Emit delivers e to every subscriber. Handlers run on the caller's goroutine.
func (d *Dispatcher) Emit(e Event) {
	d.mu.Lock()
	hs := make([]Handler, 0, len(d.order))
	for _, id := range d.order {
		hs = append(hs, d.handlers[id])
	}
	d.mu.Unlock()

	for _, h := range hs {
		h(e)
	}
}
