// Package alert keeps the single alert slot of a form: the last outcome
// message, its severity and whether it is still visible. Every Show re-arms
// one hide timer, so a newer message is never hidden by an older timer.
package alert

import (
	"sync"
	"time"
)

type Severity string

const (
	Success Severity = "success"
	Danger  Severity = "danger"
)

// State is a snapshot of the slot.
type State struct {
	Visible  bool     `json:"visible"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Timer is the handle returned by an AfterFunc.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d.
type AfterFunc func(d time.Duration, f func()) Timer

func stdAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type Option func(*Alert)

// WithAfterFunc replaces the timer source. Tests use it to fire the hide
// timer by hand.
func WithAfterFunc(fn AfterFunc) Option {
	return func(a *Alert) { a.afterFunc = fn }
}

// WithOnChange registers a callback invoked with the new state whenever the
// slot changes. It runs without the alert lock held.
func WithOnChange(fn func(State)) Option {
	return func(a *Alert) { a.onChange = fn }
}

type Alert struct {
	mu        sync.Mutex
	state     State
	delay     time.Duration
	timer     Timer
	gen       uint64
	stopped   bool
	afterFunc AfterFunc
	onChange  func(State)
}

func New(delay time.Duration, opts ...Option) *Alert {
	a := &Alert{delay: delay, afterFunc: stdAfterFunc}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Show replaces the message, makes it visible and restarts the hide timer.
func (a *Alert) Show(severity Severity, message string) {
	a.mu.Lock()
	a.state = State{Visible: true, Message: message, Severity: severity}
	a.gen++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	if !a.stopped && a.delay > 0 {
		gen := a.gen
		a.timer = a.afterFunc(a.delay, func() { a.expire(gen) })
	}
	st := a.state
	a.mu.Unlock()

	a.notify(st)
}

// expire hides the slot unless a newer Show happened after the timer for gen
// was armed.
func (a *Alert) expire(gen uint64) {
	a.mu.Lock()
	if gen != a.gen || !a.state.Visible {
		a.mu.Unlock()
		return
	}
	a.state.Visible = false
	a.timer = nil
	st := a.state
	a.mu.Unlock()

	a.notify(st)
}

// Hide makes the slot invisible immediately.
func (a *Alert) Hide() {
	a.mu.Lock()
	a.gen++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	changed := a.state.Visible
	a.state.Visible = false
	st := a.state
	a.mu.Unlock()

	if changed {
		a.notify(st)
	}
}

func (a *Alert) Snapshot() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Stop cancels the pending timer. Later Show calls still update the slot but
// never arm a timer again.
func (a *Alert) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopped = true
	a.gen++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *Alert) notify(st State) {
	if a.onChange != nil {
		a.onChange(st)
	}
}
