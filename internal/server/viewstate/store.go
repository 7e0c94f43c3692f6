// Package viewstate holds the per-session view state shared between the
// item form and whatever renders the catalog: the signed-in user and the
// cached catalog items. State only changes through dispatched actions.
package viewstate

import (
	"sync"

	"github.com/dmitrijs2005/framekeeper/internal/server/models"
)

// User is the presence flag. A nil *User in State means nobody is signed in.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// State is an immutable snapshot. Items is nil until the catalog has been
// fetched at least once.
type State struct {
	User  *User          `json:"user"`
	Items []*models.Item `json:"items"`
}

// Action is a state transition request.
type Action interface {
	isAction()
}

// SetUser records the signed-in user.
type SetUser struct{ User User }

// SetCatalog replaces the cached catalog collection.
type SetCatalog struct{ Items []*models.Item }

// ClearUser drops the signed-in user.
type ClearUser struct{}

func (SetUser) isAction()    {}
func (SetCatalog) isAction() {}
func (ClearUser) isAction()  {}

// Reduce applies a to s and returns the new state. Unknown actions leave the
// state unchanged.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case SetUser:
		u := act.User
		s.User = &u
	case SetCatalog:
		items := make([]*models.Item, len(act.Items))
		copy(items, act.Items)
		s.Items = items
	case ClearUser:
		s.User = nil
	}
	return s
}

// Store serializes dispatches and fans the resulting state out to
// subscribers.
type Store struct {
	mu    sync.Mutex
	state State
	subs  map[int]func(State)
	next  int
}

func NewStore(initial State) *Store {
	return &Store{state: initial, subs: map[int]func(State){}}
}

// Dispatch applies the action and notifies subscribers with the new state.
// Subscribers run on the dispatching goroutine, after the lock is released.
// A subscriber may dispatch, but its condition must stop holding once its own
// action is applied; otherwise dispatches recurse without end.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	st := s.state
	subs := make([]func(State), 0, len(s.subs))
	for i := 0; i < s.next; i++ {
		if fn, ok := s.subs[i]; ok {
			subs = append(subs, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// HasUser reports whether the presence flag is set.
func (s *Store) HasUser() bool {
	return s.State().User != nil
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}
