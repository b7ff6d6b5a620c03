package store

import (
	"sort"

	"github.com/aretw0/flowcraft/pkg/domain"
)

// Subscribe registers an observer for change events and returns a function that removes it.
// Observers are called synchronously, in registration order, after the change is complete
// and with no store lock held.
func (s *Store) Subscribe(obs domain.Observer) (unsubscribe func()) {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = obs
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

func (s *Store) notify(ev domain.ChangeEvent) {
	s.obsMu.Lock()
	ids := make([]int, 0, len(s.observers))
	for id := range s.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	list := make([]domain.Observer, 0, len(ids))
	for _, id := range ids {
		list = append(list, s.observers[id])
	}
	s.obsMu.Unlock()

	for _, obs := range list {
		obs(ev)
	}
}
