package services

import "sync"

// TargetLocks is an arena of advisory mutexes keyed by leasable-target
// id ("unitID" or "unitID/bedroomID"). Lease creation holds exactly its
// target's lock for the read-validate-write sequence; a mode switch
// holds the unit key plus every bedroom key of that unit. Multi-lock
// acquisitions always take the unit key first and bedroom keys in
// sorted order, so there is no deadlock ordering to reason about.
//
// Locks are never removed; the arena grows with the set of targets ever
// touched, which is bounded by inventory size.
type TargetLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewTargetLocks() *TargetLocks {
	return &TargetLocks{locks: map[string]*sync.Mutex{}}
}

func (t *TargetLocks) get(key string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.locks[key]
	if !ok {
		m = &sync.Mutex{}
		t.locks[key] = m
	}
	return m
}

// Lock acquires the mutex for one target key and returns its unlock.
func (t *TargetLocks) Lock(key string) func() {
	m := t.get(key)
	m.Lock()
	return m.Unlock
}

// LockAll acquires several target keys in the given order and returns a
// single unlock releasing them in reverse. Callers must pass keys in
// the canonical order (unit first, bedrooms sorted).
func (t *TargetLocks) LockAll(keys []string) func() {
	ms := make([]*sync.Mutex, 0, len(keys))
	for _, k := range keys {
		m := t.get(k)
		m.Lock()
		ms = append(ms, m)
	}
	return func() {
		for i := len(ms) - 1; i >= 0; i-- {
			ms[i].Unlock()
		}
	}
}
