package world

import "fmt"

// Lock is one lock on a barrier. A barrier with several engaged locks needs
// every one of them released before it can be opened.
type Lock struct {
	ID      string `json:"id"`
	KeyID   string `json:"key,omitempty"` // item id that releases this lock
	Engaged bool   `json:"engaged"`
}

// Barrier is a door-like object attached to one or more edges. A door
// between two rooms is a single Barrier shared by both directed edges, so
// opening it from one side opens it from the other.
type Barrier struct {
	ID         string  `json:"id"`
	Name       string  `json:"name,omitempty"`
	Open       bool    `json:"open"`
	Locks      []*Lock `json:"locks,omitempty"`
	SeeThrough bool    `json:"see_through,omitempty"` // sight and missiles pass while closed (bars, grates, windows)
	Forceable  bool    `json:"forceable,omitempty"`   // can be forced open by a strong enough actor
	ForceDC    int     `json:"force_dc,omitempty"`
}

// IsOpen reports whether the barrier is currently open. A nil barrier is
// treated as an open doorway.
func (b *Barrier) IsOpen() bool {
	return b == nil || b.Open
}

// ActiveLocks counts engaged locks.
func (b *Barrier) ActiveLocks() int {
	if b == nil {
		return 0
	}
	n := 0
	for _, l := range b.Locks {
		if l != nil && l.Engaged {
			n++
		}
	}
	return n
}

func (b *Barrier) IsLocked() bool {
	return b.ActiveLocks() > 0
}

// EngagedLocks returns the locks that currently hold the barrier shut.
func (b *Barrier) EngagedLocks() []*Lock {
	if b == nil {
		return nil
	}
	var out []*Lock
	for _, l := range b.Locks {
		if l != nil && l.Engaged {
			out = append(out, l)
		}
	}
	return out
}

// SetOpen opens or closes the barrier. Opening fails while any lock is engaged.
func (b *Barrier) SetOpen(open bool) error {
	if open && b.IsLocked() {
		return fmt.Errorf("barrier %s is locked", b.ID)
	}
	b.Open = open
	return nil
}

// Engage locks the named lock.
func (b *Barrier) Engage(lockID string) error {
	return b.setLock(lockID, true)
}

// Release unlocks the named lock.
func (b *Barrier) Release(lockID string) error {
	return b.setLock(lockID, false)
}

func (b *Barrier) setLock(lockID string, engaged bool) error {
	for _, l := range b.Locks {
		if l != nil && l.ID == lockID {
			l.Engaged = engaged
			return nil
		}
	}
	return fmt.Errorf("barrier %s has no lock %q", b.ID, lockID)
}
