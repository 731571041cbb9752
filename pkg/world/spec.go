package world

import (
	"errors"
	"fmt"
)

// Spec is the serialisable description of a world.
type Spec struct {
	Name      string         `json:"name"`
	Locations []LocationSpec `json:"locations"`
	Barriers  []*Barrier     `json:"barriers,omitempty"`
	Items     []ItemSpec     `json:"items,omitempty"`
}

// LocationSpec describes one location and its outbound exits.
type LocationSpec struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Coord       Coord      `json:"coord"`
	Exits       []ExitSpec `json:"exits,omitempty"`
}

// ExitSpec describes one directed exit. Two-way passages are written as an
// exit on each side; give both the same barrier id to share the door.
type ExitSpec struct {
	Direction Direction `json:"direction"`
	To        string    `json:"to"`
	Barrier   string    `json:"barrier,omitempty"`
	MaxSize   Size      `json:"max_size,omitempty"`
	Hidden    bool      `json:"hidden,omitempty"`
	NoticeDC  int       `json:"notice_dc,omitempty"`
}

// ItemSpec places an item in a location.
type ItemSpec struct {
	Item
	Location string `json:"location"`
}

// Validate reports every structural problem in the description at once.
func (s *Spec) Validate() error {
	var errs []error

	locs := make(map[string]bool, len(s.Locations))
	for i, l := range s.Locations {
		if l.ID == "" {
			errs = append(errs, fmt.Errorf("locations[%d]: id is required", i))
			continue
		}
		if locs[l.ID] {
			errs = append(errs, fmt.Errorf("locations[%d]: %w: %s", i, ErrDuplicateLocation, l.ID))
		}
		locs[l.ID] = true
	}

	barriers := make(map[string]bool, len(s.Barriers))
	for i, b := range s.Barriers {
		if b == nil || b.ID == "" {
			errs = append(errs, fmt.Errorf("barriers[%d]: id is required", i))
			continue
		}
		if barriers[b.ID] {
			errs = append(errs, fmt.Errorf("barriers[%d]: duplicate barrier %s", i, b.ID))
		}
		barriers[b.ID] = true
		complete := true
		for j, l := range b.Locks {
			if l == nil {
				errs = append(errs, fmt.Errorf("barriers[%d].locks[%d]: lock is required", i, j))
				complete = false
			}
		}
		if complete && b.Open && b.IsLocked() {
			errs = append(errs, fmt.Errorf("barrier %s: open while locked", b.ID))
		}
	}

	for _, l := range s.Locations {
		seen := make(map[Direction]bool)
		for j, x := range l.Exits {
			if x.Direction != Unknown {
				if seen[x.Direction] {
					errs = append(errs, fmt.Errorf("location %s exits[%d]: duplicate direction %s", l.ID, j, x.Direction))
				}
				seen[x.Direction] = true
			}
			if !locs[x.To] {
				errs = append(errs, fmt.Errorf("location %s exits[%d]: %w: %q", l.ID, j, ErrUnknownLocation, x.To))
			}
			if x.Barrier != "" && !barriers[x.Barrier] {
				errs = append(errs, fmt.Errorf("location %s exits[%d]: unknown barrier %q", l.ID, j, x.Barrier))
			}
		}
	}

	items := make(map[string]bool, len(s.Items))
	for i, it := range s.Items {
		if it.ID == "" {
			errs = append(errs, fmt.Errorf("items[%d]: id is required", i))
			continue
		}
		if items[it.ID] {
			errs = append(errs, fmt.Errorf("items[%d]: duplicate item %s", i, it.ID))
		}
		items[it.ID] = true
		if !locs[it.Location] {
			errs = append(errs, fmt.Errorf("item %s: %w: %q", it.ID, ErrUnknownLocation, it.Location))
		}
	}

	return errors.Join(errs...)
}

// Build validates s and creates a live world from it. Barriers are
// copied so s can be built again without sharing door state.
func Build(s *Spec) (*World, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	w := New(s.Name)
	for _, b := range s.Barriers {
		cp := *b
		cp.Locks = make([]*Lock, len(b.Locks))
		for i, l := range b.Locks {
			lock := *l
			cp.Locks[i] = &lock
		}
		w.AddBarrier(&cp)
	}
	for _, ls := range s.Locations {
		loc := NewLocation(ls.ID, ls.Name, ls.Coord)
		loc.Description = ls.Description
		if err := w.Add(loc); err != nil {
			return nil, err
		}
	}
	for _, ls := range s.Locations {
		from := w.Location(ls.ID)
		for _, x := range ls.Exits {
			opts := []EdgeOption{WithMaxSize(x.MaxSize)}
			if x.Barrier != "" {
				opts = append(opts, WithBarrier(w.Barrier(x.Barrier)))
			}
			if x.Hidden {
				opts = append(opts, WithHidden(x.NoticeDC))
			}
			if _, err := w.Connect(from, w.Location(x.To), x.Direction, opts...); err != nil {
				return nil, err
			}
		}
	}
	for _, is := range s.Items {
		item := is.Item
		if err := w.Place(&item, w.Location(is.Location)); err != nil {
			return nil, err
		}
	}
	return w, nil
}
