package door

import (
	"doorcost/core/engine"
	"doorcost/core/rules"
	doorerrors "doorcost/internal/errors"
)

// List is the ordered set of doors in one quote. It always holds at least
// one door. A List is not safe for concurrent use.
type List struct {
	table *rules.Table
	doors []Door
}

// NewList creates a list holding a single default door
func NewList(table *rules.Table) *List {
	return &List{
		table: table,
		doors: []Door{NewDefault(table)},
	}
}

// FromDoors creates a list from existing doors. Doors without an id get one.
// An empty input yields a single default door.
func FromDoors(table *rules.Table, doors []Door) *List {
	l := &List{table: table}
	for _, d := range doors {
		if d.ID == "" {
			d.ID = NewID()
		}
		d.Config = d.Config.Clone()
		l.doors = append(l.doors, d)
	}
	if len(l.doors) == 0 {
		l.doors = []Door{NewDefault(table)}
	}
	return l
}

// Doors returns a copy of the doors in order
func (l *List) Doors() []Door {
	out := make([]Door, len(l.doors))
	for i, d := range l.doors {
		d.Config = d.Config.Clone()
		out[i] = d
	}
	return out
}

// Len returns the number of doors
func (l *List) Len() int {
	return len(l.doors)
}

// Get returns the door with id
func (l *List) Get(id string) (Door, bool) {
	i := l.index(id)
	if i < 0 {
		return Door{}, false
	}
	d := l.doors[i]
	d.Config = d.Config.Clone()
	return d, true
}

// Add appends a new default door and returns it
func (l *List) Add() Door {
	d := NewDefault(l.table)
	l.doors = append(l.doors, d)
	d.Config = d.Config.Clone()
	return d
}

// Update replaces the configuration of door id
func (l *List) Update(id string, cfg engine.Configuration) error {
	i := l.index(id)
	if i < 0 {
		return doorerrors.NotFound("door", id)
	}
	l.doors[i].Config = cfg.Clone()
	return nil
}

// SetCollapsed records whether door id is shown collapsed
func (l *List) SetCollapsed(id string, collapsed bool) error {
	i := l.index(id)
	if i < 0 {
		return doorerrors.NotFound("door", id)
	}
	l.doors[i].Collapsed = collapsed
	return nil
}

// Duplicate appends a copy of door id under a new id
func (l *List) Duplicate(id string) (Door, error) {
	i := l.index(id)
	if i < 0 {
		return Door{}, doorerrors.NotFound("door", id)
	}
	d := Door{
		ID:        NewID(),
		Config:    l.doors[i].Config.Clone(),
		Collapsed: l.doors[i].Collapsed,
	}
	l.doors = append(l.doors, d)
	d.Config = d.Config.Clone()
	return d, nil
}

// Remove deletes door id. Removing the last door leaves one fresh default door.
func (l *List) Remove(id string) error {
	i := l.index(id)
	if i < 0 {
		return doorerrors.NotFound("door", id)
	}
	l.doors = append(l.doors[:i], l.doors[i+1:]...)
	if len(l.doors) == 0 {
		l.doors = []Door{NewDefault(l.table)}
	}
	return nil
}

// Reset restores door id to the default configuration, keeping its id
func (l *List) Reset(id string) error {
	i := l.index(id)
	if i < 0 {
		return doorerrors.NotFound("door", id)
	}
	l.doors[i].Config = DefaultConfig(l.table)
	return nil
}

// ResetAll replaces every door with a single default door
func (l *List) ResetAll() {
	l.doors = []Door{NewDefault(l.table)}
}

func (l *List) index(id string) int {
	for i, d := range l.doors {
		if d.ID == id {
			return i
		}
	}
	return -1
}
