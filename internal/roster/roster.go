// Package roster holds the fixed set of tracked players and their Steam
// account identifiers, with lookup in both directions.
package roster

import (
	"fmt"
	"sort"
)

// Roster maps display names to Steam account ids and back. Both sides are
// validated as unique when the roster is built, so reverse lookup is safe.
type Roster struct {
	idByName map[string]int64
	nameByID map[int64]string
	names    []string
}

// New builds a Roster from a name → account id map. It returns an error
// for an empty roster or a duplicate account id.
func New(players map[string]int64) (*Roster, error) {
	if len(players) == 0 {
		return nil, fmt.Errorf("roster is empty")
	}

	r := &Roster{
		idByName: make(map[string]int64, len(players)),
		nameByID: make(map[int64]string, len(players)),
		names:    make([]string, 0, len(players)),
	}
	for name, id := range players {
		if name == "" {
			return nil, fmt.Errorf("roster contains an empty player name")
		}
		if other, dup := r.nameByID[id]; dup {
			return nil, fmt.Errorf("account id %d is shared by %q and %q", id, other, name)
		}
		r.idByName[name] = id
		r.nameByID[id] = name
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	return r, nil
}

// Names returns all display names in alphabetical order. The returned
// slice is a copy.
func (r *Roster) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// ID returns the account id for a display name.
func (r *Roster) ID(name string) (int64, bool) {
	id, ok := r.idByName[name]
	return id, ok
}

// Name returns the display name for an account id.
func (r *Roster) Name(id int64) (string, bool) {
	name, ok := r.nameByID[id]
	return name, ok
}

// Contains reports whether the account id belongs to a roster member.
func (r *Roster) Contains(id int64) bool {
	_, ok := r.nameByID[id]
	return ok
}

// Len returns the number of roster members.
func (r *Roster) Len() int {
	return len(r.names)
}

// Select validates a subset of display names against the roster and
// returns them in the given order. With no names it returns the full
// roster in alphabetical order.
func (r *Roster) Select(names []string) ([]string, error) {
	if len(names) == 0 {
		return r.Names(), nil
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := r.idByName[name]; !ok {
			return nil, fmt.Errorf("unknown player %q", name)
		}
		out = append(out, name)
	}
	return out, nil
}
