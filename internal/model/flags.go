package model

import (
	"fmt"
	"sort"
	"strings"
)

// FlagDescriptor binds a capability name to a single bit.
type FlagDescriptor struct {
	Name     string
	Bit      uint64
	Display  string
	Produces []string
}

// FlagState is one (name, set) pair yielded by FlagSet.All.
type FlagState struct {
	Name    string
	Display string
	Set     bool
}

// FlagRegistry is the fixed, ordered table of flags for one service set.
// Bit assignments are persisted as raw integers and must never change.
type FlagRegistry struct {
	name   string
	flags  []FlagDescriptor
	byName map[string]int
	byBit  map[uint64]int
}

// NewFlagRegistry builds a registry. It panics on duplicate names or bits, or
// on a bit that is not a single power of two; registries are package-level
// tables built at init.
func NewFlagRegistry(name string, flags []FlagDescriptor) *FlagRegistry {
	r := &FlagRegistry{
		name:   name,
		flags:  flags,
		byName: make(map[string]int, len(flags)),
		byBit:  make(map[uint64]int, len(flags)),
	}
	for i, f := range flags {
		if f.Bit == 0 || f.Bit&(f.Bit-1) != 0 || f.Bit > 1<<62 {
			panic(fmt.Sprintf("flag registry %s: flag %q has invalid bit %#x", name, f.Name, f.Bit))
		}
		if _, dup := r.byName[f.Name]; dup {
			panic(fmt.Sprintf("flag registry %s: duplicate name %q", name, f.Name))
		}
		if _, dup := r.byBit[f.Bit]; dup {
			panic(fmt.Sprintf("flag registry %s: duplicate bit %#x", name, f.Bit))
		}
		r.byName[f.Name] = i
		r.byBit[f.Bit] = i
	}
	return r
}

// Name returns the registry name ("item" or "vehicle").
func (r *FlagRegistry) Name() string { return r.name }

// Flags returns the descriptors in registration order.
func (r *FlagRegistry) Flags() []FlagDescriptor {
	out := make([]FlagDescriptor, len(r.flags))
	copy(out, r.flags)
	return out
}

// Lookup finds a descriptor by name.
func (r *FlagRegistry) Lookup(name string) (FlagDescriptor, bool) {
	i, ok := r.byName[name]
	if !ok {
		return FlagDescriptor{}, false
	}
	return r.flags[i], true
}

// ByBit finds a descriptor by its bit value.
func (r *FlagRegistry) ByBit(bit uint64) (FlagDescriptor, bool) {
	i, ok := r.byBit[bit]
	if !ok {
		return FlagDescriptor{}, false
	}
	return r.flags[i], true
}

// Empty returns a set with no flags.
func (r *FlagRegistry) Empty() FlagSet { return FlagSet{reg: r} }

// FromInt decodes a persisted value. Bits that no flag owns are kept so the
// value round-trips unchanged.
func (r *FlagRegistry) FromInt(v int64) FlagSet {
	return FlagSet{reg: r, value: uint64(v)}
}

// FromNames builds a set with exactly the named flags active.
func (r *FlagRegistry) FromNames(names []string) (FlagSet, error) {
	s := r.Empty()
	for _, n := range names {
		if err := s.Set(n, true); err != nil {
			return r.Empty(), err
		}
	}
	return s, nil
}

// Mask returns the combined bits of the named flags.
func (r *FlagRegistry) Mask(names ...string) (int64, error) {
	s, err := r.FromNames(names)
	if err != nil {
		return 0, err
	}
	return s.Int(), nil
}

// Produces returns the vehicles a flag is registered as producing.
func (r *FlagRegistry) Produces(name string) []string {
	f, ok := r.Lookup(name)
	if !ok {
		return nil
	}
	return f.Produces
}

// Vehicles lists every produced vehicle across the registry, sorted.
func (r *FlagRegistry) Vehicles() []string {
	seen := map[string]bool{}
	var out []string
	for _, f := range r.flags {
		for _, v := range f.Produces {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	sort.Strings(out)
	return out
}

// ProducersOf returns the set of flags that produce the given vehicle.
// Matching is case-insensitive.
func (r *FlagRegistry) ProducersOf(vehicle string) FlagSet {
	s := r.Empty()
	for _, f := range r.flags {
		for _, v := range f.Produces {
			if strings.EqualFold(v, vehicle) {
				s.value |= f.Bit
				break
			}
		}
	}
	return s
}

// FlagSet is a bitmask of flags from one registry. The zero value has no
// registry and reports every name as unknown; obtain sets from a registry.
type FlagSet struct {
	reg   *FlagRegistry
	value uint64
}

func (s FlagSet) lookup(name string) (FlagDescriptor, error) {
	if s.reg == nil {
		return FlagDescriptor{}, &UnknownFlagError{Name: name}
	}
	f, ok := s.reg.Lookup(name)
	if !ok {
		return FlagDescriptor{}, &UnknownFlagError{Set: s.reg.name, Name: name}
	}
	return f, nil
}

// Registry returns the registry the set belongs to.
func (s FlagSet) Registry() *FlagRegistry { return s.reg }

// Has reports whether the named flag is set.
func (s FlagSet) Has(name string) (bool, error) {
	f, err := s.lookup(name)
	if err != nil {
		return false, err
	}
	return s.value&f.Bit != 0, nil
}

// Set toggles the named flag.
func (s *FlagSet) Set(name string, on bool) error {
	f, err := s.lookup(name)
	if err != nil {
		return err
	}
	if on {
		s.value |= f.Bit
	} else {
		s.value &^= f.Bit
	}
	return nil
}

// Int returns the persisted representation.
func (s FlagSet) Int() int64 { return int64(s.value) }

// IsEmpty is true iff no bit is set.
func (s FlagSet) IsEmpty() bool { return s.value == 0 }

// All yields every registered flag with its state, in registration order.
func (s FlagSet) All() []FlagState {
	if s.reg == nil {
		return nil
	}
	out := make([]FlagState, 0, len(s.reg.flags))
	for _, f := range s.reg.flags {
		out = append(out, FlagState{Name: f.Name, Display: f.Display, Set: s.value&f.Bit != 0})
	}
	return out
}

// Names returns the names of the set flags, in registration order.
func (s FlagSet) Names() []string {
	var out []string
	for _, st := range s.All() {
		if st.Set {
			out = append(out, st.Name)
		}
	}
	return out
}

// String renders the display names of the set flags, one per line.
func (s FlagSet) String() string {
	var parts []string
	for _, st := range s.All() {
		if st.Set {
			parts = append(parts, st.Display)
		}
	}
	return strings.Join(parts, "\n")
}
