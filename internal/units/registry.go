package units

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Entry maps a unit name to its scale in canonical base units and its
// integer dimension exponents (length, time, mass, current, temperature,
// currency).
type Entry struct {
	Name   string
	Scale  float64
	Dims   [NumDims]int
	Prefix string // SI prefix applied during expansion, empty for table entries
}

// DimsVector returns the entry's exponents as a Dims.
func (e Entry) DimsVector() Dims {
	return fromInts(e.Dims)
}

type Prefix struct {
	Name   string
	Factor float64
}

// Prefixes in ascending order of magnitude.
var Prefixes = []Prefix{
	{"yocto", 1e-24},
	{"zepto", 1e-21},
	{"atto", 1e-18},
	{"femto", 1e-15},
	{"pico", 1e-12},
	{"nano", 1e-9},
	{"micro", 1e-6},
	{"milli", 1e-3},
	{"centi", 1e-2},
	{"deci", 1e-1},
	{"deka", 1e1},
	{"hecto", 1e2},
	{"kilo", 1e3},
	{"mega", 1e6},
	{"giga", 1e9},
	{"tera", 1e12},
	{"peta", 1e15},
	{"exa", 1e18},
	{"zetta", 1e21},
	{"yotta", 1e24},
}

// unprefixed names are never expanded, so "kilometer" exists but "kiloN"
// does not.
var unprefixed = map[string]bool{
	"N": true, "L": true, "T": true, "M": true, "A": true, "K": true, "D": true,
	"none": true, "pure": true,
}

func e(name string, scale float64, l, t, m, a, k, d int) Entry {
	return Entry{Name: name, Scale: scale, Dims: [NumDims]int{l, t, m, a, k, d}}
}

// baseTable holds the base symbols, their aliases and the named units.
// Mass is measured in grams, so every SI derived unit carries a factor 1000.
var baseTable = []Entry{
	e("N", 1, 0, 0, 0, 0, 0, 0),
	e("L", 1, 1, 0, 0, 0, 0, 0),
	e("T", 1, 0, 1, 0, 0, 0, 0),
	e("M", 1, 0, 0, 1, 0, 0, 0),
	e("A", 1, 0, 0, 0, 1, 0, 0),
	e("K", 1, 0, 0, 0, 0, 1, 0),
	e("D", 1, 0, 0, 0, 0, 0, 1),
	e("none", 1, 0, 0, 0, 0, 0, 0),
	e("pure", 1, 0, 0, 0, 0, 0, 0),
	e("meter", 1, 1, 0, 0, 0, 0, 0),
	e("second", 1, 0, 1, 0, 0, 0, 0),
	e("gram", 1, 0, 0, 1, 0, 0, 0),
	e("ampere", 1, 0, 0, 0, 1, 0, 0),
	e("kelvin", 1, 0, 0, 0, 0, 1, 0),
	e("dollar", 1, 0, 0, 0, 0, 0, 1),
	e("currency", 1, 0, 0, 0, 0, 0, 1),
	e("coulomb", 1, 0, 1, 0, 1, 0, 0),
	e("angstrom", 1e-10, 1, 0, 0, 0, 0, 0),
	e("atm", 101325000.0, -1, -2, 1, 0, 0, 0),
	e("au", 149597870691.0, 1, 0, 0, 0, 0, 0),
	e("bar", 100000000.0, -1, -2, 1, 0, 0, 0),
	e("day", 86400.0, 0, 1, 0, 0, 0, 0),
	e("ev", 1.602176487e-16, 2, -2, 1, 0, 0, 0),
	e("eV", 1.602176487e-16, 2, -2, 1, 0, 0, 0),
	e("farad", 1000.0, -2, 4, -1, 2, 0, 0),
	e("faraday", 9.64853399e4, 0, 1, 0, 1, 0, 0),
	e("foot", 381.0/1250, 1, 0, 0, 0, 0, 0),
	e("hour", 3600.0, 0, 1, 0, 0, 0, 0),
	e("henry", 1000.0, 2, -2, 1, -2, 0, 0),
	e("hz", 1.0, 0, -1, 0, 0, 0, 0),
	e("inch", 127.0/5000, 1, 0, 0, 0, 0, 0),
	e("point", 127.0/360000, 1, 0, 0, 0, 0, 0),
	e("joule", 1000.0, 2, -2, 1, 0, 0, 0),
	e("calorie", 4186.8, 2, -2, 1, 0, 0, 0),
	e("lightyear", 9460730472580800.0, 1, 0, 0, 0, 0, 0),
	e("liter", 0.001, 3, 0, 0, 0, 0, 0),
	e("mho", 0.001, -2, 3, -1, 2, 0, 0),
	e("mile", 201168.0/125, 1, 0, 0, 0, 0, 0),
	e("minute", 60.0, 0, 1, 0, 0, 0, 0),
	e("mmhg", 133322.387415, -1, -2, 1, 0, 0, 0),
	e("newton", 1000.0, 1, -2, 1, 0, 0, 0),
	e("ohm", 1000.0, 2, -3, 1, -2, 0, 0),
	e("pascal", 1000.0, -1, -2, 1, 0, 0, 0),
	e("pound", 4448.2216152605, 1, -2, 1, 0, 0, 0),
	e("psi", 6894757.29316836, -1, -2, 1, 0, 0, 0),
	e("quart", 473176473.0/125000000000, 3, 0, 0, 0, 0, 0),
	e("siemens", 0.001, -2, 3, -1, 2, 0, 0),
	e("volt", 1000.0, 2, -3, 1, -1, 0, 0),
	e("watt", 1000.0, 2, -3, 1, 0, 0, 0),
	e("weber", 1000.0, 2, -2, 1, -2, 0, 0),
	e("yard", 1143.0/1250, 1, 0, 0, 0, 0, 0),
	e("year", 3944615652.0/125, 0, 1, 0, 0, 0, 0),
	e("fermi", 1e-15, 1, 0, 0, 0, 0, 0),
}

var nameRe = regexp.MustCompile(`^[a-zA-Z]+$`)

// Registry is an immutable table of unit entries.
type Registry struct {
	entries map[string]Entry
	names   []string
}

// NewRegistry builds a registry from the base table plus extra entries and
// expands every non-base name with the SI prefixes. The result is never
// modified afterwards and is safe for concurrent readers.
func NewRegistry(extra ...Entry) (*Registry, error) {
	r := &Registry{entries: make(map[string]Entry, (len(baseTable)+len(extra))*(len(Prefixes)+1))}

	order := make([]string, 0, len(baseTable)+len(extra))
	for _, ent := range baseTable {
		if _, ok := r.entries[ent.Name]; !ok {
			order = append(order, ent.Name)
		}
		r.entries[ent.Name] = ent
	}

	for _, ent := range extra {
		if !nameRe.MatchString(ent.Name) {
			return nil, fmt.Errorf("%w: name %q", ErrInvalidEntry, ent.Name)
		}
		if ent.Scale == 0 {
			return nil, fmt.Errorf("%w: %q has zero scale", ErrInvalidEntry, ent.Name)
		}
		if _, ok := r.entries[ent.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateUnit, ent.Name)
		}
		ent.Prefix = ""
		r.entries[ent.Name] = ent
		order = append(order, ent.Name)
	}

	for _, p := range Prefixes {
		for _, name := range order {
			if unprefixed[name] {
				continue
			}
			full := p.Name + name
			if _, ok := r.entries[full]; ok {
				continue
			}
			ent := r.entries[name]
			r.entries[full] = Entry{Name: full, Scale: ent.Scale * p.Factor, Dims: ent.Dims, Prefix: p.Name}
		}
	}

	r.names = make([]string, 0, len(r.entries))
	for name := range r.entries {
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)

	return r, nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry built from the base table alone. It is built
// on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := NewRegistry()
		if err != nil {
			panic(err)
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// Lookup finds a unit by exact, case-sensitive name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	ent, ok := r.entries[name]
	return ent, ok
}

func (r *Registry) Len() int {
	return len(r.entries)
}

// Names returns every registered name in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Entries returns the entries whose name contains substr, sorted by name.
// Prefixed expansions are skipped unless withPrefixed is set.
func (r *Registry) Entries(substr string, withPrefixed bool) []Entry {
	out := make([]Entry, 0)
	for _, name := range r.names {
		ent := r.entries[name]
		if ent.Prefix != "" && !withPrefixed {
			continue
		}
		if substr != "" && !strings.Contains(name, substr) {
			continue
		}
		out = append(out, ent)
	}
	return out
}
