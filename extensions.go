package xtended

import (
	"sort"
	"strings"
)

// DefaultPrefix is the reserved prefix of extension keys.
const DefaultPrefix = "x-"

// KeyFilter selects extension keys from a list of raw document keys. It must
// be pure: it is applied to every key of a decoded object, and again to the
// keys already held in an Extensions map.
type KeyFilter func(keys []string) []string

// PrefixFilter keeps the keys starting with prefix.
func PrefixFilter(prefix string) KeyFilter {
	return func(keys []string) []string {
		var out []string
		for _, k := range keys {
			if strings.HasPrefix(k, prefix) {
				out = append(out, k)
			}
		}
		return out
	}
}

// DefaultFilter keeps the keys starting with DefaultPrefix.
var DefaultFilter = PrefixFilter(DefaultPrefix)

// Extensions holds the extension fields of one record, by key.
type Extensions map[string]Value

// NewExtensions wraps every member of m with From.
func NewExtensions(m map[string]any) Extensions {
	if m == nil {
		return nil
	}
	out := make(Extensions, len(m))
	for k, v := range m {
		out[k] = From(v)
	}
	return out
}

// Get returns the value stored under key.
func (e Extensions) Get(key string) (Value, bool) {
	v, ok := e[key]
	return v, ok
}

// Set stores v under key, allocating the map when needed.
func (e *Extensions) Set(key string, v Value) {
	if *e == nil {
		*e = Extensions{}
	}
	(*e)[key] = v
}

// SetAny stores From(x) under key.
func (e *Extensions) SetAny(key string, x any) { e.Set(key, From(x)) }

// Delete removes key.
func (e Extensions) Delete(key string) { delete(e, key) }

// Len returns the number of entries.
func (e Extensions) Len() int { return len(e) }

// Keys returns the keys in sorted order.
func (e Extensions) Keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy. Values are immutable, so this is a full copy
// in practice.
func (e Extensions) Clone() Extensions {
	if e == nil {
		return nil
	}
	out := make(Extensions, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Filter returns the entries whose keys f selects. It returns nil when nothing
// is selected, so an unset slot stays unset.
func (e Extensions) Filter(f KeyFilter) Extensions {
	if len(e) == 0 {
		return nil
	}
	if f == nil {
		f = DefaultFilter
	}
	var out Extensions
	for _, k := range f(e.Keys()) {
		if v, ok := e[k]; ok {
			out.Set(k, v)
		}
	}
	return out
}

// Equal reports whether both maps hold equal values under the same keys. A
// nil map equals an empty one.
func (e Extensions) Equal(o Extensions) bool {
	if len(e) != len(o) {
		return false
	}
	for k, v := range e {
		ov, ok := o[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Extendable is implemented by records that carry extension fields.
// Extensions returns nil until a decode or the caller populates the slot.
type Extendable interface {
	Extensions() Extensions
	SetExtensions(Extensions)
}

// KeyFilterer lets a record type replace DefaultFilter.
type KeyFilterer interface {
	FilterExtensionKeys(keys []string) []string
}

// Declarer is implemented by records whose own JSON methods call Inject and
// Extract. Declared returns a view of the same record that has no JSON
// methods (typically a pointer to a locally defined alias type), used to
// decode and encode the declared fields without recursing.
type Declarer interface {
	Declared() any
}

// Extension is embedded in a record struct to provide the Extendable slot.
// Its field is excluded from the declared JSON encoding.
type Extension struct {
	X Extensions `json:"-"`
}

// Extensions returns the stored extensions.
func (e Extension) Extensions() Extensions { return e.X }

// SetExtensions replaces the stored extensions.
func (e *Extension) SetExtensions(x Extensions) { e.X = x }

// Ext returns the extension stored under key.
func (e Extension) Ext(key string) (Value, bool) { return e.X.Get(key) }

// SetExt stores From(x) under key.
func (e *Extension) SetExt(key string, x any) { e.X.SetAny(key, x) }
