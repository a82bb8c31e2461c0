package xtended

import (
	"errors"
	"fmt"
	"sync"
)

// errNotAccepted is returned by an encoder whose payload type does not match.
// It never escapes the registry: callers see ErrUnsupportedValue instead.
var errNotAccepted = errors.New("xtended: payload not accepted")

// decodeFunc probes one position. It must not have side effects, because the
// next candidate is tried on the same position when it fails.
type decodeFunc func(s *snapshot, p Position) (Value, error)

// encodeFunc writes one payload, or returns errNotAccepted.
type encodeFunc func(s *snapshot, payload any) ([]byte, error)

type decoderEntry struct {
	tag    Tag
	decode decodeFunc
}

type encoderEntry struct {
	tag    Tag
	encode encodeFunc
}

// Registry holds the ordered decode candidates and the named encoders used by
// Value. The built-in candidates are always tried first; registered types
// follow in registration order.
//
// A Registry is safe for concurrent use. Registration is meant to happen during
// setup: call Freeze once it is complete and any later Register fails with
// ErrRegistryFrozen.
type Registry struct {
	mu       sync.RWMutex
	decoders []decoderEntry
	encoders []encoderEntry
	byTag    map[Tag]int
	frozen   bool
}

// NewRegistry returns a registry holding only the built-in types.
func NewRegistry() *Registry {
	r := &Registry{byTag: map[Tag]int{}}
	r.decoders = builtinDecoders()
	for _, e := range builtinEncoders() {
		r.byTag[e.tag] = len(r.encoders)
		r.encoders = append(r.encoders, e)
	}
	return r
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used when Opt.Registry is nil.
func Default() *Registry { return defaultRegistry }

// Register adds decode and encode support for T under name. The decoder is
// appended after every existing candidate; the encoder accepts payloads of
// type T (or *T) and writes them with the JSON driver.
func Register[T any](r *Registry, name Tag) error {
	return RegisterCodec(r, name, Codec[T]{})
}

// Codec overrides how a registered type is read from and written to JSON.
// A nil function falls back to the JSON driver.
type Codec[T any] struct {
	Decode func(raw []byte) (T, error)
	Encode func(v T) ([]byte, error)
}

// RegisterCodec is like Register with custom conversion functions.
func RegisterCodec[T any](r *Registry, name Tag, c Codec[T]) error {
	if r == nil {
		r = Default()
	}
	dec := decoderEntry{tag: name, decode: func(s *snapshot, p Position) (Value, error) {
		if p.IsNull() || len(p.raw) == 0 {
			return Value{}, errNotAccepted
		}
		var t T
		if c.Decode != nil {
			v, err := c.Decode(p.raw)
			if err != nil {
				return Value{}, err
			}
			t = v
		} else if err := p.Decode(s.drv, &t); err != nil {
			return Value{}, err
		}
		return Value{payload: t, tag: name}, nil
	}}
	write := func(s *snapshot, t T) ([]byte, error) {
		if c.Encode != nil {
			return c.Encode(t)
		}
		return s.drv.Marshal(t)
	}
	enc := encoderEntry{tag: name, encode: func(s *snapshot, payload any) ([]byte, error) {
		switch t := payload.(type) {
		case T:
			return write(s, t)
		case *T:
			if t == nil {
				return []byte("null"), nil
			}
			return write(s, *t)
		}
		return nil, errNotAccepted
	}}
	return r.add(dec, enc)
}

// MustRegister is like Register but panics on error. It suits package-level
// var initialization.
func MustRegister[T any](r *Registry, name Tag) {
	if err := Register[T](r, name); err != nil {
		panic(err)
	}
}

func (r *Registry) add(dec decoderEntry, enc encoderEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return singleIssue("/", CodeRegistryFrozen, fmt.Errorf("register %q", dec.tag))
	}
	if _, dup := r.byTag[enc.tag]; dup || enc.tag == TagAny || enc.tag == TagNull || enc.tag.Optional() {
		return fmt.Errorf("xtended: tag %q already registered or reserved", enc.tag)
	}
	// byTag is replaced rather than mutated: snapshots taken earlier keep
	// reading the old map without holding the lock.
	byTag := make(map[Tag]int, len(r.byTag)+1)
	for k, v := range r.byTag {
		byTag[k] = v
	}
	byTag[enc.tag] = len(r.encoders)
	r.byTag = byTag
	r.decoders = append(r.decoders, dec)
	r.encoders = append(r.encoders, enc)
	return nil
}

// Freeze ends the registration phase.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Tags lists the decode candidates in the order they are tried.
func (r *Registry) Tags() []Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tag, len(r.decoders))
	for i, d := range r.decoders {
		out[i] = d.tag
	}
	return out
}

// snapshot is a lock-free copy of the registry for the duration of one decode
// or encode call, so recursion into nested values never re-enters the lock.
type snapshot struct {
	decoders []decoderEntry
	encoders []encoderEntry
	byTag    map[Tag]int
	drv      JSONDriver
	// path is the JSON Pointer of the value being encoded.
	path string
}

func (r *Registry) snapshot(drv JSONDriver) *snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if drv == nil {
		drv = getJSONDriver()
	}
	return &snapshot{decoders: r.decoders, encoders: r.encoders, byTag: r.byTag, drv: drv}
}
