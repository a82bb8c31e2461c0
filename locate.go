package xtended

import (
	"reflect"
	"sort"
	"strings"

	j "github.com/goccy/go-json"

	eng "github.com/reoring/xtended/internal/engine"
)

// locateNested walks schema the way the driver encodes it and returns the
// first extension of a nested self-splitting record that fails to encode,
// reported at its path from the root of schema. It returns nil when every
// nested extension encodes.
func locateNested(schema any, opt Opt) error {
	l := locator{opt: opt, snap: opt.Registry.snapshot(opt.Driver), seen: map[uintptr]bool{}}
	rv := reflect.ValueOf(schema)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	// The root's own extensions are encoded by the caller.
	if rv.Kind() == reflect.Struct {
		return l.fields(rv, "")
	}
	return l.value(rv, "")
}

type locator struct {
	opt  Opt
	snap *snapshot
	seen map[uintptr]bool
}

func (l *locator) value(rv reflect.Value, path string) error {
	if !rv.IsValid() || !rv.CanInterface() {
		return nil
	}
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() || l.seen[rv.Pointer()] {
			return nil
		}
		l.seen[rv.Pointer()] = true
		return l.value(rv.Elem(), path)
	case reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return l.value(rv.Elem(), path)
	case reflect.Struct:
		if err := l.fields(rv, path); err != nil {
			return err
		}
		return l.record(rv, path)
	case reflect.Slice, reflect.Array:
		if isByteSlice(rv) {
			return nil
		}
		for i := 0; i < rv.Len(); i++ {
			if err := l.value(rv.Index(i), eng.IndexPointer(path, i)); err != nil {
				return err
			}
		}
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		for _, k := range keys {
			mv := rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()))
			if err := l.value(mv, eng.JoinPointer(path, k)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *locator) fields(rv reflect.Value, path string) error {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		name, inline, ok := jsonField(t.Field(i))
		if !ok {
			continue
		}
		fv := rv.Field(i)
		if inline {
			if fv = reflect.Indirect(fv); fv.Kind() == reflect.Struct {
				if err := l.fields(fv, path); err != nil {
					return err
				}
			}
			continue
		}
		if err := l.value(fv, eng.JoinPointer(path, name)); err != nil {
			return err
		}
	}
	return nil
}

// record checks the extensions of a nested record that splits itself, skipping
// keys its declared fields shadow.
func (l *locator) record(rv reflect.Value, path string) error {
	ptr := reflect.New(rv.Type())
	ptr.Elem().Set(rv)
	rec, ok := ptr.Interface().(Extendable)
	if !ok {
		return nil
	}
	if _, splits := ptr.Interface().(j.Marshaler); !splits {
		return nil
	}
	ext := rec.Extensions().Filter(l.opt.filterFor(rec))
	if len(ext) == 0 {
		return nil
	}
	declared := map[string]bool{}
	if d, ok := rec.(Declarer); ok {
		if b, err := l.opt.Driver.Marshal(d.Declared()); err == nil {
			keys, _ := NewPosition(b).Keys(Opt{Driver: l.opt.Driver})
			for _, k := range keys {
				declared[string(k)] = true
			}
		}
	}
	for _, k := range ext.Keys() {
		if declared[k] {
			continue
		}
		if _, err := l.snap.encode(ext[k], eng.JoinPointer(path, k)); err != nil {
			return err
		}
	}
	return nil
}

// jsonField reports the encoded name of f, whether its fields are inlined
// into the parent, and whether it is encoded at all.
func jsonField(f reflect.StructField) (name string, inline, ok bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false, false
	}
	name, _, _ = strings.Cut(tag, ",")
	if f.Anonymous && name == "" {
		return "", true, true
	}
	if !f.IsExported() {
		return "", false, false
	}
	if name == "" {
		name = f.Name
	}
	return name, false, true
}
