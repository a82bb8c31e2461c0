package xtended

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
)

// Records nested in another record split themselves from their own JSON
// methods, which the driver calls with bytes only. The options of the
// enclosing call reach them through a per-goroutine stack pushed for the
// duration of each driver call; drivers run JSON methods on the calling
// goroutine.

type scopeFrame struct {
	opt  Opt
	prev *scopeFrame
}

var (
	scopes       sync.Map // goroutine id -> *scopeFrame
	activeScopes atomic.Int64
)

// enterScope makes opt the options of calls made without options on this
// goroutine, until the returned func runs.
func enterScope(opt Opt) func() {
	id := goid()
	frame := &scopeFrame{opt: opt}
	if prev, ok := scopes.Load(id); ok {
		frame.prev = prev.(*scopeFrame)
	}
	scopes.Store(id, frame)
	activeScopes.Add(1)
	return func() {
		if frame.prev == nil {
			scopes.Delete(id)
		} else {
			scopes.Store(id, frame.prev)
		}
		activeScopes.Add(-1)
	}
}

func scopedOpt() (Opt, bool) {
	if activeScopes.Load() == 0 {
		return Opt{}, false
	}
	v, ok := scopes.Load(goid())
	if !ok {
		return Opt{}, false
	}
	return v.(*scopeFrame).opt, true
}

var goroutinePrefix = []byte("goroutine ")

// goid parses the calling goroutine's id from its stack header.
func goid() uint64 {
	var buf [64]byte
	b := bytes.TrimPrefix(buf[:runtime.Stack(buf[:], false)], goroutinePrefix)
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, _ := strconv.ParseUint(string(b), 10, 64)
	return id
}

// within runs fn with o scoped for nested records. Only explicit options are
// pushed; defaults need no scope. When scanned is set the keyed scan of the
// enclosing record already covers the nested bytes, so the duplicate, depth
// and size limits are not applied twice.
func (o Opt) within(scanned bool, fn func() error) error {
	if !o.explicit {
		return fn()
	}
	o.explicit = false
	if scanned {
		o.Strictness = Strictness{}
		o.MaxDepth = 0
		o.MaxBytes = 0
	}
	defer enterScope(o)()
	return fn()
}
