package xtended

import (
	"sync"

	j "github.com/goccy/go-json"
)

// JSONDriver is the structured-data capability the core is built on: decode a
// Go value from bytes, encode a Go value to bytes, and validate bytes. The
// default implementation is backed by goccy/go-json and may be swapped with
// SetJSONDriver (see driver/sonic).
type JSONDriver interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Valid(data []byte) bool
	Name() string
}

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = defaultJSONDriver{}
)

// SetJSONDriver replaces the global JSON driver; nil values are ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the default go-json-backed driver.
func UseDefaultJSONDriver() {
	jsonDriverMu.Lock()
	currentJSONDriver = defaultJSONDriver{}
	jsonDriverMu.Unlock()
}

// CurrentJSONDriver returns the driver used when Opt.Driver is nil.
func CurrentJSONDriver() JSONDriver { return getJSONDriver() }

func getJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	d := currentJSONDriver
	jsonDriverMu.RUnlock()
	return d
}

// defaultJSONDriver wraps the go-json implementation.
type defaultJSONDriver struct{}

func (defaultJSONDriver) Marshal(v any) ([]byte, error)      { return j.Marshal(v) }
func (defaultJSONDriver) Unmarshal(data []byte, v any) error { return j.Unmarshal(data, v) }
func (defaultJSONDriver) Valid(data []byte) bool             { return j.Valid(data) }
func (defaultJSONDriver) Name() string                       { return "go-json" }
