// Package sonic provides an xtended.JSONDriver backed by bytedance/sonic.
//
//	xtended.SetJSONDriver(sonic.Driver())
package sonic

import (
	"github.com/bytedance/sonic"

	"github.com/reoring/xtended"
)

// Driver returns a JSONDriver using sonic's encoding/json compatible config,
// so Marshaler/Unmarshaler implementations and map key ordering behave as with
// the default driver.
func Driver() xtended.JSONDriver { return driver{api: sonic.ConfigStd} }

type driver struct{ api sonic.API }

func (d driver) Marshal(v any) ([]byte, error)      { return d.api.Marshal(v) }
func (d driver) Unmarshal(data []byte, v any) error { return d.api.Unmarshal(data, v) }
func (d driver) Valid(data []byte) bool             { return d.api.Valid(data) }
func (driver) Name() string                         { return "sonic" }
