// Package xtended lets a statically typed record carry extension fields
// (by default, keys prefixed "x-") losslessly through JSON.
//
// - Value: a dynamic JSON value decoded by ordered probing (integers stay integers)
// - Extensions / Extendable: the per-record side map and the contract to opt in
// - Inject / Extract: two-pass decode and flat re-encode of one object
// - Unmarshal / Marshal (and the Slice forms): entry points that apply the split
// - Failable / FailableSlice: decode wrappers that turn failures into absence
// - A stable error model via Issues (JSON Pointer, code, message)
//
// Design policy:
// - Keep only public APIs in the root package; token scanning lives under internal/.
// - The JSON driver is pluggable (go-json by default, driver/sonic as an alternative).
// - Prefer black-box testing against public APIs.
//
// Typical usage with a plain record:
//
//	type Pet struct {
//		xtended.Extension
//		Name string `json:"name"`
//	}
//
//	pet, err := xtended.Unmarshal[Pet](data)
//	v, _ := pet.Ext("x-owner")
//	out, err := xtended.Marshal(pet)
//
// Records that appear nested inside other types (slices, pointers, map values)
// split themselves by implementing the JSON methods through a Declarer view:
//
//	type plainPet Pet
//
//	func (p *Pet) Declared() any                { return (*plainPet)(p) }
//	func (p *Pet) UnmarshalJSON(b []byte) error { return xtended.Inject(b, p.Declared(), p) }
//	func (p Pet) MarshalJSON() ([]byte, error)  { return xtended.Extract(p.Declared(), &p) }
package xtended
