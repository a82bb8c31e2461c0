package xtended

// IsNull reports whether v holds no payload.
func (v Value) IsNull() bool { return isNilPayload(v.payload) }

// AsString returns the payload as a string.
func (v Value) AsString() (string, bool) { return To[string](v) }

// AsBool returns the payload as a bool.
func (v Value) AsBool() (bool, bool) { return To[bool](v) }

// AsInt returns an integer payload that fits in int.
func (v Value) AsInt() (int, bool) { return To[int](v) }

// AsInt64 returns an integer payload as int64.
func (v Value) AsInt64() (int64, bool) { return To[int64](v) }

// AsDouble returns a floating-point payload. Int values do not convert.
func (v Value) AsDouble() (float64, bool) { return To[float64](v) }

// AsFloat32 returns a floating-point payload that fits in float32.
func (v Value) AsFloat32() (float32, bool) { return To[float32](v) }

// AsArray returns the elements of an array Value.
func (v Value) AsArray() ([]Value, bool) { return v.Elements() }

// AsObject returns the members of an object Value.
func (v Value) AsObject() (map[string]Value, bool) { return v.Fields() }

// AsStrings returns the string elements of an array, dropping the rest.
func (v Value) AsStrings() ([]string, bool) { return ToSlice[string](v) }

// AsInts returns the integer elements of an array, dropping the rest.
func (v Value) AsInts() ([]int, bool) { return ToSlice[int](v) }

// AsBools returns the bool elements of an array, dropping the rest.
func (v Value) AsBools() ([]bool, bool) { return ToSlice[bool](v) }

// AsDoubles returns the double elements of an array, dropping the rest.
func (v Value) AsDoubles() ([]float64, bool) { return ToSlice[float64](v) }
