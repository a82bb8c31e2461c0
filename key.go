package xtended

// Key is an arbitrary string usable wherever a keyed container needs a key
// that is not known at compile time. It has no integer form: keyed access only.
type Key string

// NewKey wraps s as a Key.
func NewKey(s string) Key { return Key(s) }

// KeyFromString converts a raw string into a Key. Every string is a valid key,
// so ok is always true; the signature matches KeyFromInt for symmetric use.
func KeyFromString(s string) (Key, bool) { return Key(s), true }

// KeyFromInt always fails: Key does not address array positions.
func KeyFromInt(int) (Key, bool) { return "", false }

// String returns the raw key.
func (k Key) String() string { return string(k) }

// IntValue always reports false.
func (k Key) IntValue() (int, bool) { return 0, false }

// keyStrings converts keys to their raw form.
func keyStrings(keys []Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}
