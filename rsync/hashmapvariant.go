package rsync

import "bytes"

// secondLayerMap maps byte-slice keys to block indices, tuned for the
// overwhelmingly common case of a single entry per CRC bucket. It stores
// exactly one (key, value) pair inline and only promotes to a general map on
// the second insertion, avoiding a map allocation per CRC when the weak hash
// isn't colliding.
//
// Keys borrow their backing bytes from the signature blob the IndexedSignature
// was built from; callers must not mutate or outlive that blob.
type secondLayerMap struct {
	singleKey []byte
	singleVal uint32
	hasSingle bool

	rest map[string]uint32
}

// insert adds key -> val, promoting from the inline single entry to a
// general map on the second insertion, even when it repeats the first key
// (the later value then wins). Promotion is one-way.
func (m *secondLayerMap) insert(key []byte, val uint32) {
	if m.rest != nil {
		m.rest[string(key)] = val
		return
	}
	if !m.hasSingle {
		m.singleKey = key
		m.singleVal = val
		m.hasSingle = true
		return
	}
	m.rest = map[string]uint32{
		string(m.singleKey): m.singleVal,
		string(key):         val,
	}
	m.hasSingle = false
	m.singleKey = nil
}

// get returns the value for key and whether it was present.
func (m *secondLayerMap) get(key []byte) (uint32, bool) {
	if m.rest != nil {
		v, ok := m.rest[string(key)]
		return v, ok
	}
	if m.hasSingle && bytes.Equal(m.singleKey, key) {
		return m.singleVal, true
	}
	return 0, false
}
