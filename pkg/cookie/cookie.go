// Package cookie derives the per-file identifiers that make generated
// include guards unique and, when seeded, reproducible.
//
// A State holds a SipHash-2-4 key and the transcript of everything mixed
// into it so far. States are values: Mix returns a new State and leaves the
// receiver alone, so one run-level state can fan out to every file.
package cookie

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/dchest/siphash"
)

// Round constants used to spread a 64-bit seed into a 128-bit key.
const (
	seedSalt0 = 0x428a2f98d728ae22
	seedSalt1 = 0x7137449123ef65cd
)

// schedule is hashed under the salted seed to produce the key halves.
var schedule = [8]uint64{
	0x6a09e667f3bcc908, 0xbb67ae8584caa73b, 0x3c6ef372fe94f82b, 0xa54ff53a5f1d36f1,
	0x510e527fade682d1, 0x9b05688c2b3e6c1f, 0x1f83d9abfb41bd6b, 0x5be0cd19137e2179,
}

type State struct {
	k0, k1 uint64
	buf    []byte
}

// Seeded expands seed into a State. Equal seeds give equal states.
func Seeded(seed uint64) State {
	var words [64]byte
	for i, w := range schedule {
		binary.LittleEndian.PutUint64(words[8*i:], w)
	}
	s0, s1 := seed^seedSalt0, seed^seedSalt1
	return State{
		k0: siphash.Hash(s0, s1, words[:32]),
		k1: siphash.Hash(s0, s1, words[:]),
	}
}

// Random returns a State keyed from the operating system's entropy source.
func Random() (State, error) {
	var key [16]byte
	if _, err := rand.Read(key[:]); err != nil {
		return State{}, fmt.Errorf("cookie: reading random key: %w", err)
	}
	return State{
		k0: binary.LittleEndian.Uint64(key[:8]),
		k1: binary.LittleEndian.Uint64(key[8:]),
	}, nil
}

// Mix returns a state that has additionally absorbed s. The length prefix
// keeps ("ab", "c") and ("a", "bc") apart.
func (st State) Mix(s string) State {
	buf := make([]byte, len(st.buf), len(st.buf)+8+len(s))
	copy(buf, st.buf)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(s)))
	buf = append(buf, s...)
	return State{k0: st.k0, k1: st.k1, buf: buf}
}

// Sum is the 64-bit cookie for everything mixed so far.
func (st State) Sum() uint64 {
	return siphash.Hash(st.k0, st.k1, st.buf)
}
