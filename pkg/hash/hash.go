// Package hash implements the 32-bit DJB string hash used as the short form of
// fingerprints.
package hash

// Seed is the hash of empty input.
const Seed uint32 = 5381

// Add feeds one byte into h.
func Add(h uint32, c byte) uint32 {
	return h<<5 + h + uint32(c)
}

// String hashes s.
func String(s string) uint32 {
	h := Seed
	for i := 0; i < len(s); i++ {
		h = Add(h, s[i])
	}
	return h
}

// Bytes hashes b. It agrees with String on the same content.
func Bytes(b []byte) uint32 {
	h := Seed
	for _, c := range b {
		h = Add(h, c)
	}
	return h
}
