// Package namegen produces the randomized storage names uploaded files are
// persisted under, so they aren't easily guessed and original names stay
// hidden. Too high a length makes urls look bad; the default is 12, e.g.
// xaG5vRGKa138.png.
package namegen

import "crypto/rand"

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz_-"

// Generate returns n characters drawn independently and uniformly from the
// 64-character alphabet. The alphabet length is exactly 2^6, so masking six
// bits per byte is bias-free. Uniqueness is statistical (64^n); a collision
// surfaces as a storage write error, not here.
func Generate(n int) string {
	if n <= 0 {
		return ""
	}

	buf := make([]byte, n)
	rand.Read(buf)
	for i, b := range buf {
		buf[i] = alphabet[b&0x3f]
	}
	return string(buf)
}
