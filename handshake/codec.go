package handshake

import "errors"

// The transport cookie carries raw key and handshake message bytes through a
// compact binary-to-text scheme. It packs bits base64-style (6-bit groups, no
// padding) but uses its own cookie-safe alphabet and ordering, so standard
// decoders do not apply. Decode and Encode are exact mirrors; decoding rejects
// impossible lengths and nonzero trailing bits.
const cookieAlphabet = "qwertyuiopasdfghjklzxcvbnm" +
	"QWERTYUIOPASDFGHJKLZXCVBNM" +
	"9876543210-."

var (
	ErrCookieChar   = errors.New("handshake: invalid cookie character")
	ErrCookieLength = errors.New("handshake: invalid cookie length")
)

var cookieReverse = func() [256]int8 {
	var t [256]int8
	for i := range t {
		t[i] = -1
	}
	for i := 0; i < len(cookieAlphabet); i++ {
		t[cookieAlphabet[i]] = int8(i)
	}
	return t
}()

// EncodeCookie encodes raw bytes into the cookie-safe text form.
func EncodeCookie(b []byte) string {
	out := make([]byte, 0, (len(b)*8+5)/6)
	var acc uint
	var nbits uint
	for _, c := range b {
		acc = acc<<8 | uint(c)
		nbits += 8
		for nbits >= 6 {
			nbits -= 6
			out = append(out, cookieAlphabet[(acc>>nbits)&0x3f])
		}
	}
	if nbits > 0 {
		out = append(out, cookieAlphabet[(acc<<(6-nbits))&0x3f])
	}
	return string(out)
}

// DecodeCookie decodes the cookie-safe text form back into raw bytes.
func DecodeCookie(s string) ([]byte, error) {
	// A trailing group of 6 bits encodes no byte, so such lengths never occur.
	if len(s)%4 == 1 {
		return nil, ErrCookieLength
	}
	out := make([]byte, 0, len(s)*6/8)
	var acc uint
	var nbits uint
	for i := 0; i < len(s); i++ {
		v := cookieReverse[s[i]]
		if v < 0 {
			return nil, ErrCookieChar
		}
		acc = acc<<6 | uint(v)
		nbits += 6
		if nbits >= 8 {
			nbits -= 8
			out = append(out, byte((acc>>nbits)&0xff))
		}
	}
	if acc&(1<<nbits-1) != 0 {
		return nil, ErrCookieLength
	}
	return out, nil
}
