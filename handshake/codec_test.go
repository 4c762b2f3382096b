package handshake

import (
	"bytes"
	"testing"
)

func TestCodecRoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		{0},
		{0xff},
		{1, 2, 3},
		{0, 0, 0, 0},
		bytes.Repeat([]byte{0xab}, 32),
		{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01},
	}
	for _, in := range cases {
		enc := EncodeCookie(in)
		got, err := DecodeCookie(enc)
		if err != nil {
			t.Fatalf("decode(%q): %v", enc, err)
		}
		if !bytes.Equal(got, in) {
			t.Fatalf("round trip mismatch: in=%x out=%x enc=%q", in, got, enc)
		}
	}
}

func TestCodecCookieSafe(t *testing.T) {
	// Encoded output must survive a Set-Cookie value unquoted.
	enc := EncodeCookie(bytes.Repeat([]byte{0x00, 0x7f, 0xff}, 20))
	for i := 0; i < len(enc); i++ {
		switch c := enc[i]; {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '.':
		default:
			t.Fatalf("unsafe cookie byte %q at %d", c, i)
		}
	}
}

func TestDecodeCookieRejects(t *testing.T) {
	t.Run("invalid character", func(t *testing.T) {
		if _, err := DecodeCookie("qw;rt"); err != ErrCookieChar {
			t.Fatalf("expected ErrCookieChar, got %v", err)
		}
	})

	t.Run("impossible length", func(t *testing.T) {
		if _, err := DecodeCookie("qwert"); err != ErrCookieLength {
			t.Fatalf("expected ErrCookieLength, got %v", err)
		}
	})

	t.Run("nonzero trailing bits", func(t *testing.T) {
		// "q." is one byte plus two trailing bits; "." maps to 63, so the
		// trailing bits are nonzero.
		if _, err := DecodeCookie("q."); err != ErrCookieLength {
			t.Fatalf("expected ErrCookieLength, got %v", err)
		}
	})
}

func FuzzCodecRoundTrip(f *testing.F) {
	f.Add([]byte(nil))
	f.Add([]byte{0xff, 0x00})
	f.Add(bytes.Repeat([]byte{7}, 33))
	f.Fuzz(func(t *testing.T, in []byte) {
		got, err := DecodeCookie(EncodeCookie(in))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !bytes.Equal(got, in) {
			t.Fatalf("round trip mismatch: in=%x out=%x", in, got)
		}
	})
}

func FuzzDecodeCookie(f *testing.F) {
	f.Add("qwerty")
	f.Add("")
	f.Fuzz(func(t *testing.T, s string) {
		b, err := DecodeCookie(s)
		if err != nil {
			return
		}
		// Any accepted input must re-encode to itself.
		if EncodeCookie(b) != s {
			t.Fatalf("decode/encode not mirrored for %q", s)
		}
	})
}
