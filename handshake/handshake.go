// Package handshake builds the pre-login token required by current-generation
// servers. The server publishes its static public key in a transport cookie;
// the client runs a one-shot Noise IK exchange against that key and sends the
// resulting initiator message back as a login parameter, carrying a timestamped
// payload inside the encrypted handshake body.
package handshake

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/katzenpost/nyquist"
	"github.com/katzenpost/nyquist/cipher"
	"github.com/katzenpost/nyquist/dh"
	"github.com/katzenpost/nyquist/hash"
	"github.com/katzenpost/nyquist/pattern"
)

var (
	ErrNoKeyCookie  = errors.New("handshake: server key cookie not present")
	ErrBadServerKey = errors.New("handshake: malformed server key cookie")
)

// keyCookieName matches the cookie carrying the server static key. The server
// may rotate a numeric suffix onto the base name.
var keyCookieName = regexp.MustCompile(`^hskey(_[0-9]+)?$`)

// ikProtocol is the Noise protocol for the pre-login exchange. IK is used
// because the initiator learns the responder's static key from the cookie
// before the first message.
var ikProtocol = &nyquist.Protocol{
	Pattern: pattern.IK,
	DH:      dh.X25519,
	Cipher:  cipher.ChaChaPoly,
	Hash:    hash.SHA256,
}

// tokenPayload is the plaintext carried inside the encrypted handshake message.
type tokenPayload struct {
	Timestamp int64 `json:"timestamp"` // Unix seconds at token build time.
}

// FindKeyCookie returns the value of the server key cookie from a pre-login
// response, or ErrNoKeyCookie when the server did not send one.
func FindKeyCookie(resp *http.Response) (string, error) {
	for _, c := range resp.Cookies() {
		if keyCookieName.MatchString(c.Name) {
			return c.Value, nil
		}
	}
	return "", ErrNoKeyCookie
}

// BuildToken decodes the cookie value into the server static key, runs the
// Noise IK initiator step with fresh local key material, and encodes the
// resulting handshake message back into cookie-compatible text.
func BuildToken(cookieValue string, now time.Time) (string, error) {
	serverKey, err := DecodeCookie(cookieValue)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadServerKey, err)
	}
	remoteStatic, err := dh.X25519.ParsePublicKey(serverKey)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadServerKey, err)
	}

	localStatic, err := dh.X25519.GenerateKeypair(rand.Reader)
	if err != nil {
		return "", err
	}
	hs, err := nyquist.NewHandshake(&nyquist.HandshakeConfig{
		Protocol: ikProtocol,
		DH: &nyquist.DHConfig{
			LocalStatic:  localStatic,
			RemoteStatic: remoteStatic,
		},
		IsInitiator: true,
	})
	if err != nil {
		return "", err
	}
	defer hs.Reset()

	payload, err := json.Marshal(tokenPayload{Timestamp: now.Unix()})
	if err != nil {
		return "", err
	}
	msg, err := hs.WriteMessage(nil, payload)
	if err != nil {
		return "", err
	}
	return EncodeCookie(msg), nil
}
