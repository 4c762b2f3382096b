// Package hybridenc protects login credentials on unencrypted transports.
//
// A random passphrase is encrypted under the server's RSA public key while the
// form-encoded credential fields are encrypted symmetrically with that
// passphrase (evpaes). The server decrypts the passphrase with its private key
// and then the credentials with the passphrase.
package hybridenc

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/url"
	"strconv"

	"github.com/quayside/nasgate/crypto/evpaes"
)

// EncryptionInfo is the server-provided key material from the encryption
// discovery call. It is used for a single login attempt and never persisted.
type EncryptionInfo struct {
	PublicKey   string `json:"public_key"` // RSA modulus, hex.
	CipherKey   string `json:"cipherkey"`  // Form field name for the encrypted blob.
	CipherToken string `json:"ciphertoken"`
	ServerTime  int64  `json:"server_time"`
}

// PassphraseAlphabet is the fixed 87-character set the random passphrase is
// drawn from. The passphrase is RSA-encrypted as text and embedded in a
// form-encoded payload, so raw random bytes would not survive the trip.
const PassphraseAlphabet = "0123456789" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"abcdefghijklmnopqrstuvwxyz" +
	".,:;!?'\"@#$%^&*()-_=+[]{}"

// PassphraseLength is the byte length of the generated passphrase.
const PassphraseLength = 501

// rsaExponent is the fixed public exponent; the server supplies only the modulus.
const rsaExponent = 65537

var (
	ErrBadPublicKey = errors.New("hybridenc: malformed server public key")
	ErrKeyTooSmall  = errors.New("hybridenc: server public key too small")
)

// GeneratePassphrase draws PassphraseLength characters uniformly from
// PassphraseAlphabet.
func GeneratePassphrase() ([]byte, error) {
	raw := make([]byte, PassphraseLength)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	out := make([]byte, PassphraseLength)
	for i, b := range raw {
		out[i] = PassphraseAlphabet[int(b)%len(PassphraseAlphabet)]
	}
	return out, nil
}

// EncryptCredentials encrypts the credential fields in params under info and
// returns the single replacement form field: info.CipherKey mapped to a JSON
// object {"rsa": base64(encrypted passphrase), "aes": base64(encrypted params)}.
func EncryptCredentials(params map[string]string, info EncryptionInfo) (map[string]string, error) {
	passphrase, err := GeneratePassphrase()
	if err != nil {
		return nil, err
	}

	merged := url.Values{}
	for k, v := range params {
		merged.Set(k, v)
	}
	merged.Set(info.CipherToken, strconv.FormatInt(info.ServerTime, 10))

	encryptedParams, err := evpaes.Encrypt(passphrase, merged.Encode())
	if err != nil {
		return nil, err
	}
	encryptedPassphrase, err := encryptRSA(info.PublicKey, passphrase)
	if err != nil {
		return nil, err
	}

	blob, err := json.Marshal(struct {
		RSA string `json:"rsa"`
		AES string `json:"aes"`
	}{
		RSA: base64.StdEncoding.EncodeToString(encryptedPassphrase),
		AES: base64.StdEncoding.EncodeToString(encryptedParams),
	})
	if err != nil {
		return nil, err
	}
	return map[string]string{info.CipherKey: string(blob)}, nil
}

// encryptRSA encrypts plaintext with RSAES-PKCS1-v1_5 under the hex-encoded
// modulus and the fixed exponent. The passphrase exceeds a single RSA block,
// so it is encrypted in maximal chunks and the ciphertexts concatenated.
func encryptRSA(modulusHex string, plaintext []byte) ([]byte, error) {
	n, ok := new(big.Int).SetString(modulusHex, 16)
	if !ok || n.Sign() <= 0 {
		return nil, ErrBadPublicKey
	}
	pub := &rsa.PublicKey{N: n, E: rsaExponent}
	chunk := pub.Size() - 11 // PKCS#1 v1.5 overhead.
	if chunk <= 0 {
		return nil, ErrKeyTooSmall
	}
	var out []byte
	for len(plaintext) > 0 {
		m := len(plaintext)
		if m > chunk {
			m = chunk
		}
		ct, err := rsa.EncryptPKCS1v15(rand.Reader, pub, plaintext[:m])
		if err != nil {
			return nil, err
		}
		out = append(out, ct...)
		plaintext = plaintext[m:]
	}
	return out, nil
}
