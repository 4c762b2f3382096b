package hybridenc

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/quayside/nasgate/crypto/evpaes"
)

func TestPassphraseAlphabet(t *testing.T) {
	if len(PassphraseAlphabet) != 87 {
		t.Fatalf("alphabet length = %d, want 87", len(PassphraseAlphabet))
	}
	seen := map[byte]bool{}
	for i := 0; i < len(PassphraseAlphabet); i++ {
		c := PassphraseAlphabet[i]
		if seen[c] {
			t.Fatalf("duplicate alphabet character %q", c)
		}
		seen[c] = true
	}
	// Highest byte value must still reduce in range.
	if idx := int(byte(255)) % len(PassphraseAlphabet); idx >= len(PassphraseAlphabet) {
		t.Fatalf("modulo reduction out of bounds: %d", idx)
	}
}

func TestGeneratePassphrase(t *testing.T) {
	p, err := GeneratePassphrase()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(p) != PassphraseLength {
		t.Fatalf("length = %d, want %d", len(p), PassphraseLength)
	}
	for i, c := range p {
		if strings.IndexByte(PassphraseAlphabet, c) < 0 {
			t.Fatalf("byte %d (%q) is not in the alphabet", i, c)
		}
	}

	q, err := GeneratePassphrase()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if string(p) == string(q) {
		t.Fatal("two passphrases were identical")
	}
}

// TestEncryptCredentials decrypts the emitted blob with the matching private
// key to prove the server can recover the original fields.
func TestEncryptCredentials(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	info := EncryptionInfo{
		PublicKey:   key.N.Text(16),
		CipherKey:   "__cIpHeRtExt",
		CipherToken: "ciphertoken",
		ServerTime:  1700000000,
	}
	params := map[string]string{
		"account": "admin",
		"passwd":  "p@ss words&more",
	}

	out, err := EncryptCredentials(params, info)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected exactly one output field, got %d", len(out))
	}
	blob, ok := out[info.CipherKey]
	if !ok {
		t.Fatalf("output is not keyed by cipherkey: %v", out)
	}

	var parsed struct {
		RSA string `json:"rsa"`
		AES string `json:"aes"`
	}
	if err := json.Unmarshal([]byte(blob), &parsed); err != nil {
		t.Fatalf("blob is not JSON: %v", err)
	}
	encPassphrase, err := base64.StdEncoding.DecodeString(parsed.RSA)
	if err != nil {
		t.Fatalf("rsa member is not base64: %v", err)
	}
	encParams, err := base64.StdEncoding.DecodeString(parsed.AES)
	if err != nil {
		t.Fatalf("aes member is not base64: %v", err)
	}

	// Server side: recover the passphrase chunk by chunk, then the params.
	if len(encPassphrase)%key.PublicKey.Size() != 0 {
		t.Fatalf("rsa ciphertext length %d is not a multiple of the key size", len(encPassphrase))
	}
	var passphrase []byte
	for off := 0; off < len(encPassphrase); off += key.PublicKey.Size() {
		chunk, err := rsa.DecryptPKCS1v15(nil, key, encPassphrase[off:off+key.PublicKey.Size()])
		if err != nil {
			t.Fatalf("rsa decrypt: %v", err)
		}
		passphrase = append(passphrase, chunk...)
	}
	if len(passphrase) != PassphraseLength {
		t.Fatalf("recovered passphrase length = %d, want %d", len(passphrase), PassphraseLength)
	}

	formEncoded, err := evpaes.Decrypt(passphrase, encParams)
	if err != nil {
		t.Fatalf("aes decrypt: %v", err)
	}
	vals, err := url.ParseQuery(formEncoded)
	if err != nil {
		t.Fatalf("parse form: %v", err)
	}
	if got := vals.Get("account"); got != "admin" {
		t.Fatalf("account = %q, want admin", got)
	}
	if got := vals.Get("passwd"); got != "p@ss words&more" {
		t.Fatalf("passwd = %q", got)
	}
	if got := vals.Get("ciphertoken"); got != "1700000000" {
		t.Fatalf("ciphertoken = %q, want server time", got)
	}
}

func TestEncryptCredentialsBadKey(t *testing.T) {
	_, err := EncryptCredentials(map[string]string{"a": "b"}, EncryptionInfo{
		PublicKey: "not hex!", CipherKey: "k",
	})
	if err != ErrBadPublicKey {
		t.Fatalf("expected ErrBadPublicKey, got %v", err)
	}
}
