package session

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
	"os"

	"github.com/decktui/deck-tui/internal/encoding"
	"github.com/decktui/deck-tui/internal/store"
	"golang.org/x/crypto/scrypt"
)

var (
	ErrSeal       = errors.New("failed to seal export")
	ErrUnseal     = errors.New("failed to open sealed export")
	ErrPassphrase = errors.New("bad or missing passphrase")
)

// sealMagic prefixes sealed export files so Import can tell them apart from
// plain JSON exports.
var sealMagic = []byte("DECKSEAL")

const (
	sealVersion  = 1
	sealSaltSize = 16
	sealKeySize  = 32
	scryptN      = 1 << 15
	scryptR      = 8
	scryptP      = 1
)

// ExportFile bundles everything needed to move a profile between machines.
type ExportFile struct {
	Session Snapshot          `json:"session"`
	Cookies []store.CookieRow `json:"cookies,omitempty"`
}

func deriveKey(passphrase string, salt []byte) ([]byte, error) {
	key, errKey := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, sealKeySize)
	if errKey != nil {
		return nil, errors.Join(errKey, ErrSeal)
	}

	return key, nil
}

// Seal encrypts payload with a key derived from the passphrase. Output layout
// is magic, version, salt, nonce, ciphertext.
func Seal(payload []byte, passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, ErrPassphrase
	}

	salt := make([]byte, sealSaltSize)
	if _, errSalt := io.ReadFull(rand.Reader, salt); errSalt != nil {
		return nil, errors.Join(errSalt, ErrSeal)
	}

	key, errKey := deriveKey(passphrase, salt)
	if errKey != nil {
		return nil, errKey
	}

	block, errBlock := aes.NewCipher(key)
	if errBlock != nil {
		return nil, errors.Join(errBlock, ErrSeal)
	}

	gcm, errGCM := cipher.NewGCM(block)
	if errGCM != nil {
		return nil, errors.Join(errGCM, ErrSeal)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, errNonce := io.ReadFull(rand.Reader, nonce); errNonce != nil {
		return nil, errors.Join(errNonce, ErrSeal)
	}

	var sealed bytes.Buffer
	sealed.Write(sealMagic)
	sealed.WriteByte(sealVersion)
	sealed.Write(salt)
	sealed.Write(nonce)
	sealed.Write(gcm.Seal(nil, nonce, payload, nil))

	return sealed.Bytes(), nil
}

// Unseal decrypts data produced by Seal. A wrong passphrase surfaces as
// ErrPassphrase since GCM authentication fails.
func Unseal(data []byte, passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, ErrPassphrase
	}

	if !bytes.HasPrefix(data, sealMagic) {
		return nil, ErrUnseal
	}

	rest := data[len(sealMagic):]
	if len(rest) < 1+sealSaltSize {
		return nil, ErrUnseal
	}

	if rest[0] != sealVersion {
		return nil, ErrUnseal
	}

	salt := rest[1 : 1+sealSaltSize]

	key, errKey := deriveKey(passphrase, salt)
	if errKey != nil {
		return nil, errKey
	}

	block, errBlock := aes.NewCipher(key)
	if errBlock != nil {
		return nil, errors.Join(errBlock, ErrUnseal)
	}

	gcm, errGCM := cipher.NewGCM(block)
	if errGCM != nil {
		return nil, errors.Join(errGCM, ErrUnseal)
	}

	body := rest[1+sealSaltSize:]
	if len(body) < gcm.NonceSize() {
		return nil, ErrUnseal
	}

	payload, errOpen := gcm.Open(nil, body[:gcm.NonceSize()], body[gcm.NonceSize():], nil)
	if errOpen != nil {
		return nil, errors.Join(errOpen, ErrPassphrase)
	}

	return payload, nil
}

// Export writes the profile bundle to path. An empty passphrase writes plain
// JSON, anything else seals the payload.
func Export(path string, export ExportFile, passphrase string) error {
	var payload bytes.Buffer
	if errMarshal := encoding.MarshalJSON(&payload, export); errMarshal != nil {
		return errors.Join(errMarshal, ErrSeal)
	}

	data := payload.Bytes()
	if passphrase != "" {
		sealed, errSeal := Seal(data, passphrase)
		if errSeal != nil {
			return errSeal
		}
		data = sealed
	}

	if errWrite := os.WriteFile(path, data, 0o600); errWrite != nil {
		return errors.Join(errWrite, ErrSeal)
	}

	return nil
}

// Import reads an export written by Export, sealed or plain.
func Import(path string, passphrase string) (ExportFile, error) {
	data, errRead := os.ReadFile(path)
	if errRead != nil {
		return ExportFile{}, errors.Join(errRead, ErrUnseal)
	}

	if bytes.HasPrefix(data, sealMagic) {
		payload, errUnseal := Unseal(data, passphrase)
		if errUnseal != nil {
			return ExportFile{}, errUnseal
		}
		data = payload
	}

	export, errDecode := encoding.UnmarshalJSON[ExportFile](bytes.NewReader(data))
	if errDecode != nil {
		return ExportFile{}, errors.Join(errDecode, ErrUnseal)
	}

	return export, nil
}
