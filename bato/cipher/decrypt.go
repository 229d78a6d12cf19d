package cipher

import (
	"bytes"
	"crypto/aes"
	stdcipher "crypto/cipher"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/batoget/batodl/errs"
)

// payloadMarker is the fixed prefix "openssl enc" writes before the salt.
const payloadMarker = "Salted__"

// DecodePayload base64-decodes an encoded word and splits it into salt and
// ciphertext, validating the Salted__ framing.
func DecodePayload(encodedWord string) (salt, ciphertext []byte, err error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encodedWord))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: base64: %v", errs.ErrDecodeFailed, err)
	}
	headerLen := len(payloadMarker) + saltSize
	if len(raw) < headerLen {
		return nil, nil, fmt.Errorf("%w: payload is %d bytes, shorter than the %d-byte header", errs.ErrDecodeFailed, len(raw), headerLen)
	}
	if !bytes.HasPrefix(raw, []byte(payloadMarker)) {
		return nil, nil, fmt.Errorf("%w: missing %q marker", errs.ErrDecodeFailed, payloadMarker)
	}
	return raw[len(payloadMarker):headerLen], raw[headerLen:], nil
}

// DecryptWord decodes an encoded word, derives the AES-256 key and IV from
// the password and the embedded salt, and returns the decrypted plaintext.
func DecryptWord(encodedWord, password string) (string, error) {
	salt, ciphertext, err := DecodePayload(encodedWord)
	if err != nil {
		return "", err
	}
	key, iv, err := DeriveKeyIV([]byte(password), salt, keySize, ivSize)
	if err != nil {
		return "", err
	}
	return decryptCBC(ciphertext, key, iv)
}

// decryptCBC runs AES-CBC over ciphertext and strips PKCS#7 padding. Invalid
// padding means the key was wrong or the data corrupt; the call fails instead
// of salvaging raw bytes.
func decryptCBC(ciphertext, key, iv []byte) (string, error) {
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: ciphertext length %d is not a positive multiple of %d", errs.ErrCipherFailed, len(ciphertext), aes.BlockSize)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrCipherFailed, err)
	}

	plaintext := make([]byte, len(ciphertext))
	stdcipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(unpadded) {
		return "", fmt.Errorf("%w: plaintext is not valid UTF-8", errs.ErrCipherFailed)
	}
	return string(unpadded), nil
}

// pkcs7Unpad validates and removes PKCS#7 padding. The last byte N must be in
// [1, blockSize] and the final N bytes must all equal N.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("%w: padded length %d", errs.ErrCipherFailed, len(data))
	}
	n := int(data[len(data)-1])
	if n < 1 || n > blockSize {
		return nil, fmt.Errorf("%w: invalid padding length %d", errs.ErrCipherFailed, n)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("%w: inconsistent padding bytes", errs.ErrCipherFailed)
		}
	}
	return data[:len(data)-n], nil
}
