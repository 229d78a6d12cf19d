package cipher

import (
	"crypto/md5"
	"fmt"

	"github.com/batoget/batodl/errs"
)

const (
	saltSize = 8
	keySize  = 32
	ivSize   = 16
)

// DeriveKeyIV derives a key and IV from a password and an 8-byte salt using
// the OpenSSL EVP_BytesToKey scheme with MD5:
//
//	D(0) = empty
//	D(i) = MD5(D(i-1) || password || salt)
//	key || iv = D(1) || D(2) || ... truncated to keyLen+ivLen
//
// The scheme is what CryptoJS uses for passphrase-based AES and is kept for
// wire compatibility; the derived material must not outlive the decrypt call
// that asked for it.
func DeriveKeyIV(password, salt []byte, keyLen, ivLen int) (key, iv []byte, err error) {
	if len(password) == 0 {
		return nil, nil, fmt.Errorf("%w: empty password", errs.ErrKeyDerivationFailed)
	}
	if len(salt) != saltSize {
		return nil, nil, fmt.Errorf("%w: salt must be %d bytes, got %d", errs.ErrKeyDerivationFailed, saltSize, len(salt))
	}
	if keyLen <= 0 || ivLen <= 0 {
		return nil, nil, fmt.Errorf("%w: key length %d and iv length %d must be positive", errs.ErrKeyDerivationFailed, keyLen, ivLen)
	}

	need := keyLen + ivLen
	derived := make([]byte, 0, need+md5.Size)
	var prev []byte
	for len(derived) < need {
		h := md5.New()
		h.Write(prev)
		h.Write(password)
		h.Write(salt)
		prev = h.Sum(nil)
		derived = append(derived, prev...)
	}
	return derived[:keyLen], derived[keyLen : keyLen+ivLen], nil
}
