package cipher

import (
	"bytes"
	"errors"
	"testing"

	"github.com/batoget/batodl/errs"
)

func TestDeriveKeyIVDeterministic(t *testing.T) {
	password := []byte("secret")
	salt := []byte("12345678")

	key1, iv1, err := DeriveKeyIV(password, salt, keySize, ivSize)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	key2, iv2, err := DeriveKeyIV(password, salt, keySize, ivSize)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}

	if !bytes.Equal(key1, key2) || !bytes.Equal(iv1, iv2) {
		t.Fatal("identical inputs produced different key material")
	}
	if len(key1) != keySize {
		t.Errorf("key length = %d, want %d", len(key1), keySize)
	}
	if len(iv1) != ivSize {
		t.Errorf("iv length = %d, want %d", len(iv1), ivSize)
	}
}

func TestDeriveKeyIVStreamIsContiguous(t *testing.T) {
	// The derived stream D(1)||D(2)||... does not depend on how it is split
	// into key and iv, so a shorter derivation must be a prefix of a longer
	// one.
	password := []byte("secret")
	salt := []byte("abcdefgh")

	shortKey, shortIV, err := DeriveKeyIV(password, salt, 16, 16)
	if err != nil {
		t.Fatalf("derive short: %v", err)
	}
	longKey, _, err := DeriveKeyIV(password, salt, keySize, ivSize)
	if err != nil {
		t.Fatalf("derive long: %v", err)
	}

	stream := append(append([]byte{}, shortKey...), shortIV...)
	if !bytes.Equal(stream, longKey) {
		t.Fatal("short derivation is not a prefix of the long one")
	}
}

func TestDeriveKeyIVSaltChangesOutput(t *testing.T) {
	password := []byte("secret")
	key1, _, err := DeriveKeyIV(password, []byte("11111111"), keySize, ivSize)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	key2, _, err := DeriveKeyIV(password, []byte("22222222"), keySize, ivSize)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if bytes.Equal(key1, key2) {
		t.Fatal("different salts produced identical keys")
	}
}

func TestDeriveKeyIVInvalidParams(t *testing.T) {
	cases := []struct {
		name     string
		password []byte
		salt     []byte
		keyLen   int
		ivLen    int
	}{
		{"empty password", nil, []byte("12345678"), keySize, ivSize},
		{"short salt", []byte("p"), []byte("1234"), keySize, ivSize},
		{"long salt", []byte("p"), []byte("123456789"), keySize, ivSize},
		{"zero key len", []byte("p"), []byte("12345678"), 0, ivSize},
		{"negative iv len", []byte("p"), []byte("12345678"), keySize, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := DeriveKeyIV(tc.password, tc.salt, tc.keyLen, tc.ivLen)
			if !errors.Is(err, errs.ErrKeyDerivationFailed) {
				t.Fatalf("err = %v, want ErrKeyDerivationFailed", err)
			}
		})
	}
}
