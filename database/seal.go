package database

import (
	"crypto/rand"
	"errors"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	saltSize  = 16
	nonceSize = 24
	keySize   = 32
)

var ErrUnseal = errors.New("stored token could not be decrypted")

// deriveKey stretches the passphrase with Argon2id
func deriveKey(passphrase string, salt []byte) *[keySize]byte {
	var key [keySize]byte
	copy(key[:], argon2.IDKey([]byte(passphrase), salt, 1, 64*1024, 4, keySize))
	return &key
}

// seal encrypts plaintext under a fresh salt; the nonce is prefixed to the returned box
func seal(passphrase string, plaintext []byte) (box, salt []byte, err error) {
	salt = make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, nil, err
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, nil, err
	}
	box = secretbox.Seal(nonce[:], plaintext, &nonce, deriveKey(passphrase, salt))
	return box, salt, nil
}

func unseal(passphrase string, box, salt []byte) ([]byte, error) {
	if len(box) < nonceSize+secretbox.Overhead {
		return nil, ErrUnseal
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	plaintext, ok := secretbox.Open(nil, box[nonceSize:], &nonce, deriveKey(passphrase, salt))
	if !ok {
		return nil, ErrUnseal
	}
	return plaintext, nil
}
