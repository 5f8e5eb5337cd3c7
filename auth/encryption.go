package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func encryptWithUUIDKey(data []byte, key uuid.UUID) ([]byte, error) {
	keyBytes, err := uuidToBytes(key)
	if err != nil {
		return nil, err
	}
	return encrypt(data, keyBytes)
}

func decryptWithUUIDKey(data []byte, key uuid.UUID) ([]byte, error) {
	keyBytes, err := uuidToBytes(key)
	if err != nil {
		return nil, err
	}
	return decrypt(data, keyBytes)
}

func uuidToBytes(key uuid.UUID) ([]byte, error) {
	bytes, err := key.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "Unable to convert credential key (uuid) to bytes")
	}
	return bytes, nil
}

func encrypt(data []byte, key []byte) ([]byte, error) {
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(c)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, data, nil), nil
}

func decrypt(data []byte, key []byte) ([]byte, error) {
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(c)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return nil, errors.New("Encrypted data is too short")
	}

	nonce, sealed := data[:nonceSize], data[nonceSize:]
	decrypted, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, err
	}
	return decrypted, nil
}
