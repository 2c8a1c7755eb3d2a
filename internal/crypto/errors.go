package crypto

import "errors"

var (
	// ErrInvalidPublicKey is returned when a public key cannot be parsed
	// or is not an RSA key.
	ErrInvalidPublicKey = errors.New("invalid public key")

	// ErrInvalidPrivateKey is returned when a private key cannot be parsed
	// or is not an RSA key.
	ErrInvalidPrivateKey = errors.New("invalid private key")

	// ErrDecryptionFailed is returned when RSA decryption fails.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrSignatureInvalid is returned when signature verification fails.
	ErrSignatureInvalid = errors.New("signature verification failed")

	// ErrInvalidKeySize is returned when the AES key size is invalid.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrInvalidIVSize is returned when the AES IV size is invalid.
	ErrInvalidIVSize = errors.New("invalid iv size")

	// ErrInvalidCiphertextSize is returned when an AES ciphertext is empty
	// or not block-aligned.
	ErrInvalidCiphertextSize = errors.New("invalid ciphertext size")

	// ErrInvalidPadding is returned when PKCS#7 padding is malformed.
	ErrInvalidPadding = errors.New("invalid padding")
)
