package crypto

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
)

// Gateway holds the client's RSA private key and performs every
// cryptographic operation the SDK needs. Which bytes get encrypted,
// signed, or split apart is decided by the caller; the gateway only runs
// the primitives.
type Gateway struct {
	privateKey *rsa.PrivateKey
}

// NewGateway builds a Gateway from a PEM-encoded RSA private key.
func NewGateway(privateKeyPEM string) (*Gateway, error) {
	key, err := ParsePrivateKey(privateKeyPEM)
	if err != nil {
		return nil, err
	}
	return &Gateway{privateKey: key}, nil
}

// RSAEncrypt encrypts plaintext with RSA-OAEP under the given PEM public
// key. Used for the credential envelope sent with every request.
func (g *Gateway) RSAEncrypt(plaintext []byte, publicKey string) ([]byte, error) {
	key, err := ParsePublicKey(publicKey)
	if err != nil {
		return nil, err
	}

	ciphertext, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, key, plaintext, nil)
	if err != nil {
		return nil, fmt.Errorf("rsa encrypt: %w", err)
	}
	return ciphertext, nil
}

// RSADecrypt decrypts an RSA-OAEP ciphertext with the gateway's own
// private key. The provider error is deliberately collapsed: OAEP failure
// modes must stay indistinguishable to callers.
func (g *Gateway) RSADecrypt(ciphertext []byte) ([]byte, error) {
	plaintext, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, g.privateKey, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// AESDecrypt decrypts an AES-CBC ciphertext with the given key and IV and
// strips PKCS#7 padding.
func (g *Gateway) AESDecrypt(ciphertext, key, iv []byte) ([]byte, error) {
	return DecryptCBC(ciphertext, key, iv)
}

// Sign produces an RSA-PSS signature over data with the gateway's own
// private key.
func (g *Gateway) Sign(data []byte) ([]byte, error) {
	digest := sha256.Sum256(data)
	signature, err := rsa.SignPSS(rand.Reader, g.privateKey, crypto.SHA256, digest[:], nil)
	if err != nil {
		return nil, fmt.Errorf("rsa sign: %w", err)
	}
	return signature, nil
}

// VerifySignature checks an RSA-PSS signature over data against the given
// PEM public key. A nil return means the signature is valid.
func (g *Gateway) VerifySignature(signature, data []byte, publicKey string) error {
	key, err := ParsePublicKey(publicKey)
	if err != nil {
		return err
	}

	digest := sha256.Sum256(data)
	if err := rsa.VerifyPSS(key, crypto.SHA256, digest[:], signature, nil); err != nil {
		return ErrSignatureInvalid
	}
	return nil
}
