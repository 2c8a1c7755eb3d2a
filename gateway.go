package launchkey

// CryptoGateway runs the cryptographic primitives the SDK needs. Which
// bytes get encrypted, signed, split, or compared is envelope logic and
// stays in the SDK; a gateway only executes the operations, so alternate
// implementations (HSMs, test stubs) plug in without touching protocol
// rules.
//
// Public keys are PEM strings, always the service's published key. The
// private-key operations (RSADecrypt, Sign) use the gateway's own key
// material.
type CryptoGateway interface {
	// RSAEncrypt encrypts plaintext under a PEM public key.
	RSAEncrypt(plaintext []byte, publicKey string) ([]byte, error)

	// RSADecrypt decrypts ciphertext with the gateway's private key.
	RSADecrypt(ciphertext []byte) ([]byte, error)

	// AESDecrypt decrypts an AES ciphertext with an explicit key and IV.
	AESDecrypt(ciphertext, key, iv []byte) ([]byte, error)

	// Sign signs data with the gateway's private key.
	Sign(data []byte) ([]byte, error)

	// VerifySignature checks a signature over data against a PEM public
	// key; nil means valid.
	VerifySignature(signature, data []byte, publicKey string) error
}
