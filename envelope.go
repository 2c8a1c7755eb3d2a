package launchkey

import (
	"encoding/base64"
	"encoding/json"
	"time"
)

// serviceTimeLayout is the timestamp format the service speaks, always in
// UTC.
const serviceTimeLayout = "2006-01-02 15:04:05"

// aesIVSize is the length of the IV segment trailing the AES key inside a
// white-label cipher block.
const aesIVSize = 16

// envelope seals outbound request credentials and opens encrypted
// response payloads. It owns the byte-level protocol decisions (what is
// serialized, what is encrypted, what a signature covers, which segment
// of a cipher block is the IV) and delegates the primitives to a
// CryptoGateway.
type envelope struct {
	secretKey string
	crypto    CryptoGateway
	now       func() time.Time
}

// credentialStamp is the plaintext sealed into every request: the API
// secret plus a freshness timestamp the service checks against its clock.
type credentialStamp struct {
	Secret  string `json:"secret"`
	Stamped string `json:"stamped"`
}

// encryptedSecret seals {secret, stamped-now} under the service public
// key and returns the base64 ciphertext, the secret_key parameter of
// every authenticated request.
func (e *envelope) encryptedSecret(publicKey string) (string, []byte, error) {
	stamp, err := json.Marshal(credentialStamp{
		Secret:  e.secretKey,
		Stamped: e.now().UTC().Format(serviceTimeLayout),
	})
	if err != nil {
		return "", nil, &RequestError{Message: "marshal credentials", Err: err}
	}

	ciphertext, err := e.crypto.RSAEncrypt(stamp, publicKey)
	if err != nil {
		return "", nil, &RequestError{Message: "encrypt credentials", Err: err}
	}

	return base64.StdEncoding.EncodeToString(ciphertext), ciphertext, nil
}

// credentials builds the secret_key parameter and its signature for one
// request. The signature covers the raw ciphertext bytes, not their
// base64 form.
func (e *envelope) credentials(publicKey string) (secretKey, signature string, err error) {
	secretKey, ciphertext, err := e.encryptedSecret(publicKey)
	if err != nil {
		return "", "", err
	}

	sig, err := e.crypto.Sign(ciphertext)
	if err != nil {
		return "", "", &RequestError{Message: "sign credentials", Err: err}
	}

	return secretKey, base64.StdEncoding.EncodeToString(sig), nil
}

// signBody signs a complete request body. White-label user creation signs
// the body it posts instead of the encrypted credentials.
func (e *envelope) signBody(body []byte) (string, error) {
	sig, err := e.crypto.Sign(body)
	if err != nil {
		return "", &RequestError{Message: "sign request body", Err: err}
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// authPackage is the decrypted contents of an auth field. Pointer fields
// distinguish absent keys from empty values; the validations below depend
// on presence, not content.
type authPackage struct {
	AuthRequest string  `json:"auth_request"`
	Response    *string `json:"response"`
	DeviceID    *string `json:"device_id"`
	UserHash    *string `json:"user_hash"`
}

// authorized reports the user's verdict.
func (p *authPackage) authorized() bool {
	return p.Response != nil && *p.Response == "true"
}

// openAuth decrypts an auth payload and checks the one invariant shared
// by poll and callback: the request id sealed inside must be the one the
// caller is asking about.
func (e *envelope) openAuth(encrypted, authRequest string) (*authPackage, error) {
	raw, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return nil, &ResponseError{Message: "auth package is not valid base64", Err: err}
	}

	plaintext, err := e.crypto.RSADecrypt(raw)
	if err != nil {
		return nil, &ResponseError{Message: "auth package decryption failed", Err: err}
	}

	var pkg authPackage
	if err := json.Unmarshal(plaintext, &pkg); err != nil {
		return nil, &ResponseError{Message: "auth package is not valid JSON", Err: err}
	}

	if pkg.AuthRequest != authRequest {
		return nil, &ResponseError{Message: "auth package is for a different auth request"}
	}

	return &pkg, nil
}

// openPollAuth opens a poll payload. Beyond the shared id check, the
// outer document must carry the user hash, the package must carry the
// response verdict, and the package must NOT carry its own user hash.
// An embedded copy contradicts the protocol and is treated as tampering.
func (e *envelope) openPollAuth(encrypted, authRequest, outerUserHash string) (*authPackage, error) {
	if outerUserHash == "" {
		return nil, &ResponseError{Message: "poll response is missing user_hash"}
	}

	pkg, err := e.openAuth(encrypted, authRequest)
	if err != nil {
		return nil, err
	}

	if pkg.Response == nil {
		return nil, &ResponseError{Message: "auth package is missing response"}
	}
	if pkg.UserHash != nil {
		return nil, &ResponseError{Message: "auth package carries an embedded user_hash"}
	}

	return pkg, nil
}

// openCallbackAuth opens an auth callback payload. Callbacks additionally
// identify the responding device, so both the verdict and the device id
// must be present.
func (e *envelope) openCallbackAuth(encrypted, authRequest string) (*authPackage, error) {
	pkg, err := e.openAuth(encrypted, authRequest)
	if err != nil {
		return nil, err
	}

	if pkg.Response == nil {
		return nil, &ResponseError{Message: "auth package is missing response"}
	}
	if pkg.DeviceID == nil {
		return nil, &ResponseError{Message: "auth package is missing device_id"}
	}

	return pkg, nil
}

// openCipherData opens the two-layer white-label creation payload. The
// cipher field holds an RSA block concatenating the AES key and IV (the
// IV is the trailing 16 bytes, whatever the key length) and the data
// field holds the AES ciphertext of the actual profile document.
func (e *envelope) openCipherData(cipher, data string) ([]byte, error) {
	cipherRaw, err := base64.StdEncoding.DecodeString(cipher)
	if err != nil {
		return nil, &ResponseError{Message: "cipher is not valid base64", Err: err}
	}

	keyIV, err := e.crypto.RSADecrypt(cipherRaw)
	if err != nil {
		return nil, &ResponseError{Message: "cipher decryption failed", Err: err}
	}
	if len(keyIV) <= aesIVSize {
		return nil, &ResponseError{Message: "cipher block is too short"}
	}
	key, iv := keyIV[:len(keyIV)-aesIVSize], keyIV[len(keyIV)-aesIVSize:]

	dataRaw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, &ResponseError{Message: "data is not valid base64", Err: err}
	}

	plaintext, err := e.crypto.AESDecrypt(dataRaw, key, iv)
	if err != nil {
		return nil, &ResponseError{Message: "data decryption failed", Err: err}
	}

	return plaintext, nil
}
