// Package crypto provides the cryptographic primitives behind the SDK's
// default gateway: RSA envelope encryption for request credentials, RSA
// signatures over payloads, and AES decryption of white-label profile
// blocks.
//
// # Algorithm Suite
//
//   - RSA-OAEP (SHA-256): encrypts the credential envelope against the
//     service's published 2048-bit key and opens the key block of
//     white-label responses with the client key.
//
//   - RSA-PSS (SHA-256): signs outbound ciphertexts and request bodies,
//     and verifies service signatures on de-orbit notices.
//
//   - AES-CBC with PKCS#7 padding: decrypts the data block of white-label
//     responses. The key and IV arrive concatenated inside the RSA-encrypted
//     cipher block; splitting them is the caller's job.
//
// # Critical Security Notes
//
// Signature verification MUST be performed before a de-orbit payload is
// parsed. A payload whose signature does not verify is attacker-controlled
// input and must be discarded unread.
//
// Keep private keys secure. They should never be logged, transmitted in
// plaintext, or stored in version control.
//
// # Key Encoding
//
// Keys travel as PEM. [ParsePublicKey] accepts PKIX ("PUBLIC KEY") and
// PKCS#1 ("RSA PUBLIC KEY") blocks; [ParsePrivateKey] accepts PKCS#1
// ("RSA PRIVATE KEY") and PKCS#8 ("PRIVATE KEY") blocks. [GenerateKey],
// [EncodePrivateKey] and [EncodePublicKey] cover keypair provisioning.
package crypto
