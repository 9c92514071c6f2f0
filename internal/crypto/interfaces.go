package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/sealer_mock.go -package=mock

// Sealer encrypts and decrypts the payload of a portable configuration
// string. The key travels inside the sealed blob, so anyone holding the
// blob can open it — the secrecy boundary is possession of the string,
// not cryptographic access control against its recipient. Sealing still
// matters: it keeps the payload opaque in transit logs, clipboards and
// chat histories, and the AEAD tag rejects any corruption or truncation.
type Sealer interface {
	// Seal encrypts plaintext under a fresh random key and returns the
	// blob key ‖ nonce ‖ ciphertext.
	Seal(plaintext []byte) ([]byte, error)

	// Open decrypts a blob produced by Seal. Returns an error if the blob
	// is too short, corrupted, or fails authentication.
	Open(blob []byte) ([]byte, error)
}
