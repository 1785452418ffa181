package outbound

// PasswordService is a one-way salted hasher with constant-time verification.
// The same primitive hashes passwords and refresh tokens.
type PasswordService interface {
	Hash(value string) (string, error)
	Verify(value, hash string) (bool, error)
	// VerifyDummy burns one hash comparison against a sentinel hash. The login
	// path calls it on the unknown-email branch so both failure branches cost
	// comparable time.
	VerifyDummy(value string)
}
