package hash

// Hash turns a secret into a one-way digest and checks candidates against it.
type Hash interface {
	Hash(plaintext string) ([]byte, error)
	Verify(hashed, plaintext string) bool
}
