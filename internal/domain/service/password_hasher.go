// Package service holds the ports the usecases call into: senders, hashing,
// tokens, archives and event publishing.
package service

// PasswordHasher guards the single admin account configured under auth.
type PasswordHasher interface {
	// Hash produces the value stored in auth.adminPasswordHash.
	Hash(password string) (string, error)

	Check(password, hash string) bool
}
