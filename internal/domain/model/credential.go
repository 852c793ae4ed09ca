package model

// AdminCredential is the single shared admin credential. PasswordHash holds a
// hex SHA-256 digest, or a bcrypt hash when the bcrypt hasher is configured.
type AdminCredential struct {
	PasswordHash string `json:"password_hash"`
}
