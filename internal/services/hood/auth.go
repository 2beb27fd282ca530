package hood

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// Credentials authenticate every request. Hood expects the account password
// as an MD5 hex digest, never in clear.
type Credentials struct {
	AccountName  string
	PasswordHash string
}

// NewCredentials prefers a precomputed digest and hashes the clear password
// otherwise.
func NewCredentials(accountName, password, passwordHash string) Credentials {
	hash := strings.ToLower(strings.TrimSpace(passwordHash))
	if hash == "" {
		hash = HashPassword(password)
	}
	return Credentials{AccountName: accountName, PasswordHash: hash}
}

// HashPassword returns the lowercase MD5 hex digest of password.
func HashPassword(password string) string {
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}
