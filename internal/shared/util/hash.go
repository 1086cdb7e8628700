package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// OwnerKey maps a user ID to the directory segment its uploads live under.
func OwnerKey(ownerID string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(ownerID)))
	return hex.EncodeToString(sum[:])
}
