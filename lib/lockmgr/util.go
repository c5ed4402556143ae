package lockmgr

import (
	"crypto/rand"
	"encoding/hex"
)

const (
	ownerIDLength = 32 // 256 bit
)

// generateOwnerID creates a new unique owner ID
// The owner ID is a random byte slice of 256 bits.
func generateOwnerID() ([]byte, error) {
	randomBytes := make([]byte, ownerIDLength)
	_, err := rand.Read(randomBytes)
	return randomBytes, err
}

// shortID returns a short, printable prefix of an owner ID for log lines
func shortID(ownerID []byte) string {
	if len(ownerID) > 4 {
		ownerID = ownerID[:4]
	}
	return hex.EncodeToString(ownerID)
}
