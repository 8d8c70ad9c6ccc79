package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*"

// GenerateReferralCode builds a code like AMB-JOHN2024001 from the
// ambassador's name, the current year and a random 3-digit suffix. Callers
// must still check the code for uniqueness before use.
func GenerateReferralCode(name string) string {
	var letters strings.Builder
	for _, r := range strings.ToUpper(name) {
		if r >= 'A' && r <= 'Z' {
			letters.WriteRune(r)
		}
		if letters.Len() >= 4 {
			break
		}
	}

	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	suffix := int64(0)
	if err == nil {
		suffix = n.Int64()
	}

	return fmt.Sprintf("AMB-%s%d%03d", letters.String(), time.Now().Year(), suffix)
}

// GeneratePassword creates a random 12-character initial password
func GeneratePassword() string {
	password := make([]byte, 12)
	for i := range password {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordCharset))))
		if err != nil {
			n = big.NewInt(int64(i) % int64(len(passwordCharset)))
		}
		password[i] = passwordCharset[n.Int64()]
	}
	return string(password)
}
