// Package codegen issues scan codes for people and join codes for teams.
package codegen

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const joinCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ScanCode returns a globally unique opaque code to print on a person's badge.
func ScanCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// JoinCode returns a random uppercase alphanumeric code of the given length.
func JoinCode(length int) string {
	var sb strings.Builder
	sb.Grow(length)
	limit := big.NewInt(int64(len(joinCodeCharset)))
	for i := 0; i < length; i++ {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			panic(err)
		}
		sb.WriteByte(joinCodeCharset[idx.Int64()])
	}
	return sb.String()
}

// JoinCodes returns a generator of fixed-length join codes.
func JoinCodes(length int) func() string {
	return func() string { return JoinCode(length) }
}
