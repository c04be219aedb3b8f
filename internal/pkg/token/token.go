// Package token generates the opaque random identifiers used across the
// registration and payment flows: invoice IDs, join links and transaction IDs.
package token

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// Hex returns n random hexadecimal characters (lowercase).
func Hex(n int) string {
	buf := make([]byte, (n+1)/2)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms.
		panic(fmt.Sprintf("token: rand.Read failed: %v", err))
	}

	return hex.EncodeToString(buf)[:n]
}

// UpperHex returns n random hexadecimal characters (uppercase).
func UpperHex(n int) string {
	return strings.ToUpper(Hex(n))
}

// InvoiceID returns an identifier of the form INV-XXXXXXXX.
func InvoiceID() string {
	return "INV-" + UpperHex(8)
}

// TransactionID returns an identifier of the form TXN_XXXXXXXXXXXX.
func TransactionID() string {
	return "TXN_" + UpperHex(12)
}

// GatewayTransactionID returns an identifier of the form GW_XXXXXXXXXXXXXXXX.
func GatewayTransactionID() string {
	return "GW_" + UpperHex(16)
}

// OTP returns a 6-digit one-time passcode.
func OTP() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("token: rand.Read failed: %v", err))
	}

	n := binary.BigEndian.Uint32(buf) % 1000000

	return fmt.Sprintf("%06d", n)
}

// JoinLink returns a join URL with a 32 hex-char opaque suffix.
func JoinLink(baseURL string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + Hex(32)
}
