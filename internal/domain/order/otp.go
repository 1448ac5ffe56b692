package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// otpMax bounds the generated pickup code to six digits.
var otpMax = big.NewInt(1_000_000)

// NewOTP generates the short numeric code customers quote at pickup.
// It is a display identifier, not an authentication secret.
func NewOTP() string {
	n, err := rand.Int(rand.Reader, otpMax)
	if err != nil {
		return fmt.Sprintf("%06d", time.Now().UnixNano()%1_000_000)
	}
	return fmt.Sprintf("%06d", n.Int64())
}
