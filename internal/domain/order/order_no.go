package order

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// GenerateOrderNo returns "BP" + yyyymmddhhmmss + 6 random digits.
// Uniqueness is enforced by the store's unique index; a clash surfaces as a failed insert.
func GenerateOrderNo() string {
	return fmt.Sprintf("BP%s%06d", time.Now().Format("20060102150405"), rand.IntN(1_000_000))
}
