package common

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strings"
	"unicode"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

// Slugify lowercases name and collapses every run of non-alphanumeric
// characters into a single sep, trimming leading and trailing separators.
// The result is stable: slugifying a slug returns it unchanged.
func Slugify(name, sep string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) && r < 128 || unicode.IsDigit(r) && r < 128 {
			if pending && b.Len() > 0 {
				b.WriteString(sep)
			}
			pending = false
			b.WriteRune(r)
		} else {
			pending = true
		}
	}
	return b.String()
}

// DiscountPercent computes the rounded discount percentage from price and
// sale price. A missing or non-positive sale price, a non-positive price, or
// a sale price above price all yield 0.
func DiscountPercent(price, salePrice float64) int {
	if price <= 0 || salePrice <= 0 || salePrice > price {
		return 0
	}
	return int(math.Round((price - salePrice) / price * 100))
}

func Sha256Hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
