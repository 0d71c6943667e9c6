package csrf

import (
	"github.com/tech-arch1tect/persistauth/config"
	"github.com/tech-arch1tect/persistauth/crypto"
)

// Guard issues anti-forgery tokens and compares them in constant time. It is
// transport-agnostic: where the token travels (header, form field) is the
// caller's decision.
type Guard struct {
	tokenLength int
}

func NewGuard(cfg *config.CSRFConfig) *Guard {
	length := crypto.DefaultTokenLength
	if cfg != nil && cfg.TokenLength > 0 {
		length = cfg.TokenLength
	}
	return &Guard{tokenLength: length}
}

func (g *Guard) Issue() (string, error) {
	return crypto.GenerateTokenWithLength(g.tokenLength)
}

// Verify reports whether the presented token matches the expected one. Empty
// or absent values never verify; malformed input yields false, never an error.
func (g *Guard) Verify(presented, expected string) bool {
	if presented == "" || expected == "" {
		return false
	}
	return crypto.ConstantTimeEquals(presented, expected)
}
