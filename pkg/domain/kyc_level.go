package domain

import "fmt"

// KYCLevel is the ordered identity-verification tier. Ordering is significant:
// None < Basic < Enhanced < Institutional, and policy checks compare levels
// numerically.
type KYCLevel uint8

const (
	LevelNone KYCLevel = iota
	LevelBasic
	LevelEnhanced
	LevelInstitutional
)

// ParseKYCLevel validates a wire-level numeric tier.
func ParseKYCLevel(v uint8) (KYCLevel, error) {
	if v > uint8(LevelInstitutional) {
		return LevelNone, fmt.Errorf("unknown kyc level %d", v)
	}
	return KYCLevel(v), nil
}

func (l KYCLevel) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelBasic:
		return "basic"
	case LevelEnhanced:
		return "enhanced"
	case LevelInstitutional:
		return "institutional"
	default:
		return fmt.Sprintf("kyclevel(%d)", uint8(l))
	}
}
