package game

import "errors"

const (
	// StartingFunds is the cash a fresh simulation begins with.
	StartingFunds = 10000.0

	// ExperiencePerLevel scales the level-up threshold: level × 1000.
	ExperiencePerLevel = 1000

	// TradeExperienceDivisor converts trade cost into experience points.
	TradeExperienceDivisor = 100

	// MaxNotifications bounds the rolling notification log.
	MaxNotifications = 5

	// MinAssetPrice is the floor no price tick may drop below.
	MinAssetPrice = 1.0
)

var (
	ErrInvalidQuantity       = errors.New("trade quantity must be positive")
	ErrInsufficientFunds     = errors.New("not enough funds")
	ErrInsufficientInventory = errors.New("not enough assets to sell")
	ErrMissingIngredients    = errors.New("not enough ingredients")
	ErrUnknownAsset          = errors.New("asset not found")
	ErrUnknownLocation       = errors.New("location not found")
	ErrNoAssetSelected       = errors.New("no asset selected")
	ErrNotCraftable          = errors.New("asset is not craftable")
	ErrInvalidMiningTarget   = errors.New("asset has no mining policy")
)

// direction maps a trend tag onto the sign of its price pressure.
func direction(t TrendDirection) float64 {
	switch t {
	case TrendUp:
		return 1
	case TrendDown:
		return -1
	default:
		return 0
	}
}
