// Package catalog holds the static reference data the simulation is seeded
// from: tradable assets, market locations, disruptive events, achievements,
// and the mining policy table. The data here is immutable; engines copy what
// they need into game state.
package catalog

import "time"

type AssetDef struct {
	ID          string
	Name        string
	Quantity    float64
	Price       float64
	IsNFT       bool
	IsCraftable bool
	Ingredients map[string]float64
}

type LocationDef struct {
	ID              string
	Name            string
	PriceMultiplier float64
}

// EffectKind names the price transform an event performs. Keeping the
// transform as a tag instead of a closure keeps event defs serializable and
// the transform set exhaustively testable.
type EffectKind int

const (
	EffectAllAssets EffectKind = iota
	EffectNFTsOnly
	EffectAssetSet
)

type EventDef struct {
	ID          string
	Name        string
	Description string
	Effect      EffectKind
	Factor      float64
	AssetIDs    []string // EffectAssetSet only
}

// AppliesTo reports whether the event's price transform touches the asset.
func (e EventDef) AppliesTo(assetID string, isNFT bool) bool {
	switch e.Effect {
	case EffectAllAssets:
		return true
	case EffectNFTsOnly:
		return isNFT
	case EffectAssetSet:
		for _, id := range e.AssetIDs {
			if id == assetID {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// ConditionKind names an achievement unlock predicate. The game package
// interprets these against the live state.
type ConditionKind int

const (
	CondTotalTradesAbove ConditionKind = iota
	CondFundsAbove
	CondNFTQuantityAtLeast
	CondAssetQuantityAbove
)

type AchievementDef struct {
	ID          string
	Name        string
	Description string
	Condition   ConditionKind
	Threshold   float64
	AssetID     string // CondAssetQuantityAbove only
}

type MiningPolicy struct {
	Duration time.Duration
	Reward   float64
}

// MiningRewardAssetID is the asset credited when any mining operation
// completes.
const MiningRewardAssetID = "btc"

var assets = []AssetDef{
	{ID: "btc", Name: "Bitcoin", Quantity: 1, Price: 30000},
	{ID: "eth", Name: "Ethereum", Quantity: 5, Price: 2000},
	{ID: "nft1", Name: "Virtual Real Estate", Quantity: 0, Price: 5000, IsNFT: true},
	{ID: "nft2", Name: "Crypto Art", Quantity: 0, Price: 1000, IsNFT: true},
	{ID: "gpu", Name: "GPU", Quantity: 0, Price: 500},
	{ID: "asic", Name: "ASIC Miner", Quantity: 0, Price: 2000},
	{ID: "miningRig", Name: "Mining Rig", Quantity: 0, Price: 5000, IsCraftable: true, Ingredients: map[string]float64{"gpu": 4, "asic": 1}},
}

var locations = []LocationDef{
	{ID: "market1", Name: "Crypto Exchange", PriceMultiplier: 1},
	{ID: "market2", Name: "NFT Marketplace", PriceMultiplier: 1.2},
	{ID: "market3", Name: "DeFi Platform", PriceMultiplier: 0.9},
	{ID: "market4", Name: "Mining Equipment Store", PriceMultiplier: 1.1},
}

var events = []EventDef{
	{
		ID:          "bull_run",
		Name:        "Bull Run",
		Description: "A sudden surge in crypto prices!",
		Effect:      EffectAllAssets,
		Factor:      1.5,
	},
	{
		ID:          "market_crash",
		Name:        "Market Crash",
		Description: "Crypto prices are plummeting!",
		Effect:      EffectAllAssets,
		Factor:      0.6,
	},
	{
		ID:          "nft_boom",
		Name:        "NFT Boom",
		Description: "NFTs are gaining popularity!",
		Effect:      EffectNFTsOnly,
		Factor:      2,
	},
	{
		ID:          "mining_difficulty",
		Name:        "Mining Difficulty Increase",
		Description: "Mining equipment is less effective!",
		Effect:      EffectAssetSet,
		Factor:      0.8,
		AssetIDs:    []string{"gpu", "asic", "miningRig"},
	},
}

var achievements = []AchievementDef{
	{
		ID:          "first_trade",
		Name:        "First Trade",
		Description: "Complete your first trade",
		Condition:   CondTotalTradesAbove,
		Threshold:   0,
	},
	{
		ID:          "crypto_millionaire",
		Name:        "Crypto Millionaire",
		Description: "Accumulate over $1,000,000 in funds",
		Condition:   CondFundsAbove,
		Threshold:   1_000_000,
	},
	{
		ID:          "nft_collector",
		Name:        "NFT Collector",
		Description: "Own at least 5 NFTs",
		Condition:   CondNFTQuantityAtLeast,
		Threshold:   5,
	},
	{
		ID:          "master_crafter",
		Name:        "Master Crafter",
		Description: "Craft your first Mining Rig",
		Condition:   CondAssetQuantityAbove,
		Threshold:   0,
		AssetID:     "miningRig",
	},
}

var miningPolicies = map[string]MiningPolicy{
	"gpu":       {Duration: 60 * time.Second, Reward: 0.0001},
	"asic":      {Duration: 30 * time.Second, Reward: 0.0005},
	"miningRig": {Duration: 15 * time.Second, Reward: 0.001},
}

// Assets returns the seed asset definitions. The slice is a copy; ingredient
// maps are shared and must not be mutated by callers.
func Assets() []AssetDef {
	out := make([]AssetDef, len(assets))
	copy(out, assets)
	return out
}

func Locations() []LocationDef {
	out := make([]LocationDef, len(locations))
	copy(out, locations)
	return out
}

func LocationByID(id string) (LocationDef, bool) {
	for _, loc := range locations {
		if loc.ID == id {
			return loc, true
		}
	}
	return LocationDef{}, false
}

func Events() []EventDef {
	out := make([]EventDef, len(events))
	copy(out, events)
	return out
}

func Achievements() []AchievementDef {
	out := make([]AchievementDef, len(achievements))
	copy(out, achievements)
	return out
}

// MiningPolicyFor maps an asset to its mining duration and BTC reward. The
// second return is false for assets without a mining policy.
func MiningPolicyFor(assetID string) (MiningPolicy, bool) {
	p, ok := miningPolicies[assetID]
	return p, ok
}
