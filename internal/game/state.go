package game

import (
	"time"

	"github.com/TayDa64/CryptoEmpire/internal/catalog"
)

type Asset struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Quantity    float64            `json:"quantity"`
	Price       float64            `json:"price"`
	IsNFT       bool               `json:"is_nft,omitempty"`
	IsCraftable bool               `json:"is_craftable,omitempty"`
	Ingredients map[string]float64 `json:"ingredients,omitempty"`
}

type Location struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	PriceMultiplier float64 `json:"price_multiplier"`
}

type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

type MarketTrend struct {
	AssetID  string         `json:"asset_id"`
	Trend    TrendDirection `json:"trend"`
	Strength int            `json:"strength"`
}

// ActiveEvent is the transient currently-active market event. The price
// transform itself lives in the catalog, keyed by ID.
type ActiveEvent struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Achieved    bool   `json:"achieved"`
}

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
)

type Notification struct {
	ID      int64    `json:"id"`
	Message string   `json:"message"`
	Type    Severity `json:"type"`
}

// MiningOperation is an in-flight timed mining task. The ID disambiguates
// concurrent operations for the same asset that share a start time.
type MiningOperation struct {
	ID        string        `json:"id"`
	AssetID   string        `json:"asset_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// State is the aggregate all engines read and mutate. Commits replace it as
// a whole under the service mutex; consumers only ever see deep copies.
type State struct {
	Assets           []Asset           `json:"assets"`
	CurrentLocation  Location          `json:"current_location"`
	Funds            float64           `json:"funds"`
	SelectedAssetID  string            `json:"selected_asset_id,omitempty"`
	TradeQuantity    int64             `json:"trade_quantity"`
	Level            int               `json:"level"`
	Experience       int               `json:"experience"`
	ActiveEvent      *ActiveEvent      `json:"active_event,omitempty"`
	Achievements     []Achievement     `json:"achievements"`
	TotalTrades      int64             `json:"total_trades"`
	Notifications    []Notification    `json:"notifications"`
	MiningOperations []MiningOperation `json:"mining_operations"`
	MarketTrends     []MarketTrend     `json:"market_trends"`
}

func newState() State {
	defs := catalog.Assets()
	assets := make([]Asset, 0, len(defs))
	trends := make([]MarketTrend, 0, len(defs))
	for _, d := range defs {
		assets = append(assets, Asset{
			ID:          d.ID,
			Name:        d.Name,
			Quantity:    d.Quantity,
			Price:       d.Price,
			IsNFT:       d.IsNFT,
			IsCraftable: d.IsCraftable,
			Ingredients: d.Ingredients,
		})
		trends = append(trends, MarketTrend{AssetID: d.ID, Trend: TrendStable, Strength: 0})
	}

	achDefs := catalog.Achievements()
	achievements := make([]Achievement, 0, len(achDefs))
	for _, d := range achDefs {
		achievements = append(achievements, Achievement{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
		})
	}

	start := catalog.Locations()[0]
	return State{
		Assets: assets,
		CurrentLocation: Location{
			ID:              start.ID,
			Name:            start.Name,
			PriceMultiplier: start.PriceMultiplier,
		},
		Funds:        StartingFunds,
		Level:        1,
		Achievements: achievements,
		MarketTrends: trends,
	}
}

// clone deep-copies the state so snapshots never alias live slices.
func (st State) clone() State {
	out := st
	out.Assets = make([]Asset, len(st.Assets))
	copy(out.Assets, st.Assets)
	out.Achievements = make([]Achievement, len(st.Achievements))
	copy(out.Achievements, st.Achievements)
	out.Notifications = make([]Notification, len(st.Notifications))
	copy(out.Notifications, st.Notifications)
	out.MiningOperations = make([]MiningOperation, len(st.MiningOperations))
	copy(out.MiningOperations, st.MiningOperations)
	out.MarketTrends = make([]MarketTrend, len(st.MarketTrends))
	copy(out.MarketTrends, st.MarketTrends)
	if st.ActiveEvent != nil {
		ev := *st.ActiveEvent
		out.ActiveEvent = &ev
	}
	return out
}

func (st *State) asset(id string) *Asset {
	for i := range st.Assets {
		if st.Assets[i].ID == id {
			return &st.Assets[i]
		}
	}
	return nil
}

func (st *State) trend(assetID string) *MarketTrend {
	for i := range st.MarketTrends {
		if st.MarketTrends[i].AssetID == assetID {
			return &st.MarketTrends[i]
		}
	}
	return nil
}
