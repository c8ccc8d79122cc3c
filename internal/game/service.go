package game

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TayDa64/CryptoEmpire/internal/catalog"
	"github.com/TayDa64/CryptoEmpire/internal/history"
)

// Service owns the single game-state cell. Every mutation — user actions,
// periodic ticks, deferred completions — is computed and committed under one
// mutex, so concurrent timelines never interleave field-by-field. Achievement
// re-evaluation and notification appends happen inside the same commit that
// triggered them.
type Service struct {
	log      *slog.Logger
	sched    Scheduler
	clock    Clock
	hist     *history.Recorder
	eventTTL time.Duration

	mu        sync.Mutex
	rand      *mathrand.Rand
	st        State
	notifySeq int64
	eventSeq  int64
}

// NewService builds a service seeded from the catalog. logger may be nil;
// hist may be nil to disable price-history recording; eventTTL <= 0 selects
// the default 5s expiry.
func NewService(logger *slog.Logger, hist *history.Recorder, eventTTL time.Duration) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if eventTTL <= 0 {
		eventTTL = 5 * time.Second
	}
	return &Service{
		log:      logger,
		sched:    timerScheduler{},
		clock:    realClock{},
		hist:     hist,
		eventTTL: eventTTL,
		rand:     mathrand.New(mathrand.NewSource(time.Now().UnixNano())),
		st:       newState(),
	}
}

// Snapshot returns a deep copy of the current state for rendering.
func (s *Service) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.clone()
}

// Run drives the two periodic timelines until ctx is cancelled. Mining
// completions and event expiries are scheduled individually and are not tied
// to this loop.
func (s *Service) Run(ctx context.Context, marketEvery, eventEvery time.Duration) {
	market := time.NewTicker(marketEvery)
	defer market.Stop()
	events := time.NewTicker(eventEvery)
	defer events.Stop()

	s.log.Info("engine started", "market_tick_every", marketEvery.String(), "event_tick_every", eventEvery.String())
	for {
		select {
		case <-ctx.Done():
			s.log.Info("engine stopped")
			return
		case <-market.C:
			if err := s.MarketTick(ctx); err != nil {
				s.log.Error("market tick failed", "err", err)
			}
		case <-events.C:
			s.EventTick()
		}
	}
}

// MarketTick perturbs every asset price using the trend in force, then draws
// a fresh trend set. Prices never drop below MinAssetPrice. The new prices
// are appended to the history store when one is configured.
func (s *Service) MarketTick(ctx context.Context) error {
	s.mu.Lock()
	now := s.clock.Now()
	for i := range s.st.Assets {
		a := &s.st.Assets[i]
		var trendMultiplier float64
		if t := s.st.trend(a.ID); t != nil {
			trendMultiplier = direction(t.Trend) * float64(t.Strength) / 10
		}
		noise := (s.rand.Float64() - 0.5) * 0.1
		a.Price = math.Max(MinAssetPrice, a.Price*(1+noise+trendMultiplier))
	}

	trends := make([]MarketTrend, 0, len(s.st.Assets))
	for _, a := range s.st.Assets {
		trends = append(trends, MarketTrend{
			AssetID:  a.ID,
			Trend:    s.drawTrend(),
			Strength: s.rand.Intn(5) + 1,
		})
	}
	s.st.MarketTrends = trends

	points := make([]history.Point, 0, len(s.st.Assets))
	for _, a := range s.st.Assets {
		points = append(points, history.Point{AssetID: a.ID, TickAt: now, Price: a.Price})
	}
	s.mu.Unlock()

	if err := s.hist.Record(ctx, points); err != nil {
		return fmt.Errorf("record prices: %w", err)
	}
	return nil
}

func (s *Service) drawTrend() TrendDirection {
	switch u := s.rand.Float64(); {
	case u > 0.6:
		return TrendUp
	case u > 0.3:
		return TrendDown
	default:
		return TrendStable
	}
}

// EventTick picks a random catalog event, applies its price transform, marks
// it active and schedules its expiry. A tick while an event is active simply
// replaces it; the superseded expiry timer becomes a no-op.
func (s *Service) EventTick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := catalog.Events()
	ev := events[s.rand.Intn(len(events))]
	for i := range s.st.Assets {
		a := &s.st.Assets[i]
		if ev.AppliesTo(a.ID, a.IsNFT) {
			a.Price *= ev.Factor
		}
	}
	s.st.ActiveEvent = &ActiveEvent{ID: ev.ID, Name: ev.Name, Description: ev.Description}
	s.eventSeq++
	seq := s.eventSeq
	s.notifyLocked(ev.Name, ev.Description, SeverityWarning)
	s.reevaluateLocked()

	s.sched.After(s.eventTTL, func() { s.expireEvent(seq) })
}

func (s *Service) expireEvent(seq int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.eventSeq == seq {
		s.st.ActiveEvent = nil
	}
}

// SelectLocation moves the player, scales every price by the location's
// multiplier and logs the move.
func (s *Service) SelectLocation(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc, ok := catalog.LocationByID(id)
	if !ok {
		s.notifyLocked("Travel Failed", "Unknown location!", SeverityError)
		return ErrUnknownLocation
	}
	s.st.CurrentLocation = Location{ID: loc.ID, Name: loc.Name, PriceMultiplier: loc.PriceMultiplier}
	for i := range s.st.Assets {
		s.st.Assets[i].Price *= loc.PriceMultiplier
	}
	s.notifyLocked("Location Changed", fmt.Sprintf("You've moved to %s", loc.Name), SeverityInfo)
	return nil
}

// SelectAsset marks the asset the next trade applies to and resets the
// pending quantity.
func (s *Service) SelectAsset(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st.asset(id) == nil {
		s.notifyLocked("Selection Failed", "Unknown asset!", SeverityError)
		return ErrUnknownAsset
	}
	s.st.SelectedAssetID = id
	s.st.TradeQuantity = 0
	return nil
}

// SetTradeQuantity sets the pending quantity for the next trade.
func (s *Service) SetTradeQuantity(q int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.TradeQuantity = q
}

// Trade executes a buy or sell of the selected asset at the current price.
// Rejections leave the state untouched apart from an error notification.
func (s *Service) Trade(isBuying bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st.SelectedAssetID == "" {
		s.notifyLocked("Trade Failed", "Select an asset first!", SeverityError)
		return ErrNoAssetSelected
	}
	a := s.st.asset(s.st.SelectedAssetID)
	if a == nil {
		s.notifyLocked("Trade Failed", "Unknown asset!", SeverityError)
		return ErrUnknownAsset
	}
	q := s.st.TradeQuantity
	if q <= 0 {
		s.notifyLocked("Trade Failed", "Quantity must be positive!", SeverityError)
		return ErrInvalidQuantity
	}

	cost := a.Price * float64(q)
	if isBuying && cost > s.st.Funds {
		s.notifyLocked("Trade Failed", "Not enough funds!", SeverityError)
		return ErrInsufficientFunds
	}
	if !isBuying && float64(q) > a.Quantity {
		s.notifyLocked("Trade Failed", "Not enough assets to sell!", SeverityError)
		return ErrInsufficientInventory
	}

	if isBuying {
		a.Quantity += float64(q)
		s.st.Funds -= cost
	} else {
		a.Quantity -= float64(q)
		s.st.Funds += cost
	}
	s.st.TotalTrades++
	s.st.TradeQuantity = 0
	s.st.Experience += int(math.Floor(cost / TradeExperienceDivisor))

	// One level per trade, even when the gain would cover several.
	if s.st.Experience >= s.st.Level*ExperiencePerLevel {
		s.st.Experience -= s.st.Level * ExperiencePerLevel
		s.st.Level++
		s.notifyLocked("Level Up!", fmt.Sprintf("You've reached level %d!", s.st.Level), SeveritySuccess)
	}

	verb := "Sold"
	if isBuying {
		verb = "Bought"
	}
	s.notifyLocked("Trade Successful", fmt.Sprintf("%s %d %s", verb, q, a.Name), SeveritySuccess)
	s.reevaluateLocked()
	return nil
}

// Craft consumes the target's ingredients and produces one unit. Deductions
// are all-or-nothing: a single shortfall leaves every quantity unchanged.
func (s *Service) Craft(assetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.st.asset(assetID)
	if a == nil {
		s.notifyLocked("Crafting Failed", "Unknown asset!", SeverityError)
		return ErrUnknownAsset
	}
	if !a.IsCraftable || len(a.Ingredients) == 0 {
		s.notifyLocked("Crafting Failed", fmt.Sprintf("%s cannot be crafted!", a.Name), SeverityError)
		return ErrNotCraftable
	}
	for id, required := range a.Ingredients {
		ing := s.st.asset(id)
		if ing == nil || ing.Quantity < required {
			s.notifyLocked("Crafting Failed", "Not enough ingredients!", SeverityError)
			return ErrMissingIngredients
		}
	}

	for id, required := range a.Ingredients {
		s.st.asset(id).Quantity -= required
	}
	a.Quantity++
	s.notifyLocked("Crafting Successful", fmt.Sprintf("Crafted 1 %s", a.Name), SeveritySuccess)
	s.reevaluateLocked()
	return nil
}

// StartMining registers a timed operation for the asset and schedules its
// completion. Operations run to completion; there is no cancellation.
func (s *Service) StartMining(assetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.st.asset(assetID)
	if a == nil {
		s.notifyLocked("Mining Failed", "Unknown asset!", SeverityError)
		return ErrUnknownAsset
	}
	policy, ok := catalog.MiningPolicyFor(assetID)
	if !ok {
		s.notifyLocked("Mining Failed", fmt.Sprintf("%s cannot mine!", a.Name), SeverityError)
		return ErrInvalidMiningTarget
	}

	op := MiningOperation{
		ID:        uuid.NewString(),
		AssetID:   assetID,
		StartedAt: s.clock.Now(),
		Duration:  policy.Duration,
	}
	s.st.MiningOperations = append(s.st.MiningOperations, op)
	s.reevaluateLocked()

	s.sched.After(policy.Duration, func() { s.completeMining(op.ID) })
	return nil
}

// completeMining fires once per started operation. It re-reads the state at
// fire time, credits the reward asset and removes exactly the one operation
// identified by opID.
func (s *Service) completeMining(opID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.st.MiningOperations {
		if s.st.MiningOperations[i].ID == opID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	op := s.st.MiningOperations[idx]
	s.st.MiningOperations = append(s.st.MiningOperations[:idx], s.st.MiningOperations[idx+1:]...)

	policy, ok := catalog.MiningPolicyFor(op.AssetID)
	if !ok {
		return
	}
	if reward := s.st.asset(catalog.MiningRewardAssetID); reward != nil {
		reward.Quantity += policy.Reward
	}
	name := op.AssetID
	if rig := s.st.asset(op.AssetID); rig != nil {
		name = rig.Name
	}
	s.notifyLocked("Mining Complete", fmt.Sprintf("Mined %g BTC with your %s", policy.Reward, name), SeveritySuccess)
	s.reevaluateLocked()
}

// reevaluateLocked flips any unachieved achievement whose condition now
// holds. Achieved flags are monotonic and never reset.
func (s *Service) reevaluateLocked() {
	for _, def := range catalog.Achievements() {
		for i := range s.st.Achievements {
			a := &s.st.Achievements[i]
			if a.ID != def.ID || a.Achieved {
				continue
			}
			if s.conditionMetLocked(def) {
				a.Achieved = true
				s.notifyLocked("Achievement Unlocked!", a.Name, SeveritySuccess)
			}
		}
	}
}

func (s *Service) conditionMetLocked(def catalog.AchievementDef) bool {
	switch def.Condition {
	case catalog.CondTotalTradesAbove:
		return float64(s.st.TotalTrades) > def.Threshold
	case catalog.CondFundsAbove:
		return s.st.Funds > def.Threshold
	case catalog.CondNFTQuantityAtLeast:
		var total float64
		for _, a := range s.st.Assets {
			if a.IsNFT {
				total += a.Quantity
			}
		}
		return total >= def.Threshold
	case catalog.CondAssetQuantityAbove:
		a := s.st.asset(def.AssetID)
		return a != nil && a.Quantity > def.Threshold
	default:
		return false
	}
}

func (s *Service) notifyLocked(title, message string, sev Severity) {
	s.notifySeq++
	n := Notification{
		ID:      s.notifySeq,
		Message: fmt.Sprintf("%s: %s", title, message),
		Type:    sev,
	}
	s.st.Notifications = append([]Notification{n}, s.st.Notifications...)
	if len(s.st.Notifications) > MaxNotifications {
		s.st.Notifications = s.st.Notifications[:MaxNotifications]
	}
}
