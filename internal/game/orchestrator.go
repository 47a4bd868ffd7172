// Package game drives a session through its yearly lifecycle.
// Flow per year: year_planning → bidding_open → market_clearing → year_complete
package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"capacity-market-sim/internal/clearing"
	"capacity-market-sim/internal/demand"
	"capacity-market-sim/internal/domain"
	"capacity-market-sim/internal/economics"
	"capacity-market-sim/internal/finance"
	"capacity-market-sim/internal/observability"
	"capacity-market-sim/internal/storage"
)

// ErrInvalidStateTransition is returned when an operation is attempted in a
// session state that does not allow it.
var ErrInvalidStateTransition = errors.New("invalid state transition")

// Orchestrator coordinates the yearly market cycle over the stores. Every
// operation validates the session state before touching anything, so a call
// out of order fails with ErrInvalidStateTransition and changes nothing.
type Orchestrator struct {
	sessions  storage.SessionStore
	utilities storage.UtilityStore
	plants    storage.PlantStore
	bids      storage.BidStore
	results   storage.ResultStore
	history   storage.ClearingHistoryStore

	verbose bool
}

// Options for creating an Orchestrator.
type Options struct {
	// Required stores
	SessionStore storage.SessionStore
	UtilityStore storage.UtilityStore
	PlantStore   storage.PlantStore
	BidStore     storage.BidStore
	ResultStore  storage.ResultStore

	// Optional append-only clearing history (nil disables recording)
	HistoryStore storage.ClearingHistoryStore

	Verbose bool
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	return &Orchestrator{
		sessions:  opts.SessionStore,
		utilities: opts.UtilityStore,
		plants:    opts.PlantStore,
		bids:      opts.BidStore,
		results:   opts.ResultStore,
		history:   opts.HistoryStore,
		verbose:   opts.Verbose,
	}
}

// CreateSession creates and persists a new session in the setup state.
func (o *Orchestrator) CreateSession(ctx context.Context, name, operatorID string, startYear, endYear int) (*domain.GameSession, error) {
	if endYear <= startYear {
		return nil, fmt.Errorf("end year %d must be after start year %d", endYear, startYear)
	}

	sess := domain.NewGameSession(name, operatorID, startYear, endYear)
	if err := o.sessions.Insert(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	o.log("created session %s (%s) %d-%d", sess.ID, name, startYear, endYear)
	return sess, nil
}

// RegisterUtility creates a utility while the session is still in setup.
func (o *Orchestrator) RegisterUtility(ctx context.Context, sessionID, username string, budget float64) (*domain.Utility, error) {
	sess, err := o.requireState(ctx, sessionID, domain.StateSetup)
	if err != nil {
		return nil, err
	}

	u := domain.NewUtility(username, domain.UserTypeUtility, budget)
	if err := o.utilities.Insert(ctx, u); err != nil {
		return nil, fmt.Errorf("register utility: %w", err)
	}
	o.log("session %s: registered utility %s (%s)", sess.ID, username, u.ID)
	return u, nil
}

// StartYearPlanning moves a session from setup into the first planning phase.
func (o *Orchestrator) StartYearPlanning(ctx context.Context, sessionID string) error {
	sess, err := o.requireState(ctx, sessionID, domain.StateSetup)
	if err != nil {
		return err
	}
	return o.transition(ctx, sess, domain.StateYearPlanning)
}

// BuildPlant instantiates a plant from its technology template during
// year_planning. Construction starts in the current year; commissioning and
// retirement follow from the template's construction and economic life
// spans. The full capital cost is committed through the owner's ledger
// before anything is persisted.
func (o *Orchestrator) BuildPlant(ctx context.Context, sessionID, utilityID, name string, tech domain.Technology, capacityMW float64) (*domain.Plant, error) {
	sess, err := o.requireState(ctx, sessionID, domain.StateYearPlanning)
	if err != nil {
		return nil, err
	}

	tmpl, err := domain.TemplateFor(tech)
	if err != nil {
		return nil, err
	}

	constructionStart := sess.CurrentYear
	commissioning := constructionStart + tmpl.ConstructionYears
	retirement := commissioning + tmpl.EconomicLifeYears

	plant, err := domain.NewPlantFromTemplate(utilityID, sessionID, name, tech, capacityMW,
		constructionStart, commissioning, retirement)
	if err != nil {
		return nil, err
	}

	utility, err := o.utilities.GetByID(ctx, utilityID)
	if err != nil {
		return nil, fmt.Errorf("build plant: %w", err)
	}
	if err := finance.CommitCapital(utility, plant.CapitalCostTotal); err != nil {
		return nil, fmt.Errorf("build plant %s: %w", name, err)
	}

	if err := o.plants.Insert(ctx, plant); err != nil {
		return nil, fmt.Errorf("build plant: %w", err)
	}
	if err := o.utilities.Update(ctx, utility); err != nil {
		return nil, fmt.Errorf("build plant: %w", err)
	}

	observability.RecordPlantBuilt(string(tech), plant.CapitalCostTotal)
	o.log("session %s: utility %s built %s %s %.0f MW, commissioning %d",
		sessionID, utilityID, tech, name, capacityMW, commissioning)
	return plant, nil
}

// ScheduleMaintenance marks a plant offline for one year during planning.
func (o *Orchestrator) ScheduleMaintenance(ctx context.Context, sessionID, plantID string, year int) error {
	if _, err := o.requireState(ctx, sessionID, domain.StateYearPlanning); err != nil {
		return err
	}

	plant, err := o.plants.GetByID(ctx, plantID)
	if err != nil {
		return fmt.Errorf("schedule maintenance: %w", err)
	}
	plant.MaintenanceYears[year] = true
	if err := o.plants.Update(ctx, plant); err != nil {
		return fmt.Errorf("schedule maintenance: %w", err)
	}
	o.log("session %s: plant %s scheduled for maintenance in %d", sessionID, plantID, year)
	return nil
}

// OpenBidding moves the session from year_planning to bidding_open.
func (o *Orchestrator) OpenBidding(ctx context.Context, sessionID string) error {
	sess, err := o.requireState(ctx, sessionID, domain.StateYearPlanning)
	if err != nil {
		return err
	}
	return o.transition(ctx, sess, domain.StateBiddingOpen)
}

// SubmitBid validates and stores a bid for the session's current year.
// Resubmitting for the same plant replaces the prior bid. Only allowed while
// bidding is open, and only for plants operating in the current year.
func (o *Orchestrator) SubmitBid(ctx context.Context, bid *domain.YearlyBid) error {
	if bid == nil {
		return fmt.Errorf("%w: no bid", domain.ErrInvalidBid)
	}

	sess, err := o.requireState(ctx, bid.GameSessionID, domain.StateBiddingOpen)
	if err != nil {
		return err
	}
	if bid.Year != sess.CurrentYear {
		observability.RecordBidRejected()
		return fmt.Errorf("%w: bid year %d is not the current year %d",
			domain.ErrInvalidBid, bid.Year, sess.CurrentYear)
	}

	plant, err := o.plants.GetByID(ctx, bid.PlantID)
	if err != nil {
		observability.RecordBidRejected()
		return fmt.Errorf("submit bid: %w", err)
	}
	if err := bid.Validate(plant); err != nil {
		observability.RecordBidRejected()
		return err
	}

	if err := o.bids.Upsert(ctx, bid); err != nil {
		return fmt.Errorf("submit bid: %w", err)
	}
	observability.RecordBidSubmitted()
	o.log("session %s: bid %s for plant %s year %d", sess.ID, bid.ID, bid.PlantID, bid.Year)
	return nil
}

// ClearMarkets closes bidding and runs the merit-order auction for each of
// the three load periods of the current year. Results replace any prior
// results for the same (year, period); clearing history rows are appended.
func (o *Orchestrator) ClearMarkets(ctx context.Context, sessionID string) ([]*domain.MarketResult, error) {
	sess, err := o.requireState(ctx, sessionID, domain.StateBiddingOpen)
	if err != nil {
		return nil, err
	}
	if err := o.transition(ctx, sess, domain.StateMarketClearing); err != nil {
		return nil, err
	}

	book, err := o.dispatchableBids(ctx, sess)
	if err != nil {
		return nil, err
	}

	demandMW := demand.ForYear(sess.DemandProfile, sess.CurrentYear)
	o.log("session %s: clearing year %d over %d bids, demand %.0f/%.0f/%.0f MW",
		sess.ID, sess.CurrentYear, len(book), demandMW.OffPeak, demandMW.Shoulder, demandMW.Peak)

	results := make([]*domain.MarketResult, 0, len(domain.AllPeriods))
	for _, period := range domain.AllPeriods {
		offers := clearing.OffersFromBids(period, book)
		cleared, err := clearing.Clear(period, demandMW.For(period), sess.DemandProfile.Hours.For(period), offers)
		if err != nil {
			return nil, fmt.Errorf("clear %s: %w", period, err)
		}

		result := domain.NewMarketResult(sess.ID, sess.CurrentYear, period)
		result.ClearingPrice = cleared.ClearingPrice
		result.ClearedMW = cleared.ClearedMW
		result.TotalEnergyMWh = cleared.TotalEnergyMWh
		result.AcceptedOffers = cleared.Accepted
		result.MarginalPlantID = cleared.MarginalPlantID
		result.SupplyShortfall = cleared.Shortfall

		if err := o.results.Replace(ctx, result); err != nil {
			return nil, fmt.Errorf("store %s result: %w", period, err)
		}
		if err := o.recordHistory(ctx, sess, cleared, len(offers)); err != nil {
			return nil, err
		}

		observability.RecordClearing(string(period), cleared.ClearingPrice,
			cleared.ClearedMW, len(cleared.Accepted), cleared.Shortfall)
		o.log("session %s: %s cleared %.0f MW at %.2f $/MWh (shortfall=%v)",
			sess.ID, period, cleared.ClearedMW, cleared.ClearingPrice, cleared.Shortfall)

		results = append(results, result)
	}

	return results, nil
}

// CompleteYear settles every utility's market outcome for the current year
// and moves the session to year_complete. Revenue is accepted energy at the
// clearing price; cost is accepted energy at marginal cost plus fixed O&M of
// all plants operating this year.
func (o *Orchestrator) CompleteYear(ctx context.Context, sessionID string) error {
	sess, err := o.requireState(ctx, sessionID, domain.StateMarketClearing)
	if err != nil {
		return err
	}

	settlements, err := o.settleYear(ctx, sess)
	if err != nil {
		return err
	}
	for utilityID, s := range settlements {
		utility, err := o.utilities.GetByID(ctx, utilityID)
		if err != nil {
			return fmt.Errorf("settle %s: %w", utilityID, err)
		}
		if err := finance.PostSettlement(utility, s.revenue, s.cost); err != nil {
			return fmt.Errorf("settle %s: %w", utilityID, err)
		}
		if err := o.utilities.Update(ctx, utility); err != nil {
			return fmt.Errorf("settle %s: %w", utilityID, err)
		}
		observability.RecordSettlement(s.revenue)
		o.log("session %s: utility %s settled year %d: revenue %.0f, cost %.0f",
			sess.ID, utilityID, sess.CurrentYear, s.revenue, s.cost)
	}

	observability.RecordYearCompleted()
	return o.transition(ctx, sess, domain.StateYearComplete)
}

// AdvanceYear moves a completed year forward: either into planning for the
// next year or, past the end year, into game_complete.
func (o *Orchestrator) AdvanceYear(ctx context.Context, sessionID string) error {
	sess, err := o.requireState(ctx, sessionID, domain.StateYearComplete)
	if err != nil {
		return err
	}

	if sess.CurrentYear >= sess.EndYear {
		observability.RecordGameCompleted()
		return o.transition(ctx, sess, domain.StateGameComplete)
	}

	sess.CurrentYear++
	sess.State = domain.StateYearPlanning
	if err := o.sessions.Update(ctx, sess); err != nil {
		return fmt.Errorf("advance year: %w", err)
	}
	o.log("session %s: advanced to year %d", sess.ID, sess.CurrentYear)
	return nil
}

// settlement accumulates one utility's yearly revenue and cost.
type settlement struct {
	revenue float64
	cost    float64
}

// settleYear computes per-utility revenue and cost from this year's results.
func (o *Orchestrator) settleYear(ctx context.Context, sess *domain.GameSession) (map[string]*settlement, error) {
	results, err := o.results.ListByYear(ctx, sess.ID, sess.CurrentYear)
	if err != nil {
		return nil, fmt.Errorf("settle year %d: %w", sess.CurrentYear, err)
	}
	plants, err := o.plants.ListBySession(ctx, sess.ID)
	if err != nil {
		return nil, fmt.Errorf("settle year %d: %w", sess.CurrentYear, err)
	}

	plantsByID := make(map[string]*domain.Plant, len(plants))
	for _, p := range plants {
		plantsByID[p.ID] = p
	}

	fuelPrices, err := economics.FuelPricesForYear(sess.FuelPrices, sess.CurrentYear, economics.DefaultFuelGrowthRate)
	if err != nil {
		return nil, fmt.Errorf("settle year %d: %w", sess.CurrentYear, err)
	}

	settlements := make(map[string]*settlement)
	forUtility := func(id string) *settlement {
		if s, ok := settlements[id]; ok {
			return s
		}
		s := &settlement{}
		settlements[id] = s
		return s
	}

	// Energy revenue and variable cost from accepted offers.
	for _, result := range results {
		hours := sess.DemandProfile.Hours.For(result.Period)
		for _, offer := range result.AcceptedOffers {
			plant, ok := plantsByID[offer.PlantID]
			if !ok {
				return nil, fmt.Errorf("settle year %d: accepted offer references unknown plant %s",
					sess.CurrentYear, offer.PlantID)
			}
			mc, err := economics.MarginalCost(plant, fuelPrices, sess.CarbonPricePerTon)
			if err != nil {
				return nil, fmt.Errorf("settle year %d: %w", sess.CurrentYear, err)
			}

			energy := offer.QuantityMW * hours
			s := forUtility(plant.UtilityID)
			s.revenue += energy * result.ClearingPrice
			s.cost += energy * mc
		}
	}

	// Fixed O&M is owed for every plant operating this year, cleared or not.
	for _, plant := range plants {
		if plant.StatusForYear(sess.CurrentYear) != domain.StatusOperating {
			continue
		}
		forUtility(plant.UtilityID).cost += plant.FixedOMAnnual
	}

	return settlements, nil
}

// dispatchableBids returns the current year's bid book filtered to plants
// that are operating this year. Bids for plants that slipped out of service
// since submission are silently excluded from the auction.
func (o *Orchestrator) dispatchableBids(ctx context.Context, sess *domain.GameSession) ([]*domain.YearlyBid, error) {
	book, err := o.bids.ListBySessionYear(ctx, sess.ID, sess.CurrentYear)
	if err != nil {
		return nil, fmt.Errorf("load bid book: %w", err)
	}

	dispatchable := make([]*domain.YearlyBid, 0, len(book))
	for _, bid := range book {
		plant, err := o.plants.GetByID(ctx, bid.PlantID)
		if err != nil {
			return nil, fmt.Errorf("load bid book: %w", err)
		}
		if plant.DispatchableInYear(sess.CurrentYear) {
			dispatchable = append(dispatchable, bid)
		}
	}
	return dispatchable, nil
}

func (o *Orchestrator) recordHistory(ctx context.Context, sess *domain.GameSession, cleared *clearing.Result, offersTotal int) error {
	if o.history == nil {
		return nil
	}
	rec := &domain.ClearingRecord{
		GameSessionID: sess.ID,
		Year:          sess.CurrentYear,
		Period:        cleared.Period,
		DemandMW:      cleared.DemandMW,
		ClearedMW:     cleared.ClearedMW,
		ClearingPrice: cleared.ClearingPrice,
		OffersTotal:   offersTotal,
		OffersCleared: len(cleared.Accepted),
		Shortfall:     cleared.Shortfall,
		ClearedAt:     time.Now().UTC(),
	}
	if err := o.history.Insert(ctx, rec); err != nil {
		return fmt.Errorf("record clearing history: %w", err)
	}
	return nil
}

// requireState loads a session and checks it is in the expected state.
func (o *Orchestrator) requireState(ctx context.Context, sessionID string, want domain.GameState) (*domain.GameSession, error) {
	sess, err := o.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	if sess.State != want {
		return nil, fmt.Errorf("%w: session %s is %s, want %s",
			ErrInvalidStateTransition, sessionID, sess.State, want)
	}
	return sess, nil
}

// transition persists a state change.
func (o *Orchestrator) transition(ctx context.Context, sess *domain.GameSession, to domain.GameState) error {
	from := sess.State
	sess.State = to
	if err := o.sessions.Update(ctx, sess); err != nil {
		return fmt.Errorf("transition %s -> %s: %w", from, to, err)
	}
	o.log("session %s: %s -> %s (year %d)", sess.ID, from, to, sess.CurrentYear)
	return nil
}

func (o *Orchestrator) log(format string, args ...interface{}) {
	if o.verbose {
		log.Printf("[game] "+format, args...)
	}
}
