// Package reporting assembles yearly game summaries from stored results and
// renders them as CSV or Markdown.
package reporting

import (
	"context"
	"fmt"
	"time"

	"capacity-market-sim/internal/demand"
	"capacity-market-sim/internal/storage"
)

// Generator produces game reports from stored data.
type Generator struct {
	sessions  storage.SessionStore
	utilities storage.UtilityStore
	plants    storage.PlantStore
	results   storage.ResultStore
	now       func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(
	sessions storage.SessionStore,
	utilities storage.UtilityStore,
	plants storage.PlantStore,
	results storage.ResultStore,
) *Generator {
	return &Generator{
		sessions:  sessions,
		utilities: utilities,
		plants:    plants,
		results:   results,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces a report for one session.
func (g *Generator) Generate(ctx context.Context, sessionID string) (*GameReport, error) {
	sess, err := g.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	results, err := g.results.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}

	clearings := make([]ClearingRow, 0, len(results))
	for _, r := range results {
		clearings = append(clearings, ClearingRow{
			Year:           r.Year,
			Period:         string(r.Period),
			DemandMW:       demand.ForYear(sess.DemandProfile, r.Year).For(r.Period),
			ClearedMW:      r.ClearedMW,
			ClearingPrice:  r.ClearingPrice,
			TotalEnergyMWh: r.TotalEnergyMWh,
			OffersAccepted: len(r.AcceptedOffers),
			Shortfall:      r.SupplyShortfall,
		})
	}

	standings, err := g.generateStandings(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &GameReport{
		GeneratedAt: g.now(),
		SessionID:   sess.ID,
		SessionName: sess.Name,
		State:       string(sess.State),
		StartYear:   sess.StartYear,
		EndYear:     sess.EndYear,
		CurrentYear: sess.CurrentYear,
		Clearings:   clearings,
		Standings:   standings,
	}, nil
}

// generateStandings builds the per-utility balance sheet and fleet rows.
// Utilities come back from the store ordered by username already.
func (g *Generator) generateStandings(ctx context.Context, sessionID string) ([]StandingRow, error) {
	utilities, err := g.utilities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load utilities: %w", err)
	}

	standings := make([]StandingRow, 0, len(utilities))
	for _, u := range utilities {
		fleet, err := g.plants.ListByUtility(ctx, sessionID, u.ID)
		if err != nil {
			return nil, fmt.Errorf("load fleet for %s: %w", u.Username, err)
		}

		var capacity float64
		for _, p := range fleet {
			capacity += p.CapacityMW
		}

		standings = append(standings, StandingRow{
			Username:   u.Username,
			Budget:     u.Budget,
			Debt:       u.Debt,
			Equity:     u.Equity,
			PlantCount: len(fleet),
			CapacityMW: capacity,
		})
	}
	return standings, nil
}
