// Package main runs a sample multi-year capacity market game end to end:
// setup → yearly planning/bidding/clearing/settlement → game_complete, then
// renders the final report. Runs on in-memory stores by default; pass
// -postgres-dsn (and optionally -clickhouse-dsn for clearing history) to run
// against real backends with migrations applied on startup.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"capacity-market-sim/internal/domain"
	"capacity-market-sim/internal/economics"
	"capacity-market-sim/internal/game"
	"capacity-market-sim/internal/reporting"
	"capacity-market-sim/internal/storage"
	"capacity-market-sim/internal/storage/clickhouse"
	"capacity-market-sim/internal/storage/memory"
	"capacity-market-sim/internal/storage/migrations"
	"capacity-market-sim/internal/storage/postgres"
)

func main() {
	// Parse flags
	startYear := flag.Int("start-year", 2025, "First simulated year")
	years := flag.Int("years", 5, "Number of years to simulate")
	outputDir := flag.String("output-dir", "docs", "Output directory for generated files")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL DSN (empty = in-memory stores)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse DSN for clearing history (empty = disabled)")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling simulation...\n", sig)
		cancel()
	}()

	stores, closeStores, err := openStores(ctx, *postgresDSN, *clickhouseDSN)
	if err != nil {
		fatal("open stores", err)
	}
	defer closeStores()
	sessions := stores.sessions
	utilities := stores.utilities
	plants := stores.plants
	results := stores.results

	orch := game.New(game.Options{
		SessionStore: sessions,
		UtilityStore: utilities,
		PlantStore:   plants,
		BidStore:     stores.bids,
		ResultStore:  results,
		HistoryStore: stores.history,
		Verbose:      *verbose,
	})

	fmt.Println("=== Capacity Market Simulation ===")
	sess, err := orch.CreateSession(ctx, "Sample Market", "operator", *startYear, *startYear+*years-1)
	if err != nil {
		fatal("create session", err)
	}

	fleet, err := registerParticipants(ctx, orch, plants, sess)
	if err != nil {
		fatal("setup", err)
	}

	if err := orch.StartYearPlanning(ctx, sess.ID); err != nil {
		fatal("start planning", err)
	}

	// Yearly cycle until the session completes.
	for {
		sess, err = sessions.GetByID(ctx, sess.ID)
		if err != nil {
			fatal("load session", err)
		}
		if sess.State == domain.StateGameComplete {
			break
		}

		fmt.Printf("\n=== Year %d ===\n", sess.CurrentYear)

		if err := orch.OpenBidding(ctx, sess.ID); err != nil {
			fatal("open bidding", err)
		}
		if err := submitFleetBids(ctx, orch, sess, fleet); err != nil {
			fatal("submit bids", err)
		}

		cleared, err := orch.ClearMarkets(ctx, sess.ID)
		if err != nil {
			fatal("clear markets", err)
		}
		for _, r := range cleared {
			marker := ""
			if r.SupplyShortfall {
				marker = " SHORTFALL"
			}
			fmt.Printf("  %-9s %7.0f MW at %6.2f $/MWh%s\n", r.Period, r.ClearedMW, r.ClearingPrice, marker)
		}

		if err := orch.CompleteYear(ctx, sess.ID); err != nil {
			fatal("complete year", err)
		}
		if err := orch.AdvanceYear(ctx, sess.ID); err != nil {
			fatal("advance year", err)
		}
	}

	// Final report
	fmt.Println("\n=== Report ===")
	gen := reporting.NewGenerator(sessions, utilities, plants, results)
	report, err := gen.Generate(ctx, sess.ID)
	if err != nil {
		fatal("generate report", err)
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fatal("create output dir", err)
	}
	mdPath := *outputDir + "/GAME_REPORT.md"
	csvPath := *outputDir + "/clearing_results.csv"
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		fatal("write markdown", err)
	}
	if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(report.Clearings)), 0o644); err != nil {
		fatal("write csv", err)
	}

	for _, s := range report.Standings {
		fmt.Printf("  %-10s budget %14.0f  debt %14.0f  equity %14.0f  %d plants / %.0f MW\n",
			s.Username, s.Budget, s.Debt, s.Equity, s.PlantCount, s.CapacityMW)
	}

	fmt.Println("\nSimulation completed successfully:")
	fmt.Printf("  - %s\n", mdPath)
	fmt.Printf("  - %s\n", csvPath)
}

// gameStores holds the persistence backends for one run.
type gameStores struct {
	sessions  storage.SessionStore
	utilities storage.UtilityStore
	plants    storage.PlantStore
	bids      storage.BidStore
	results   storage.ResultStore
	history   storage.ClearingHistoryStore // nil when no clickhouse DSN given
}

// openStores selects backends from the DSN flags. With a postgres DSN the
// embedded migrations run first; otherwise everything is in-memory. The
// clearing history store is clickhouse-only and stays nil without its DSN.
func openStores(ctx context.Context, postgresDSN, clickhouseDSN string) (*gameStores, func(), error) {
	stores := &gameStores{}
	closers := []func(){}
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if postgresDSN == "" {
		stores.sessions = memory.NewSessionStore()
		stores.utilities = memory.NewUtilityStore()
		stores.plants = memory.NewPlantStore()
		stores.bids = memory.NewBidStore()
		stores.results = memory.NewResultStore()
	} else {
		pool, err := postgres.NewPool(ctx, postgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		closers = append(closers, pool.Close)
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
		stores.sessions = postgres.NewSessionStore(pool)
		stores.utilities = postgres.NewUtilityStore(pool)
		stores.plants = postgres.NewPlantStore(pool)
		stores.bids = postgres.NewBidStore(pool)
		stores.results = postgres.NewResultStore(pool)
	}

	if clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("migrate clickhouse: %w", err)
		}
		closers = append(closers, func() { _ = conn.Close() })
		stores.history = clickhouse.NewClearingHistoryStore(conn)
	}

	return stores, closeAll, nil
}

// ownedPlant pairs a plant with its owning utility for bidding.
type ownedPlant struct {
	utility *domain.Utility
	plant   *domain.Plant
}

// registerParticipants registers two utilities and seeds each with a fleet
// already in service. Seeded plants are inserted directly with timelines in
// the past; plants built through the orchestrator would not be commissioned
// until years into the run.
func registerParticipants(ctx context.Context, orch *game.Orchestrator, plantStore storage.PlantStore, sess *domain.GameSession) ([]ownedPlant, error) {
	alice, err := orch.RegisterUtility(ctx, sess.ID, "alice", domain.DefaultStartingBudget)
	if err != nil {
		return nil, err
	}
	bob, err := orch.RegisterUtility(ctx, sess.ID, "bob", domain.DefaultStartingBudget)
	if err != nil {
		return nil, err
	}

	specs := []struct {
		owner    *domain.Utility
		name     string
		tech     domain.Technology
		capacity float64
	}{
		{alice, "riverside-gas", domain.TechGasCC, 1500},
		{alice, "hilltop-wind", domain.TechWindOnshore, 600},
		{bob, "eastport-gas", domain.TechGasCC, 1200},
		{bob, "blackrock-coal", domain.TechCoal, 900},
	}

	fleet := make([]ownedPlant, 0, len(specs))
	for _, s := range specs {
		p, err := domain.NewPlantFromTemplate(s.owner.ID, sess.ID, s.name, s.tech, s.capacity,
			sess.StartYear-10, sess.StartYear-7, sess.StartYear+30)
		if err != nil {
			return nil, err
		}
		if err := plantStore.Insert(ctx, p); err != nil {
			return nil, err
		}
		fleet = append(fleet, ownedPlant{utility: s.owner, plant: p})
	}
	return fleet, nil
}

// submitFleetBids offers every dispatchable plant at full capacity, priced at
// marginal cost with a small margin.
func submitFleetBids(ctx context.Context, orch *game.Orchestrator, sess *domain.GameSession, fleet []ownedPlant) error {
	fuelPrices, err := economics.FuelPricesForYear(sess.FuelPrices, sess.CurrentYear, economics.DefaultFuelGrowthRate)
	if err != nil {
		return err
	}

	for _, f := range fleet {
		if !f.plant.DispatchableInYear(sess.CurrentYear) {
			continue
		}
		mc, err := economics.MarginalCost(f.plant, fuelPrices, sess.CarbonPricePerTon)
		if err != nil {
			return err
		}
		price := mc * 1.05

		bid := domain.NewYearlyBid(f.utility.ID, sess.ID, f.plant.ID, sess.CurrentYear,
			domain.PeriodValues{OffPeak: f.plant.CapacityMW, Shoulder: f.plant.CapacityMW, Peak: f.plant.CapacityMW},
			domain.PeriodValues{OffPeak: price, Shoulder: price, Peak: price * 1.2},
		)
		if err := orch.SubmitBid(ctx, bid); err != nil {
			return err
		}
	}
	return nil
}

func fatal(stage string, err error) {
	fmt.Fprintf(os.Stderr, "Error (%s): %v\n", stage, err)
	os.Exit(1)
}
