package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"StockPulse/internal/di"
	"StockPulse/internal/domain/models"
	"StockPulse/internal/usecase"
	"StockPulse/pkg/config"
)

func main() {
	configPath := flag.String("config", "", "config file path (empty: built-in defaults)")
	once := flag.Bool("once", false, "run a single screening cycle and exit")
	symbols := flag.String("symbols", "", "comma-separated symbols, overrides config")
	minScore := flag.Int("min-score", -1, "minimum composite score, overrides config")
	sectors := flag.String("sectors", "", "comma-separated sector filter, overrides config")
	maxVolatility := flag.Float64("max-volatility", -1, "maximum ATR%% cutoff, overrides config")
	asJSON := flag.Bool("json", false, "print one-shot results as JSON")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	applyFlags(cfg, *symbols, *minScore, *sectors, *maxVolatility)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if *once {
		if err := runOnce(app.Screener(), app.RefreshParams(), *asJSON); err != nil {
			log.Fatalf("screening failed: %v", err)
		}
		return
	}

	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}

func applyFlags(cfg *config.Config, symbols string, minScore int, sectors string, maxVolatility float64) {
	if symbols != "" {
		cfg.Screener.Symbols = splitUpper(symbols)
	}
	if minScore >= 0 {
		cfg.Screener.MinScore = minScore
	}
	if sectors != "" {
		cfg.Screener.Sectors = splitList(sectors)
	}
	if maxVolatility >= 0 {
		cfg.Screener.MaxVolatility = maxVolatility
	}
}

func runOnce(s *usecase.Screener, params usecase.Params, asJSON bool) error {
	recs, err := s.Refresh(context.Background(), params)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	}

	printTable(recs)
	return nil
}

func printTable(recs []models.Recommendation) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tSCORE\tSIGNAL\tPRICE\tCHANGE%\tSECTOR\tFACTORS")
	for _, r := range recs {
		fmt.Fprintf(w, "%s\t%d\t%s\t%.2f\t%+.2f\t%s\t%s\n",
			r.Symbol, r.Score, r.Signal, r.Price, r.ChangePct, r.Sector,
			strings.Join(r.Factors, "; "))
	}
	w.Flush()
	fmt.Printf("\n%d instruments screened\n", len(recs))
}

func splitUpper(s string) []string {
	parts := splitList(s)
	for i := range parts {
		parts[i] = strings.ToUpper(parts[i])
	}
	return parts
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
