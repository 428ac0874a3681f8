package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/osse101/RewardEngine_Go/internal/audit"
	"github.com/osse101/RewardEngine_Go/internal/catalog"
	"github.com/osse101/RewardEngine_Go/internal/config"
	"github.com/osse101/RewardEngine_Go/internal/logger"
	"github.com/osse101/RewardEngine_Go/internal/validation"
)

func main() {
	catalogPath := flag.String("catalog", config.DefaultCatalogPath, "Path to the reward catalog")
	poolType := flag.String("pool", "standard", "Gacha pool to simulate")
	players := flag.Int("players", 1000, "Number of simulated players")
	pulls := flag.Int("pulls", 300, "Pulls per player")
	batch := flag.Int("batch", 10, "Pulls per purchase (1 for single pulls)")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "RNG seed")
	asJSON := flag.Bool("json", false, "Print the report as JSON")
	flag.Parse()

	logger.InitLoggerWithWriter(logger.DefaultConfig(), os.Stderr)
	ctx := context.Background()

	cat, err := catalog.NewLoader(validation.NewSchemaValidator()).Load(ctx, *catalogPath)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	report, err := audit.Run(ctx, cat, audit.Options{
		PoolType:       *poolType,
		Players:        *players,
		PullsPerPlayer: *pulls,
		BatchSize:      *batch,
		Seed:           *seed,
	})
	if err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			log.Fatalf("Failed to encode report: %v", err)
		}
		return
	}
	printReport(os.Stdout, report, *seed)
}

func printReport(w io.Writer, r audit.Report, seed uint64) {
	p := message.NewPrinter(language.English)

	p.Fprintf(w, "Pool %s: %d players, %d pulls (seed %d)\n\n", r.PoolType, r.Players, r.Pulls, seed)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "rarity\tadvertised %\tobserved %\tcount\t")
	for _, t := range r.Tiers {
		p.Fprintf(tw, "%s\t%s\t%s\t%d\t\n", t.Rarity, t.Advertised, t.Observed, t.Count)
	}
	_ = tw.Flush()

	p.Fprintf(w, "\npity triggered %d, featured %d, duplicates %d\n\n", r.PityTriggered, r.Featured, r.Duplicates)

	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "pulls to\tsamples\tmean\tp50\tp90\tp99\tmax\t")
	for _, row := range []struct {
		name string
		d    audit.Distribution
	}{{"epic", r.ToEpic}, {"legendary", r.ToLegendary}} {
		p.Fprintf(tw, "%s\t%d\t%.2f\t%d\t%d\t%d\t%d\t\n", row.name, row.d.Samples, row.d.Mean, row.d.P50, row.d.P90, row.d.P99, row.d.Max)
	}
	_ = tw.Flush()
}
