package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/crimson-sun/triage/internal/config"
	"github.com/crimson-sun/triage/internal/dataset"
	"github.com/crimson-sun/triage/internal/engine/classifier"
	"github.com/crimson-sun/triage/internal/engine/taxonomy"
	"github.com/crimson-sun/triage/internal/logging"
	"github.com/crimson-sun/triage/internal/output"
	"github.com/crimson-sun/triage/internal/output/file"
	"github.com/crimson-sun/triage/internal/output/multi"
	"github.com/crimson-sun/triage/internal/output/sqlite"
	"github.com/crimson-sun/triage/internal/output/stdout"
	"github.com/crimson-sun/triage/internal/pipeline"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	flag.StringVar(&cfg.Dataset.Dir, "dir", cfg.Dataset.Dir, "directory holding train.csv and test.csv")
	flag.StringVar(&cfg.Dataset.Output, "out", cfg.Dataset.Output, "SQLite output file")
	flag.StringVar(&cfg.Dataset.TokenizerDir, "tokenizer", cfg.Dataset.TokenizerDir, "directory holding tokenizer.json or vocab.txt")
	flag.BoolVar(&cfg.Dataset.Strict, "strict", cfg.Dataset.Strict, "fail on any unmapped category")
	flag.IntVar(&cfg.Engine.MaxLength, "max-length", cfg.Engine.MaxLength, "pad and truncate to this many tokens")
	jsonl := flag.String("jsonl", "", "also write NDJSON records to this file")
	preview := flag.Bool("preview", false, "also print minimal records to stdout")
	flag.Parse()

	if err := cfg.ValidateDataset(); err != nil {
		log.Fatalf("invalid config:\n%v", err)
	}
	logger := logging.Init(cfg.Log.JSON, logging.ParseLevel(cfg.Log.Level))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tok, err := classifier.LoadTokenizer(cfg.Dataset.TokenizerDir, cfg.Engine.MaxLength)
	if err != nil {
		log.Fatalf("failed to load tokenizer: %v", err)
	}

	store, err := sqlite.Open(cfg.Dataset.Output)
	if err != nil {
		log.Fatalf("failed to open output: %v", err)
	}
	if err := store.Reset(ctx, taxonomy.Labels()); err != nil {
		log.Fatalf("failed to reset output: %v", err)
	}

	outputs := []output.Output{store}
	if *jsonl != "" {
		f, err := file.New(*jsonl, output.Full)
		if err != nil {
			log.Fatalf("failed to open jsonl output: %v", err)
		}
		outputs = append(outputs, f)
	}
	if *preview {
		outputs = append(outputs, stdout.New(output.Minimal, false))
	}
	var out output.Output = store
	if len(outputs) > 1 {
		out = multi.New(outputs...)
	}

	p := pipeline.New(
		dataset.Dir{Path: cfg.Dataset.Dir},
		dataset.NewPreparer(tok),
		out,
		pipeline.WithStrict(cfg.Dataset.Strict),
		pipeline.WithLogger(logger),
	)

	report, runErr := p.Run(ctx)
	if err := p.Close(); err != nil && runErr == nil {
		runErr = err
	}

	report.RenderUnmapped(os.Stderr)
	for _, split := range dataset.Splits {
		if _, ok := report.Counts[split]; ok {
			report.RenderDistribution(os.Stderr, split)
		}
	}
	if runErr != nil {
		log.Fatalf("preparation failed: %v", runErr)
	}
	fmt.Fprintf(os.Stderr, "wrote %d examples to %s\n", report.Kept, cfg.Dataset.Output)
}
