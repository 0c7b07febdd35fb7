// Command shopmesh is a diagnostic CLI for the agent execution framework.
//
// Usage:
//
//	shopmesh check                 verify connectivity to the inference service
//	shopmesh benchmark             measure latency per model operation
//	shopmesh backfill -file F.json generate product embeddings from a JSON file
//
// Configuration is read from the environment (HUGGINGFACE_API_KEY and the
// HF_* overrides); a .env file in the working directory is loaded when
// present. An optional -config flag points at a YAML configuration file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/hupe1980/shopmesh/catalog"
	"github.com/hupe1980/shopmesh/inference"
	"github.com/hupe1980/shopmesh/logging"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	_ = godotenv.Load()

	if len(args) < 1 {
		return fmt.Errorf("usage: shopmesh <check|benchmark|backfill> [flags]")
	}

	switch args[0] {
	case "check":
		return runCheck(args[1:])
	case "benchmark":
		return runBenchmark(args[1:])
	case "backfill":
		return runBackfill(args[1:])
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func loadConfig(configPath string) (inference.Config, error) {
	if configPath != "" {
		return inference.LoadFile(configPath)
	}
	return inference.FromEnv(), nil
}

func newClient(configPath string) (*inference.Client, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if !cfg.Configured() {
		return nil, fmt.Errorf("HUGGINGFACE_API_KEY is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := inference.NewClient(cfg, func(o *inference.Options) {
		o.Logger = newCLILogger("inference")
	})
	return client, nil
}

// newCLILogger builds the contextual logger used across subcommands. Logs
// go to stderr in text form so stdout stays parseable.
func newCLILogger(component string) *logging.ShopMeshLogger {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.LogLevelInfo,
		Format:    "text",
		Output:    os.Stderr,
		Component: component,
	})
}

func runCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML configuration file")
	timeout := fs.Duration("timeout", 30*time.Second, "overall timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*configPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result := client.TestConnection(ctx)
	if !result.OK {
		return fmt.Errorf("connection test failed: %s", result.Message)
	}

	fmt.Printf("connected (model %s): %s\n", result.Model, result.Message)
	return nil
}

func runBenchmark(args []string) error {
	fs := flag.NewFlagSet("benchmark", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML configuration file")
	timeout := fs.Duration("timeout", 2*time.Minute, "overall timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*configPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	for _, entry := range client.RunBenchmark(ctx) {
		status := "ok"
		if !entry.Success {
			status = "failed"
		}
		fmt.Printf("%-16s %6dms  %-6s %s\n", entry.Operation, entry.LatencyMs, status, entry.Details)
	}
	return nil
}

func runBackfill(args []string) error {
	fs := flag.NewFlagSet("backfill", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML configuration file")
	file := fs.String("file", "", "JSON file with an array of products")
	out := fs.String("out", "embeddings.json", "output file for generated embeddings")
	batchSize := fs.Int("batch-size", 20, "products per batch")
	maxProducts := fs.Int("max-products", 0, "stop after this many products (0 = all)")
	timeout := fs.Duration("timeout", 10*time.Minute, "overall timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("backfill requires -file")
	}

	client, err := newClient(*configPath)
	if err != nil {
		return err
	}

	source, err := newFileSource(*file)
	if err != nil {
		return err
	}
	sink := newFileSink()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	backfiller := catalog.NewBackfiller(source, sink, client)
	result, err := backfiller.Run(ctx, catalog.BackfillOptions{
		BatchSize:   *batchSize,
		MaxProducts: *maxProducts,
		Logger:      newCLILogger("backfill"),
	})
	if err != nil {
		return err
	}

	if err := sink.WriteFile(*out); err != nil {
		return err
	}

	fmt.Printf("processed %d, succeeded %d, failed %d\n", result.Processed, result.Succeeded, result.Failed)
	for _, failure := range result.Failures {
		fmt.Printf("  %s: %s\n", failure.ProductID, failure.Reason)
	}
	return nil
}

// fileSource serves products from a JSON array on disk.
type fileSource struct {
	products []catalog.ProductContent
}

func newFileSource(path string) (*fileSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read products file: %w", err)
	}

	var products []catalog.ProductContent
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("parse products file: %w", err)
	}
	return &fileSource{products: products}, nil
}

func (s *fileSource) NextBatch(_ context.Context, offset, limit int, _ bool) ([]catalog.ProductContent, error) {
	if offset >= len(s.products) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.products) {
		end = len(s.products)
	}
	return s.products[offset:end], nil
}

// fileSink collects embeddings and writes them out as one JSON document.
type fileSink struct {
	embeddings []fileEmbedding
}

type fileEmbedding struct {
	ProductID  string    `json:"productId"`
	Model      string    `json:"model"`
	Dimensions int       `json:"dimensions"`
	Embedding  []float32 `json:"embedding"`
}

func newFileSink() *fileSink {
	return &fileSink{}
}

func (s *fileSink) Store(_ context.Context, embedding catalog.ProductEmbedding) error {
	s.embeddings = append(s.embeddings, fileEmbedding{
		ProductID:  embedding.ProductID,
		Model:      embedding.Model,
		Dimensions: embedding.Dimensions,
		Embedding:  embedding.Vector.Slice(),
	})
	return nil
}

func (s *fileSink) WriteFile(path string) error {
	raw, err := json.MarshalIndent(s.embeddings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode embeddings: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write embeddings file: %w", err)
	}
	return nil
}
