// Command planctl is a minimal adapter for the real HTTP surface: it
// reads a road graph and a planner request from disk, runs the full
// pipeline, and prints the planner response as JSON. It exists only to
// exercise planner.Plan end-to-end without standing up an HTTP server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sentrygrid/intercept/config"
	"github.com/sentrygrid/intercept/internal/errs"
	"github.com/sentrygrid/intercept/planner"
	"github.com/sentrygrid/intercept/roadgraph"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("planctl: fatal", "err", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("planctl", flag.ContinueOnError)
	graphPath := fs.String("graph", "", "path to a GraphML road-graph file")
	requestPath := fs.String("request", "", "path to a planner request JSON file")
	timeout := fs.Duration("solve-timeout", 30*time.Second, "overrides config.MaxTimeToSolve")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *graphPath == "" || *requestPath == "" {
		return errors.New("planctl: both -graph and -request are required")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	g, err := roadgraph.LoadGraph(*graphPath)
	if err != nil {
		return fmt.Errorf("planctl: load graph: %w", err)
	}
	nodes, edges, escapeNodes := g.Stats()
	slog.Info("graph loaded", "path", *graphPath, "nodes", nodes, "edges", edges, "escape_nodes", escapeNodes)

	reqFile, err := os.Open(*requestPath)
	if err != nil {
		return fmt.Errorf("planctl: open request: %w", err)
	}
	defer reqFile.Close()

	var req planner.Request
	if err := json.NewDecoder(reqFile).Decode(&req); err != nil {
		return fmt.Errorf("planctl: decode request: %w", err)
	}

	cfg := config.New(config.WithMaxTimeToSolve(*timeout))
	if err := cfg.Validate(); err != nil {
		return errs.InvalidInput(fmt.Errorf("planctl: config: %w", err))
	}

	start := time.Now()
	resp, err := planner.Plan(context.Background(), g, req, &cfg)
	if err != nil {
		kind := "unknown"
		var e *errs.Error
		if errors.As(err, &e) {
			kind = e.Kind.String()
		}
		slog.Error("plan failed", "err", err, "kind", kind)

		return err
	}
	slog.Info("plan resolved", "elapsed", time.Since(start), "score", resp.Stats.Score, "assignments", resp.Stats.NbAssignments)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(resp)
}
