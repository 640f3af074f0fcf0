// Package cmd provides CLI command implementations for mapmem.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/roverlab/mapmem/internal/match"
	"github.com/roverlab/mapmem/internal/storage"
)

// Version is set at build time via ldflags.
var Version = "dev"

// StatsCmd prints summary statistics for a map database.
type StatsCmd struct {
	Path string `arg:"" help:"Path to the map database directory"`
}

// Run executes the stats command.
func (c *StatsCmd) Run() error {
	ctx := context.Background()
	store, err := openStore(c.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	ids, err := store.IDs(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		color.Yellow("Map database is empty")
		return nil
	}

	perMap := make(map[int]int)
	totalWords := 0
	bad := 0
	for _, id := range ids {
		sig, err := store.Get(ctx, id)
		if err != nil {
			return err
		}
		perMap[sig.MapID()]++
		totalWords += sig.Words().Len()
		if sig.IsBad() {
			bad++
		}
	}

	color.Green("Map database %s", c.Path)
	fmt.Printf("  signatures: %d (ids %d..%d)\n", len(ids), ids[0], ids[len(ids)-1])
	fmt.Printf("  sub-maps:   %d\n", len(perMap))
	fmt.Printf("  word observations: %d (avg %.1f per signature)\n",
		totalWords, float64(totalWords)/float64(len(ids)))
	if bad > 0 {
		color.Yellow("  bad signatures (no words): %d", bad)
	}
	return nil
}

// CompareCmd scores the similarity of two stored signatures.
type CompareCmd struct {
	Path string `arg:"" help:"Path to the map database directory"`
	A    int    `arg:"" help:"First signature id"`
	B    int    `arg:"" help:"Second signature id"`
}

// Run executes the compare command.
func (c *CompareCmd) Run() error {
	ctx := context.Background()
	store, err := openStore(c.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	a, err := store.Get(ctx, c.A)
	if err != nil {
		return fmt.Errorf("loading signature %d: %w", c.A, err)
	}
	b, err := store.Get(ctx, c.B)
	if err != nil {
		return fmt.Errorf("loading signature %d: %w", c.B, err)
	}

	score := a.CompareTo(b, match.UniqueWordMatcher{})
	fmt.Printf("similarity(%d, %d) = %.4f\n", c.A, c.B, score)
	fmt.Printf("  words: %d vs %d\n", a.Words().Len(), b.Words().Len())
	return nil
}

func openStore(path string) (storage.SignatureStore, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("accessing %s: %w", path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", path)
	}
	store := storage.NewBadgerStore()
	if err := store.Open(path); err != nil {
		return nil, err
	}
	return store, nil
}

// CLI is the root command structure.
type CLI struct {
	Version kong.VersionFlag `help:"Show version information"`

	Stats   StatsCmd   `cmd:"" help:"Print summary statistics for a map database"`
	Compare CompareCmd `cmd:"" help:"Score the similarity of two stored signatures"`
}

// NewCLI creates a new CLI instance.
func NewCLI() *CLI {
	return &CLI{}
}

// Execute parses command-line arguments and executes the selected command.
func (c *CLI) Execute(args []string) error {
	kongCtx := kong.Parse(c,
		kong.Name("mapmem"),
		kong.Description("Inspection tool for appearance-based SLAM map databases"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": Version,
		},
	)

	return kongCtx.Run()
}
