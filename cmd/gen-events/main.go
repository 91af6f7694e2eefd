package main

import (
	"flag"
	"os"
	"strconv"

	"github.com/halfspace-analytics/halfspace/internal/testdata"
)

// Default generation constants.
const (
	defaultMatches = 2
	defaultPlayers = 11
	defaultSeed    = 42
)

func main() {
	var (
		outDir  = flag.String("out", "./data", "Output directory for generated CSV files")
		matches = flag.Int("matches", defaultMatches, "Number of matches to generate")
		players = flag.Int("players", defaultPlayers, "Number of players per team")
		seed    = flag.Int64("seed", defaultSeed, "Random seed (same seed produces the same data)")
	)
	flag.Parse()

	cfg := testdata.Config{
		Matches:        *matches,
		PlayersPerTeam: *players,
		Seed:           *seed,
	}

	if err := testdata.WriteDataDir(*outDir, cfg); err != nil {
		os.Stderr.WriteString("Failed to generate data: " + err.Error() + "\n")
		os.Exit(1)
	}

	os.Stdout.WriteString("Wrote " + strconv.Itoa(*matches) + " matches to " + *outDir + "\n")
}
