package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/stiker/internal/board"
	"github.com/hailam/stiker/internal/console"
	"github.com/hailam/stiker/internal/engine"
	"github.com/hailam/stiker/internal/logx"
	"github.com/hailam/stiker/internal/reference"
	"github.com/hailam/stiker/internal/storage"
	"github.com/hailam/stiker/internal/uci"
)

var (
	mode       = flag.String("mode", "uci", "front end: uci, console or compare")
	hashMB     = flag.Int("hash", 64, "transposition table size in MB")
	moveTimeMs = flag.Int("movetime", 1500, "default time per move in ms")
	maxDepth   = flag.Int("depth", 20, "search depth cap")
	dbDir      = flag.String("db", "", `badger directory for preferences and analyses; "auto" uses the platform data directory, empty disables persistence`)
	logLevel   = flag.String("log-level", "info", "log level: debug, info, warn, error")
	refPath    = flag.String("reference", "", "reference UCI engine binary for compare mode")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	savePrefs  = flag.Bool("save-prefs", false, "store the effective hash, movetime and depth in -db")
)

// comparePositions are searched in compare mode when no FEN is given.
var comparePositions = []string{
	board.StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r2q1rk1/pP1p2pp/Q4n2/bbp1p3/Np6/1B3NBn/pPPP1PPP/R3K2R b KQ - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
}

func main() {
	flag.Parse()
	log := logx.NewLogger(os.Stderr, *logLevel)

	if err := run(log); err != nil {
		log.Error().Err(err).Msg("exiting")
		os.Exit(1)
	}
}

func run(log zerolog.Logger) error {
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			return fmt.Errorf("create cpu profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("start cpu profile: %w", err)
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", *cpuprofile).Msg("cpu profiling enabled")
	}

	opts := engine.Options{
		HashMB:   *hashMB,
		MoveTime: time.Duration(*moveTimeMs) * time.Millisecond,
		MaxDepth: *maxDepth,
	}

	dir, err := resolveDBDir(*dbDir)
	if err != nil {
		return err
	}

	var store *storage.Store
	if dir != "" {
		store, err = storage.Open(dir)
		if err != nil {
			return err
		}
		defer store.Close()

		prefs, err := store.LoadPreferences()
		if err != nil {
			return fmt.Errorf("load preferences: %w", err)
		}
		opts = applyPreferences(opts, prefs, explicitFlags())
		if *savePrefs {
			prefs.HashMB = opts.HashMB
			prefs.MoveTimeMs = int(opts.MoveTime.Milliseconds())
			prefs.MaxDepth = opts.MaxDepth
			if err := store.SavePreferences(prefs); err != nil {
				return fmt.Errorf("save preferences: %w", err)
			}
			log.Info().Msg("preferences saved")
		}
		if !prefs.UseCache {
			store = nil
		}
		log.Debug().Str("db", dir).Interface("prefs", prefs).Msg("preferences loaded")
	}

	eng := engine.New(opts)
	eng.SetLogger(log)
	if store != nil {
		eng.SetCache(store)
	}
	log.Info().
		Str("mode", *mode).
		Int("hash_mb", opts.HashMB).
		Dur("movetime", opts.MoveTime).
		Int("depth", opts.MaxDepth).
		Msg("engine ready")

	switch *mode {
	case "uci":
		return uci.New(eng, os.Stdout, log).Run(os.Stdin)
	case "console":
		return console.New(eng, os.Stdout, log).Run(os.Stdin)
	case "compare":
		return compare(eng, log)
	}
	return fmt.Errorf("unknown mode %q", *mode)
}

func compare(eng *engine.Engine, log zerolog.Logger) error {
	if *refPath == "" {
		return fmt.Errorf("compare mode needs -reference")
	}
	ref, err := reference.Open(*refPath)
	if err != nil {
		return err
	}
	defer ref.Close()

	fens := flag.Args()
	if len(fens) == 0 {
		fens = comparePositions
	}
	results := reference.Compare(eng, ref, fens, eng.Options().MaxDepth, log)
	log.Info().
		Int("positions", len(results)).
		Float64("agreement", reference.Agreement(results)).
		Msg("comparison finished")
	return nil
}

// resolveDBDir maps the -db flag to a directory; "auto" selects the
// platform data directory.
func resolveDBDir(flagValue string) (string, error) {
	if flagValue != "auto" {
		return flagValue, nil
	}
	dir, err := storage.DatabaseDir()
	if err != nil {
		return "", fmt.Errorf("resolve database directory: %w", err)
	}
	return dir, nil
}

// explicitFlags returns the names of the flags given on the command line.
func explicitFlags() map[string]bool {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// applyPreferences overrides opts with stored preferences, except where the
// corresponding flag was given explicitly.
func applyPreferences(opts engine.Options, prefs storage.Preferences, explicit map[string]bool) engine.Options {
	if !explicit["hash"] && prefs.HashMB > 0 {
		opts.HashMB = prefs.HashMB
	}
	if !explicit["movetime"] && prefs.MoveTimeMs > 0 {
		opts.MoveTime = time.Duration(prefs.MoveTimeMs) * time.Millisecond
	}
	if !explicit["depth"] && prefs.MaxDepth > 0 {
		opts.MaxDepth = prefs.MaxDepth
	}
	return opts
}
