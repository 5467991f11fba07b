// Command bench runs the search engine against a fixed or user-supplied
// position for a repeatable smoke test, mirroring the reference engine's
// own searchbench tool's flag shape and per-iteration timing output.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"chessengine/board"
	"chessengine/chessengine"
)

func main() {
	depthFlag := flag.Int("depth", 10, "search depth in plies")
	repeatFlag := flag.Int("repeat", 1, "number of searches to run")
	fenFlag := flag.String("fen", "", "FEN to search (empty = startpos)")
	moveTimeFlag := flag.Duration("movetime", 0, "wall-clock budget per search (0 = depth-only)")
	configFlag := flag.String("config", "", "optional YAML file of chessengine.Options overrides")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile (heap) to file")
	flag.Parse()

	if *depthFlag <= 0 {
		log.Fatalf("depth must be positive, got %d", *depthFlag)
	}

	opts := chessengine.DefaultOptions()
	if *configFlag != "" {
		loaded, err := chessengine.LoadOptionsYAML(*configFlag)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		opts = loaded
	}
	engine := chessengine.NewEngine(opts)

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatalf("could not create CPU profile: %v", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("could not start CPU profile: %v", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
		}()
	}

	fen := board.StartFEN
	if *fenFlag != "" {
		fen = *fenFlag
	}

	limit := chessengine.SearchLimit{Depth: *depthFlag, MoveTime: *moveTimeFlag}

	fmt.Printf("bench: fen=%q depth=%d repeat=%d movetime=%v\n", fen, *depthFlag, *repeatFlag, *moveTimeFlag)

	startAll := time.Now()
	for i := 0; i < *repeatFlag; i++ {
		p, err := chessengine.PositionFromFEN(fen)
		if err != nil {
			log.Fatalf("parse FEN: %v", err)
		}

		iterStart := time.Now()
		best := engine.Search(p, limit, func(info chessengine.SearchInfo) {
			fmt.Printf("  depth %2d  score %6d  nodes %9d  pv %v\n",
				info.Depth, info.Score, info.Nodes, info.PV)
		})
		iterElapsed := time.Since(iterStart)

		fmt.Printf("iteration %d: bestmove %v  time=%v\n", i+1, best, iterElapsed)
	}
	totalElapsed := time.Since(startAll)
	fmt.Printf("total time: %v\n", totalElapsed)

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatalf("could not create memory profile: %v", err)
		}
		defer f.Close()

		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatalf("could not write memory profile: %v", err)
		}
	}
}
