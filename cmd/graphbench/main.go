package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"morphgrid/internal/app"
	"morphgrid/internal/core"
	"morphgrid/internal/gpu"
	"morphgrid/internal/graph"
	"morphgrid/internal/render"
)

func main() {
	cfg := app.NewConfig()
	configPath := flag.String("config", "", "TOML or YAML config file; explicit flags override it")
	frames := flag.Int("frames", 600, "number of frames to evaluate")
	verify := flag.Bool("verify", false, "check every strategy produces identical positions each frame")
	compile := flag.Bool("compile", false, "compile every kernel pair to SPIR-V before running")
	splat := flag.Bool("splat", false, "rasterize each frame into a -size pixel buffer")
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	if *configPath != "" {
		if err := cfg.LoadFile(flag.CommandLine, *configPath); err != nil {
			log.Fatal(err)
		}
	}
	if _, err := app.SetupLogging(os.Stderr, cfg.LogLevel); err != nil {
		log.Fatal(err)
	}

	if *compile {
		lib := gpu.NewLibrary()
		start := time.Now()
		if err := lib.Precompile(runtime.NumCPU()); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Compiled %d kernels in %v\n", lib.Len(), time.Since(start).Round(time.Millisecond))
	}

	var r graph.Renderer
	if *splat {
		r = render.NewSplatter(cfg.Size, cfg.Size)
	}
	g, err := cfg.Build(r)
	if err != nil {
		log.Fatal(err)
	}
	defer g.Close()

	var checker *verifier
	if *verify {
		gc, err := cfg.Graph()
		if err != nil {
			log.Fatal(err)
		}
		if checker, err = newVerifier(gc, cfg.Workers); err != nil {
			log.Fatal(err)
		}
		defer checker.close()
	}

	clock := core.NewFixedClock(cfg.TPS)
	start := time.Now()
	for i := 0; i < *frames; i++ {
		t, dt := clock.Tick()
		if err := g.Frame(t, dt); err != nil {
			log.Fatal(err)
		}
		if checker != nil {
			if err := checker.frame(t, dt); err != nil {
				log.Fatalf("frame %d: %v", i, err)
			}
		}
	}
	took := time.Since(start)

	cells := cfg.Resolution * cfg.Resolution
	fmt.Printf("Strategy %s: %d frames (%v simulated) of %d cells in %v (%.2f ms/frame, %.1f Mcells/s)\n",
		cfg.Strategy, *frames, clock.Elapsed().Round(time.Millisecond), cells, took.Round(time.Millisecond),
		float64(took.Microseconds())/1000/float64(max(*frames, 1)),
		float64(cells)*float64(*frames)/took.Seconds()/1e6)
	for _, line := range app.SummaryLines(g) {
		fmt.Println(line)
	}
	if checker != nil {
		fmt.Printf("Verified %d frames across sequential, tiled and emulated kernels\n", checker.frames)
	}
}
