//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"morphgrid/internal/app"
	"morphgrid/internal/render"
)

func main() {
	cfg := app.NewConfig()
	configPath := flag.String("config", "", "TOML or YAML config file; explicit flags override it")
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

	painter := render.NewPointPainter(cfg.Size, cfg.Size)
	g, err := cfg.Build(painter)
	if err != nil {
		log.Fatal(err)
	}
	game := app.New(g, painter, cfg)

	defer g.Close()

	ebiten.SetWindowTitle("morphgrid: " + cfg.Strategy)
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	ebiten.SetWindowSize(cfg.Size*cfg.Scale, cfg.Size*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
