package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/vrtools/prefabs"
)

func main() {
	prefabDir := flag.String("prefabs", prefabs.Dir, "directory checked for prefab overrides before the embedded copies")
	watch := flag.Bool("watch", true, "hot reload prefab and script changes")
	ppm := flag.Float64("ppm", 0, "top-down view scale in pixels per meter (0 uses the default)")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	prefabs.Dir = *prefabDir

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("vrtools")

	game, err := NewGame(options{watch: *watch, pixelsPerMeter: *ppm})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
