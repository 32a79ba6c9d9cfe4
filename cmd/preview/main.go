// Command preview renders generated villages in the terminal.
//
//	arrows / hjkl  scroll
//	HJKL           scroll a screen at a time
//	r              regenerate with the next seed
//	f              toggle reachability shading
//	q / Esc        quit
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"village-raiders/server/mapgen"
	"village-raiders/server/models"
)

type viewer struct {
	screen tcell.Screen
	cfg    mapgen.Config

	seed    int64
	result  mapgen.Result
	objects map[models.Point]models.ObjectPlacement
	visited *models.Grid[bool]

	offX, offY int
	shade      bool
}

func main() {
	seed := flag.Int64("seed", 0, "map seed (0 picks one from the clock)")
	loot := flag.String("loot", "base", "loot table: base or extended")
	flag.Parse()

	table, err := mapgen.LootTableByName(*loot)
	if err != nil {
		log.Fatal(err)
	}
	cfg := mapgen.DefaultConfig()
	cfg.Loot = table

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	defer screen.Fini()

	v := &viewer{screen: screen, cfg: cfg}
	v.generate(*seed)
	v.run()
}

func (v *viewer) generate(seed int64) {
	v.seed = seed
	v.result = mapgen.New(v.cfg, mapgen.NewRand(seed)).Run()
	m := v.result.Map
	v.objects = objectIndex(m.ObjectPlacements)
	v.visited = mapgen.Reachable(m.Structures, m.PlayerSpawn)
	v.centerOn(m.PlayerSpawn)
}

func (v *viewer) centerOn(p models.Point) {
	w, h := v.screen.Size()
	v.offX = p.X - w/2
	v.offY = p.Y - (h-1)/2
	v.clamp()
}

func (v *viewer) clamp() {
	w, h := v.screen.Size()
	m := v.result.Map
	v.offX = max(0, min(v.offX, m.Width-w))
	v.offY = max(0, min(v.offY, m.Height-(h-1)))
}

func (v *viewer) draw() {
	v.screen.Clear()
	w, h := v.screen.Size()
	m := v.result.Map

	var visited *models.Grid[bool]
	if v.shade {
		visited = v.visited
	}
	for sy := 0; sy < h-1; sy++ {
		for sx := 0; sx < w; sx++ {
			x, y := v.offX+sx, v.offY+sy
			if !m.Ground.InBounds(x, y) {
				continue
			}
			r, style := cellGlyph(m, v.objects, visited, x, y)
			v.screen.SetContent(sx, sy, r, nil, style)
		}
	}

	stats := v.result.Stats
	status := fmt.Sprintf(" seed %d | %s | buildings %d | props %d | keys %d | view %d,%d | r:new f:reach q:quit",
		v.seed, v.cfg.Loot.Name, stats.BuildingsPlaced, stats.ObjectsReachable, stats.KeysReachable, v.offX, v.offY)
	bar := tcell.StyleDefault.Reverse(true)
	for sx := 0; sx < w; sx++ {
		r := ' '
		if sx < len(status) {
			r = rune(status[sx])
		}
		v.screen.SetContent(sx, h-1, r, nil, bar)
	}
	v.screen.Show()
}

func (v *viewer) scroll(dx, dy int) {
	v.offX += dx
	v.offY += dy
	v.clamp()
}

// handleInput returns false when the viewer should exit
func (v *viewer) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		w, h := v.screen.Size()
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			v.scroll(-1, 0)
		case tcell.KeyRight:
			v.scroll(1, 0)
		case tcell.KeyUp:
			v.scroll(0, -1)
		case tcell.KeyDown:
			v.scroll(0, 1)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'h':
				v.scroll(-1, 0)
			case 'l':
				v.scroll(1, 0)
			case 'k':
				v.scroll(0, -1)
			case 'j':
				v.scroll(0, 1)
			case 'H':
				v.scroll(-w, 0)
			case 'L':
				v.scroll(w, 0)
			case 'K':
				v.scroll(0, -(h - 1))
			case 'J':
				v.scroll(0, h-1)
			case 'r':
				v.generate(v.seed + 1)
			case 'f':
				v.shade = !v.shade
			}
		}
	case *tcell.EventResize:
		v.screen.Sync()
		v.clamp()
	}
	return true
}

func (v *viewer) run() {
	for {
		v.draw()
		if !v.handleInput(v.screen.PollEvent()) {
			return
		}
	}
}
