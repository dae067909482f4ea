package system

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/vrtools/lighttool"
	"github.com/milk9111/vrtools/prefabs"
)

// tintScript picks a spawn color per light kind. The script sees `kind` and
// `base` (hex strings) and leaves its answer in `tint`.
type tintScript struct {
	path     string
	compiled *tengo.Compiled
}

func loadTintScript(path string) (*tintScript, error) {
	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, err
	}

	script := tengo.NewScript(src)
	_ = script.Add("kind", "")
	_ = script.Add("base", "")
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("tint script %s: %w", path, err)
	}
	return &tintScript{path: path, compiled: compiled}, nil
}

func (s *tintScript) Tint(kind lighttool.Kind, base color.NRGBA) (color.NRGBA, error) {
	if s == nil || s.compiled == nil {
		return base, fmt.Errorf("nil tint script")
	}
	if err := s.compiled.Set("kind", kind.String()); err != nil {
		return base, err
	}
	if err := s.compiled.Set("base", prefabs.Hex(base)); err != nil {
		return base, err
	}
	if err := s.compiled.Run(); err != nil {
		return base, fmt.Errorf("tint script %s: %w", s.path, err)
	}
	if !s.compiled.IsDefined("tint") {
		return base, nil
	}

	hex := strings.TrimSpace(s.compiled.Get("tint").String())
	if hex == "" {
		return base, nil
	}
	c, err := prefabs.ParseColor(hex)
	if err != nil {
		return base, fmt.Errorf("tint script %s: %w", s.path, err)
	}
	return c, nil
}
