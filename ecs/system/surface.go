package system

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/vrtools/preview"
)

// EbitenSurface is an offscreen ebiten image used as a preview render target.
type EbitenSurface struct {
	Image *ebiten.Image
}

func (s *EbitenSurface) Size() (int, int) {
	if s == nil || s.Image == nil {
		return 0, 0
	}
	b := s.Image.Bounds()
	return b.Dx(), b.Dy()
}

func (s *EbitenSurface) Dispose() {
	if s == nil || s.Image == nil {
		return
	}
	s.Image.Deallocate()
	s.Image = nil
}

// EbitenAllocator creates offscreen images on demand.
var EbitenAllocator = preview.SurfaceAllocatorFunc(func(w, h int) (preview.Surface, error) {
	return &EbitenSurface{Image: ebiten.NewImage(w, h)}, nil
})
