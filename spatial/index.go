// Package spatial keeps a ground-plane spatial hash of scene objects so
// tools can find what is near a point.
package spatial

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/vrtools/ecs"
)

const (
	DefaultCellSize = 0.5
	hashCount       = 1024
	// minRadius keeps zero-size objects queryable.
	minRadius = 1e-4
)

type entry struct {
	shape  *cp.Shape
	pos    mgl64.Vec3
	radius float64
}

// Index maps entities to circles on the XZ plane, backed by a chipmunk
// space using a spatial hash.
type Index struct {
	space   *cp.Space
	entries map[ecs.Entity]entry
	owners  map[*cp.Shape]ecs.Entity
}

// New creates an index. cellSize <= 0 uses DefaultCellSize.
func New(cellSize float64) *Index {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	space := cp.NewSpace()
	space.UseSpatialHash(cellSize, hashCount)
	return &Index{
		space:   space,
		entries: make(map[ecs.Entity]entry),
		owners:  make(map[*cp.Shape]ecs.Entity),
	}
}

// Len returns the number of registered entities.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.entries)
}

// Has reports whether e is registered.
func (ix *Index) Has(e ecs.Entity) bool {
	if ix == nil {
		return false
	}
	_, ok := ix.entries[e]
	return ok
}

// Position returns the registered position of e.
func (ix *Index) Position(e ecs.Entity) (mgl64.Vec3, bool) {
	if ix == nil {
		return mgl64.Vec3{}, false
	}
	en, ok := ix.entries[e]
	return en.pos, ok
}

// Add registers e, replacing any previous registration.
func (ix *Index) Add(e ecs.Entity, pos mgl64.Vec3, radius float64) {
	if ix == nil || !e.Valid() {
		return
	}
	ix.Remove(e)
	if radius < minRadius {
		radius = minRadius
	}
	shape := cp.NewCircle(ix.space.StaticBody, radius, toPlane(pos))
	shape.SetSensor(true)
	ix.space.AddShape(shape)
	ix.entries[e] = entry{shape: shape, pos: pos, radius: radius}
	ix.owners[shape] = e
}

// Move updates the position and radius of a registered entity.
func (ix *Index) Move(e ecs.Entity, pos mgl64.Vec3, radius float64) bool {
	if !ix.Has(e) {
		return false
	}
	ix.Add(e, pos, radius)
	return true
}

// Remove unregisters e.
func (ix *Index) Remove(e ecs.Entity) bool {
	if ix == nil {
		return false
	}
	en, ok := ix.entries[e]
	if !ok {
		return false
	}
	ix.space.RemoveShape(en.shape)
	delete(ix.owners, en.shape)
	delete(ix.entries, e)
	return true
}

// Query returns the entities whose footprint overlaps the circle at center
// with the given radius, ordered by distance then entity.
func (ix *Index) Query(center mgl64.Vec3, radius float64) []ecs.Entity {
	if ix == nil || len(ix.entries) == 0 {
		return nil
	}
	if radius < 0 {
		radius = 0
	}
	c := toPlane(center)
	bb := cp.NewBBForCircle(c, radius)

	type hit struct {
		e    ecs.Entity
		dist float64
	}
	var hits []hit
	ix.space.BBQuery(bb, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, data interface{}) {
		e, ok := ix.owners[shape]
		if !ok {
			return
		}
		en := ix.entries[e]
		d := toPlane(en.pos).Distance(c)
		if d <= radius+en.radius {
			hits = append(hits, hit{e: e, dist: d})
		}
	}, nil)

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].e < hits[j].e
	})
	out := make([]ecs.Entity, len(hits))
	for i, h := range hits {
		out[i] = h.e
	}
	return out
}

// Nearest returns the closest entity within radius of center.
func (ix *Index) Nearest(center mgl64.Vec3, radius float64) (ecs.Entity, bool) {
	hits := ix.Query(center, radius)
	if len(hits) == 0 {
		return 0, false
	}
	return hits[0], true
}

func toPlane(p mgl64.Vec3) cp.Vector {
	return cp.Vector{X: p.X(), Y: p.Z()}
}
