package ecs

import "github.com/hajimehoshi/ebiten/v2"

// System updates a world each frame.
type System interface {
	Update(w *World)
}

// LateSystem runs after every System has updated, once per-frame poses and
// inputs are final.
type LateSystem interface {
	LateUpdate(w *World)
}

// Drawer renders world state onto a screen.
type Drawer interface {
	Draw(w *World, screen *ebiten.Image)
}

// Scheduler owns system order for both phases.
type Scheduler struct {
	systems []System
	late    []LateSystem
	drawers []Drawer
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, sys := range systems {
		s.Add(sys)
	}
	return s
}

// Add appends a system to the update order. Systems that also implement
// LateSystem or Drawer are registered for those phases too.
func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
	if late, ok := system.(LateSystem); ok {
		s.late = append(s.late, late)
	}
	if d, ok := system.(Drawer); ok {
		s.drawers = append(s.drawers, d)
	}
}

// AddLate appends a system that only runs in the late phase.
func (s *Scheduler) AddLate(system LateSystem) {
	if system == nil {
		return
	}
	s.late = append(s.late, system)
	if d, ok := system.(Drawer); ok {
		s.drawers = append(s.drawers, d)
	}
}

// Tick sets the frame delta and runs Update then LateUpdate.
func (s *Scheduler) Tick(w *World, dt float64) {
	if w == nil {
		return
	}
	w.dt = dt
	for _, system := range s.systems {
		system.Update(w)
	}
	for _, system := range s.late {
		system.LateUpdate(w)
	}
	w.frame++
}

// Draw calls every registered Drawer in order.
func (s *Scheduler) Draw(w *World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	for _, d := range s.drawers {
		d.Draw(w, screen)
	}
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
