package ecs

import (
	"fmt"

	"github.com/milk9111/vrtools/ecs/component"
)

// Entity packs a slot id in the low 32 bits and the slot's generation in
// the high 32. A destroyed entity's handle stops matching once its slot is
// reused.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

// String prints id#generation, e.g. "3#1".
func (e Entity) String() string {
	return fmt.Sprintf("%d#%d", e.id(), e.generation())
}

func (e Entity) Valid() bool {
	return e > 0
}

// Ref converts e for storage inside a component.
func (e Entity) Ref() component.EntityRef {
	return component.EntityRef(e)
}

// FromRef is the inverse of Ref.
func FromRef(r component.EntityRef) Entity {
	return Entity(r)
}
