package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/munchers/components"
)

// Population keeps the ordered per-kind entity lists.
// The ECS world stores components but not order, so iteration order comes from here.
// Entities marked during a step stay in their lists until Compact.
type Population struct {
	lists   [components.NumKinds][]ecs.Entity
	removed map[ecs.Entity]struct{}
}

// NewPopulation creates an empty population.
func NewPopulation() *Population {
	return &Population{
		removed: make(map[ecs.Entity]struct{}),
	}
}

// Append adds e to the end of kind's list.
func (p *Population) Append(kind components.Kind, e ecs.Entity) {
	p.lists[kind] = append(p.lists[kind], e)
}

// Len returns the number of entries of kind, including marked ones.
func (p *Population) Len(kind components.Kind) int {
	return len(p.lists[kind])
}

// At returns the i-th entity of kind.
func (p *Population) At(kind components.Kind, i int) ecs.Entity {
	return p.lists[kind][i]
}

// Entities returns kind's list. Callers must not modify it.
func (p *Population) Entities(kind components.Kind) []ecs.Entity {
	return p.lists[kind]
}

// Contains reports whether e is in kind's list.
func (p *Population) Contains(kind components.Kind, e ecs.Entity) bool {
	for _, x := range p.lists[kind] {
		if x == e {
			return true
		}
	}
	return false
}

// Mark flags e for removal at the next Compact.
// Returns false if e was already marked.
func (p *Population) Mark(e ecs.Entity) bool {
	if _, ok := p.removed[e]; ok {
		return false
	}
	p.removed[e] = struct{}{}
	return true
}

// Removed reports whether e has been marked since the last Compact.
func (p *Population) Removed(e ecs.Entity) bool {
	_, ok := p.removed[e]
	return ok
}

// Pending returns the number of marked entities.
func (p *Population) Pending() int {
	return len(p.removed)
}

// RemoveAt deletes the i-th entry of kind immediately and returns it.
// Must not be called while iterating kind's list. The entity stays alive in
// the ECS world; use Game.Remove to take an entity out of the arena.
func (p *Population) RemoveAt(kind components.Kind, i int) ecs.Entity {
	list := p.lists[kind]
	e := list[i]
	copy(list[i:], list[i+1:])
	list[len(list)-1] = ecs.Entity{}
	p.lists[kind] = list[:len(list)-1]
	delete(p.removed, e)
	return e
}

// Compact drops every marked entity from the lists, preserving the order of survivors.
// onRemove is called for each dropped entity in kind then list order.
func (p *Population) Compact(onRemove func(kind components.Kind, e ecs.Entity)) int {
	if len(p.removed) == 0 {
		return 0
	}

	n := 0
	for k := range p.lists {
		kind := components.Kind(k)
		list := p.lists[k]
		kept := list[:0]
		for _, e := range list {
			if _, ok := p.removed[e]; ok {
				if onRemove != nil {
					onRemove(kind, e)
				}
				n++
				continue
			}
			kept = append(kept, e)
		}
		for i := len(kept); i < len(list); i++ {
			list[i] = ecs.Entity{}
		}
		p.lists[k] = kept
	}

	clear(p.removed)
	return n
}

// Counts returns the number of unmarked entities per kind.
func (p *Population) Counts() [components.NumKinds]int {
	var counts [components.NumKinds]int
	for k, list := range p.lists {
		for _, e := range list {
			if !p.Removed(e) {
				counts[k]++
			}
		}
	}
	return counts
}
