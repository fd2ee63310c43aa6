package gallery

import (
	"fmt"
	"sort"
)

// controllerFactory builds the controller for an item.
type controllerFactory func(index int, item Item, initial bool) *itemController

// pagingCoordinator creates controllers on demand and keeps only the current item and its
// neighbours alive.
type pagingCoordinator struct {
	source   ItemSource
	circular bool
	build    controllerFactory
	retained map[int]*itemController
}

func newPagingCoordinator(source ItemSource, circular bool, build controllerFactory) *pagingCoordinator {
	return &pagingCoordinator{
		source:   source,
		circular: circular,
		build:    build,
		retained: make(map[int]*itemController),
	}
}

func (p *pagingCoordinator) count() int {
	n := p.source.NumberOfItems()
	if n < 0 {
		panic(fmt.Sprintf("gallery: item source reports negative count %d", n))
	}
	return n
}

// neighbour returns the index step positions away from index, wrapping only for circular
// sequences with more than one item.
func (p *pagingCoordinator) neighbour(index, step int) (int, bool) {
	n := p.count()
	next := index + step
	if next >= 0 && next < n {
		return next, true
	}
	if !p.circular || n <= 1 {
		return 0, false
	}
	return (next%n + n) % n, true
}

func (p *pagingCoordinator) controllerBefore(current *itemController) *itemController {
	if current == nil {
		return nil
	}
	i, ok := p.neighbour(current.index, -1)
	if !ok {
		return nil
	}
	return p.controllerAt(i)
}

func (p *pagingCoordinator) controllerAfter(current *itemController) *itemController {
	if current == nil {
		return nil
	}
	i, ok := p.neighbour(current.index, 1)
	if !ok {
		return nil
	}
	return p.controllerAt(i)
}

// controllerAt returns the retained controller for index, creating it when needed.
func (p *pagingCoordinator) controllerAt(index int) *itemController {
	if c, ok := p.retained[index]; ok {
		if c.index != index {
			panic(fmt.Sprintf("gallery: controller for %d retained under %d", c.index, index))
		}
		return c
	}
	return p.createController(index, false)
}

// createController resolves the item at index and builds its controller. It returns nil
// for an unavailable item.
func (p *pagingCoordinator) createController(index int, initial bool) *itemController {
	if index < 0 || index >= p.count() {
		return nil
	}
	item, ok := p.source.Item(index)
	if !ok || item == nil {
		return nil
	}

	c := p.build(index, item, initial)
	if old, ok := p.retained[index]; ok && old != c {
		old.teardown()
	}
	p.retained[index] = c
	c.fetchImage()
	return c
}

// land makes index the current item and tears down every controller outside the window
// of the previous, current and next item.
func (p *pagingCoordinator) land(index int) {
	keep := map[int]bool{index: true}
	if i, ok := p.neighbour(index, -1); ok {
		keep[i] = true
	}
	if i, ok := p.neighbour(index, 1); ok {
		keep[i] = true
	}

	for i, c := range p.retained {
		if keep[i] {
			continue
		}
		c.teardown()
		delete(p.retained, i)
	}
}

// retainedIndices lists the live controllers in ascending order.
func (p *pagingCoordinator) retainedIndices() []int {
	out := make([]int, 0, len(p.retained))
	for i := range p.retained {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// teardownAll releases every controller.
func (p *pagingCoordinator) teardownAll() {
	for i, c := range p.retained {
		c.teardown()
		delete(p.retained, i)
	}
}
