package gallery

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

// rubberBand slows drags past the first or last item.
const rubberBand = 3

// pager lays out the current item with its neighbours beside it and slides between them.
type pager struct {
	opts     *Options
	animator Animator
	coord    *pagingCoordinator

	box  *fyne.Container
	size fyne.Size

	current *itemController
	prev    *itemController
	next    *itemController

	offset      float32
	isAnimating bool
}

func newPager(opts *Options, animator Animator, coord *pagingCoordinator) *pager {
	return &pager{
		opts:     opts,
		animator: animator,
		coord:    coord,
		box:      container.NewWithoutLayout(),
	}
}

func (p *pager) object() fyne.CanvasObject {
	return p.box
}

// show makes c the current controller without animation.
func (p *pager) show(c *itemController) {
	p.current = c
	p.offset = 0
	p.loadNeighbours()
	p.coord.land(c.index)
	p.rebuild()
	p.layout(p.size)
}

func (p *pager) loadNeighbours() {
	p.prev = p.coord.controllerBefore(p.current)
	p.next = p.coord.controllerAfter(p.current)
}

func (p *pager) rebuild() {
	objects := make([]fyne.CanvasObject, 0, 3)
	for _, c := range []*itemController{p.prev, p.next} {
		if c != nil && c != p.current {
			objects = append(objects, c.object())
		}
	}
	if p.current != nil {
		objects = append(objects, p.current.object())
	}
	p.box.Objects = objects
	p.box.Refresh()
}

func (p *pager) stride() float32 {
	return p.size.Width + p.opts.ImageDividerWidth
}

func (p *pager) layout(size fyne.Size) {
	p.size = size
	p.box.Resize(size)

	place := func(c *itemController, x float32) {
		if c == nil {
			return
		}
		c.layout(size)
		c.object().Move(fyne.NewPos(x, 0))
	}

	stride := p.stride()
	if p.prev != nil && p.prev == p.next {
		// Two circular items: the single neighbour goes to the side being revealed.
		if p.offset > 0 {
			place(p.prev, p.offset-stride)
		} else {
			place(p.next, p.offset+stride)
		}
	} else {
		place(p.prev, p.offset-stride)
		place(p.next, p.offset+stride)
	}
	place(p.current, p.offset)
}

// drag moves the pages by dx, the horizontal translation of the current pan.
func (p *pager) drag(dx float32) {
	if p.isAnimating || p.current == nil {
		return
	}
	if (dx > 0 && p.prev == nil) || (dx < 0 && p.next == nil) {
		dx /= rubberBand
	}
	p.offset = dx
	p.layout(p.size)
}

// endDrag commits to a neighbour when the drag went far or fast enough and springs back
// otherwise.
func (p *pager) endDrag(velocityX float32) {
	if p.isAnimating || p.current == nil {
		return
	}

	threshold := p.opts.SwipeToDismissThresholdVelocity
	distance := p.opts.PageCommitRatio * p.size.Width

	switch {
	case p.next != nil && (p.offset < -distance || (p.offset < 0 && velocityX <= -threshold)):
		p.slide(1)
	case p.prev != nil && (p.offset > distance || (p.offset > 0 && velocityX >= threshold)):
		p.slide(-1)
	default:
		p.settle()
	}
}

// page moves one item forward for step 1 and back for step -1.
func (p *pager) page(step int) bool {
	if p.isAnimating || p.current == nil {
		return false
	}
	if (step > 0 && p.next == nil) || (step < 0 && p.prev == nil) {
		return false
	}
	p.slide(step)
	return true
}

func (p *pager) slide(step int) {
	target := p.next
	to := -p.stride()
	if step < 0 {
		target = p.prev
		to = p.stride()
	}
	leaving := p.current

	p.isAnimating = true
	leaving.willDisappear()
	target.willAppear()

	from := p.offset
	p.animator.Start(&Animation{
		Duration: p.opts.PageDuration.D(),
		Curve:    fyne.AnimationEaseOut,
		Tick: func(v float32) {
			p.offset = lerp32(from, to, v)
			p.layout(p.size)
		},
		Done: func() {
			p.isAnimating = false
			p.show(target)
			target.didAppear()
		},
	})
}

func (p *pager) settle() {
	if p.offset == 0 {
		return
	}
	p.isAnimating = true
	from := p.offset
	p.animator.Start(&Animation{
		Duration: p.opts.PageDuration.D(),
		Curve:    fyne.AnimationEaseOut,
		Tick: func(v float32) {
			p.offset = lerp32(from, 0, v)
			p.layout(p.size)
		},
		Done: func() {
			p.isAnimating = false
			p.offset = 0
			p.layout(p.size)
		},
	})
}

// jump shows index without sliding.
func (p *pager) jump(index int) bool {
	if p.isAnimating || p.current == nil || index == p.current.index {
		return false
	}
	c := p.coord.controllerAt(index)
	if c == nil {
		return false
	}

	p.current.willDisappear()
	c.willAppear()
	p.show(c)
	c.didAppear()
	return true
}
