package sim

import (
	"sync"

	"github.com/san-kum/sphfluid/internal/sph"
)

// FramePool recycles position buffers for code that snapshots frames at a
// steady rate and throws them away.
type FramePool struct {
	pool sync.Pool
}

func NewFramePool(capacity int) *FramePool {
	p := &FramePool{}
	p.pool.New = func() interface{} {
		buf := make([]sph.Vec2, 0, capacity)
		return &buf
	}
	return p
}

// Snapshot fills a pooled buffer with the fluid's visual positions.
func (p *FramePool) Snapshot(fluid *sph.Simulation) *[]sph.Vec2 {
	buf := p.pool.Get().(*[]sph.Vec2)
	*buf = fluid.VisualPositions(*buf)
	return buf
}

func (p *FramePool) Put(buf *[]sph.Vec2) {
	*buf = (*buf)[:0]
	p.pool.Put(buf)
}
