package track

// Context is the per-block process context: host-owned channel pointers
// and the frame count, valid only for the duration of one
// Engine.ProcessBlock call. Nothing in this package retains In/Out past
// the call that supplied them.
type Context struct {
	In        [][]float32
	Out       [][]float32
	NumFrames int
}

// ClearOut zeros every output channel's first NumFrames samples.
func (c *Context) ClearOut() {
	for ch := range c.Out {
		buf := c.Out[ch][:c.NumFrames]
		for i := range buf {
			buf[i] = 0
		}
	}
}

// copyInToOut seeds ctx.Out with ctx.In so a track's module chain can
// operate on ctx.Out in place from the first module onward. Channel
// counts may differ (e.g. mono in, stereo out); extra output channels
// beyond len(In) are left untouched for the first module to fill.
func (c *Context) copyInToOut() {
	n := len(c.In)
	if len(c.Out) < n {
		n = len(c.Out)
	}
	for ch := 0; ch < n; ch++ {
		copy(c.Out[ch][:c.NumFrames], c.In[ch][:c.NumFrames])
	}
}
