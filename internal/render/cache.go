package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// poolKey identifies renderers built from equivalent options
type poolKey struct {
	style    string
	width    int
	emoji    bool
	newlines bool
}

func cacheKey(opts Options) poolKey {
	return poolKey{
		style:    ResolveStyle(opts.Style),
		width:    opts.Width,
		emoji:    opts.EnableEmoji,
		newlines: opts.PreserveNewLines,
	}
}

// rendererPool hands out glamour renderers per option set. A TermRenderer
// must not Render concurrently, so each caller gets its own.
type rendererPool struct {
	pools sync.Map // poolKey -> *sync.Pool
}

var globalPool = &rendererPool{}

func (p *rendererPool) pool(opts Options) *sync.Pool {
	key := cacheKey(opts)
	if v, ok := p.pools.Load(key); ok {
		return v.(*sync.Pool)
	}
	v, _ := p.pools.LoadOrStore(key, &sync.Pool{
		New: func() any {
			r, err := createRenderer(opts)
			if err != nil {
				return nil
			}
			return r
		},
	})
	return v.(*sync.Pool)
}

func (p *rendererPool) get(opts Options) (*glamour.TermRenderer, error) {
	if r, ok := p.pool(opts).Get().(*glamour.TermRenderer); ok && r != nil {
		return r, nil
	}
	// the pool could not build one; build here to report why
	return createRenderer(opts)
}

func (p *rendererPool) put(opts Options, r *glamour.TermRenderer) {
	if r != nil {
		p.pool(opts).Put(r)
	}
}

func createRenderer(opts Options) (*glamour.TermRenderer, error) {
	style := ResolveStyle(opts.Style)
	if style == "" {
		style = StyleDark
	}

	ropts := make([]glamour.TermRendererOption, 0, 4)
	if IsBuiltinStyle(style) {
		ropts = append(ropts, glamour.WithStandardStyle(style))
	} else {
		// anything else is a path to a JSON style file
		ropts = append(ropts, glamour.WithStylePath(style))
	}
	ropts = append(ropts, glamour.WithWordWrap(opts.Width))
	if opts.EnableEmoji {
		ropts = append(ropts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		ropts = append(ropts, glamour.WithPreservedNewLines())
	}

	return glamour.NewTermRenderer(ropts...)
}

// ClearCache drops all pooled renderers.
func ClearCache() {
	globalPool.pools.Clear()
}

// CacheSize returns the number of distinct option sets seen.
func CacheSize() int {
	n := 0
	globalPool.pools.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
