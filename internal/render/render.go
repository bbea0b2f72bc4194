package render

import "strings"

// Markdown renders markdown content for terminal display with a renderer
// borrowed from the pool for opts.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := globalPool.get(opts)
	if err != nil {
		return "", err
	}
	defer globalPool.put(opts, renderer)

	return renderer.Render(content)
}

// Answer renders an assistant answer, falling back to the raw text when
// rendering fails.
func Answer(content string, opts Options) string {
	out, err := Markdown(content, opts)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}
