package cli

import "context"

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	Runtime *Runtime
	Ctx     context.Context

	// Terminal dimensions
	Width  int
	Height int
}

// ContentHeight returns the height available to the active view, leaving
// room for the header (title + separator) and the status bar (separator +
// notice + hints).
func (s *SharedState) ContentHeight() int {
	return max(s.Height-5, 1)
}

func (s *SharedState) context() context.Context {
	if s.Ctx == nil {
		return context.Background()
	}
	return s.Ctx
}
