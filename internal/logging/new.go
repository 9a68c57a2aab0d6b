package logging

import (
	"fmt"
	"log/slog"
	"os"
)

// New returns a Logger for the named backend. An empty name selects slog.
func New(backend string) (Logger, error) {
	switch backend {
	case "", BackendSlog:
		return NewSlogJSON(os.Stdout, slog.LevelInfo), nil
	case BackendZap:
		zl, err := NewZapProduction()
		if err != nil {
			return nil, fmt.Errorf("zap init error: %w", err)
		}
		return NewZapLogger(zl), nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}
