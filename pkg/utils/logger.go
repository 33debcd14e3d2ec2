package utils

import "go.uber.org/zap"

// NewLogger builds the process logger. Debug mode uses the console
// development encoder at debug level; otherwise structured JSON at info
// level with sampling disabled so indexing activity is not dropped.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Sampling = nil
	return cfg.Build()
}
