package logging

import "go.uber.org/zap"

// New returns a named child of the global logger so components that take an
// injected logger log through whatever config.New installed.
func New(name string) *zap.SugaredLogger {
	return zap.S().Named(name)
}
