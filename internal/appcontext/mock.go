package appcontext

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/assetmap"
	"github.com/agentstation/assetmap/internal/narrative"
	"github.com/agentstation/assetmap/pkg/errors"
)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
type Mock struct {
	AssetmapFunc     func() (assetmap.Assetmap, error)
	NarratorFunc     func(context.Context) (narrative.Generator, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Assetmap returns an instance using the mock function or a fresh default.
func (m *Mock) Assetmap() (assetmap.Assetmap, error) {
	if m.AssetmapFunc != nil {
		return m.AssetmapFunc()
	}
	return assetmap.New()
}

// Narrator returns a generator using the mock function, or an unavailable error.
func (m *Mock) Narrator(ctx context.Context) (narrative.Generator, error) {
	if m.NarratorFunc != nil {
		return m.NarratorFunc(ctx)
	}
	return nil, errors.ErrNarrativeUnavailable
}

// Logger returns a logger using the mock function or a nop logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "test".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "test"
}

// Commit returns commit using the mock function or "test".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "test"
}

// Date returns date using the mock function or "test".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "test"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
