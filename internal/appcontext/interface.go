// Package appcontext provides the application context interface shared by
// the CLI commands and the HTTP server.
package appcontext

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/assetmap"
	"github.com/agentstation/assetmap/internal/narrative"
)

// Interface defines what commands need from the application. The App struct
// from cmd/assetmap/app implements it; tests use Mock.
//
// All methods must be safe for concurrent use.
type Interface interface {
	// Assetmap returns the session instance, creating it lazily. Every
	// caller shares its snapshot store.
	Assetmap() (assetmap.Assetmap, error)

	// Narrator returns the narrative generator. It fails with an error that
	// Is ErrNarrativeUnavailable when no API key is configured.
	Narrator(ctx context.Context) (narrative.Generator, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
