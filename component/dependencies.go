package component

import (
	"log/slog"

	"github.com/c360/simbridge/metric"
	"github.com/c360/simbridge/natsclient"
)

// Dependencies provides the external collaborators a plugin needs.
// Factories receive this rather than individual parameters so adding a
// dependency does not ripple through every factory signature.
type Dependencies struct {
	NATSClient      *natsclient.Client      // Messaging substrate
	MetricsRegistry *metric.MetricsRegistry // Prometheus registration (can be nil)
	Logger          *slog.Logger            // Structured logger (can be nil, defaults to slog.Default())
}

// GetLogger returns the configured logger or a default logger if none is provided
func (d *Dependencies) GetLogger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// GetLoggerWithComponent returns a logger configured with component context
func (d *Dependencies) GetLoggerWithComponent(componentName string) *slog.Logger {
	return d.GetLogger().With("component", componentName)
}
