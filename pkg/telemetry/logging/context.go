package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// ScanIDKey is the context key for scan identifiers.
	ScanIDKey contextKey = "scan_id"

	// QueueIDKey is the context key for upstream message identifiers.
	QueueIDKey contextKey = "queue_id"

	// SettingsKey is the context key for the active settings profile.
	SettingsKey contextKey = "settings"
)

// WithScanID adds a scan ID to the context.
func WithScanID(ctx context.Context, scanID string) context.Context {
	return context.WithValue(ctx, ScanIDKey, scanID)
}

// GetScanID retrieves the scan ID from the context.
func GetScanID(ctx context.Context) string {
	if v, ok := ctx.Value(ScanIDKey).(string); ok {
		return v
	}
	return ""
}

// WithQueueID adds an upstream message identifier to the context.
func WithQueueID(ctx context.Context, queueID string) context.Context {
	return context.WithValue(ctx, QueueIDKey, queueID)
}

// GetQueueID retrieves the upstream message identifier from the context.
func GetQueueID(ctx context.Context) string {
	if v, ok := ctx.Value(QueueIDKey).(string); ok {
		return v
	}
	return ""
}

// WithSettings adds the active settings profile to the context.
func WithSettings(ctx context.Context, profile string) context.Context {
	return context.WithValue(ctx, SettingsKey, profile)
}

// GetSettings retrieves the active settings profile from the context.
func GetSettings(ctx context.Context) string {
	if v, ok := ctx.Value(SettingsKey).(string); ok {
		return v
	}
	return ""
}
