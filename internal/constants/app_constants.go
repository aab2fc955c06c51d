package constants

import "time"

const (
	// Application-level constants
	ServiceName = "resume-extract"
	Version     = "1.0.0"

	DefaultCacheTTL         = 24 * time.Hour
	DefaultMaxFileSizeBytes = 10 << 20
	DefaultServerAddress    = ":8080"
)
