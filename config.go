package shopauth

import (
	"errors"
	"time"
)

// Config defines a public type used by shopauth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Gate          GateConfig
	Instance      InstanceConfig
	Query         QueryConfig
	Preferences   PreferencesConfig
	AuthState     AuthStateConfig
	Notifications NotificationsConfig
	Metrics       MetricsConfig
}

/*
====================================
GATE CONFIG
====================================
*/

// GateConfig defines a public type used by shopauth APIs.
//
// GateConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type GateConfig struct {
	// PermissionID is the single deployment-configured permission id the
	// login gate evaluates. Empty disables gating entirely: any
	// authenticated user passes.
	PermissionID string
}

// Enabled reports whether the login gate is active.
func (g GateConfig) Enabled() bool {
	return g.PermissionID != ""
}

/*
====================================
INSTANCE CONFIG
====================================
*/

// InstanceConfig defines a public type used by shopauth APIs.
//
// InstanceConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type InstanceConfig struct {
	URL             string
	DefaultTimeZone string
}

/*
====================================
QUERY CONFIG
====================================
*/

// QueryConfig defines a public type used by shopauth APIs.
//
// QueryConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type QueryConfig struct {
	// ViewSize is the page size for entity queries and permission fetches.
	ViewSize int
	// MaxPermissionPages caps paginated permission aggregation.
	MaxPermissionPages int
}

/*
====================================
PREFERENCES CONFIG
====================================
*/

// PreferencesConfig defines a public type used by shopauth APIs.
//
// PreferencesConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PreferencesConfig struct {
	SelectedBrandKey string
	PinnedJobsTypeID string
}

/*
====================================
AUTH STATE CONFIG
====================================
*/

// AuthStateConfig defines a public type used by shopauth APIs.
//
// AuthStateConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuthStateConfig struct {
	RedisPrefix string
	// TTL bounds how long the persisted permission set outlives its last
	// write. Zero means no expiry; logout is then the only cleanup.
	TTL time.Duration
}

// NotificationsConfig defines a public type used by shopauth APIs.
//
// NotificationsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type NotificationsConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by shopauth APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

func defaultConfig() Config {
	return Config{
		Gate: GateConfig{
			PermissionID: "",
		},
		Instance: InstanceConfig{
			DefaultTimeZone: "",
		},
		Query: QueryConfig{
			ViewSize:           100,
			MaxPermissionPages: 20,
		},
		Preferences: PreferencesConfig{
			SelectedBrandKey: "SELECTED_BRAND",
			PinnedJobsTypeID: "PINNED_JOB",
		},
		AuthState: AuthStateConfig{
			RedisPrefix: "bo",
			TTL:         30 * 24 * time.Hour,
		},
		Notifications: NotificationsConfig{
			Enabled:    true,
			BufferSize: 64,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	if c.Query.ViewSize <= 0 {
		return errors.New("Query ViewSize must be > 0")
	}
	if c.Query.MaxPermissionPages <= 0 {
		return errors.New("Query MaxPermissionPages must be > 0")
	}

	if c.Preferences.SelectedBrandKey == "" {
		return errors.New("Preferences SelectedBrandKey is required")
	}
	if c.Preferences.PinnedJobsTypeID == "" {
		return errors.New("Preferences PinnedJobsTypeID is required")
	}

	if c.AuthState.RedisPrefix == "" {
		return errors.New("AuthState RedisPrefix is required")
	}
	if c.AuthState.TTL < 0 {
		return errors.New("AuthState TTL must be >= 0")
	}

	if c.Notifications.Enabled && c.Notifications.BufferSize <= 0 {
		return errors.New("Notifications BufferSize must be > 0 when notifications are enabled")
	}

	return nil
}
