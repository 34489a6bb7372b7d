package shopauth

import (
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/retailops/shopauth/authstate"
	"github.com/retailops/shopauth/permission"
	"github.com/retailops/shopauth/session"
)

// Builder defines a public type used by shopauth APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  *redis.Client

	rules    permission.Rules
	mappings map[string][]string

	backend    Backend
	prefs      PreferenceProvider
	sibling    SiblingModule
	authState  AuthorizationState
	toastSink  ToastSink
	translator Translator
	logger     *zap.Logger
	hasError   ErrorPredicate

	built bool
}

// New describes the new operation and its observable behavior.
//
// New returns a Builder preloaded with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig replaces the builder configuration wholesale.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis supplies the Redis client backing the default durable
// authorization state.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithBackend describes the withbackend operation and its observable behavior.
//
// WithBackend supplies the remote API collaborator. Required.
func (b *Builder) WithBackend(backend Backend) *Builder {
	b.backend = backend
	return b
}

// WithPreferenceProvider describes the withpreferenceprovider operation and its observable behavior.
//
// WithPreferenceProvider supplies the per-user preference collaborator.
func (b *Builder) WithPreferenceProvider(p PreferenceProvider) *Builder {
	b.prefs = p
	return b
}

// WithSiblingModule describes the withsiblingmodule operation and its observable behavior.
//
// WithSiblingModule supplies the job/status sibling subsystem dispatch.
func (b *Builder) WithSiblingModule(s SiblingModule) *Builder {
	b.sibling = s
	return b
}

// WithAuthorizationState describes the withauthorizationstate operation and its observable behavior.
//
// WithAuthorizationState overrides the Redis-backed default durable
// permission store.
func (b *Builder) WithAuthorizationState(s AuthorizationState) *Builder {
	b.authState = s
	return b
}

// WithToastSink describes the withtoastsink operation and its observable behavior.
//
// WithToastSink supplies the notification presentation sink.
func (b *Builder) WithToastSink(sink ToastSink) *Builder {
	b.toastSink = sink
	return b
}

// WithTranslator describes the withtranslator operation and its observable behavior.
//
// WithTranslator supplies the localization lookup used for user-facing
// messages. Defaults to a key passthrough.
func (b *Builder) WithTranslator(t Translator) *Builder {
	b.translator = t
	return b
}

// WithLogger describes the withlogger operation and its observable behavior.
//
// WithLogger supplies the structured logger. Defaults to zap.NewNop.
func (b *Builder) WithLogger(l *zap.Logger) *Builder {
	b.logger = l
	return b
}

// WithPermissionRules describes the withpermissionrules operation and its observable behavior.
//
// WithPermissionRules supplies the static role → permission rules the
// required allow-list is derived from. Required.
func (b *Builder) WithPermissionRules(r permission.Rules) *Builder {
	b.rules = r
	return b
}

// WithPermissionMappings describes the withpermissionmappings operation and its observable behavior.
//
// WithPermissionMappings registers server → app permission id renames.
// Unmapped server permissions pass through under their own id.
func (b *Builder) WithPermissionMappings(m map[string][]string) *Builder {
	b.mappings = m
	return b
}

// WithErrorPredicate describes the witherrorpredicate operation and its observable behavior.
//
// WithErrorPredicate overrides the application-level error-envelope check.
func (b *Builder) WithErrorPredicate(p ErrorPredicate) *Builder {
	b.hasError = p
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled toggles in-process metrics collection.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.backend == nil {
		return nil, errors.New("backend required")
	}
	if len(b.rules) == 0 {
		return nil, errors.New("permission rules must be provided")
	}

	authState := b.authState
	if authState == nil {
		if b.redis == nil {
			return nil, errors.New("redis client required")
		}
		authState = authstate.NewStore(b.redis, cfg.AuthState.RedisPrefix, cfg.AuthState.TTL)
	}

	// -------- PERMISSION REGISTRY --------
	registry := permission.NewRegistry()
	for serverID, appIDs := range b.mappings {
		if err := registry.Register(serverID, appIDs...); err != nil {
			return nil, err
		}
	}
	registry.Freeze()

	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	translator := b.translator
	if translator == nil {
		translator = passthroughTranslator{}
	}
	hasError := b.hasError
	if hasError == nil {
		hasError = defaultErrorPredicate
	}

	state := session.NewState()
	state.SetInstanceURL(cfg.Instance.URL)
	if cfg.Instance.DefaultTimeZone != "" {
		state.SetTimeZone(cfg.Instance.DefaultTimeZone)
	}

	engine := &Engine{
		config:     cfg,
		session:    state,
		authState:  authState,
		backend:    b.backend,
		prefs:      b.prefs,
		sibling:    b.sibling,
		translator: translator,
		logger:     logger,
		registry:   registry,
		rules:      b.rules,
		hasErrorFn: hasError,
	}
	engine.toasts = newToastDispatcher(cfg.Notifications, b.toastSink)
	engine.metrics = NewMetrics(cfg.Metrics)

	b.built = true

	return engine, nil
}
