package shopauth

import (
	"context"

	"github.com/retailops/shopauth/permission"
	"github.com/retailops/shopauth/session"
)

// Profile is the user identity record hydrated after login.
//
//	Docs: session package.
type Profile = session.Profile

// Store is a retail brand/channel entity the session can be scoped to.
// The sentinel empty store represents "no scoping".
type Store = session.Store

// ShopConfig is a channel-specific integration configuration bound to a
// store.
type ShopConfig = session.ShopConfig

// PinnedJobSet is the per-user pinned work-item preference.
type PinnedJobSet = session.PinnedJobSet

// Job is the descriptive record of a pinned work item.
type Job = session.Job

// PermissionRecord is a granted-permission record as reported by the
// backend.
type PermissionRecord = permission.Record

// Envelope carries the application-level status shared by every backend
// response. A transport-level success can still signal an application
// error here.
type Envelope struct {
	StatusCode   int
	ErrorMessage string
}

// ErrorPredicate decides whether a response envelope signals an
// application-level error despite transport success. Deployments with
// non-standard envelopes override it through [Builder.WithErrorPredicate].
type ErrorPredicate func(Envelope) bool

func defaultErrorPredicate(env Envelope) bool {
	if env.ErrorMessage != "" {
		return true
	}
	return env.StatusCode != 0 && (env.StatusCode < 200 || env.StatusCode >= 300)
}

// LoginResponse is returned by [Backend.Exchange].
type LoginResponse struct {
	Envelope

	Token string

	// EventMessage optionally carries a server-side notice. Messages
	// prefixed "Alert:" surface as non-blocking toasts after a successful
	// login.
	EventMessage string
}

// ProfileResponse is returned by [Backend.FetchProfile].
type ProfileResponse struct {
	Envelope

	Profile Profile
}

// PermissionFetchRequest asks the backend which of the listed permission
// identifiers the token's user holds. The token travels explicitly because
// the session token is not committed until the gate passes.
type PermissionFetchRequest struct {
	PermissionIDs []string
	Token         string

	// ViewIndex/ViewSize page through large permission sets.
	ViewIndex int
	ViewSize  int
}

// PermissionFetchResponse is returned by [Backend.FetchPermissions].
type PermissionFetchResponse struct {
	Envelope

	Records []PermissionRecord

	// Count is the total number of matching records across all pages.
	Count int
}

// EntityQueryRequest is the generic filtered/paginated list fetch consumed
// by store-list and shop-config resolution.
type EntityQueryRequest struct {
	EntityName  string
	InputFields map[string]interface{}
	FieldList   []string
	Distinct    bool
	OrderBy     string
	ViewIndex   int
	ViewSize    int
}

// EntityQueryResponse is returned by [Backend.Query]. Docs are decoded into
// typed records at the engine boundary.
type EntityQueryResponse struct {
	Envelope

	Docs  []map[string]interface{}
	Count int
}

// Backend is the remote API surface the engine sequences. Implementations
// own transport, retry, and timeout policy; the engine owns ordering and
// state.
//
//	Docs: docs/engine.md
type Backend interface {
	Exchange(ctx context.Context, username, password string) (LoginResponse, error)
	FetchProfile(ctx context.Context, token string) (ProfileResponse, error)
	FetchPermissions(ctx context.Context, req PermissionFetchRequest) (PermissionFetchResponse, error)
	Query(ctx context.Context, req EntityQueryRequest) (EntityQueryResponse, error)
	UpdateUserTimeZone(ctx context.Context, token, timeZone string) error
}

// PreferenceRecord is a typed key-value preference persisted per user.
type PreferenceRecord struct {
	ID    string
	Value string
}

// PreferenceQuery selects a single preference record by type tag.
type PreferenceQuery struct {
	TypeID  string
	OrderBy string
	Limit   int
}

// PreferenceProvider persists per-user preferences. Get/Set cover simple
// keyed values (selected brand); Find/Create/Update/Associate cover
// record-level flows (pinned jobs), where creation and association are two
// distinct calls.
type PreferenceProvider interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error

	Find(ctx context.Context, q PreferenceQuery) (rec PreferenceRecord, found bool, err error)
	Create(ctx context.Context, value string) (id string, err error)
	Update(ctx context.Context, id, value string) error
	Associate(ctx context.Context, id, typeID string) error
}

// SiblingModule is the narrow capability surface of the sibling subsystems
// the session flows dispatch into. ClearJobState is fire-and-forget by
// contract; the others return data or errors the caller may inspect.
type SiblingModule interface {
	ClearJobState(ctx context.Context)
	FetchJobDescriptions(ctx context.Context, jobIDs []string) ([]Job, error)
	FetchServiceStatus(ctx context.Context) error
}

// AuthorizationState is the durable, process-external permission store
// whose lifecycle is tied 1:1 to login/logout. The default implementation
// is the Redis-backed authstate.Store.
type AuthorizationState interface {
	SetPermissions(ctx context.Context, userLogin string, permissions []string) error
	Reset(ctx context.Context, userLogin string) error
}

// Translator resolves message keys into user-facing display strings.
type Translator interface {
	Translate(key string) string
}

type passthroughTranslator struct{}

func (passthroughTranslator) Translate(key string) string { return key }
