package shopauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retailops/shopauth/permission"
	"github.com/retailops/shopauth/session"
)

// Message keys resolved through the Translator for user-facing toasts.
const (
	msgKeyCredentialError = "LOGIN_CREDENTIALS_INVALID"
	msgKeyNotAuthorized   = "LOGIN_NOT_AUTHORIZED"
	msgKeyGenericError    = "SOMETHING_WENT_WRONG"
)

// alertPrefix marks server event messages that must surface as
// non-blocking notifications after a successful login.
const alertPrefix = "Alert:"

// Engine defines a public type used by shopauth APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config     Config
	session    *session.State
	authState  AuthorizationState
	backend    Backend
	prefs      PreferenceProvider
	sibling    SiblingModule
	translator Translator
	toasts     *toastDispatcher
	logger     *zap.Logger
	metrics    *Metrics
	registry   *permission.Registry
	rules      permission.Rules
	hasErrorFn ErrorPredicate

	bg sync.WaitGroup
}

// Session describes the session operation and its observable behavior.
//
// Session returns the engine-owned session state for read access. Mutation
// goes through Engine operations only.
func (e *Engine) Session() *session.State {
	if e == nil {
		return nil
	}
	return e.session
}

// Close describes the close operation and its observable behavior.
//
// Close waits for fire-and-forget hydration tasks and drains the toast
// dispatcher.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.bg.Wait()
	if e.toasts != nil {
		e.toasts.Close()
	}
}

// ToastsDropped describes the toastsdropped operation and its observable behavior.
//
// ToastsDropped returns the number of notifications discarded under
// backpressure.
func (e *Engine) ToastsDropped() uint64 {
	if e == nil || e.toasts == nil {
		return 0
	}
	return e.toasts.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot returns a point-in-time copy of all engine metrics.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// Permissions describes the permissions operation and its observable behavior.
//
// Permissions returns the committed app-permission set, empty when
// unauthenticated.
func (e *Engine) Permissions() []string {
	if e == nil {
		return nil
	}
	return e.session.Permissions()
}

// TokenExpiry describes the tokenexpiry operation and its observable behavior.
//
// TokenExpiry returns the expiry lifted from the committed bearer token,
// or the zero time for opaque tokens and unauthenticated sessions.
func (e *Engine) TokenExpiry() time.Time {
	if e == nil {
		return time.Time{}
	}
	return e.session.TokenExpiry()
}

// SetInstanceURL describes the setinstanceurl operation and its observable behavior.
//
// SetInstanceURL rebinds the session to another backend deployment. The
// binding survives Logout; switching deployments mid-session is the
// caller's responsibility.
func (e *Engine) SetInstanceURL(u string) {
	if e == nil {
		return
	}
	e.session.SetInstanceURL(u)
}

// HasPermission describes the haspermission operation and its observable behavior.
//
// HasPermission reports membership of id in the committed permission set.
func (e *Engine) HasPermission(id string) bool {
	if e == nil {
		return false
	}
	return e.session.HasPermission(id)
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) hasError(env Envelope) bool {
	if e.hasErrorFn == nil {
		return defaultErrorPredicate(env)
	}
	return e.hasErrorFn(env)
}

func (e *Engine) translate(key string) string {
	if e.translator == nil {
		return key
	}
	return e.translator.Translate(key)
}

func (e *Engine) showToastKey(ctx context.Context, level ToastLevel, key string) {
	e.showToast(ctx, level, e.translate(key))
}

func (e *Engine) showToast(ctx context.Context, level ToastLevel, message string) {
	if e.toasts == nil {
		return
	}
	e.toasts.Emit(ctx, level, message)
	e.metricInc(MetricToastShown)
}

// spawn runs fn on a tracked goroutine with a fresh context: the caller
// that triggered the work may return (and its context may be canceled)
// before the work completes.
func (e *Engine) spawn(task string, fn func(ctx context.Context)) {
	correlationID := uuid.NewString()
	e.bg.Add(1)
	go func() {
		defer e.bg.Done()
		e.logger.Debug("background task started",
			zap.String("task", task),
			zap.String("correlation_id", correlationID),
		)
		fn(context.Background())
	}()
}

// Login describes the login operation and its observable behavior.
//
// Login exchanges credentials, resolves the caller's permissions against
// the gate, persists the durable authorization state, and commits the
// session, in that strict order. It is all-or-nothing: any failure leaves
// the session untouched. Expected outcomes map to ErrInvalidCredentials
// and ErrLoginNotAuthorized; anything unexpected wraps ErrLoginFailed.
// Profile hydration is triggered fire-and-forget on success.
func (e *Engine) Login(ctx context.Context, username, password string) error {
	if e == nil || e.backend == nil {
		return ErrEngineNotReady
	}

	resp, err := e.backend.Exchange(ctx, username, password)
	if err != nil || e.hasError(resp.Envelope) {
		e.metricInc(MetricLoginFailure)
		e.showToastKey(ctx, ToastError, msgKeyCredentialError)
		if err != nil {
			return errors.Join(ErrInvalidCredentials, err)
		}
		return ErrInvalidCredentials
	}
	token := resp.Token

	// The exchanged token travels explicitly: nothing is committed to the
	// session until the gate passes.
	required := e.rules.Required(e.config.Gate.PermissionID)
	granted, err := e.fetchGrantedPermissions(ctx, token, required)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.showToastKey(ctx, ToastError, msgKeyGenericError)
		return errors.Join(ErrLoginFailed, err)
	}
	appPermissions := e.registry.Prepare(granted)

	if e.config.Gate.Enabled() && gateRejectsLogin(appPermissions, e.config.Gate.PermissionID) {
		e.metricInc(MetricLoginRejected)
		e.showToastKey(ctx, ToastError, msgKeyNotAuthorized)
		return ErrLoginNotAuthorized
	}

	if err := e.authState.SetPermissions(ctx, username, appPermissions); err != nil {
		e.metricInc(MetricLoginFailure)
		e.showToastKey(ctx, ToastError, msgKeyGenericError)
		return errors.Join(ErrLoginFailed, err)
	}

	e.session.CommitAuth(username, token, tokenExpiry(token), appPermissions)
	e.metricInc(MetricLoginSuccess)

	e.spawn("profile-hydration", func(ctx context.Context) {
		if err := e.GetProfile(ctx); err != nil {
			e.logger.Warn("profile hydration failed", zap.Error(err))
		}
	})

	if strings.HasPrefix(resp.EventMessage, alertPrefix) {
		e.showToast(ctx, ToastWarning, resp.EventMessage)
	}

	return nil
}

// fetchGrantedPermissions aggregates the paginated granted-permission
// fetch. A failure on the first page fails the fetch; a failure on a later
// page keeps the pages already collected (partial-failure tolerance for
// large permission sets).
func (e *Engine) fetchGrantedPermissions(ctx context.Context, token string, required []string) ([]PermissionRecord, error) {
	viewSize := e.config.Query.ViewSize
	var all []PermissionRecord

	for page := 0; page < e.config.Query.MaxPermissionPages; page++ {
		resp, err := e.backend.FetchPermissions(ctx, PermissionFetchRequest{
			PermissionIDs: required,
			Token:         token,
			ViewIndex:     page,
			ViewSize:      viewSize,
		})
		if err != nil {
			if page == 0 {
				return nil, err
			}
			e.logger.Warn("permission page fetch failed, keeping partial set",
				zap.Int("page", page),
				zap.Error(err),
			)
			break
		}
		if e.hasError(resp.Envelope) {
			if page == 0 {
				return nil, fmt.Errorf("permission fetch rejected: %s", resp.ErrorMessage)
			}
			e.logger.Warn("permission page rejected, keeping partial set",
				zap.Int("page", page),
				zap.String("error", resp.ErrorMessage),
			)
			break
		}

		all = append(all, resp.Records...)
		if len(resp.Records) < viewSize {
			break
		}
		if resp.Count > 0 && len(all) >= resp.Count {
			break
		}
	}

	return all, nil
}

// Logout describes the logout operation and its observable behavior.
//
// Logout clears the sibling job state, resets the session, and drops the
// durable authorization state. Safe to call even when dependent state was
// never populated.
func (e *Engine) Logout(ctx context.Context) error {
	if e == nil {
		return ErrEngineNotReady
	}

	if e.sibling != nil {
		e.sibling.ClearJobState(ctx)
	}

	userLogin := e.session.UserLogin()
	e.session.Reset()
	e.metricInc(MetricLogout)

	if userLogin != "" && e.authState != nil {
		if err := e.authState.Reset(ctx, userLogin); err != nil {
			// Session is already gone; the stale durable entry is the only
			// residue and it expires on its own TTL.
			e.logger.Warn("authorization state reset failed", zap.Error(err))
			return errors.Join(ErrAuthStateUnavailable, err)
		}
	}

	return nil
}
