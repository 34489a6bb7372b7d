package shopauth

import "errors"

var (
	// ErrInvalidCredentials is an exported constant or variable used by the session engine.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrLoginNotAuthorized is an exported constant or variable used by the session engine.
	ErrLoginNotAuthorized = errors.New("login not authorized")
	// ErrLoginFailed is an exported constant or variable used by the session engine.
	ErrLoginFailed = errors.New("login failed")
	// ErrNotAuthenticated is an exported constant or variable used by the session engine.
	ErrNotAuthenticated = errors.New("session not authenticated")
	// ErrProfileUnavailable is an exported constant or variable used by the session engine.
	ErrProfileUnavailable = errors.New("profile unavailable")
	// ErrShopConfigUnavailable is an exported constant or variable used by the session engine.
	ErrShopConfigUnavailable = errors.New("shop configuration unavailable")
	// ErrPreferenceWriteFailed is an exported constant or variable used by the session engine.
	ErrPreferenceWriteFailed = errors.New("preference write failed")
	// ErrPreferenceAssociationFailed is an exported constant or variable used by the session engine.
	ErrPreferenceAssociationFailed = errors.New("preference association failed")
	// ErrAuthStateUnavailable is an exported constant or variable used by the session engine.
	ErrAuthStateUnavailable = errors.New("authorization state backend unavailable")
	// ErrEngineNotReady is an exported constant or variable used by the session engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
