package session

import (
	"sync"
	"time"
)

// State defines a public type used by shopauth APIs.
//
// State is the single mutable container for one client session. All reads
// and writes go through its methods; composite updates are committed under
// one lock acquisition.
type State struct {
	mu sync.RWMutex

	userLogin   string
	token       string
	tokenExpiry time.Time

	user    Profile
	hasUser bool

	permissions []string
	permIndex   map[string]struct{}

	currentStore Store

	shopConfigs       []ShopConfig
	currentShopConfig ShopConfig

	timeZone    string
	instanceURL string
}

// NewState describes the newstate operation and its observable behavior.
//
// NewState returns an empty, unauthenticated session state.
func NewState() *State {
	return &State{
		permIndex: make(map[string]struct{}),
	}
}

// CommitAuth commits the login identifier, bearer token, and the prepared
// permission set in one step. It is the only way a session becomes
// authenticated.
func (s *State) CommitAuth(userLogin, token string, expiry time.Time, permissions []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.userLogin = userLogin
	s.token = token
	s.tokenExpiry = expiry
	s.permissions = append([]string(nil), permissions...)
	s.permIndex = make(map[string]struct{}, len(permissions))
	for _, p := range permissions {
		s.permIndex[p] = struct{}{}
	}
}

// UserLogin returns the login identifier committed at authentication time.
func (s *State) UserLogin() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userLogin
}

// Token describes the token operation and its observable behavior.
//
// Token returns the committed bearer token, or "" when unauthenticated.
func (s *State) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// TokenExpiry returns the expiry lifted from the token at commit time, or
// the zero time when the token was opaque.
func (s *State) TokenExpiry() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokenExpiry
}

// Authenticated describes the authenticated operation and its observable behavior.
//
// Authenticated reports whether a token has been committed and not reset.
func (s *State) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Permissions returns a copy of the committed permission set, empty when
// unauthenticated.
func (s *State) Permissions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.permissions...)
}

// HasPermission describes the haspermission operation and its observable behavior.
//
// HasPermission reports membership of id in the committed permission set.
func (s *State) HasPermission(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.permIndex[id]
	return ok
}

// CommitProfile commits the hydrated profile and the resolved current store
// together. Readers never observe one without the other.
func (s *State) CommitProfile(p Profile, current Store) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.Stores = append([]Store(nil), p.Stores...)
	s.user = p
	s.hasUser = true
	s.currentStore = current
}

// Profile returns the committed profile. The second result is false before
// hydration completes or after a reset.
func (s *State) Profile() (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.hasUser {
		return Profile{}, false
	}
	p := s.user
	p.Stores = append([]Store(nil), p.Stores...)
	return p, true
}

// Stores returns a copy of the profile's store list.
func (s *State) Stores() []Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Store(nil), s.user.Stores...)
}

// LookupStore resolves a store identifier against the committed store list.
func (s *State) LookupStore(productStoreID string) (Store, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, st := range s.user.Stores {
		if st.ProductStoreID == productStoreID {
			return st, true
		}
	}
	return Store{}, false
}

// CurrentStore describes the currentstore operation and its observable behavior.
//
// CurrentStore returns the selected store, or the zero Store when none is
// selected.
func (s *State) CurrentStore() Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentStore
}

// SetCurrentStore commits a new store selection.
func (s *State) SetCurrentStore(st Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentStore = st
}

// SetShopConfigs commits the resolved config list and the current selection
// together.
func (s *State) SetShopConfigs(configs []ShopConfig, current ShopConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shopConfigs = append([]ShopConfig(nil), configs...)
	s.currentShopConfig = current
}

// ResetShopConfigs drops all shop-channel configuration state. Used both for
// the "no store" selection and for failed resolutions, so stale configs from
// a prior store never survive.
func (s *State) ResetShopConfigs() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shopConfigs = nil
	s.currentShopConfig = ShopConfig{}
}

// ShopConfigs returns a copy of the resolved config list.
func (s *State) ShopConfigs() []ShopConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ShopConfig(nil), s.shopConfigs...)
}

// CurrentShopConfig describes the currentshopconfig operation and its observable behavior.
//
// CurrentShopConfig returns the active channel config, zero when unresolved.
func (s *State) CurrentShopConfig() ShopConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentShopConfig
}

// SetPinnedJobs attaches the pinned-job set to the committed profile.
func (s *State) SetPinnedJobs(set PinnedJobSet) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set.Jobs = append([]Job(nil), set.Jobs...)
	s.user.PinnedJobs = set
}

// PinnedJobs returns a copy of the profile's pinned-job set.
func (s *State) PinnedJobs() PinnedJobSet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.user.PinnedJobs
	set.Jobs = append([]Job(nil), set.Jobs...)
	return set
}

// SetTimeZone records the active rendering time zone.
func (s *State) SetTimeZone(tz string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeZone = tz
}

// TimeZone describes the timezone operation and its observable behavior.
//
// TimeZone returns the active rendering time zone, "" when unset.
func (s *State) TimeZone() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeZone
}

// SetInstanceURL records the backend instance this session is bound to.
func (s *State) SetInstanceURL(u string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instanceURL = u
}

// InstanceURL describes the instanceurl operation and its observable behavior.
//
// InstanceURL returns the bound backend instance URL.
func (s *State) InstanceURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.instanceURL
}

// Reset clears every session field back to the unauthenticated empty state.
// The instance URL survives: it is deployment scoped, not user scoped.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.userLogin = ""
	s.token = ""
	s.tokenExpiry = time.Time{}
	s.user = Profile{}
	s.hasUser = false
	s.permissions = nil
	s.permIndex = make(map[string]struct{})
	s.currentStore = Store{}
	s.shopConfigs = nil
	s.currentShopConfig = ShopConfig{}
	s.timeZone = ""
}
