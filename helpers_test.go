package shopauth

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

// mockBackend scripts the remote API surface. Entity query responses are
// consumed per entity name in FIFO order; the last response is repeated
// when the script runs out.
type mockBackend struct {
	mu sync.Mutex

	exchangeResp LoginResponse
	exchangeErr  error

	profileResp ProfileResponse
	profileErr  error

	permPages   []PermissionFetchResponse
	permErr     error
	permPageErr map[int]error

	queryResps map[string][]EntityQueryResponse
	queryErr   map[string]error

	timeZoneErr error

	exchangeCalls int
	profileCalls  int
	permRequests  []PermissionFetchRequest
	queryRequests []EntityQueryRequest
	timeZoneSets  []string
}

func (m *mockBackend) Exchange(_ context.Context, _, _ string) (LoginResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exchangeCalls++
	return m.exchangeResp, m.exchangeErr
}

func (m *mockBackend) FetchProfile(_ context.Context, _ string) (ProfileResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profileCalls++
	return m.profileResp, m.profileErr
}

func (m *mockBackend) FetchPermissions(_ context.Context, req PermissionFetchRequest) (PermissionFetchResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.permRequests = append(m.permRequests, req)
	if m.permErr != nil {
		return PermissionFetchResponse{}, m.permErr
	}
	if err, ok := m.permPageErr[req.ViewIndex]; ok {
		return PermissionFetchResponse{}, err
	}
	if req.ViewIndex >= len(m.permPages) {
		return PermissionFetchResponse{}, nil
	}
	return m.permPages[req.ViewIndex], nil
}

func (m *mockBackend) Query(_ context.Context, req EntityQueryRequest) (EntityQueryResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queryRequests = append(m.queryRequests, req)
	if err := m.queryErr[req.EntityName]; err != nil {
		return EntityQueryResponse{}, err
	}

	script := m.queryResps[req.EntityName]
	if len(script) == 0 {
		return EntityQueryResponse{}, nil
	}
	resp := script[0]
	if len(script) > 1 {
		m.queryResps[req.EntityName] = script[1:]
	}
	return resp, nil
}

func (m *mockBackend) UpdateUserTimeZone(_ context.Context, _, timeZone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeZoneSets = append(m.timeZoneSets, timeZone)
	return m.timeZoneErr
}

func (m *mockBackend) queryCount(entityName string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, req := range m.queryRequests {
		if req.EntityName == entityName {
			n++
		}
	}
	return n
}

// mockPrefs records every operation in order so tests can assert the
// create/update/associate/refresh sequencing.
type mockPrefs struct {
	mu sync.Mutex

	values map[string]string
	setErr error
	getErr error

	findRec   PreferenceRecord
	findFound bool
	findErr   error

	createID     string
	createErr    error
	updateErr    error
	associateErr error

	ops []string
}

func newMockPrefs() *mockPrefs {
	return &mockPrefs{values: make(map[string]string)}
}

func (m *mockPrefs) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ops = append(m.ops, "get:"+key)
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *mockPrefs) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ops = append(m.ops, fmt.Sprintf("set:%s=%s", key, value))
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockPrefs) Find(_ context.Context, q PreferenceQuery) (PreferenceRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ops = append(m.ops, "find:"+q.TypeID)
	if m.findErr != nil {
		return PreferenceRecord{}, false, m.findErr
	}
	return m.findRec, m.findFound, nil
}

func (m *mockPrefs) Create(_ context.Context, value string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ops = append(m.ops, "create")
	if m.createErr != nil {
		return "", m.createErr
	}
	m.findRec = PreferenceRecord{ID: m.createID, Value: value}
	m.findFound = true
	return m.createID, nil
}

func (m *mockPrefs) Update(_ context.Context, id, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ops = append(m.ops, "update:"+id)
	if m.updateErr != nil {
		return m.updateErr
	}
	m.findRec = PreferenceRecord{ID: id, Value: value}
	m.findFound = true
	return nil
}

func (m *mockPrefs) Associate(_ context.Context, id, typeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ops = append(m.ops, fmt.Sprintf("associate:%s:%s", id, typeID))
	return m.associateErr
}

func (m *mockPrefs) opLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.ops...)
}

// mockSibling echoes job ids back as job records unless scripted otherwise.
type mockSibling struct {
	mu sync.Mutex

	clearCalls  int
	statusCalls int
	statusErr   error

	jobsErr     error
	jobRequests [][]string
}

func (m *mockSibling) ClearJobState(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearCalls++
}

func (m *mockSibling) FetchJobDescriptions(_ context.Context, jobIDs []string) ([]Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.jobRequests = append(m.jobRequests, append([]string(nil), jobIDs...))
	if m.jobsErr != nil {
		return nil, m.jobsErr
	}
	jobs := make([]Job, len(jobIDs))
	for i, id := range jobIDs {
		jobs[i] = Job{JobID: id, JobName: "job " + id}
	}
	return jobs, nil
}

func (m *mockSibling) FetchServiceStatus(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusCalls++
	return m.statusErr
}

func (m *mockSibling) clearCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clearCalls
}

// memAuthState is an in-memory AuthorizationState standing in for the
// Redis-backed store.
type memAuthState struct {
	mu       sync.Mutex
	sets     map[string][]string
	setErr   error
	resetErr error
}

func newMemAuthState() *memAuthState {
	return &memAuthState{sets: make(map[string][]string)}
}

func (m *memAuthState) SetPermissions(_ context.Context, userLogin string, permissions []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.setErr != nil {
		return m.setErr
	}
	m.sets[userLogin] = append([]string(nil), permissions...)
	return nil
}

func (m *memAuthState) Reset(_ context.Context, userLogin string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.resetErr != nil {
		return m.resetErr
	}
	delete(m.sets, userLogin)
	return nil
}

func (m *memAuthState) permissions(userLogin string) ([]string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.sets[userLogin]
	return append([]string(nil), p...), ok
}

type testDeps struct {
	backend   *mockBackend
	prefs     *mockPrefs
	sibling   *mockSibling
	authState *memAuthState
	sink      *ChannelToastSink
}

func newTestDeps() *testDeps {
	return &testDeps{
		backend: &mockBackend{
			queryResps: make(map[string][]EntityQueryResponse),
			queryErr:   make(map[string]error),
		},
		prefs:     newMockPrefs(),
		sibling:   &mockSibling{},
		authState: newMemAuthState(),
		sink:      NewChannelToastSink(16),
	}
}

func testConfig() Config {
	cfg := defaultConfig()
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true
	return cfg
}

func newTestEngine(t *testing.T, cfg Config, deps *testDeps) *Engine {
	t.Helper()

	engine, err := New().
		WithConfig(cfg).
		WithBackend(deps.backend).
		WithPreferenceProvider(deps.prefs).
		WithSiblingModule(deps.sibling).
		WithAuthorizationState(deps.authState).
		WithToastSink(deps.sink).
		WithLogger(zap.NewNop()).
		WithPermissionRules(testRules()).
		Build()
	if err != nil {
		t.Fatalf("engine build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func testRules() map[string][]string {
	return map[string][]string{
		"manager": {"ORDERS_VIEW", "ORDERS_EDIT"},
		"clerk":   {"ORDERS_VIEW"},
	}
}

// awaitToast blocks until the sink delivers a toast; delivery is
// asynchronous so callers cannot poll.
func awaitToast(t *testing.T, sink *ChannelToastSink) Toast {
	t.Helper()

	select {
	case tst := <-sink.Toasts():
		return tst
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for toast")
		return Toast{}
	}
}

func permRecords(ids ...string) []PermissionRecord {
	recs := make([]PermissionRecord, len(ids))
	for i, id := range ids {
		recs[i] = PermissionRecord{PermissionID: id}
	}
	return recs
}
