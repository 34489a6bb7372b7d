package shopauth

import (
	"context"
	"errors"
	"testing"
)

func TestGetPinnedJobsHydratesFromStoredRecord(t *testing.T) {
	deps := newTestDeps()
	deps.prefs.findRec = PreferenceRecord{ID: "pref-1", Value: `["JOB_A","JOB_B"]`}
	deps.prefs.findFound = true

	engine := newTestEngine(t, testConfig(), deps)

	if err := engine.GetPinnedJobs(context.Background()); err != nil {
		t.Fatalf("pinned jobs hydration failed: %v", err)
	}

	set := engine.Session().PinnedJobs()
	if set.ID != "pref-1" {
		t.Fatalf("expected record id kept, got %q", set.ID)
	}
	ids := set.JobIDs()
	if len(ids) != 2 || ids[0] != "JOB_A" || ids[1] != "JOB_B" {
		t.Fatalf("expected stored order preserved, got %v", ids)
	}
	if len(deps.sibling.jobRequests) != 1 {
		t.Fatalf("expected one enrichment call, got %d", len(deps.sibling.jobRequests))
	}
}

func TestGetPinnedJobsNoRecordLeavesEmptySet(t *testing.T) {
	deps := newTestDeps()
	engine := newTestEngine(t, testConfig(), deps)
	engine.Session().SetPinnedJobs(PinnedJobSet{ID: "stale", Jobs: []Job{{JobID: "OLD"}}})

	if err := engine.GetPinnedJobs(context.Background()); err != nil {
		t.Fatalf("expected missing record to be benign, got %v", err)
	}

	set := engine.Session().PinnedJobs()
	if set.ID != "" || len(set.Jobs) != 0 {
		t.Fatalf("expected empty pinned set, got %+v", set)
	}
}

func TestGetPinnedJobsCorruptValueKeepsRecordID(t *testing.T) {
	deps := newTestDeps()
	deps.prefs.findRec = PreferenceRecord{ID: "pref-1", Value: "not-json"}
	deps.prefs.findFound = true

	engine := newTestEngine(t, testConfig(), deps)

	if err := engine.GetPinnedJobs(context.Background()); err != nil {
		t.Fatalf("expected corrupt value to be benign, got %v", err)
	}

	set := engine.Session().PinnedJobs()
	if set.ID != "pref-1" {
		t.Fatalf("expected record id kept for in-place repair, got %q", set.ID)
	}
	if len(set.Jobs) != 0 {
		t.Fatalf("expected no jobs from corrupt value, got %v", set.Jobs)
	}
	if len(deps.sibling.jobRequests) != 0 {
		t.Fatalf("expected no enrichment call for corrupt value")
	}
}

func TestGetPinnedJobsEnrichmentFailureClearsJobs(t *testing.T) {
	deps := newTestDeps()
	deps.prefs.findRec = PreferenceRecord{ID: "pref-1", Value: `["JOB_A"]`}
	deps.prefs.findFound = true
	deps.sibling.jobsErr = errors.New("job service down")

	engine := newTestEngine(t, testConfig(), deps)
	engine.Session().SetPinnedJobs(PinnedJobSet{ID: "pref-1", Jobs: []Job{{JobID: "OLD"}}})

	if err := engine.GetPinnedJobs(context.Background()); err == nil {
		t.Fatalf("expected enrichment failure to surface")
	}
	if got := engine.Session().PinnedJobs().Jobs; len(got) != 0 {
		t.Fatalf("expected stale jobs cleared, got %v", got)
	}
}

func TestUpdatePinnedJobsCreatesAssociatesThenRefreshes(t *testing.T) {
	deps := newTestDeps()
	deps.prefs.createID = "pref-new"

	engine := newTestEngine(t, testConfig(), deps)

	if err := engine.UpdatePinnedJobs(context.Background(), []string{"JOB_A", "JOB_B"}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	want := []string{"create", "associate:pref-new:PINNED_JOB", "find:PINNED_JOB"}
	got := deps.prefs.opLog()
	if len(got) != len(want) {
		t.Fatalf("expected ops %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected ops %v, got %v", want, got)
		}
	}

	set := engine.Session().PinnedJobs()
	if set.ID != "pref-new" {
		t.Fatalf("expected refreshed set bound to pref-new, got %q", set.ID)
	}
	ids := set.JobIDs()
	if len(ids) != 2 || ids[0] != "JOB_A" || ids[1] != "JOB_B" {
		t.Fatalf("round trip lost ids, got %v", ids)
	}
	if got := engine.metrics.Value(MetricPreferenceCreated); got != 1 {
		t.Fatalf("expected creation metric, got %d", got)
	}
}

func TestUpdatePinnedJobsReusesKnownRecord(t *testing.T) {
	deps := newTestDeps()
	deps.prefs.findRec = PreferenceRecord{ID: "pref-1", Value: `["JOB_A"]`}
	deps.prefs.findFound = true

	engine := newTestEngine(t, testConfig(), deps)

	if err := engine.GetPinnedJobs(context.Background()); err != nil {
		t.Fatalf("initial hydration failed: %v", err)
	}
	if err := engine.UpdatePinnedJobs(context.Background(), []string{"JOB_A", "JOB_C"}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	want := []string{"find:PINNED_JOB", "update:pref-1", "find:PINNED_JOB"}
	got := deps.prefs.opLog()
	if len(got) != len(want) {
		t.Fatalf("expected ops %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected ops %v, got %v", want, got)
		}
	}
	if got := engine.metrics.Value(MetricPreferenceUpdated); got != 1 {
		t.Fatalf("expected update metric, got %d", got)
	}

	ids := engine.Session().PinnedJobs().JobIDs()
	if len(ids) != 2 || ids[1] != "JOB_C" {
		t.Fatalf("expected updated set, got %v", ids)
	}
}

func TestUpdatePinnedJobsAssociationFailureSurfaces(t *testing.T) {
	deps := newTestDeps()
	deps.prefs.createID = "pref-new"
	deps.prefs.associateErr = errors.New("association rejected")

	engine := newTestEngine(t, testConfig(), deps)

	err := engine.UpdatePinnedJobs(context.Background(), []string{"JOB_A"})
	if !errors.Is(err, ErrPreferenceAssociationFailed) {
		t.Fatalf("expected ErrPreferenceAssociationFailed, got %v", err)
	}
}

func TestUpdatePinnedJobsNilClearsSet(t *testing.T) {
	deps := newTestDeps()
	deps.prefs.findRec = PreferenceRecord{ID: "pref-1", Value: `["JOB_A"]`}
	deps.prefs.findFound = true

	engine := newTestEngine(t, testConfig(), deps)

	if err := engine.GetPinnedJobs(context.Background()); err != nil {
		t.Fatalf("initial hydration failed: %v", err)
	}
	if err := engine.UpdatePinnedJobs(context.Background(), nil); err != nil {
		t.Fatalf("clearing update failed: %v", err)
	}

	if got := engine.Session().PinnedJobs().Jobs; len(got) != 0 {
		t.Fatalf("expected empty pinned set, got %v", got)
	}
}
