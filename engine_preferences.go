package shopauth

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/retailops/shopauth/session"
)

// pinnedJobsOrder keeps the oldest pinned-jobs record authoritative when
// historical duplicates exist.
const pinnedJobsOrder = "fromDate ASC"

// GetPinnedJobs describes the getpinnedjobs operation and its observable behavior.
//
// GetPinnedJobs refreshes the session's pinned-job set from the stored
// preference record: the record's JSON value is the id list, and the
// sibling module enriches ids into descriptive job records. Every failure
// path leaves an empty pinned set attached so stale pins never survive a
// failed refresh.
func (e *Engine) GetPinnedJobs(ctx context.Context) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if e.prefs == nil || e.sibling == nil {
		e.session.SetPinnedJobs(session.PinnedJobSet{})
		return nil
	}

	rec, found, err := e.prefs.Find(ctx, PreferenceQuery{
		TypeID:  e.config.Preferences.PinnedJobsTypeID,
		OrderBy: pinnedJobsOrder,
		Limit:   1,
	})
	if err != nil {
		e.session.SetPinnedJobs(session.PinnedJobSet{})
		return err
	}
	if !found {
		e.session.SetPinnedJobs(session.PinnedJobSet{})
		return nil
	}

	var jobIDs []string
	if err := json.Unmarshal([]byte(rec.Value), &jobIDs); err != nil {
		// A corrupt value is not actionable by the caller; the record id is
		// kept so the next update overwrites it in place.
		e.session.SetPinnedJobs(session.PinnedJobSet{ID: rec.ID})
		e.logger.Warn("pinned jobs preference value is not a JSON id list",
			zap.String("preference_id", rec.ID),
			zap.Error(err),
		)
		return nil
	}

	jobs, err := e.sibling.FetchJobDescriptions(ctx, jobIDs)
	if err != nil {
		e.session.SetPinnedJobs(session.PinnedJobSet{ID: rec.ID})
		return err
	}

	e.session.SetPinnedJobs(session.PinnedJobSet{ID: rec.ID, Jobs: jobs})
	e.metricInc(MetricPinnedJobsRefreshed)
	return nil
}

// UpdatePinnedJobs describes the updatepinnedjobs operation and its observable behavior.
//
// UpdatePinnedJobs persists jobIDs as the user's pinned set, updating the
// known preference record in place or creating one (creation and the type
// association are two distinct calls, and an association failure is always
// surfaced). The session set is then re-hydrated from storage rather than
// patched locally.
func (e *Engine) UpdatePinnedJobs(ctx context.Context, jobIDs []string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if e.prefs == nil {
		return ErrPreferenceWriteFailed
	}
	if jobIDs == nil {
		jobIDs = []string{}
	}

	value, err := json.Marshal(jobIDs)
	if err != nil {
		return errors.Join(ErrPreferenceWriteFailed, err)
	}

	if id := e.session.PinnedJobs().ID; id != "" {
		if err := e.prefs.Update(ctx, id, string(value)); err != nil {
			return errors.Join(ErrPreferenceWriteFailed, err)
		}
		e.metricInc(MetricPreferenceUpdated)
	} else {
		id, err := e.prefs.Create(ctx, string(value))
		if err != nil {
			return errors.Join(ErrPreferenceWriteFailed, err)
		}
		if err := e.prefs.Associate(ctx, id, e.config.Preferences.PinnedJobsTypeID); err != nil {
			return errors.Join(ErrPreferenceAssociationFailed, err)
		}
		e.metricInc(MetricPreferenceCreated)
	}

	return e.GetPinnedJobs(ctx)
}
