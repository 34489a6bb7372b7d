package shopauth

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/retailops/shopauth/session"
)

const entityProductStore = "ProductStore"

var productStoreFields = []string{"productStoreId", "storeName"}

// GetProfile describes the getprofile operation and its observable behavior.
//
// GetProfile hydrates the session after authentication: profile fetch,
// store-list enrichment (with the sentinel "None" store always appended),
// fire-and-forget shop-config and service-status triggers, time-zone
// application, preferred-store resolution, and an atomic profile+store
// commit. Secondary fetch failures degrade and log; only a failed profile
// fetch aborts.
func (e *Engine) GetProfile(ctx context.Context) error {
	if e == nil || e.backend == nil {
		return ErrEngineNotReady
	}
	token := e.session.Token()
	if token == "" {
		return ErrNotAuthenticated
	}

	start := time.Now()

	resp, err := e.backend.FetchProfile(ctx, token)
	if err != nil || e.hasError(resp.Envelope) {
		e.metricInc(MetricProfileFetchFailed)
		e.logger.Warn("profile fetch failed",
			zap.Int("status", resp.StatusCode),
			zap.Error(err),
		)
		if err != nil {
			return errors.Join(ErrProfileUnavailable, err)
		}
		return ErrProfileUnavailable
	}
	profile := resp.Profile

	storeResp, storeErr := e.backend.Query(ctx, EntityQueryRequest{
		EntityName: entityProductStore,
		InputFields: map[string]interface{}{
			"storeName_op": "not-empty",
		},
		FieldList: productStoreFields,
		Distinct:  true,
		ViewSize:  e.config.Query.ViewSize,
	})
	if storeErr != nil || e.hasError(storeResp.Envelope) {
		e.metricInc(MetricStoreListFetchFailed)
		e.logger.Warn("store list fetch failed", zap.Error(storeErr))
	} else {
		profile.Stores = append(profile.Stores, storesFromDocs(storeResp.Docs)...)
	}
	// The sentinel keeps "no store selected" addressable even when the
	// fetch degraded.
	profile.Stores = append(profile.Stores, session.Sentinel)

	if len(profile.Stores) > 0 {
		first := profile.Stores[0]
		e.spawn("shop-config", func(ctx context.Context) {
			if err := e.GetShopifyConfig(ctx, first.ProductStoreID); err != nil {
				e.logger.Warn("shop config trigger failed",
					zap.String("product_store_id", first.ProductStoreID),
					zap.Error(err),
				)
			}
		})
	}

	if e.sibling != nil {
		e.spawn("service-status", func(ctx context.Context) {
			if err := e.sibling.FetchServiceStatus(ctx); err != nil {
				e.logger.Warn("service status fetch failed", zap.Error(err))
			}
		})
	}

	if profile.UserTimeZone != "" {
		e.session.SetTimeZone(profile.UserTimeZone)
	}

	current := e.resolvePreferredStore(ctx, profile.Stores)
	e.session.CommitProfile(profile, current)
	e.metricInc(MetricProfileHydrated)
	if e.metrics.LatencyEnabled() {
		e.metrics.Observe(MetricHydrateLatency, time.Since(start))
	}

	if err := e.GetPinnedJobs(ctx); err != nil {
		e.logger.Warn("pinned jobs hydration failed", zap.Error(err))
	}

	return nil
}

// resolvePreferredStore picks the current store: the saved SELECTED_BRAND
// preference when it names a known store, otherwise the first entry of the
// (sentinel-augmented) list, otherwise the zero store.
func (e *Engine) resolvePreferredStore(ctx context.Context, stores []Store) Store {
	var current Store
	if len(stores) > 0 {
		current = stores[0]
	}

	if e.prefs == nil {
		return current
	}

	value, found, err := e.prefs.Get(ctx, e.config.Preferences.SelectedBrandKey)
	if err != nil {
		e.logger.Warn("selected brand preference lookup failed", zap.Error(err))
		return current
	}
	if !found {
		return current
	}

	for _, st := range stores {
		if st.ProductStoreID == value {
			return st
		}
	}
	return current
}

// SetUserTimeZone describes the setusertimezone operation and its observable behavior.
//
// SetUserTimeZone applies tz as the active rendering time zone, persisting
// it through the backend first. Setting the already-active zone is a no-op
// with zero remote calls.
func (e *Engine) SetUserTimeZone(ctx context.Context, tz string) error {
	if e == nil || e.backend == nil {
		return ErrEngineNotReady
	}
	if tz == "" || e.session.TimeZone() == tz {
		return nil
	}
	token := e.session.Token()
	if token == "" {
		return ErrNotAuthenticated
	}

	if err := e.backend.UpdateUserTimeZone(ctx, token, tz); err != nil {
		e.logger.Warn("time zone update failed", zap.String("tz", tz), zap.Error(err))
		return err
	}

	e.session.SetTimeZone(tz)
	e.metricInc(MetricTimeZoneChanged)
	return nil
}

func storesFromDocs(docs []map[string]interface{}) []Store {
	out := make([]Store, 0, len(docs))
	for _, doc := range docs {
		st := Store{
			ProductStoreID: docString(doc, "productStoreId"),
			StoreName:      docString(doc, "storeName"),
		}
		if st.Zero() {
			continue
		}
		out = append(out, st)
	}
	return out
}

func docString(doc map[string]interface{}, key string) string {
	v, ok := doc[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
