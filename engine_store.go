package shopauth

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// StoreSelection is the payload for [Engine.SetEcomStore]: either a full
// store record or a bare identifier resolved against the session's known
// store list.
type StoreSelection struct {
	Store          *Store
	ProductStoreID string
}

// SetEcomStore describes the setecomstore operation and its observable behavior.
//
// SetEcomStore commits a new current store, invalidates the sibling job
// state, and then awaits both the shop-config re-resolution and the
// selected-brand preference write: the selection is complete only once
// both finish. An identifier that matches no known store selects the
// unresolved zero store.
func (e *Engine) SetEcomStore(ctx context.Context, selection StoreSelection) error {
	if e == nil {
		return ErrEngineNotReady
	}

	var st Store
	switch {
	case selection.Store != nil:
		st = *selection.Store
	case selection.ProductStoreID != "":
		found, ok := e.session.LookupStore(selection.ProductStoreID)
		if !ok {
			e.logger.Warn("selected store not in session store list",
				zap.String("product_store_id", selection.ProductStoreID),
			)
		}
		st = found
	}

	// Switching stores invalidates cached or in-flight job data in the
	// sibling module.
	if e.sibling != nil {
		e.sibling.ClearJobState(ctx)
	}

	e.session.SetCurrentStore(st)

	if err := e.GetShopifyConfig(ctx, st.ProductStoreID); err != nil {
		return err
	}

	if e.prefs != nil {
		if err := e.prefs.Set(ctx, e.config.Preferences.SelectedBrandKey, st.ProductStoreID); err != nil {
			e.logger.Warn("selected brand preference write failed", zap.Error(err))
			return errors.Join(ErrPreferenceWriteFailed, err)
		}
	}

	e.metricInc(MetricStoreSelected)
	return nil
}
