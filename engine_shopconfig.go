package shopauth

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const (
	entityShopifyShopAndConfig = "ShopifyShopAndConfig"
	// entityShopifyConfig is the pre-split schema kept for accounts that
	// have not been migrated.
	entityShopifyConfig = "ShopifyConfig"
)

var (
	shopConfigFields       = []string{"shopifyConfigId", "name", "shopId"}
	shopConfigLegacyFields = []string{"shopifyConfigId", "shopifyConfigName", "shopId"}
)

// GetShopifyConfig describes the getshopifyconfig operation and its observable behavior.
//
// GetShopifyConfig resolves the shop/channel configuration for the given
// store. An empty id resets config state with zero remote calls. The
// primary schema is tried first; zero results or an error trigger one
// strict sequential retry under the legacy schema. Any terminal failure
// resets config state so configs from a prior store never go stale.
func (e *Engine) GetShopifyConfig(ctx context.Context, productStoreID string) error {
	if e == nil || e.backend == nil {
		return ErrEngineNotReady
	}
	if productStoreID == "" {
		e.session.ResetShopConfigs()
		return nil
	}

	configs, err := e.queryShopConfigs(ctx, entityShopifyShopAndConfig, shopConfigFields, productStoreID)
	if err != nil || len(configs) == 0 {
		if err != nil {
			e.logger.Debug("primary shop config query failed",
				zap.String("product_store_id", productStoreID),
				zap.Error(err),
			)
		}
		e.metricInc(MetricShopConfigFallback)
		configs, err = e.queryShopConfigs(ctx, entityShopifyConfig, shopConfigLegacyFields, productStoreID)
	}

	if err != nil {
		e.session.ResetShopConfigs()
		e.logger.Warn("shop config resolution failed",
			zap.String("product_store_id", productStoreID),
			zap.Error(err),
		)
		return errors.Join(ErrShopConfigUnavailable, err)
	}
	if len(configs) == 0 {
		e.session.ResetShopConfigs()
		e.metricInc(MetricShopConfigEmpty)
		e.logger.Warn("no shop config for store",
			zap.String("product_store_id", productStoreID),
		)
		return nil
	}

	e.session.SetShopConfigs(configs, configs[0])
	e.metricInc(MetricShopConfigResolved)
	return nil
}

func (e *Engine) queryShopConfigs(ctx context.Context, entityName string, fields []string, productStoreID string) ([]ShopConfig, error) {
	resp, err := e.backend.Query(ctx, EntityQueryRequest{
		EntityName: entityName,
		InputFields: map[string]interface{}{
			"productStoreId": productStoreID,
		},
		FieldList: fields,
		ViewSize:  e.config.Query.ViewSize,
	})
	if err != nil {
		return nil, err
	}
	if e.hasError(resp.Envelope) {
		return nil, fmt.Errorf("%s query rejected: %s", entityName, resp.ErrorMessage)
	}
	return shopConfigsFromDocs(resp.Docs), nil
}

func shopConfigsFromDocs(docs []map[string]interface{}) []ShopConfig {
	out := make([]ShopConfig, 0, len(docs))
	for _, doc := range docs {
		cfg := ShopConfig{
			ShopifyConfigID: docString(doc, "shopifyConfigId"),
			Name:            docString(doc, "name"),
			ShopID:          docString(doc, "shopId"),
		}
		if cfg.Name == "" {
			cfg.Name = docString(doc, "shopifyConfigName")
		}
		if cfg.Zero() {
			continue
		}
		out = append(out, cfg)
	}
	return out
}
