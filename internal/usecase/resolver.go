package usecase

import (
	"context"
	"encoding/json"

	"github.com/iho/ledgerlens/internal/xero"
)

// resolveAccountNames fetches the chart of accounts once and builds the
// code-to-name mapping used to enrich rows. The directory changes rarely, so
// it is served from the cache when one is configured. Failure here degrades
// enrichment only; the orchestrator surfaces it as a warning.
func (uc *AggregateUseCase) resolveAccountNames(ctx context.Context) (map[string]string, error) {
	if uc.cache != nil {
		if raw, err := uc.cache.Get(ctx, accountNamesCacheKey); err == nil && len(raw) > 0 {
			var names map[string]string
			if err := json.Unmarshal(raw, &names); err == nil {
				return names, nil
			}
		}
	}

	var accounts []xero.Account
	err := uc.retrier.Do(ctx, func() error {
		var fetchErr error
		accounts, fetchErr = uc.api.ListAccounts(ctx)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(accounts))
	for _, a := range accounts {
		if a.Code != "" {
			names[a.Code] = a.Name
		}
	}

	if uc.cache != nil {
		if raw, err := json.Marshal(names); err == nil {
			if err := uc.cache.Set(ctx, accountNamesCacheKey, raw, accountNamesCacheTTL); err != nil {
				uc.logger.Warn().Err(err).Msg("failed to cache account names")
			}
		}
	}
	return names, nil
}
