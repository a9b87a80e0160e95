// Package chain is the on-chain state adapter. The only query this system
// needs is pool parameters, and the only field it extracts is the swap fee.
package chain

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"github.com/hxuan190/arb-engine/internal/domain"
	"github.com/hxuan190/arb-engine/internal/metrics"
)

// FeeOracle resolves a pool id to its swap fee via the chain's LCD endpoint.
// Results are plain decimal strings; the sentinels mirror what callers
// render: "N/A" when no fee field exists, "Error" on transport or parse
// failure, "0" for an invalid input id.
type FeeOracle struct {
	lcdURL string
	http   *http.Client
}

func NewFeeOracle(lcdURL string) *FeeOracle {
	return &FeeOracle{
		lcdURL: lcdURL,
		http:   &http.Client{Timeout: 10 * time.Second},
	}
}

// PoolFee never returns an error; failures collapse into sentinels because
// a missing fee degrades a single hop, not the whole request.
func (o *FeeOracle) PoolFee(ctx context.Context, poolID string) string {
	if _, err := strconv.ParseUint(poolID, 10, 64); err != nil {
		metrics.FeeLookups.WithLabelValues("invalid_id").Inc()
		return "0"
	}

	raw, err := o.queryPool(ctx, poolID)
	if err != nil {
		log.Warn().Str("poolId", poolID).Err(err).Msg("[feeOracle] pool query failed")
		metrics.FeeLookups.WithLabelValues("error").Inc()
		return domain.FeeError
	}

	fee, ok := extractFee(raw)
	if !ok {
		metrics.FeeLookups.WithLabelValues("not_available").Inc()
		return domain.FeeNotAvailable
	}
	metrics.FeeLookups.WithLabelValues("ok").Inc()
	return fee
}

func (o *FeeOracle) queryPool(ctx context.Context, poolID string) (map[string]interface{}, error) {
	u := fmt.Sprintf("%s/pools/%s", o.lcdURL, poolID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := o.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed map[string]interface{}
	if err := sonic.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}

// extractFee checks fee fields in priority order: the concentrated-liquidity
// spread factor, then spread nested under pool params, then top-level
// spread, then swap fee under pool params, then top-level swap fee.
func extractFee(raw map[string]interface{}) (string, bool) {
	pool := raw
	if nested, ok := raw["pool"].(map[string]interface{}); ok {
		pool = nested
	}

	if fee, ok := feeValue(pool["spread_factor"]); ok {
		return fee, true
	}

	params, _ := poolParams(pool)
	if fee, ok := feeValue(params["spread"]); ok {
		return fee, true
	}
	if fee, ok := feeValue(pool["spread"]); ok {
		return fee, true
	}
	if fee, ok := feeValue(params["swap_fee"]); ok {
		return fee, true
	}
	if fee, ok := feeValue(pool["swap_fee"]); ok {
		return fee, true
	}
	return "", false
}

func poolParams(pool map[string]interface{}) (map[string]interface{}, bool) {
	for _, key := range []string{"pool_params", "params"} {
		if params, ok := pool[key].(map[string]interface{}); ok {
			return params, true
		}
	}
	return map[string]interface{}{}, false
}

// feeValue normalizes a fee field that may arrive as a decimal string or a
// bare number.
func feeValue(v interface{}) (string, bool) {
	switch fee := v.(type) {
	case string:
		if fee == "" {
			return "", false
		}
		return fee, true
	case float64:
		return strconv.FormatFloat(fee, 'f', -1, 64), true
	}
	return "", false
}
