package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/hxuan190/arb-engine/internal/http/httputil"
	"github.com/hxuan190/arb-engine/internal/services/arbitrage"
)

type PoolHandler struct {
	arbSvc *arbitrage.Service
}

func NewPoolHandler(arbSvc *arbitrage.Service) *PoolHandler {
	return &PoolHandler{arbSvc: arbSvc}
}

func (h *PoolHandler) Root() string {
	return "/pools"
}

func (h *PoolHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("", h.getPools)
	pub.GET("/:id/fee", h.getPoolFee)
}

// getPools returns the unified canonical pool set for a token
// @Summary Unified pools for a token
// @Description Merges the primary search result and the secondary catalog into one canonical pool set keyed by pool id
// @Tags pools
// @Produce json
// @Param token query string true "Token address or denom"
// @Success 200 {object} httputil.Response
// @Router /api/v1/pools [get]
func (h *PoolHandler) getPools(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		httputil.BadRequest(c, "token query parameter is required")
		return
	}

	set, err := h.arbSvc.Pools(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, arbitrage.ErrNoPoolData) {
			httputil.NotFound(c, err.Error())
			return
		}
		httputil.InternalError(c, err.Error())
		return
	}
	httputil.Success(c, set)
}

// getPoolFee resolves a pool's swap fee via the on-chain state query
// @Summary Swap fee for a pool
// @Description Fee is a decimal string, or "N/A" when the pool exposes no fee field, "Error" on a failed query, "0" for an invalid id
// @Tags pools
// @Produce json
// @Param id path string true "Numeric pool id"
// @Success 200 {object} httputil.Response
// @Router /api/v1/pools/{id}/fee [get]
func (h *PoolHandler) getPoolFee(c *gin.Context) {
	fee := h.arbSvc.PoolFee(c.Request.Context(), c.Param("id"))
	httputil.Success(c, gin.H{"poolId": c.Param("id"), "fee": fee})
}
