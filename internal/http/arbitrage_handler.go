package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/hxuan190/arb-engine/internal/http/httputil"
	"github.com/hxuan190/arb-engine/internal/services/arbitrage"
)

type ArbitrageHandler struct {
	arbSvc *arbitrage.Service
}

func NewArbitrageHandler(arbSvc *arbitrage.Service) *ArbitrageHandler {
	return &ArbitrageHandler{arbSvc: arbSvc}
}

func (h *ArbitrageHandler) Root() string {
	return "/arbitrage"
}

func (h *ArbitrageHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("/scan", h.scan)
	pub.GET("/artifact", h.artifact)
}

// scan runs the full detection pipeline for a token
// @Summary Scan a token for cross-venue arbitrage
// @Description Returns the baseline selection and every qualifying opportunity with its route object; plans appear only when the loop is strictly profitable
// @Tags arbitrage
// @Produce json
// @Param token query string true "Token address or denom"
// @Success 200 {object} httputil.Response
// @Router /api/v1/arbitrage/scan [get]
func (h *ArbitrageHandler) scan(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		httputil.BadRequest(c, "token query parameter is required")
		return
	}

	// Scan never fails outright: hard aborts arrive as an error-only
	// route inside the result, which is exactly what the caller renders.
	result := h.arbSvc.Scan(c.Request.Context(), token)
	httputil.Success(c, result)
}

// artifact returns the downloadable flash-loan/route pairing
// @Summary Downloadable artifact for the best opportunity
// @Description Pairs the flash-loan message (when executable) with the route description; both halves serialize independently
// @Tags arbitrage
// @Produce json
// @Param token query string true "Token address or denom"
// @Success 200 {object} httputil.Response
// @Router /api/v1/arbitrage/artifact [get]
func (h *ArbitrageHandler) artifact(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		httputil.BadRequest(c, "token query parameter is required")
		return
	}

	artifact, err := h.arbSvc.Artifact(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, arbitrage.ErrNoOpportunities) {
			httputil.NotFound(c, err.Error())
			return
		}
		httputil.InternalError(c, err.Error())
		return
	}

	c.Header("Content-Disposition", `attachment; filename="arbitrage-`+token+`.json"`)
	httputil.Success(c, artifact)
}
