package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/qualitrace/qa-reversal-service/internal/delivery/http/dto"
	"github.com/qualitrace/qa-reversal-service/internal/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type ReversalHandler struct {
	uc domain.ReversalUsecase
}

func NewReversalHandler(uc domain.ReversalUsecase) *ReversalHandler {
	return &ReversalHandler{uc: uc}
}

func (h *ReversalHandler) RegisterRoutes(router gin.IRouter) {
	group := router.Group("/api/v1/reversals")
	group.POST("", h.Submit)
	group.GET("", h.List)
	group.GET("/stats", h.Stats)
	group.GET("/:id", h.Get)
	group.POST("/:id/decision", h.Decide)
	group.POST("/:id/advance", h.Advance)
}

// caller identity is injected by the upstream auth gateway; this service
// consumes it as data.
func callerFrom(c *gin.Context) domain.Caller {
	return domain.Caller{
		Email: c.GetHeader("X-User-Email"),
		Role:  domain.Role(c.GetHeader("X-User-Role")),
	}
}

func (h *ReversalHandler) Submit(c *gin.Context) {
	var req dto.SubmitReversalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	caller := callerFrom(c)

	request, err := h.uc.SubmitReversal(c.Request.Context(), &domain.SubmitReversalInput{
		AuditID:            req.AuditID,
		ScorecardID:        req.ScorecardID,
		RequestedByEmail:   caller.Email,
		EmployeeEmail:      req.EmployeeEmail,
		EmployeeName:       req.EmployeeName,
		DisputeType:        req.DisputeType,
		Justification:      req.Justification,
		DisputedParameters: req.DisputedParameters,
		Attachments:        req.Attachments,
		ScoreBefore:        req.ScoreBefore,
		WithinScope:        req.WithinScope,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SubmitReversalResponse{
		ID:            request.ID,
		WorkflowState: string(domain.StateSubmitted),
		RequestedAt:   request.RequestedAt,
	})
}

func (h *ReversalHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	disputes, err := h.uc.GetDisputes(c.Request.Context(), domain.GetDisputesOptions{
		Caller:           callerFrom(c),
		RequestedByEmail: c.Query("requested_by"),
		EmployeeEmail:    c.Query("employee"),
		OnlyPending:      c.Query("only_pending") == "true",
		Limit:            limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.DisputeResponse, len(disputes))
	for i, dispute := range disputes {
		out[i] = dto.ToDisputeResponse(dispute)
	}
	c.JSON(http.StatusOK, gin.H{"disputes": out})
}

func (h *ReversalHandler) Stats(c *gin.Context) {
	stats, err := h.uc.GetStats(c.Request.Context(), callerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	byState := make(map[string]int, len(stats.ByState))
	for state, count := range stats.ByState {
		byState[string(state)] = count
	}
	c.JSON(http.StatusOK, dto.StatsResponse{
		Total:   stats.Total,
		Pending: stats.Pending,
		ByState: byState,
	})
}

func (h *ReversalHandler) Get(c *gin.Context) {
	dispute, err := h.uc.GetDispute(c.Request.Context(), c.Param("id"), callerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDisputeResponse(dispute))
}

func (h *ReversalHandler) Decide(c *gin.Context) {
	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	caller := callerFrom(c)

	err := h.uc.Decide(
		c.Request.Context(),
		c.Param("id"),
		domain.Decision(req.Decision),
		req.NewScore,
		req.DeciderName,
		caller.Email,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "decided"})
}

func (h *ReversalHandler) Advance(c *gin.Context) {
	var req dto.AdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.uc.AdvanceWorkflow(
		c.Request.Context(),
		c.Param("id"),
		domain.WorkflowState(req.ToState),
		callerFrom(c).Email,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "advanced"})
}

func respondError(c *gin.Context, err error) {
	st, ok := status.FromError(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	httpCode := http.StatusInternalServerError
	switch st.Code() {
	case codes.NotFound:
		httpCode = http.StatusNotFound
	case codes.InvalidArgument:
		httpCode = http.StatusBadRequest
	case codes.FailedPrecondition:
		httpCode = http.StatusConflict
	}
	c.JSON(httpCode, gin.H{"error": st.Message()})
}
