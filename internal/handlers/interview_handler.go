package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/HridhimaDabhade/tpem-project/internal/domain"
	"github.com/HridhimaDabhade/tpem-project/internal/dtos"
	"github.com/HridhimaDabhade/tpem-project/internal/services"
	"github.com/HridhimaDabhade/tpem-project/internal/store"
	"github.com/gin-gonic/gin"
)

type InterviewHandler struct {
	Interviews   *services.InterviewService
	ReInterviews *services.ReInterviewService
	Log          *slog.Logger
}

func NewInterviewHandler(interviews *services.InterviewService, reInterviews *services.ReInterviewService, log *slog.Logger) *InterviewHandler {
	return &InterviewHandler{Interviews: interviews, ReInterviews: reInterviews, Log: log}
}

// YetToInterview is GET /interviews/yet-to-interview?role=&limit=
func (h *InterviewHandler) YetToInterview(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	list, err := h.Interviews.ListYetToInterview(c.Request.Context(), c.Query("role"), limit)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, dtos.NewCandidateList(list))
}

// Submit is POST /interviews/submit
func (h *InterviewHandler) Submit(c *gin.Context) {
	var req dtos.SubmitInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	iv, err := h.Interviews.Submit(c.Request.Context(), actorFrom(c), req.CandidateID, req.Decision, req.Notes)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, dtos.NewInterviewResponse(iv))
}

// Completed is GET /interviews/completed?from_date=&to_date=&role=&decision=&limit=
func (h *InterviewHandler) Completed(c *gin.Context) {
	r, err := dateRange(c)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	filter := store.InterviewFilter{From: r.From, To: r.To, Role: c.Query("role")}
	if d := c.Query("decision"); d != "" {
		decision, err := domain.ParseDecision(d)
		if err != nil {
			respondError(c, h.Log, err)
			return
		}
		filter.Decision = decision
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))

	list, err := h.Interviews.ListCompleted(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, dtos.NewInterviewRecordList(list))
}

// CompletedByID is GET /interviews/completed/:id
func (h *InterviewHandler) CompletedByID(c *gin.Context) {
	rec, err := h.Interviews.GetCompleted(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, dtos.NewInterviewRecordResponse(rec))
}

// RequestReInterview is POST /re-interview/request
func (h *InterviewHandler) RequestReInterview(c *gin.Context) {
	var req dtos.ReInterviewCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	created, err := h.ReInterviews.Request(c.Request.Context(), actorFrom(c), req.CandidateID, req.Reason)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, dtos.NewReInterviewResponse(created))
}

// ResolveReInterview is POST /re-interview/resolve
func (h *InterviewHandler) ResolveReInterview(c *gin.Context) {
	var req dtos.ReInterviewResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resolved, err := h.ReInterviews.Resolve(c.Request.Context(), actorFrom(c), req.RequestID, *req.Approved)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, dtos.NewReInterviewResponse(resolved))
}

// PendingReInterviews is GET /re-interview/pending
func (h *InterviewHandler) PendingReInterviews(c *gin.Context) {
	list, err := h.ReInterviews.ListPending(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, dtos.NewPendingList(list))
}
