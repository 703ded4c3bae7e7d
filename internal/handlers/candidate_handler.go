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

type CandidateHandler struct {
	Candidates  *services.CandidateService
	Interviews  *services.InterviewService
	Eligibility *services.EligibilityService
	Summaries   *services.SummaryService
	Log         *slog.Logger
}

func NewCandidateHandler(candidates *services.CandidateService, interviews *services.InterviewService, eligibility *services.EligibilityService, summaries *services.SummaryService, log *slog.Logger) *CandidateHandler {
	return &CandidateHandler{Candidates: candidates, Interviews: interviews, Eligibility: eligibility, Summaries: summaries, Log: log}
}

// Create is POST /candidates
func (h *CandidateHandler) Create(c *gin.Context) {
	var req dtos.CandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	created, err := h.Candidates.Create(c.Request.Context(), actorFrom(c), req.Profile())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, dtos.NewCandidateResponse(created))
}

// SelfOnboard is POST /public/onboard
func (h *CandidateHandler) SelfOnboard(c *gin.Context) {
	var req dtos.SelfOnboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	created, err := h.Candidates.SelfOnboard(c.Request.Context(), req.Profile())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, dtos.SelfOnboardResponse{
		CandidateID: created.CandidateID,
		Name:        created.Profile.Name,
		Message:     "Registration successful. Please keep your candidate ID for the interview.",
	})
}

// List is GET /candidates?status=&role=&skip=&limit=
func (h *CandidateHandler) List(c *gin.Context) {
	filter := store.CandidateFilter{Role: c.Query("role")}
	if s := c.Query("status"); s != "" {
		status, err := domain.ParseStatus(s)
		if err != nil {
			respondError(c, h.Log, err)
			return
		}
		filter.Status = status
	}
	filter.Skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	list, total, err := h.Candidates.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, dtos.CandidatePage{
		Items: dtos.NewCandidateList(list),
		Total: total,
		Skip:  filter.Skip,
		Limit: filter.Limit,
	})
}

// Search is GET /candidates/search?q=
func (h *CandidateHandler) Search(c *gin.Context) {
	list, err := h.Candidates.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, dtos.NewCandidateList(list))
}

// Get is GET /candidates/id/:candidate_id
func (h *CandidateHandler) Get(c *gin.Context) {
	cand, err := h.Candidates.Get(c.Request.Context(), c.Param("candidate_id"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, dtos.NewCandidateResponse(cand))
}

// History is GET /candidates/id/:candidate_id/interviews
func (h *CandidateHandler) History(c *gin.Context) {
	list, err := h.Interviews.History(c.Request.Context(), c.Param("candidate_id"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, dtos.NewInterviewList(list))
}

// Summary is GET /candidates/id/:candidate_id/summary
func (h *CandidateHandler) Summary(c *gin.Context) {
	summary, err := h.Summaries.Summarize(c.Request.Context(), actorFrom(c), c.Param("candidate_id"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidate_id": c.Param("candidate_id"), "summary": summary})
}

// Sweep is POST /candidates/eligibility/sweep
func (h *CandidateHandler) Sweep(c *gin.Context) {
	actor := actorFrom(c)
	if !actor.HasRole(domain.RoleAdmin) {
		respondError(c, h.Log, domain.Forbidden("insufficient permissions"))
		return
	}
	updated, err := h.Eligibility.Sweep(c.Request.Context())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// Dashboard is GET /dashboard/kpis
func (h *CandidateHandler) Dashboard(c *gin.Context) {
	k, err := h.Candidates.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, dtos.KPIResponse{
		YetToInterview:     k.YetToInterview,
		InterviewCompleted: k.InterviewCompleted,
		Total:              k.Total,
	})
}
