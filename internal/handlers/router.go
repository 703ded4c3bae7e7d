package handlers

import (
	"time"

	"github.com/HridhimaDabhade/tpem-project/internal/auth"
	"github.com/HridhimaDabhade/tpem-project/internal/ratelimit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Candidates *CandidateHandler
	Interviews *InterviewHandler
	Reports    *ReportHandler
	Users      *UserHandler
	QR         *QRHandler
	Sync       *SyncHandler

	Tokens         *auth.JWTProvider
	Limiter        ratelimit.Limiter
	OnboardLimit   int
	OnboardWindow  time.Duration
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	config := cors.DefaultConfig()
	if len(d.AllowedOrigins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = d.AllowedOrigins
		config.AllowCredentials = true
	}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.ExposeHeaders = []string{"Content-Disposition"}
	r.Use(cors.New(config))
	r.Use(Timeout(d.RequestTimeout))

	api := r.Group("/api")
	{
		api.GET("/health", HealthCheck)
		api.POST("/auth/login", d.Users.Login)
		api.POST("/public/onboard", RateLimit(d.Limiter, "onboard", d.OnboardLimit, d.OnboardWindow), d.Candidates.SelfOnboard)
		api.GET("/qr/public-form", d.QR.PublicForm)
	}

	secured := api.Group("")
	secured.Use(Authenticate(d.Tokens))
	{
		secured.GET("/auth/me", d.Users.Me)

		secured.GET("/candidates", d.Candidates.List)
		secured.POST("/candidates", d.Candidates.Create)
		secured.GET("/candidates/search", d.Candidates.Search)
		secured.GET("/candidates/id/:candidate_id", d.Candidates.Get)
		secured.GET("/candidates/id/:candidate_id/interviews", d.Candidates.History)
		secured.GET("/candidates/id/:candidate_id/summary", d.Candidates.Summary)
		secured.POST("/candidates/eligibility/sweep", d.Candidates.Sweep)
		secured.GET("/dashboard/kpis", d.Candidates.Dashboard)

		secured.GET("/interviews/yet-to-interview", d.Interviews.YetToInterview)
		secured.POST("/interviews/submit", d.Interviews.Submit)
		secured.GET("/interviews/completed", d.Interviews.Completed)
		secured.GET("/interviews/completed/:id", d.Interviews.CompletedByID)

		secured.POST("/re-interview/request", d.Interviews.RequestReInterview)
		secured.POST("/re-interview/resolve", d.Interviews.ResolveReInterview)
		secured.GET("/re-interview/pending", d.Interviews.PendingReInterviews)

		secured.GET("/reports/daily-log", d.Reports.DailyLog)
		secured.GET("/reports/interview-results", d.Reports.InterviewResults)
		secured.GET("/reports/audit-logs", d.Reports.AuditLogs)

		secured.GET("/qr/candidate/:candidate_id", d.QR.Candidate)
		secured.POST("/sync/forms", d.Sync.Sync)

		secured.GET("/users", d.Users.List)
		secured.POST("/users", d.Users.Create)
		secured.GET("/users/:id", d.Users.Get)
		secured.PATCH("/users/:id", d.Users.Update)
		secured.DELETE("/users/:id", d.Users.Delete)
	}
	return r
}
