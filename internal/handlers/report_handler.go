package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/HridhimaDabhade/tpem-project/internal/domain"
	"github.com/HridhimaDabhade/tpem-project/internal/services"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	Reports *services.ReportService
	Log     *slog.Logger
}

func NewReportHandler(reports *services.ReportService, log *slog.Logger) *ReportHandler {
	return &ReportHandler{Reports: reports, Log: log}
}

// DailyLog is GET /reports/daily-log?from_date=&to_date=
func (h *ReportHandler) DailyLog(c *gin.Context) {
	r, err := dateRange(c)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	buf, err := h.Reports.DailyLog(c.Request.Context(), actorFrom(c), r)
	h.sendWorkbook(c, "daily_log", buf, err)
}

// InterviewResults is GET /reports/interview-results?from_date=&to_date=&role=&decision=
func (h *ReportHandler) InterviewResults(c *gin.Context) {
	r, err := dateRange(c)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	var decision domain.Decision
	if d := c.Query("decision"); d != "" {
		if decision, err = domain.ParseDecision(d); err != nil {
			respondError(c, h.Log, err)
			return
		}
	}
	buf, err := h.Reports.InterviewResults(c.Request.Context(), actorFrom(c), r, c.Query("role"), decision)
	h.sendWorkbook(c, "interview_results", buf, err)
}

// AuditLogs is GET /reports/audit-logs?from_date=&to_date=
func (h *ReportHandler) AuditLogs(c *gin.Context) {
	r, err := dateRange(c)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	buf, err := h.Reports.AuditLogs(c.Request.Context(), actorFrom(c), r)
	h.sendWorkbook(c, "audit_logs", buf, err)
}

func (h *ReportHandler) sendWorkbook(c *gin.Context, kind string, buf *bytes.Buffer, err error) {
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+services.ReportFilename(kind, time.Now()))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// dateRange reads from_date/to_date as RFC 3339 or YYYY-MM-DD. A date-only
// to_date covers the whole day.
func dateRange(c *gin.Context) (services.DateRange, error) {
	var r services.DateRange
	if s := c.Query("from_date"); s != "" {
		t, _, err := parseDate(s)
		if err != nil {
			return r, err
		}
		r.From = &t
	}
	if s := c.Query("to_date"); s != "" {
		t, dateOnly, err := parseDate(s)
		if err != nil {
			return r, err
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		r.To = &t
	}
	return r, nil
}

func parseDate(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), false, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, domain.InvalidArgument("dates must be YYYY-MM-DD or RFC 3339")
}
