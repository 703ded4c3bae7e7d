package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/HridhimaDabhade/tpem-project/internal/domain"
	"github.com/HridhimaDabhade/tpem-project/internal/store"
	"github.com/xuri/excelize/v2"
)

const (
	reportTimeLayout  = "2006-01-02 15:04"
	auditTimeLayout   = "2006-01-02 15:04:05"
	maxReportNotesLen = 500
)

// DateRange bounds a report; nil ends are open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// ReportService renders read-only .xlsx exports.
type ReportService struct {
	store store.Store
}

func NewReportService(s store.Store) *ReportService {
	return &ReportService{store: s}
}

// DailyLog lists candidates registered in the range with their latest
// interview.
func (s *ReportService) DailyLog(ctx context.Context, actor domain.Actor, r DateRange) (*bytes.Buffer, error) {
	if err := authorize(actor, domain.RoleAdmin, domain.RoleHR); err != nil {
		return nil, err
	}
	candidates, _, err := s.store.ListCandidates(ctx, store.CandidateFilter{CreatedFrom: r.From, CreatedTo: r.To})
	if err != nil {
		return nil, err
	}
	names := s.userNames(ctx)

	rows := make([][]any, 0, len(candidates))
	for _, c := range candidates {
		var interviewDate, interviewer, decision string
		history, err := s.store.ListInterviews(ctx, store.InterviewFilter{CandidateID: c.CandidateID, Limit: 1})
		if err != nil {
			return nil, err
		}
		if len(history) > 0 {
			latest := history[0]
			interviewDate = latest.InterviewDate.Format(reportTimeLayout)
			interviewer = names(latest.InterviewerID, "")
			decision = string(latest.Decision)
		}
		rows = append(rows, []any{
			c.CandidateID,
			c.Profile.Name,
			c.Profile.RoleApplied,
			c.CreatedAt.Format(reportTimeLayout),
			interviewDate,
			interviewer,
			decision,
			string(c.Status),
			string(c.Eligibility),
		})
	}
	headers := []any{"Candidate ID", "Name", "Role Applied", "Registration Date", "Interview Date", "Interviewer", "Decision", "Status", "Eligibility"}
	return renderSheet("Daily Recruitment Log", headers, rows, 18)
}

func (s *ReportService) InterviewResults(ctx context.Context, actor domain.Actor, r DateRange, role string, decision domain.Decision) (*bytes.Buffer, error) {
	if err := authorize(actor, domain.RoleAdmin, domain.RoleHR); err != nil {
		return nil, err
	}
	interviews, err := s.store.ListInterviews(ctx, store.InterviewFilter{From: r.From, To: r.To, Role: role, Decision: decision})
	if err != nil {
		return nil, err
	}
	names := s.userNames(ctx)

	rows := make([][]any, 0, len(interviews))
	for _, iv := range interviews {
		c, err := s.store.GetCandidate(ctx, iv.CandidateID)
		if err != nil && !domain.IsKind(err, domain.KindNotFound) {
			return nil, err
		}
		notes := iv.Notes
		if len(notes) > maxReportNotesLen {
			notes = notes[:maxReportNotesLen]
		}
		rows = append(rows, []any{
			iv.CandidateID,
			c.Profile.Name,
			c.Profile.RoleApplied,
			iv.Round,
			iv.InterviewDate.Format(reportTimeLayout),
			names(iv.InterviewerID, ""),
			string(iv.Decision),
			notes,
		})
	}
	headers := []any{"Candidate ID", "Name", "Role Applied", "Round", "Interview Date", "Interviewer", "Decision", "Notes"}
	return renderSheet("Interview Results", headers, rows, 20)
}

func (s *ReportService) AuditLogs(ctx context.Context, actor domain.Actor, r DateRange) (*bytes.Buffer, error) {
	if err := authorize(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	entries, err := s.store.ListAudit(ctx, store.AuditFilter{From: r.From, To: r.To})
	if err != nil {
		return nil, err
	}
	emails := s.userEmails(ctx)

	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		user := "System"
		if e.ActorID != nil {
			user = emails(*e.ActorID, "System")
		}
		var details string
		if len(e.Details) > 0 {
			b, _ := json.Marshal(e.Details)
			details = string(b)
			if len(details) > maxReportNotesLen {
				details = details[:maxReportNotesLen]
			}
		}
		rows = append(rows, []any{
			e.CreatedAt.Format(auditTimeLayout),
			user,
			string(e.Action),
			e.ResourceType,
			e.ResourceID,
			details,
		})
	}
	headers := []any{"Timestamp", "User", "Action", "Resource Type", "Resource ID", "Details"}
	return renderSheet("Audit Logs", headers, rows, 22)
}

// ReportFilename is the download name for a report generated at t.
func ReportFilename(kind string, t time.Time) string {
	return fmt.Sprintf("tpeml_%s_%s.xlsx", kind, t.UTC().Format("20060102_1504"))
}

func (s *ReportService) userNames(ctx context.Context) func(id, fallback string) string {
	return s.userLookup(ctx, func(u domain.User) string { return u.FullName })
}

func (s *ReportService) userEmails(ctx context.Context) func(id, fallback string) string {
	return s.userLookup(ctx, func(u domain.User) string { return u.Email })
}

// userLookup resolves user ids lazily and caches misses too.
func (s *ReportService) userLookup(ctx context.Context, field func(domain.User) string) func(id, fallback string) string {
	cache := make(map[string]string)
	return func(id, fallback string) string {
		if v, ok := cache[id]; ok {
			if v == "" {
				return fallback
			}
			return v
		}
		var v string
		if u, err := s.store.GetUser(ctx, id); err == nil {
			v = field(u)
		}
		cache[id] = v
		if v == "" {
			return fallback
		}
		return v
	}
}

func renderSheet(title string, headers []any, rows [][]any, width float64) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", title); err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"0066B3"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorder(),
	})
	if err != nil {
		return nil, err
	}
	cellStyle, err := f.NewStyle(&excelize.Style{Border: thinBorder()})
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(title, "A1", &headers); err != nil {
		return nil, err
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(title, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(title, cell, &row); err != nil {
			return nil, err
		}
	}
	if len(rows) > 0 {
		if err := f.SetCellStyle(title, "A2", fmt.Sprintf("%s%d", lastCol, len(rows)+1), cellStyle); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(title, "A", lastCol, width); err != nil {
		return nil, err
	}
	return f.WriteToBuffer()
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}
