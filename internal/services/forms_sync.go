package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/HridhimaDabhade/tpem-project/internal/domain"
	"golang.org/x/oauth2/clientcredentials"
)

// FormResponse is one submission of the onboarding form.
type FormResponse struct {
	ID      string
	Answers map[string]string
}

type FormsSource interface {
	Responses(ctx context.Context) ([]FormResponse, error)
}

// GraphFormsClient reads form responses from Microsoft Graph.
type GraphFormsClient struct {
	http    *http.Client
	baseURL string
	formID  string
}

// NewGraphHTTPClient returns a client that attaches app-only Graph tokens.
func NewGraphHTTPClient(ctx context.Context, tenantID, clientID, clientSecret string) *http.Client {
	cfg := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", url.PathEscape(tenantID)),
		Scopes:       []string{"https://graph.microsoft.com/.default"},
	}
	return cfg.Client(ctx)
}

func NewGraphFormsClient(client *http.Client, baseURL, formID string) *GraphFormsClient {
	return &GraphFormsClient{http: client, baseURL: strings.TrimRight(baseURL, "/"), formID: formID}
}

type graphResponsePage struct {
	Value    []graphResponse `json:"value"`
	NextLink string          `json:"@odata.nextLink"`
}

type graphResponse struct {
	ID      string                     `json:"id"`
	Answers map[string]json.RawMessage `json:"answers"`
}

func (c *GraphFormsClient) Responses(ctx context.Context) ([]FormResponse, error) {
	next := fmt.Sprintf("%s/forms/%s/responses", c.baseURL, url.PathEscape(c.formID))
	var out []FormResponse
	for next != "" {
		page, err := c.fetch(ctx, next)
		if err != nil {
			return nil, err
		}
		for _, r := range page.Value {
			out = append(out, FormResponse{ID: r.ID, Answers: flattenAnswers(r.Answers)})
		}
		next = page.NextLink
	}
	return out, nil
}

func (c *GraphFormsClient) fetch(ctx context.Context, target string) (graphResponsePage, error) {
	var page graphResponsePage
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return page, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return page, domain.NewError(domain.KindUnavailable, "forms provider unreachable", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return page, domain.NewError(domain.KindUnavailable, "forms provider request failed",
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return page, domain.NewError(domain.KindUnavailable, "forms provider returned malformed data", err)
	}
	return page, nil
}

// flattenAnswers accepts plain strings, numbers and {"value": ...} objects
// whose value is a string or carries a displayName.
func flattenAnswers(raw map[string]json.RawMessage) map[string]string {
	out := make(map[string]string, len(raw))
	for key, msg := range raw {
		if v := answerText(msg); v != "" {
			out[key] = v
		}
	}
	return out
}

func answerText(msg json.RawMessage) string {
	var s string
	if json.Unmarshal(msg, &s) == nil {
		return strings.TrimSpace(s)
	}
	var obj struct {
		Value json.RawMessage `json:"value"`
	}
	if json.Unmarshal(msg, &obj) == nil && len(obj.Value) > 0 {
		if json.Unmarshal(obj.Value, &s) == nil {
			return strings.TrimSpace(s)
		}
		var named struct {
			DisplayName string `json:"displayName"`
		}
		if json.Unmarshal(obj.Value, &named) == nil && named.DisplayName != "" {
			return strings.TrimSpace(named.DisplayName)
		}
		return strings.Trim(string(obj.Value), `" `)
	}
	return strings.Trim(string(msg), `" `)
}

// FormsSyncService imports form responses as candidates. The response id is
// the idempotency key: known responses refresh the profile, new ones go
// through normal onboarding.
type FormsSyncService struct {
	source     FormsSource
	candidates *CandidateService
	audit      *AuditRecorder
	log        *slog.Logger
}

func NewFormsSyncService(source FormsSource, candidates *CandidateService, audit *AuditRecorder, log *slog.Logger) *FormsSyncService {
	return &FormsSyncService{source: source, candidates: candidates, audit: audit, log: log}
}

type SyncResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

func (s *FormsSyncService) Sync(ctx context.Context, actor domain.Actor) (SyncResult, error) {
	var res SyncResult
	if err := authorize(actor, domain.RoleAdmin, domain.RoleHR); err != nil {
		return res, err
	}
	if s.source == nil {
		return res, domain.NewError(domain.KindUnavailable, "forms sync is not configured", nil)
	}
	responses, err := s.source.Responses(ctx)
	if err != nil {
		return res, err
	}
	for _, r := range responses {
		if r.ID == "" {
			continue
		}
		_, created, err := s.candidates.ImportFormResponse(ctx, r.ID, profileFromAnswers(r.Answers))
		switch {
		case err != nil:
			res.Failed++
			s.log.Warn("form response import failed", slog.String("response_id", r.ID), slog.String("error", err.Error()))
		case created:
			res.Created++
		default:
			res.Updated++
		}
	}
	s.audit.Record(ctx, &actor, domain.ActionFormsSync, "candidate", "", map[string]any{
		"created": res.Created,
		"updated": res.Updated,
		"failed":  res.Failed,
	})
	return res, nil
}

func profileFromAnswers(a map[string]string) domain.Profile {
	pick := func(keys ...string) string {
		for _, k := range keys {
			if v := a[k]; v != "" {
				return v
			}
		}
		return ""
	}
	p := domain.Profile{
		Name:           pick("name", "question1"),
		Email:          pick("email", "question2"),
		Phone:          pick("phone", "question3"),
		Qualifications: pick("qualifications", "question4"),
		RoleApplied:    pick("role", "question6"),
	}
	if exp := pick("experience", "question5"); exp != "" {
		if f, err := strconv.ParseFloat(strings.ReplaceAll(exp, ",", "."), 64); err == nil {
			p.ExperienceYears = &f
		}
	}
	return p
}
