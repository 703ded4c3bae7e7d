package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/HridhimaDabhade/tpem-project/internal/domain"
)

func newFormsServer(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, strings.ReplaceAll(body, "{{base}}", srv.URL))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const (
	firstPage = `{
		"value": [
			{"id": "r1", "answers": {"name": "Asha K", "email": "asha@mail.test", "qualifications": "Diploma Civil", "experience": "2,5", "role": "Civil"}},
			{"id": "r2", "answers": {"question1": {"value": "Ravi"}, "question6": {"value": {"displayName": "Finance"}}}}
		],
		"@odata.nextLink": "{{base}}/forms/f1/responses/page2"
	}`
	secondPage = `{"value": [{"id": "r3", "answers": {"email": "noname@mail.test"}}, {"id": "", "answers": {}}]}`
)

func TestGraphFormsClientFollowsPages(t *testing.T) {
	srv := newFormsServer(t, map[string]string{
		"/forms/f1/responses":       firstPage,
		"/forms/f1/responses/page2": secondPage,
	})
	client := NewGraphFormsClient(srv.Client(), srv.URL+"/", "f1")

	responses, err := client.Responses(context.Background())
	if err != nil {
		t.Fatalf("responses: %v", err)
	}
	if len(responses) != 4 {
		t.Fatalf("responses = %d, want 4", len(responses))
	}
	if got := responses[1].Answers["question6"]; got != "Finance" {
		t.Fatalf("displayName answer = %q", got)
	}
	if got := responses[1].Answers["question1"]; got != "Ravi" {
		t.Fatalf("value answer = %q", got)
	}
}

func TestGraphFormsClientUnavailable(t *testing.T) {
	srv := newFormsServer(t, nil)
	client := NewGraphFormsClient(srv.Client(), srv.URL, "f1")
	_, err := client.Responses(context.Background())
	assertKind(t, err, domain.KindUnavailable)
}

func TestFormsSyncIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	srv := newFormsServer(t, map[string]string{
		"/forms/f1/responses":       firstPage,
		"/forms/f1/responses/page2": secondPage,
	})
	sync := NewFormsSyncService(NewGraphFormsClient(srv.Client(), srv.URL, "f1"), env.candidates, env.audit, env.log)

	res, err := sync.Sync(ctx, hr)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if res != (SyncResult{Created: 3}) {
		t.Fatalf("first sync = %+v", res)
	}

	asha, err := env.store.GetCandidateByFormResponse(ctx, "r1")
	if err != nil {
		t.Fatalf("imported candidate: %v", err)
	}
	if asha.OnboardingType != domain.OnboardingFormsSync || !strings.Contains(asha.CandidateID, "-CIV-") {
		t.Fatalf("unexpected import: %+v", asha)
	}
	if asha.Profile.ExperienceYears == nil || *asha.Profile.ExperienceYears != 2.5 {
		t.Fatalf("experience = %v", asha.Profile.ExperienceYears)
	}
	if asha.Eligibility != domain.EligibilityCriteriaMet {
		t.Fatalf("eligibility = %s", asha.Eligibility)
	}
	unnamed, err := env.store.GetCandidateByFormResponse(ctx, "r3")
	if err != nil || unnamed.Profile.Name != "Unknown" {
		t.Fatalf("unnamed import = %+v, %v", unnamed, err)
	}

	// The second run sees only the first page again.
	srv2 := newFormsServer(t, map[string]string{
		"/forms/f1/responses":       firstPage,
		"/forms/f1/responses/page2": `{"value": []}`,
	})
	sync.source = NewGraphFormsClient(srv2.Client(), srv2.URL, "f1")
	res, err = sync.Sync(ctx, admin)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if res != (SyncResult{Updated: 2}) {
		t.Fatalf("second sync = %+v", res)
	}
	total, err := env.store.CountCandidates(ctx, "")
	if err != nil || total != 3 {
		t.Fatalf("candidates after resync = %d, %v", total, err)
	}
	if len(env.auditActions(t, domain.ActionFormsSync)) != 2 {
		t.Fatal("syncs were not audited")
	}
}

func TestFormsSyncGuards(t *testing.T) {
	env := newTestEnv(t)
	sync := NewFormsSyncService(nil, env.candidates, env.audit, env.log)

	_, err := sync.Sync(context.Background(), interviewer)
	assertKind(t, err, domain.KindForbidden)

	_, err = sync.Sync(context.Background(), admin)
	assertKind(t, err, domain.KindUnavailable)
}
