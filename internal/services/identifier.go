package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/HridhimaDabhade/tpem-project/internal/store"
)

const defaultCategoryCode = "GEN"

type categoryRule struct {
	keyword string
	code    string
}

// categoryRules are matched in order against the lower-cased hint, so the
// specific diploma branches win over the broad department keywords
// ("Mechanical Engineering" is MECH, not ENG).
var categoryRules = []categoryRule{
	{"mechanical", "MECH"},
	{"electronics", "ECE"},
	{"electrical", "EEE"},
	{"computer", "CSE"},
	{"civil", "CIV"},
	{"automobile", "AUTO"},
	{"engineer", "ENG"},
	{"finance", "FIN"},
	{"operations", "OPS"},
	{"hr", "HR"},
}

// CategoryCode maps a free-text role or diploma branch to its identifier code.
func CategoryCode(hint string) string {
	h := strings.ToLower(strings.TrimSpace(hint))
	if h == "" {
		return defaultCategoryCode
	}
	for _, rule := range categoryRules {
		if strings.Contains(h, rule.keyword) {
			return rule.code
		}
	}
	return defaultCategoryCode
}

// IDAllocator computes the next PREFIX-YEAR-CODE-NNNNN identifier by scanning
// existing ones. It is racy on its own: callers insert under the unique index
// and re-allocate on a duplicate key.
type IDAllocator struct {
	candidates store.Candidates
	prefix     string
	now        func() time.Time
}

func NewIDAllocator(candidates store.Candidates, prefix string, now func() time.Time) *IDAllocator {
	if now == nil {
		now = time.Now
	}
	return &IDAllocator{candidates: candidates, prefix: prefix, now: now}
}

func (a *IDAllocator) Allocate(ctx context.Context, categoryHint string) (string, error) {
	year := a.now().UTC().Year()
	base := fmt.Sprintf("%s-%d-%s-", a.prefix, year, CategoryCode(categoryHint))
	ids, err := a.candidates.ListCandidateIDs(ctx, base)
	if err != nil {
		return "", err
	}
	maxSeq := 0
	for _, id := range ids {
		seq, ok := parseSequence(id, base)
		if ok && seq > maxSeq {
			maxSeq = seq
		}
	}
	return fmt.Sprintf("%s%05d", base, maxSeq+1), nil
}

// IsCandidateID reports whether term looks like an identifier issued here.
func (a *IDAllocator) IsCandidateID(term string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(term)), strings.ToUpper(a.prefix)+"-")
}

func parseSequence(id, base string) (int, bool) {
	if !strings.HasPrefix(id, base) {
		return 0, false
	}
	tail := id[len(base):]
	if tail == "" || strings.Contains(tail, "-") {
		return 0, false
	}
	seq, err := strconv.Atoi(tail)
	if err != nil || seq < 0 {
		return 0, false
	}
	return seq, true
}
