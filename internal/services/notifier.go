package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/HridhimaDabhade/tpem-project/internal/domain"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GmailNotifier emails a newly onboarded candidate their identifier.
type GmailNotifier struct {
	gmail   *gmail.Service
	from    string
	log     *slog.Logger
	backoff time.Duration
}

func NewGmailNotifier(ctx context.Context, from string, log *slog.Logger, opts ...option.ClientOption) (*GmailNotifier, error) {
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return &GmailNotifier{gmail: svc, from: from, log: log, backoff: time.Second}, nil
}

func (n *GmailNotifier) CandidateOnboarded(ctx context.Context, c domain.Candidate) error {
	to := strings.TrimSpace(c.Profile.Email)
	if to == "" {
		return nil
	}
	msg := &gmail.Message{Raw: base64.URLEncoding.EncodeToString([]byte(n.compose(to, c)))}
	return retry(ctx, 3, n.backoff, n.log, func() error {
		_, err := n.gmail.Users.Messages.Send("me", msg).Context(ctx).Do()
		return err
	})
}

func (n *GmailNotifier) compose(to string, c domain.Candidate) string {
	var b strings.Builder
	if n.from != "" {
		fmt.Fprintf(&b, "From: %s\r\n", n.from)
	}
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: Your candidate ID %s\r\n", c.CandidateID)
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	fmt.Fprintf(&b, "Dear %s,\r\n\r\n", c.Profile.Name)
	fmt.Fprintf(&b, "Your registration is complete. Your candidate ID is %s.\r\n", c.CandidateID)
	b.WriteString("Please bring this ID to your interview.\r\n")
	return b.String()
}

// retry runs f with exponential backoff. Client errors other than rate
// limiting fail fast.
func retry(ctx context.Context, attempts int, sleep time.Duration, log *slog.Logger, f func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = f(); err == nil {
			return nil
		}
		if isPermanent(err) {
			return err
		}
		log.Warn("gmail api error, retrying", slog.String("error", err.Error()), slog.Duration("backoff", sleep))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
		sleep *= 2
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, err)
}

func isPermanent(err error) bool {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code >= 400 && gErr.Code < 500 && gErr.Code != http.StatusTooManyRequests
	}
	return false
}
