package services

import (
	"net/url"
	"strings"

	"github.com/HridhimaDabhade/tpem-project/internal/domain"
	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

// QRService renders PNG codes pointing at the frontend. The candidate id is
// the only payload a code carries.
type QRService struct {
	frontendURL string
}

func NewQRService(frontendURL string) *QRService {
	return &QRService{frontendURL: strings.TrimRight(frontendURL, "/")}
}

func (s *QRService) PublicFormURL() string {
	return s.frontendURL + "/apply"
}

func (s *QRService) CandidateURL(candidateID string) string {
	return s.frontendURL + "/candidate/" + url.PathEscape(candidateID)
}

func (s *QRService) PublicForm() ([]byte, error) {
	return encodeQR(s.PublicFormURL())
}

func (s *QRService) Candidate(candidateID string) ([]byte, error) {
	candidateID = strings.TrimSpace(candidateID)
	if candidateID == "" {
		return nil, domain.InvalidArgument("candidate id is required")
	}
	return encodeQR(s.CandidateURL(candidateID))
}

func encodeQR(content string) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Low, qrSize)
	if err != nil {
		return nil, domain.NewError(domain.KindInternal, "qr encoding failed", err)
	}
	return png, nil
}
