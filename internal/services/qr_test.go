package services

import (
	"bytes"
	"testing"

	"github.com/HridhimaDabhade/tpem-project/internal/domain"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func TestQRCodes(t *testing.T) {
	qr := NewQRService("https://careers.tpeml.test/")

	if got := qr.PublicFormURL(); got != "https://careers.tpeml.test/apply" {
		t.Fatalf("public form url = %s", got)
	}
	if got := qr.CandidateURL("TPEML-2025-CIV-00001"); got != "https://careers.tpeml.test/candidate/TPEML-2025-CIV-00001" {
		t.Fatalf("candidate url = %s", got)
	}

	png, err := qr.Candidate("TPEML-2025-CIV-00001")
	if err != nil {
		t.Fatalf("candidate qr: %v", err)
	}
	if !bytes.HasPrefix(png, pngSignature) {
		t.Fatal("candidate qr is not a png")
	}
	if png, err = qr.PublicForm(); err != nil || !bytes.HasPrefix(png, pngSignature) {
		t.Fatalf("public form qr: %v", err)
	}

	_, err = qr.Candidate("  ")
	assertKind(t, err, domain.KindInvalidArgument)
}
