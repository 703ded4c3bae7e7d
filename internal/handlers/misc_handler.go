package handlers

import (
	"log/slog"
	"net/http"

	"github.com/HridhimaDabhade/tpem-project/internal/services"
	"github.com/gin-gonic/gin"
)

type QRHandler struct {
	QR  *services.QRService
	Log *slog.Logger
}

func NewQRHandler(qr *services.QRService, log *slog.Logger) *QRHandler {
	return &QRHandler{QR: qr, Log: log}
}

// PublicForm is GET /qr/public-form
func (h *QRHandler) PublicForm(c *gin.Context) {
	png, err := h.QR.PublicForm()
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// Candidate is GET /qr/candidate/:candidate_id
func (h *QRHandler) Candidate(c *gin.Context) {
	png, err := h.QR.Candidate(c.Param("candidate_id"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

type SyncHandler struct {
	Forms *services.FormsSyncService
	Log   *slog.Logger
}

func NewSyncHandler(forms *services.FormsSyncService, log *slog.Logger) *SyncHandler {
	return &SyncHandler{Forms: forms, Log: log}
}

// Sync is POST /sync/forms
func (h *SyncHandler) Sync(c *gin.Context) {
	res, err := h.Forms.Sync(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
