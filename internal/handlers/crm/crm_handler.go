package crm

import (
	"net/http"

	"atlas-service/internal/crm"
	xerrors "atlas-service/internal/pkg/errors"
	"atlas-service/internal/pkg/response"
	service "atlas-service/internal/service/directory"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CRMHandler struct {
	directoryService *service.DirectoryService
	crmClient        *crm.Client
	logger           *zap.Logger
}

func NewCRMHandler(directoryService *service.DirectoryService, crmClient *crm.Client, logger *zap.Logger) *CRMHandler {
	return &CRMHandler{
		directoryService: directoryService,
		crmClient:        crmClient,
		logger:           logger,
	}
}

// PushContact forwards one professional to the CRM as a contact. The push
// never blocks the submission flow; this endpoint reports one of three
// outcomes (confirmed, uncertain, failed) rather than a bare success bool.
func (h *CRMHandler) PushContact(c *gin.Context) {
	agentID := c.Query("agent_id")
	if agentID == "" {
		response.ValidationError(c, "agent_id is required", nil)
		return
	}

	p, err := h.directoryService.Get(c.Request.Context(), agentID)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "professional not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to load professional", err)
		return
	}

	result, err := h.crmClient.PushContact(c.Request.Context(), p)
	if err != nil {
		h.logger.Warn("crm push errored",
			zap.String("professional_id", p.ID),
			zap.Error(err),
		)
		response.Error(c, http.StatusBadGateway, result.Message, err)
		return
	}

	h.logger.Info("crm push completed",
		zap.String("professional_id", p.ID),
		zap.String("outcome", string(result.Outcome)),
	)

	status := http.StatusOK
	if result.Outcome == crm.OutcomeUncertain {
		status = http.StatusAccepted
	}
	response.Success(c, status, "crm push completed", result)
}
