package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/cv-studio/internal/application/service"
	documentUC "github.com/khoahotran/cv-studio/internal/application/usecase/document"
	shareUC "github.com/khoahotran/cv-studio/internal/application/usecase/share"
	"github.com/khoahotran/cv-studio/pkg/apperror"
	"github.com/khoahotran/cv-studio/pkg/logger"
)

type ShareHandler struct {
	shareUseCase    *shareUC.ShareUseCase
	publicCVUseCase *shareUC.GetPublicCVUseCase
	renderer        service.Renderer
	logger          logger.Logger
}

// NewShareHandler wires the share link routes. renderer may be nil, which
// disables the public PDF route.
func NewShareHandler(shareUC *shareUC.ShareUseCase, publicUC *shareUC.GetPublicCVUseCase, renderer service.Renderer, log logger.Logger) *ShareHandler {
	return &ShareHandler{
		shareUseCase:    shareUC,
		publicCVUseCase: publicUC,
		renderer:        renderer,
		logger:          log,
	}
}

func (h *ShareHandler) CreateShareLink(c *gin.Context) {
	input, ok := documentInput(c)
	if !ok {
		return
	}

	var req CreateShareLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for share link", err))
		return
	}

	link, err := h.shareUseCase.ExecuteCreate(c.Request.Context(), shareUC.CreateShareLinkInput{
		OwnerID:      input.OwnerID,
		DocumentID:   input.DocumentID,
		PrivacyLevel: req.PrivacyLevel,
		ExpiresAt:    req.ExpiresAt,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, ToShareLinkDTO(link))
}

func (h *ShareHandler) ListShareLinks(c *gin.Context) {
	input, ok := documentInput(c)
	if !ok {
		return
	}

	links, err := h.shareUseCase.ExecuteList(c.Request.Context(), shareUC.ListShareLinksInput{
		OwnerID:    input.OwnerID,
		DocumentID: input.DocumentID,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": ToShareLinkDTOs(links)})
}

func (h *ShareHandler) DeactivateShareLink(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.shareUseCase.ExecuteDeactivate(c.Request.Context(), shareUC.DeactivateShareLinkInput{
		OwnerID: ownerID,
		ShareID: id,
	}); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ShareHandler) GetPublicCV(c *gin.Context) {
	cv, err := h.publicCVUseCase.Execute(c.Request.Context(), shareUC.GetPublicCVInput{Token: c.Param("token")})
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, cv)
}

func (h *ShareHandler) GetPublicCVPDF(c *gin.Context) {
	if h.renderer == nil {
		c.Error(apperror.NewInvalidConfig("rendering is not configured", nil))
		return
	}

	cv, err := h.publicCVUseCase.Execute(c.Request.Context(), shareUC.GetPublicCVInput{Token: c.Param("token")})
	if err != nil {
		c.Error(err)
		return
	}

	output, err := documentUC.Render(c.Request.Context(), h.renderer, cv, documentUC.FormatPDF)
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Cache-Control", "no-store")
	writeExport(c, output, "inline")
}
