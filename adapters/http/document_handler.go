package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	documentUC "github.com/khoahotran/cv-studio/internal/application/usecase/document"
	"github.com/khoahotran/cv-studio/internal/domain/share"
	"github.com/khoahotran/cv-studio/pkg/apperror"
	"github.com/khoahotran/cv-studio/pkg/logger"
)

type DocumentHandler struct {
	documentUseCase  *documentUC.DocumentUseCase
	selectionUseCase *documentUC.SelectionUseCase
	composeUseCase   *documentUC.ComposeUseCase
	logger           logger.Logger
}

func NewDocumentHandler(
	documentUC *documentUC.DocumentUseCase,
	selectionUC *documentUC.SelectionUseCase,
	composeUC *documentUC.ComposeUseCase,
	log logger.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		documentUseCase:  documentUC,
		selectionUseCase: selectionUC,
		composeUseCase:   composeUC,
		logger:           log,
	}
}

func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for document", err))
		return
	}

	doc, err := h.documentUseCase.ExecuteCreate(c.Request.Context(), documentUC.CreateDocumentInput{
		OwnerID:    ownerID,
		Title:      req.Title,
		LayoutMode: req.LayoutMode,
		Layout:     req.Layout,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, ToDocumentDTO(doc))
}

func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	output, err := h.documentUseCase.ExecuteList(c.Request.Context(), documentUC.ListDocumentsInput{
		OwnerID: ownerID,
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		c.Error(err)
		return
	}

	items := make([]DocumentDTO, len(output.Documents))
	for i, d := range output.Documents {
		items[i] = ToDocumentDTO(d)
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "page": output.Page, "limit": output.Limit})
}

func (h *DocumentHandler) GetDocument(c *gin.Context) {
	input, ok := documentInput(c)
	if !ok {
		return
	}

	doc, err := h.documentUseCase.ExecuteGet(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToDocumentDTO(doc))
}

func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	input, ok := documentInput(c)
	if !ok {
		return
	}

	if err := h.documentUseCase.ExecuteDelete(c.Request.Context(), input); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *DocumentHandler) SetLayout(c *gin.Context) {
	input, ok := documentInput(c)
	if !ok {
		return
	}

	var req SetLayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for layout", err))
		return
	}

	if _, err := h.documentUseCase.ExecuteSetLayout(c.Request.Context(), documentUC.SetLayoutInput{
		OwnerID:    input.OwnerID,
		DocumentID: input.DocumentID,
		Layout:     req.Layout,
		Mode:       req.Mode,
	}); err != nil {
		c.Error(err)
		return
	}

	h.GetLayout(c)
}

func (h *DocumentHandler) GetLayout(c *gin.Context) {
	input, ok := documentInput(c)
	if !ok {
		return
	}

	output, err := h.documentUseCase.ExecuteGetLayout(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToLayoutDTO(output))
}

func (h *DocumentHandler) ListSelections(c *gin.Context) {
	input, ok := documentInput(c)
	if !ok {
		return
	}
	kind, ok := kindParam(c)
	if !ok {
		return
	}

	rows, err := h.selectionUseCase.ExecuteList(c.Request.Context(), documentUC.ListSelectionsInput{
		OwnerID:    input.OwnerID,
		DocumentID: input.DocumentID,
		Kind:       kind,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"kind": kind, "rows": rows})
}

func (h *DocumentHandler) UpsertSelections(c *gin.Context) {
	input, ok := documentInput(c)
	if !ok {
		return
	}
	kind, ok := kindParam(c)
	if !ok {
		return
	}

	var req UpsertSelectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for selections", err))
		return
	}

	output, err := h.selectionUseCase.ExecuteUpsert(c.Request.Context(), documentUC.UpsertSelectionsInput{
		OwnerID:    input.OwnerID,
		DocumentID: input.DocumentID,
		Kind:       kind,
		Rows:       req.ToDomainRows(input.DocumentID, kind),
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"kind": kind, "rows": output.Rows})
}

func (h *DocumentHandler) GetComposed(c *gin.Context) {
	input, ok := documentInput(c)
	if !ok {
		return
	}

	resolved, err := h.composeUseCase.Execute(c.Request.Context(), documentUC.ComposeInput{
		OwnerID:    input.OwnerID,
		DocumentID: input.DocumentID,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resolved)
}

func (h *DocumentHandler) Export(c *gin.Context) {
	input, ok := documentInput(c)
	if !ok {
		return
	}

	output, err := h.composeUseCase.ExecuteExport(c.Request.Context(), documentUC.ExportInput{
		OwnerID:      input.OwnerID,
		DocumentID:   input.DocumentID,
		Format:       documentUC.ExportFormat(c.Query("format")),
		PrivacyLevel: share.PrivacyLevel(c.Query("privacy")),
	})
	if err != nil {
		c.Error(err)
		return
	}

	writeExport(c, output, "attachment")
}

func writeExport(c *gin.Context, out *documentUC.ExportOutput, disposition string) {
	c.Header("Content-Disposition", disposition+`; filename="`+out.Filename+`"`)
	c.Data(http.StatusOK, out.ContentType, out.Content)
}

func documentInput(c *gin.Context) (documentUC.GetDocumentInput, bool) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return documentUC.GetDocumentInput{}, false
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return documentUC.GetDocumentInput{}, false
	}
	return documentUC.GetDocumentInput{OwnerID: ownerID, DocumentID: id}, true
}
