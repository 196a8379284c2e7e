package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	profileUC "github.com/khoahotran/cv-studio/internal/application/usecase/profile"
	"github.com/khoahotran/cv-studio/internal/domain/profile"
	"github.com/khoahotran/cv-studio/pkg/apperror"
	"github.com/khoahotran/cv-studio/pkg/logger"
)

const maxImportBytes = 5 << 20

type ProfileHandler struct {
	profileUseCase *profileUC.ProfileUseCase
	entityUseCase  *profileUC.EntityUseCase
	logger         logger.Logger
}

func NewProfileHandler(uc *profileUC.ProfileUseCase, entityUC *profileUC.EntityUseCase, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: uc,
		entityUseCase:  entityUC,
		logger:         log,
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	output, err := h.profileUseCase.ExecuteGetProfile(c.Request.Context(), profileUC.GetProfileInput{OwnerID: ownerID})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToProfileDTO(output.Profile))
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for profile update", err))
		return
	}

	output, err := h.profileUseCase.ExecuteUpdateProfile(c.Request.Context(), profileUC.UpdateProfileInput{
		OwnerID:     ownerID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Headline:    req.Headline,
		Summary:     req.Summary,
		Email:       req.Email,
		Phone:       req.Phone,
		Location:    req.Location,
		LinkedInURL: req.LinkedInURL,
		GitHubURL:   req.GitHubURL,
		Languages:   req.Languages,
		Motivation:  req.Motivation,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToProfileDTO(output.Profile))
}

func (h *ProfileHandler) UploadPhoto(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.Error(apperror.NewInvalidInput("multipart field 'photo' is required", err))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInvalidInput("cannot read uploaded photo", err))
		return
	}
	defer file.Close()

	output, err := h.profileUseCase.ExecuteUploadPhoto(c.Request.Context(), profileUC.UploadPhotoInput{
		OwnerID: ownerID,
		File:    file,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"photo_url": output.PhotoURL})
}

func (h *ProfileHandler) GetCompletion(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	result, err := h.profileUseCase.ExecuteCompletion(c.Request.Context(), profileUC.CompletionInput{OwnerID: ownerID})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ProfileHandler) ImportProfile(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes+1))
	if err != nil {
		c.Error(apperror.NewInvalidInput("cannot read import body", err))
		return
	}
	if len(data) > maxImportBytes {
		c.Error(apperror.NewInvalidInput("import body is too large", nil))
		return
	}

	output, err := h.profileUseCase.ExecuteImport(c.Request.Context(), profileUC.ImportProfileInput{
		OwnerID: ownerID,
		Data:    data,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile_updated": output.ProfileUpdated,
		"imported":        output.Imported,
	})
}

func kindParam(c *gin.Context) (profile.EntityKind, bool) {
	kind, err := profile.ParseKind(c.Param("kind"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("unknown entity kind", err))
		return "", false
	}
	return kind, true
}

func (h *ProfileHandler) ListEntities(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	kind, ok := kindParam(c)
	if !ok {
		return
	}

	entities, err := h.entityUseCase.ExecuteList(c.Request.Context(), profileUC.ListEntitiesInput{OwnerID: ownerID, Kind: kind})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"kind": kind, "items": entities})
}

func (h *ProfileHandler) CreateEntity(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	payload, err := c.GetRawData()
	if err != nil {
		c.Error(apperror.NewInvalidInput("cannot read entity body", err))
		return
	}

	entity, err := h.entityUseCase.ExecuteCreate(c.Request.Context(), profileUC.SaveEntityInput{
		OwnerID: ownerID,
		Kind:    kind,
		Payload: payload,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, entity)
}

func (h *ProfileHandler) UpdateEntity(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	payload, err := c.GetRawData()
	if err != nil {
		c.Error(apperror.NewInvalidInput("cannot read entity body", err))
		return
	}

	entity, err := h.entityUseCase.ExecuteUpdate(c.Request.Context(), profileUC.SaveEntityInput{
		OwnerID: ownerID,
		Kind:    kind,
		ID:      id,
		Payload: payload,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, entity)
}

func (h *ProfileHandler) DeleteEntity(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.entityUseCase.ExecuteDelete(c.Request.Context(), profileUC.DeleteEntityInput{
		OwnerID: ownerID,
		Kind:    kind,
		ID:      id,
	}); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
