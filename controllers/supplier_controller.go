package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pawsitter-api/config"
	"github.com/kendall-kelly/pawsitter-api/logger"
	"github.com/kendall-kelly/pawsitter-api/models"
	"github.com/kendall-kelly/pawsitter-api/services"
	"github.com/kendall-kelly/pawsitter-api/utils"
	"github.com/shopspring/decimal"
)

// RegisterSupplierRequest represents the request body for POST /supplier.
// Rate accepts a JSON number or a numeric string.
type RegisterSupplierRequest struct {
	Name           string           `json:"name" binding:"required"`
	Email          string           `json:"email" binding:"omitempty,email"`
	Phone          string           `json:"phone"`
	Address        string           `json:"address"`
	Rate           *decimal.Decimal `json:"rate" binding:"required"`
	Experience     bool             `json:"experience"`
	HasChildren    bool             `json:"hasChildren"`
	HasPetSupplies bool             `json:"hasPetSupplies"`
	UserAuth0ID    string           `json:"userAuth0Id"`
}

// RegisterSupplier handles POST /supplier - registers a pet sitter
func RegisterSupplier(c *gin.Context) {
	auth0ID, ok := currentSubject(c)
	if !ok {
		return
	}

	var req RegisterSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}

	owner, ok := resolveOwner(c, auth0ID, req.UserAuth0ID)
	if !ok {
		return
	}

	supplier, err := services.NewSupplierService(config.GetDB()).Register(c.Request.Context(), services.SupplierInput{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		Rate:           *req.Rate,
		Experience:     req.Experience,
		HasChildren:    req.HasChildren,
		HasPetSupplies: req.HasPetSupplies,
		UserAuth0ID:    owner,
	})
	if err != nil {
		serviceError(c, entitySupplier, err)
		return
	}

	dataResponse(c, http.StatusCreated, supplier)
}

// ListSuppliers handles GET /suppliers - lists every supplier
func ListSuppliers(c *gin.Context) {
	suppliers, err := services.NewSupplierService(config.GetDB()).List(c.Request.Context())
	if err != nil {
		serviceError(c, entitySupplier, err)
		return
	}

	for i := range suppliers {
		attachPhotoURL(c.Request.Context(), &suppliers[i])
	}

	dataResponse(c, http.StatusOK, suppliers)
}

// GetSupplier handles GET /suppliers/details/:id
func GetSupplier(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	supplier, err := services.NewSupplierService(config.GetDB()).GetByID(c.Request.Context(), id)
	if err != nil {
		serviceError(c, entitySupplier, err)
		return
	}

	attachPhotoURL(c.Request.Context(), supplier)
	dataResponse(c, http.StatusOK, supplier)
}

// GetSupplierByAuth0ID handles GET /suppliers/byAuth0Id/:userAuth0Id
func GetSupplierByAuth0ID(c *gin.Context) {
	supplier, err := services.NewSupplierService(config.GetDB()).GetBySubject(c.Request.Context(), c.Param("userAuth0Id"))
	if err != nil {
		serviceError(c, entitySupplier, err)
		return
	}

	attachPhotoURL(c.Request.Context(), supplier)
	dataResponse(c, http.StatusOK, supplier)
}

// UploadSupplierPhoto handles POST /suppliers/:id/photo - stores a profile
// photo for a supplier owned by the caller
func UploadSupplierPhoto(c *gin.Context) {
	auth0ID, ok := currentSubject(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	imageService := services.GetImageService()
	if imageService == nil {
		errorResponse(c, http.StatusServiceUnavailable, "PHOTO_STORAGE_DISABLED", "Photo storage is not configured")
		return
	}

	supplierService := services.NewSupplierService(config.GetDB())
	supplier, err := supplierService.GetByID(c.Request.Context(), id)
	if err != nil {
		serviceError(c, entitySupplier, err)
		return
	}

	if supplier.UserAuth0ID == nil || *supplier.UserAuth0ID != auth0ID {
		errorResponse(c, http.StatusForbidden, "FORBIDDEN", "You can only upload photos for your own supplier profile")
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "A photo file is required in the 'photo' field")
		return
	}

	photoKey, err := imageService.UploadImage(c.Request.Context(), fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			errorResponse(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message)
			return
		}
		logger.FromContext(c.Request.Context()).Error().Err(err).Uint("supplier_id", id).Msg("photo upload failed")
		errorResponse(c, http.StatusBadGateway, "UPLOAD_FAILED", "Failed to store the photo")
		return
	}

	previousKey := supplier.PhotoS3Key
	supplier, err = supplierService.AttachPhoto(c.Request.Context(), id, photoKey)
	if err != nil {
		serviceError(c, entitySupplier, err)
		return
	}

	if previousKey != nil && *previousKey != photoKey {
		if err := imageService.DeleteImage(c.Request.Context(), *previousKey); err != nil {
			logger.FromContext(c.Request.Context()).Warn().Err(err).Str("photo_key", *previousKey).Msg("failed to remove replaced photo")
		}
	}

	attachPhotoURL(c.Request.Context(), supplier)
	dataResponse(c, http.StatusOK, supplier)
}

// attachPhotoURL fills PhotoURL with a presigned link when the supplier has
// a photo and storage is configured
func attachPhotoURL(ctx context.Context, supplier *models.Supplier) {
	if supplier.PhotoS3Key == nil {
		return
	}

	imageService := services.GetImageService()
	if imageService == nil {
		return
	}

	url, err := imageService.GetImageURL(ctx, *supplier.PhotoS3Key)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Uint("supplier_id", supplier.ID).Msg("failed to presign photo url")
		return
	}

	supplier.PhotoURL = &url
}
