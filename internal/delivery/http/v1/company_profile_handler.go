package v1

import (
	"net/http"

	"job-board-backend/internal/delivery/http/response"
	"job-board-backend/internal/domain"
	"job-board-backend/pkg/storage"

	"github.com/gin-gonic/gin"
)

type CompanyProfileHandler struct {
	profileUC domain.CompanyProfileUsecase
}

// NewCompanyProfileHandler registers company profile routes
func NewCompanyProfileHandler(company, uploads *gin.RouterGroup, profileUC domain.CompanyProfileUsecase) {
	handler := &CompanyProfileHandler{profileUC: profileUC}

	me := company.Group("/companies/me")
	{
		me.GET("", handler.GetOwnProfile)
		me.PUT("", handler.UpdateProfile)
	}
	uploads.POST("/companies/me/logo", handler.UploadLogo)
}

type CompanyProfileRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=150"`
	TaxID       string `json:"cnpj" binding:"omitempty,cnpj"`
	Description string `json:"description" binding:"max=2000"`
	Website     string `json:"website" binding:"omitempty,url"`
}

// GetOwnProfile godoc
// @Summary      Get my company profile
// @Tags         companies
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.CompanyProfile}
// @Failure      404  {object}  response.Response
// @Router       /companies/me [get]
// @Security     BearerAuth
func (h *CompanyProfileHandler) GetOwnProfile(c *gin.Context) {
	profile, err := h.profileUC.GetMyProfile(c, currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Company profile", profile)
}

// UpdateProfile godoc
// @Summary      Update my company profile
// @Description  Updates the account name and the profile together
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        body  body      CompanyProfileRequest  true  "Profile"
// @Success      200   {object}  response.Response{data=domain.CompanyProfile}
// @Failure      400   {object}  response.Response
// @Failure      409   {object}  response.Response  "CNPJ already registered"
// @Router       /companies/me [put]
// @Security     BearerAuth
func (h *CompanyProfileHandler) UpdateProfile(c *gin.Context) {
	var req CompanyProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.profileUC.UpdateMyProfile(c, currentUserID(c), domain.UpdateCompanyProfileInput{
		Name:        req.Name,
		TaxID:       req.TaxID,
		Description: optional(req.Description),
		Website:     optional(req.Website),
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Company profile updated", profile)
}

// UploadLogo godoc
// @Summary      Upload company logo
// @Description  JPEG, PNG or GIF up to 2 MB. Large images are scaled down.
// @Tags         companies
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Logo image"
// @Success      200   {object}  response.Response{data=domain.CompanyProfile}
// @Failure      400   {object}  response.Response
// @Router       /companies/me/logo [post]
// @Security     BearerAuth
func (h *CompanyProfileHandler) UploadLogo(c *gin.Context) {
	file, ok := readUpload(c, "file", int64(storage.LogoPolicy.MaxBytes))
	if !ok {
		return
	}

	profile, err := h.profileUC.UploadLogo(c, currentUserID(c), file)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Logo uploaded", profile)
}
