package v1

import (
	"net/http"
	"time"

	"job-board-backend/internal/delivery/http/response"
	"job-board-backend/internal/domain"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/storage"

	"github.com/gin-gonic/gin"
)

// Dates in experience and education payloads
const dateLayout = "2006-01-02"

type CandidateHandler struct {
	candidateUC domain.CandidateUsecase
}

func NewCandidateHandler(candidate, uploads, company *gin.RouterGroup, candidateUC domain.CandidateUsecase) {
	handler := &CandidateHandler{candidateUC: candidateUC}

	me := candidate.Group("/candidates/me")
	{
		me.GET("", handler.GetProfile)
		me.PUT("", handler.UpdateProfile)

		me.POST("/experiences", handler.AddExperience)
		me.PUT("/experiences/:id", handler.UpdateExperience)
		me.DELETE("/experiences/:id", handler.DeleteExperience)

		me.POST("/educations", handler.AddEducation)
		me.PUT("/educations/:id", handler.UpdateEducation)
		me.DELETE("/educations/:id", handler.DeleteEducation)
	}
	uploads.POST("/candidates/me/resume", handler.UploadResume)

	company.GET("/candidates/:id", handler.GetCandidate)
}

type CandidateProfileRequest struct {
	Name     string   `json:"name" binding:"omitempty,min=2,max=100,valid_name"`
	Summary  string   `json:"summary" binding:"max=2000"`
	Phone    string   `json:"phone" binding:"omitempty,valid_phone"`
	LinkedIn string   `json:"linkedin" binding:"omitempty,url"`
	Skills   []string `json:"skills" binding:"max=50,dive,max=50"`
}

type ExperienceRequest struct {
	Role        string `json:"role" binding:"required,max=150"`
	Company     string `json:"company" binding:"required,max=150"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
}

type EducationRequest struct {
	Institution string `json:"institution" binding:"required,max=150"`
	Degree      string `json:"degree" binding:"required,max=100"`
	Course      string `json:"course" binding:"required,max=150"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date"`
}

// parseDates reads a required start and optional end date in dateLayout.
func parseDates(start, end string) (time.Time, *time.Time, error) {
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return time.Time{}, nil, apperror.BadRequest("Start date must use the YYYY-MM-DD format")
	}
	if end == "" {
		return s, nil, nil
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return time.Time{}, nil, apperror.BadRequest("End date must use the YYYY-MM-DD format")
	}
	return s, &e, nil
}

func (r ExperienceRequest) toExperience() (*domain.Experience, error) {
	start, end, err := parseDates(r.StartDate, r.EndDate)
	if err != nil {
		return nil, err
	}
	return &domain.Experience{
		Role:        r.Role,
		Company:     r.Company,
		StartDate:   start,
		EndDate:     end,
		Description: optional(r.Description),
	}, nil
}

func (r EducationRequest) toEducation() (*domain.Education, error) {
	start, end, err := parseDates(r.StartDate, r.EndDate)
	if err != nil {
		return nil, err
	}
	return &domain.Education{
		Institution: r.Institution,
		Degree:      r.Degree,
		Course:      r.Course,
		StartDate:   start,
		EndDate:     end,
	}, nil
}

// GetProfile godoc
// @Summary      Get candidate profile
// @Description  Get the profile of the currently logged-in candidate
// @Tags         candidates
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.CandidateProfile}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /candidates/me [get]
// @Security     BearerAuth
func (h *CandidateHandler) GetProfile(c *gin.Context) {
	profile, err := h.candidateUC.GetMyProfile(c, currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate profile", profile)
}

// UpdateProfile godoc
// @Summary      Update candidate profile
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        body  body      CandidateProfileRequest  true  "Profile"
// @Success      200   {object}  response.Response{data=domain.CandidateProfile}
// @Failure      400   {object}  response.Response
// @Router       /candidates/me [put]
// @Security     BearerAuth
func (h *CandidateHandler) UpdateProfile(c *gin.Context) {
	var req CandidateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.candidateUC.UpdateMyProfile(c, currentUserID(c), domain.UpdateCandidateProfileInput{
		Name:     req.Name,
		Summary:  optional(req.Summary),
		Phone:    optional(req.Phone),
		LinkedIn: optional(req.LinkedIn),
		Skills:   req.Skills,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate profile updated", profile)
}

// UploadResume godoc
// @Summary      Upload résumé
// @Description  PDF, DOC or DOCX up to 5 MB
// @Tags         candidates
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Résumé"
// @Success      200   {object}  response.Response{data=domain.CandidateProfile}
// @Failure      400   {object}  response.Response
// @Router       /candidates/me/resume [post]
// @Security     BearerAuth
func (h *CandidateHandler) UploadResume(c *gin.Context) {
	file, ok := readUpload(c, "file", int64(storage.ResumePolicy.MaxBytes))
	if !ok {
		return
	}

	profile, err := h.candidateUC.UploadResume(c, currentUserID(c), file)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Resume uploaded", profile)
}

// GetCandidate godoc
// @Summary      View a candidate
// @Description  Company view of a candidate's profile
// @Tags         candidates
// @Produce      json
// @Param        id   path      int  true  "Candidate ID"
// @Success      200  {object}  response.Response{data=domain.CandidateProfile}
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id} [get]
// @Security     BearerAuth
func (h *CandidateHandler) GetCandidate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	profile, err := h.candidateUC.GetCandidateProfile(c, id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate profile", profile)
}

// ============================================================================
// EXPERIENCES
// ============================================================================

// AddExperience godoc
// @Summary      Add experience
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        body  body      ExperienceRequest  true  "Experience"
// @Success      201   {object}  response.Response{data=domain.Experience}
// @Failure      400   {object}  response.Response
// @Router       /candidates/me/experiences [post]
// @Security     BearerAuth
func (h *CandidateHandler) AddExperience(c *gin.Context) {
	var req ExperienceRequest
	if !bindJSON(c, &req) {
		return
	}
	exp, err := req.toExperience()
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.candidateUC.AddExperience(c, currentUserID(c), exp); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Experience added", exp)
}

// UpdateExperience godoc
// @Summary      Update experience
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "Experience ID"
// @Param        body  body      ExperienceRequest  true  "Experience"
// @Success      200   {object}  response.Response{data=domain.Experience}
// @Failure      403   {object}  response.Response
// @Router       /candidates/me/experiences/{id} [put]
// @Security     BearerAuth
func (h *CandidateHandler) UpdateExperience(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req ExperienceRequest
	if !bindJSON(c, &req) {
		return
	}
	exp, err := req.toExperience()
	if err != nil {
		c.Error(err)
		return
	}
	exp.ID = id

	if err := h.candidateUC.UpdateExperience(c, currentUserID(c), exp); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Experience updated", exp)
}

// DeleteExperience godoc
// @Summary      Delete experience
// @Tags         candidates
// @Produce      json
// @Param        id   path      int  true  "Experience ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /candidates/me/experiences/{id} [delete]
// @Security     BearerAuth
func (h *CandidateHandler) DeleteExperience(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.candidateUC.DeleteExperience(c, currentUserID(c), id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Experience deleted", nil)
}

// ============================================================================
// EDUCATIONS
// ============================================================================

// AddEducation godoc
// @Summary      Add education
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        body  body      EducationRequest  true  "Education"
// @Success      201   {object}  response.Response{data=domain.Education}
// @Failure      400   {object}  response.Response
// @Router       /candidates/me/educations [post]
// @Security     BearerAuth
func (h *CandidateHandler) AddEducation(c *gin.Context) {
	var req EducationRequest
	if !bindJSON(c, &req) {
		return
	}
	edu, err := req.toEducation()
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.candidateUC.AddEducation(c, currentUserID(c), edu); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Education added", edu)
}

// UpdateEducation godoc
// @Summary      Update education
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        id    path      int               true  "Education ID"
// @Param        body  body      EducationRequest  true  "Education"
// @Success      200   {object}  response.Response{data=domain.Education}
// @Failure      403   {object}  response.Response
// @Router       /candidates/me/educations/{id} [put]
// @Security     BearerAuth
func (h *CandidateHandler) UpdateEducation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req EducationRequest
	if !bindJSON(c, &req) {
		return
	}
	edu, err := req.toEducation()
	if err != nil {
		c.Error(err)
		return
	}
	edu.ID = id

	if err := h.candidateUC.UpdateEducation(c, currentUserID(c), edu); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Education updated", edu)
}

// DeleteEducation godoc
// @Summary      Delete education
// @Tags         candidates
// @Produce      json
// @Param        id   path      int  true  "Education ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /candidates/me/educations/{id} [delete]
// @Security     BearerAuth
func (h *CandidateHandler) DeleteEducation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.candidateUC.DeleteEducation(c, currentUserID(c), id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Education deleted", nil)
}
