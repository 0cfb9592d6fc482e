package v1

import (
	"net/http"

	"job-board-backend/internal/delivery/http/response"
	"job-board-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	applicationUC domain.ApplicationUsecase
	gate          domain.EligibilityGate
}

// NewApplicationHandler registers application routes
func NewApplicationHandler(candidate, company *gin.RouterGroup, applicationUC domain.ApplicationUsecase, gate domain.EligibilityGate) {
	handler := &ApplicationHandler{applicationUC: applicationUC, gate: gate}

	candidate.POST("/jobs/:id/apply", handler.Apply)
	candidateMe := candidate.Group("/candidates/me")
	{
		candidateMe.GET("/applications", handler.ListMine)
		candidateMe.GET("/eligibility", handler.Eligibility)
	}

	company.GET("/jobs/:id/applicants", handler.ListApplicants)
	company.PUT("/applications/:id/status", handler.UpdateStatus)
}

type UpdateApplicationStatusRequest struct {
	Status string `json:"status" binding:"required,application_status"`
}

// Apply godoc
// @Summary      Apply to a job
// @Description  Requires a complete profile (summary, résumé, one experience, one education). One application per job.
// @Tags         applications
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      201  {object}  response.Response{data=domain.Application}
// @Failure      400  {object}  response.Response  "Profile incomplete"
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response  "Already applied"
// @Router       /jobs/{id}/apply [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Apply(c *gin.Context) {
	jobID, ok := pathID(c, "id")
	if !ok {
		return
	}

	app, err := h.applicationUC.Apply(c, currentUserID(c), jobID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Application submitted successfully", app)
}

// ListMyApplications godoc
// @Summary      My applications
// @Tags         applications
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.CandidateApplication}
// @Router       /candidates/me/applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	apps, err := h.applicationUC.ListMyApplications(c, currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Applications retrieved", apps)
}

// Eligibility godoc
// @Summary      Can I apply?
// @Description  Lists the profile sections still missing before the candidate may apply
// @Tags         applications
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.Eligibility}
// @Failure      404  {object}  response.Response
// @Router       /candidates/me/eligibility [get]
// @Security     BearerAuth
func (h *ApplicationHandler) Eligibility(c *gin.Context) {
	result, err := h.gate.CanApply(c, currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Eligibility", result)
}

// ListApplicants godoc
// @Summary      Applicants of a posting
// @Tags         applications
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response{data=[]domain.Applicant}
// @Failure      403  {object}  response.Response
// @Router       /jobs/{id}/applicants [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListApplicants(c *gin.Context) {
	jobID, ok := pathID(c, "id")
	if !ok {
		return
	}

	applicants, err := h.applicationUC.ListApplicants(c, currentUserID(c), jobID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Applicants retrieved", applicants)
}

// UpdateApplicationStatus godoc
// @Summary      Move an application through the hiring pipeline
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id    path      int                             true  "Application ID"
// @Param        body  body      UpdateApplicationStatusRequest  true  "New status"
// @Success      200   {object}  response.Response{data=domain.Application}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /applications/{id}/status [put]
// @Security     BearerAuth
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateApplicationStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	app, err := h.applicationUC.UpdateStatus(c, currentUserID(c), id, req.Status)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application status updated", app)
}
