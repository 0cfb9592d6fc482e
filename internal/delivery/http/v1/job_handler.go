package v1

import (
	"net/http"

	"job-board-backend/internal/delivery/http/response"
	"job-board-backend/internal/domain"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobUC domain.JobUsecase
}

func NewJobHandler(public, company *gin.RouterGroup, jobUC domain.JobUsecase) {
	handler := &JobHandler{jobUC: jobUC}

	publicJobs := public.Group("/jobs")
	{
		publicJobs.GET("", handler.List)
		publicJobs.GET("/:id", handler.GetDetails)
	}

	companyJobs := company.Group("/jobs")
	{
		companyJobs.POST("", handler.Create)
		companyJobs.PUT("/:id", handler.Update)
		companyJobs.DELETE("/:id", handler.Delete)
	}

	companyMe := company.Group("/companies/me")
	{
		companyMe.GET("/jobs", handler.ListMine)
		companyMe.GET("/quota", handler.Quota)
	}
}

type JobRequest struct {
	Title        string `json:"title" binding:"required,max=150"`
	Description  string `json:"description" binding:"required"`
	Requirements string `json:"requirements"`
	Salary       string `json:"salary" binding:"max=100"`
	WorkMode     string `json:"work_mode" binding:"required,work_mode"`
	Location     string `json:"location" binding:"max=150"`
}

func (r JobRequest) toInput() domain.JobInput {
	return domain.JobInput{
		Title:        r.Title,
		Description:  r.Description,
		Requirements: optional(r.Requirements),
		Salary:       optional(r.Salary),
		WorkMode:     r.WorkMode,
		Location:     optional(r.Location),
	}
}

type ListJobsQuery struct {
	Search   string `form:"search"`
	WorkMode string `form:"work_mode"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

// CreateJob godoc
// @Summary      Publish a job posting
// @Description  Publish a posting if the company's plan still has quota in the current billing period
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        job  body      JobRequest  true  "Job JSON"
// @Success      201  {object}  response.Response{data=domain.Job}
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response  "QuotaExceeded or NoActiveSubscription"
// @Router       /jobs [post]
// @Security     BearerAuth
func (h *JobHandler) Create(c *gin.Context) {
	var req JobRequest
	if !bindJSON(c, &req) {
		return
	}

	job, err := h.jobUC.CreateJob(c, currentUserID(c), req.toInput())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Job created", job)
}

// ListJobs godoc
// @Summary      List job postings
// @Description  Public listing. Featured postings come first, then newest.
// @Tags         jobs
// @Produce      json
// @Param        search     query     string  false  "Matches title or description"
// @Param        work_mode  query     string  false  "ON_SITE, REMOTE or HYBRID"
// @Param        page       query     int     false  "Page number"
// @Param        limit      query     int     false  "Page size (max 50)"
// @Success      200        {object}  response.Response{data=domain.JobPage}
// @Failure      400        {object}  response.Response
// @Router       /jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	var q ListJobsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.Error(apperror.BadRequest(validation.Message(err)))
		return
	}

	page, err := h.jobUC.ListPublicJobs(c, domain.JobFilter{
		Search:   q.Search,
		WorkMode: q.WorkMode,
		Page:     q.Page,
		Limit:    q.Limit,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job list", page)
}

// GetJob godoc
// @Summary      Job details
// @Tags         jobs
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response{data=domain.Job}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [get]
func (h *JobHandler) GetDetails(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	job, err := h.jobUC.GetJob(c, id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job details", job)
}

// UpdateJob godoc
// @Summary      Update a job posting
// @Description  Only the owning company may update its postings
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id   path      int         true  "Job ID"
// @Param        job  body      JobRequest  true  "Job JSON"
// @Success      200  {object}  response.Response{data=domain.Job}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [put]
// @Security     BearerAuth
func (h *JobHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req JobRequest
	if !bindJSON(c, &req) {
		return
	}

	job, err := h.jobUC.UpdateJob(c, currentUserID(c), id, req.toInput())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job updated", job)
}

// DeleteJob godoc
// @Summary      Delete a job posting
// @Tags         jobs
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /jobs/{id} [delete]
// @Security     BearerAuth
func (h *JobHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.jobUC.DeleteJob(c, currentUserID(c), id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job deleted", nil)
}

// ListMyJobs godoc
// @Summary      List my company's postings
// @Tags         jobs
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Job}
// @Failure      404  {object}  response.Response
// @Router       /companies/me/jobs [get]
// @Security     BearerAuth
func (h *JobHandler) ListMine(c *gin.Context) {
	jobs, err := h.jobUC.ListMyJobs(c, currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Company job list", jobs)
}

// Quota godoc
// @Summary      Posting quota
// @Description  Whether the company can publish now, with its usage in the current billing period
// @Tags         jobs
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.QuotaDecision}
// @Router       /companies/me/quota [get]
// @Security     BearerAuth
func (h *JobHandler) Quota(c *gin.Context) {
	decision, err := h.jobUC.QuotaStatus(c, currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Quota status", decision)
}
