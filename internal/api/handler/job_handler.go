package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cuongbtq/jobly-be/internal/api/domain"
	"github.com/cuongbtq/jobly-be/internal/api/dto"
	"github.com/cuongbtq/jobly-be/internal/api/model"
	"github.com/cuongbtq/jobly-be/internal/api/storage"
	"github.com/cuongbtq/jobly-be/internal/api/storage/sqlbuild"
	"github.com/gin-gonic/gin"
)

// CreateJob handles POST /api/v1/jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", slog.String("error", err.Error()))
		badRequest(c, err.Error())
		return
	}

	job, err := h.jobs.CreateJob(c.Request.Context(), &model.Job{
		Title:         req.Title,
		Salary:        req.Salary,
		Equity:        req.Equity,
		CompanyHandle: req.CompanyHandle,
	})
	if err != nil {
		h.respondError(c, "Failed to create job", err)
		return
	}

	h.logger.Info("Job created",
		slog.Int("job_id", job.ID),
		slog.String("company_handle", job.CompanyHandle),
	)
	h.publish(c.Request.Context(), domain.EventJobCreated, job.ID)

	c.JSON(http.StatusCreated, dto.JobResponse{Job: job})
}

// ListJobs handles GET /api/v1/jobs
// Filters: minSalary, hasEquity, title (case-insensitive substring)
func (h *JobHandler) ListJobs(c *gin.Context) {
	var req dto.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Warn("Invalid query parameters", slog.String("error", err.Error()))
		badRequest(c, err.Error())
		return
	}

	jobs, err := h.jobs.ListJobs(c.Request.Context(), storage.JobFilter{
		MinSalary:     req.MinSalary,
		HasEquity:     req.HasEquity,
		TitleContains: req.Title,
	})
	if err != nil {
		h.respondError(c, "Failed to list jobs", err)
		return
	}

	c.JSON(http.StatusOK, dto.ListJobsResponse{Jobs: jobs})
}

// GetJob handles GET /api/v1/jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	id, ok := h.bindJobID(c)
	if !ok {
		return
	}

	job, err := h.jobs.GetJob(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, "Failed to get job", err)
		return
	}

	c.JSON(http.StatusOK, dto.JobDetailResponse{Job: job})
}

// UpdateJob handles PATCH /api/v1/jobs/:id
// Only the fields present in the body are changed.
func (h *JobHandler) UpdateJob(c *gin.Context) {
	id, ok := h.bindJobID(c)
	if !ok {
		return
	}

	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", slog.String("error", err.Error()))
		badRequest(c, err.Error())
		return
	}

	job, err := h.jobs.UpdateJob(c.Request.Context(), id, updatePayload(req))
	if err != nil {
		h.respondError(c, "Failed to update job", err)
		return
	}

	h.logger.Info("Job updated", slog.Int("job_id", job.ID))
	h.publish(c.Request.Context(), domain.EventJobUpdated, job.ID)

	c.JSON(http.StatusOK, dto.JobResponse{Job: job})
}

// DeleteJob handles DELETE /api/v1/jobs/:id
func (h *JobHandler) DeleteJob(c *gin.Context) {
	id, ok := h.bindJobID(c)
	if !ok {
		return
	}

	deleted, err := h.jobs.DeleteJob(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, "Failed to delete job", err)
		return
	}

	h.logger.Info("Job deleted", slog.Int("job_id", deleted))
	h.publish(c.Request.Context(), domain.EventJobDeleted, deleted)

	c.JSON(http.StatusOK, dto.DeleteJobResponse{Deleted: deleted})
}

func (h *JobHandler) bindJobID(c *gin.Context) (int, bool) {
	var uri dto.JobURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.logger.Warn("Invalid job id",
			slog.String("id", c.Param("id")),
			slog.String("error", err.Error()),
		)
		badRequest(c, "id must be a positive integer")
		return 0, false
	}
	return uri.ID, true
}

// updatePayload keeps a fixed title, salary, equity order for the fields present
func updatePayload(req dto.UpdateJobRequest) sqlbuild.Payload {
	var p sqlbuild.Payload
	if req.Title != nil {
		p = p.Set("title", *req.Title)
	}
	if req.Salary != nil {
		p = p.Set("salary", *req.Salary)
	}
	if req.Equity != nil {
		p = p.Set("equity", *req.Equity)
	}
	return p
}

// publish is best effort; a lost event never fails the request
func (h *JobHandler) publish(ctx context.Context, eventType string, jobID int) {
	if err := h.publisher.Publish(ctx, eventType, jobID); err != nil {
		h.logger.Warn("Failed to publish job event",
			slog.String("type", eventType),
			slog.Int("job_id", jobID),
			slog.Any("error", err),
		)
	}
}
