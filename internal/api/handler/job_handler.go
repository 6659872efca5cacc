package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quackapp/staffing-be/internal/api/domain"
	"github.com/quackapp/staffing-be/internal/api/dto"
	"github.com/quackapp/staffing-be/internal/api/service"
	"github.com/quackapp/staffing-be/internal/api/storage"
)

// CreateJob handles POST /api/v1/jobs
// Creates a job and computes its invitation set from worker availability.
func (h *JobHandler) CreateJob(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok || !principal.IsTenant() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized. User code is required."})
		return
	}

	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	shift, err := domain.ParseShift(req.Shift)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse(domain.DateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted as YYYY-MM-DD"})
		return
	}

	job, obligations, err := h.engine.CreateJob(c.Request.Context(), principal, service.CreateJobInput{
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		Date:            date,
		Shift:           shift,
		WorkersRequired: req.WorkersRequired,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.publisher.PublishAll(c.Request.Context(), obligations)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Job created and workers invited successfully!",
		"job":     jobToDTO(job),
	})
}

// GetJob handles GET /api/v1/jobs/:job_id
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID := c.Param("job_id")
	if _, err := uuid.Parse(jobID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job_id must be a valid UUID"})
		return
	}

	job, err := h.storage.GetJob(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, jobToDTO(job))
}

// ListJobs handles GET /api/v1/jobs
// Lists the calling tenant's jobs with filtering and cursor pagination.
func (h *JobHandler) ListJobs(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok || !principal.IsTenant() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized. User code is required."})
		return
	}

	var req dto.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	if req.PageSize <= 0 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	cursor, err := DecodeJobCursor(req.Cursor)
	if err != nil {
		h.logger.Error("Invalid cursor", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cursor"})
		return
	}

	filter := storage.JobFilter{
		UserCode: principal.UserCode,
		Shift:    req.Shift,
		Filled:   req.Filled,
		PageSize: req.PageSize,
		Cursor:   cursor,
	}

	jobs, err := h.storage.ListJobsByTenant(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	hasMore := len(jobs) > req.PageSize
	if hasMore {
		jobs = jobs[:req.PageSize]
	}

	jobResponse := make([]dto.JobDTO, len(jobs))
	for i := range jobs {
		jobResponse[i] = jobToDTO(&jobs[i])
	}

	var nextCursor string
	if hasMore {
		lastJob := jobs[len(jobs)-1]
		nextCursor, err = EncodeJobCursor(&storage.JobCursor{
			CreatedAt: lastJob.CreatedAt,
			JobID:     lastJob.JobID,
		})
		if err != nil {
			h.logger.Error("Failed to encode next cursor", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode next cursor"})
			return
		}
	}

	c.JSON(http.StatusOK, dto.ListJobsResponse{
		Jobs:       jobResponse,
		NextCursor: nextCursor,
	})
}

// UpdateJob handles PATCH /api/v1/jobs/:job_id
// Updates go through the engine so the capacity flag tracks the new
// headcount and a reopened job is re-announced.
func (h *JobHandler) UpdateJob(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok || !principal.IsTenant() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized. User code is required."})
		return
	}

	jobID := c.Param("job_id")
	if _, err := uuid.Parse(jobID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job_id must be a valid UUID"})
		return
	}

	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	job, obligations, err := h.engine.UpdateJob(c.Request.Context(), principal, jobID, service.UpdateJobInput{
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		WorkersRequired: req.WorkersRequired,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.publisher.PublishAll(c.Request.Context(), obligations)

	c.JSON(http.StatusOK, jobToDTO(job))
}

// DeleteJob handles DELETE /api/v1/jobs/:job_id
// Explicit deletion; the lifecycle engine never deletes jobs on its own.
func (h *JobHandler) DeleteJob(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok || !principal.IsTenant() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized. User code is required."})
		return
	}

	jobID := c.Param("job_id")
	if _, err := uuid.Parse(jobID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job_id must be a valid UUID"})
		return
	}

	if err := h.storage.DeleteJob(c.Request.Context(), jobID, principal.UserCode); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job deleted successfully"})
}

// InviteWorkers handles POST /api/v1/jobs/:job_id/invite
// Extends the invitation set of an existing job.
func (h *JobHandler) InviteWorkers(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok || !principal.IsTenant() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized. User code is required."})
		return
	}

	jobID := c.Param("job_id")
	if _, err := uuid.Parse(jobID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job_id must be a valid UUID"})
		return
	}

	var req dto.InviteWorkersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "worker_ids must be a non-empty list"})
		return
	}
	for _, workerID := range req.WorkerIDs {
		if _, err := uuid.Parse(workerID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "worker_ids must be valid UUIDs"})
			return
		}
	}

	job, obligations, err := h.engine.InviteWorkers(c.Request.Context(), principal, jobID, req.WorkerIDs)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.publisher.PublishAll(c.Request.Context(), obligations)

	c.JSON(http.StatusOK, gin.H{
		"message": "Workers invited successfully!",
		"job":     jobToDTO(job),
	})
}

// AcceptJob handles POST /api/v1/jobs/:job_id/accept
func (h *JobHandler) AcceptJob(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok || !principal.IsWorker() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized. Worker ID is required."})
		return
	}

	jobID := c.Param("job_id")
	job, obligations, err := h.engine.AcceptJob(c.Request.Context(), principal.ID, jobID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.publisher.PublishAll(c.Request.Context(), obligations)

	c.JSON(http.StatusOK, gin.H{
		"message": "Job accepted successfully!",
		"job":     jobToDTO(job),
	})
}

// DeclineJob handles POST /api/v1/jobs/:job_id/decline
func (h *JobHandler) DeclineJob(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok || !principal.IsWorker() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized. Worker ID is required."})
		return
	}

	jobID := c.Param("job_id")
	job, obligations, err := h.engine.DeclineJob(c.Request.Context(), principal.ID, jobID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.publisher.PublishAll(c.Request.Context(), obligations)

	c.JSON(http.StatusOK, gin.H{
		"message": "Job invitation declined successfully!",
		"job":     jobToDTO(job),
	})
}

// RespondToInvitation handles POST /api/v1/jobs/:job_id/respond
// Consolidated accept-or-decline entry point with the same validation as
// the dedicated endpoints.
func (h *JobHandler) RespondToInvitation(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok || !principal.IsWorker() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized. Worker ID is required."})
		return
	}

	var req dto.RespondToInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "response must be accept or decline"})
		return
	}

	jobID := c.Param("job_id")
	job, obligations, err := h.engine.RespondToInvitation(c.Request.Context(), principal.ID, jobID, req.Response)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.publisher.PublishAll(c.Request.Context(), obligations)

	c.JSON(http.StatusOK, gin.H{
		"message": "Invitation response recorded successfully!",
		"job":     jobToDTO(job),
	})
}

// RemoveAcceptedJob handles DELETE /api/v1/jobs/:job_id/workers/me
// Worker withdraws from a job they had accepted.
func (h *JobHandler) RemoveAcceptedJob(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok || !principal.IsWorker() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized. Worker ID is required."})
		return
	}

	jobID := c.Param("job_id")
	job, obligations, err := h.engine.RemoveAcceptedJob(c.Request.Context(), principal.ID, jobID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.publisher.PublishAll(c.Request.Context(), obligations)

	c.JSON(http.StatusOK, gin.H{
		"message": "Job removed successfully!",
		"job":     jobToDTO(job),
	})
}

// ListAssignedWorkers handles GET /api/v1/jobs/:job_id/workers
func (h *JobHandler) ListAssignedWorkers(c *gin.Context) {
	jobID := c.Param("job_id")
	if _, err := uuid.Parse(jobID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job_id must be a valid UUID"})
		return
	}

	workers, err := h.storage.ListAssignedWorkers(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response := make([]dto.WorkerDTO, len(workers))
	for i := range workers {
		response[i] = workerToDTO(&workers[i])
	}

	c.JSON(http.StatusOK, response)
}
