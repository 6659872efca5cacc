package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quackapp/staffing-be/internal/api/domain"
	"github.com/quackapp/staffing-be/internal/api/dto"
	"github.com/quackapp/staffing-be/internal/api/service"
)

// RegisterWorker handles POST /api/v1/workers
// Self-registration against an existing tenant code; the worker stays
// pending until approved.
func (h *WorkerHandler) RegisterWorker(c *gin.Context) {
	var req dto.RegisterWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	worker, obligations, err := h.engine.RegisterWorker(c.Request.Context(), service.RegisterWorkerInput{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		UserCode:  req.UserCode,
		PushToken: req.PushToken,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.publisher.PublishAll(c.Request.Context(), obligations)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Worker registration successful. Awaiting approval.",
		"worker":  workerToDTO(worker),
	})
}

// ListWorkers handles GET /api/v1/workers?status=pending|approved
func (h *WorkerHandler) ListWorkers(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok || !principal.IsTenant() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized. User code is required."})
		return
	}

	var approved *bool
	switch c.Query("status") {
	case "pending":
		value := false
		approved = &value
	case "approved":
		value := true
		approved = &value
	case "":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be pending or approved"})
		return
	}

	workers, err := h.storage.ListWorkers(c.Request.Context(), principal.UserCode, approved)
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

// GetWorker handles GET /api/v1/workers/:worker_id
// Returns the worker with availability and the activity log.
func (h *WorkerHandler) GetWorker(c *gin.Context) {
	workerID := c.Param("worker_id")
	if _, err := uuid.Parse(workerID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "worker_id must be a valid UUID"})
		return
	}

	worker, err := h.storage.GetWorker(c.Request.Context(), workerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	activities, err := h.storage.ListActivities(c.Request.Context(), workerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response := workerToDTO(worker)
	response.Activities = activitiesToDTO(activities)

	c.JSON(http.StatusOK, response)
}

// ApproveWorker handles POST /api/v1/workers/:worker_id/approve
func (h *WorkerHandler) ApproveWorker(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok || !principal.IsTenant() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized. User code is required."})
		return
	}

	workerID := c.Param("worker_id")
	worker, obligations, err := h.engine.ApproveWorker(c.Request.Context(), principal, workerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.publisher.PublishAll(c.Request.Context(), obligations)

	c.JSON(http.StatusOK, gin.H{
		"message": "Worker approved successfully.",
		"worker":  workerToDTO(worker),
	})
}

// DeclineWorker handles DELETE /api/v1/workers/:worker_id/decline
// Rejects a pending registration.
func (h *WorkerHandler) DeclineWorker(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok || !principal.IsTenant() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized. User code is required."})
		return
	}

	workerID := c.Param("worker_id")
	obligations, err := h.engine.DeclineWorker(c.Request.Context(), principal, workerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.publisher.PublishAll(c.Request.Context(), obligations)

	c.JSON(http.StatusOK, gin.H{"message": "Worker request declined successfully."})
}

// DeleteWorker handles DELETE /api/v1/workers/:worker_id
// Strips the worker from every referencing job before deletion and reports
// the affected jobs.
func (h *WorkerHandler) DeleteWorker(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok || !principal.IsTenant() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized. User code is required."})
		return
	}

	workerID := c.Param("worker_id")
	affected, obligations, err := h.engine.DeleteWorker(c.Request.Context(), principal, workerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.publisher.PublishAll(c.Request.Context(), obligations)

	affectedDTOs := make([]dto.AffectedJobDTO, len(affected))
	for i, job := range affected {
		affectedDTOs[i] = dto.AffectedJobDTO{
			Title: job.Title,
			Date:  job.Date,
			Shift: job.Shift,
		}
	}

	c.JSON(http.StatusOK, dto.DeleteWorkerResponse{
		Message:      "Worker deleted successfully and affected jobs updated.",
		AffectedJobs: affectedDTOs,
	})
}

// BroadcastMessage handles POST /api/v1/workers/messages
// Sends a tenant message to the entire worker pool: persisted on each
// worker's feed and pushed to every distinct device.
func (h *WorkerHandler) BroadcastMessage(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok || !principal.IsTenant() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized. User code is required."})
		return
	}

	var req dto.BroadcastMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	reached, obligations, err := h.engine.BroadcastMessage(c.Request.Context(), principal, req.Message)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.publisher.PublishAll(c.Request.Context(), obligations)

	c.JSON(http.StatusOK, gin.H{
		"message":          "Message sent to workers successfully!",
		"workers_notified": reached,
	})
}

// ListMyMessages handles GET /api/v1/workers/me/messages
func (h *WorkerHandler) ListMyMessages(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok || !principal.IsWorker() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized. Worker ID is required."})
		return
	}

	messages, err := h.storage.ListMessages(c.Request.Context(), principal.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response := make([]dto.MessageDTO, len(messages))
	for i, m := range messages {
		response[i] = dto.MessageDTO{
			Message:   m.Body,
			CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
		}
	}

	c.JSON(http.StatusOK, response)
}

// AddAvailability handles POST /api/v1/workers/me/availability
func (h *WorkerHandler) AddAvailability(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok || !principal.IsWorker() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized. Worker ID is required."})
		return
	}

	req, ok := bindAvailability(c)
	if !ok {
		return
	}

	worker, obligations, err := h.engine.AddAvailability(c.Request.Context(), principal.ID, req.date, req.shift)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.publisher.PublishAll(c.Request.Context(), obligations)

	c.JSON(http.StatusOK, gin.H{
		"message": "Worker availability updated successfully.",
		"worker":  workerToDTO(worker),
	})
}

// CancelShift handles DELETE /api/v1/workers/me/availability
// Revokes a slot and detaches the worker from every job on it.
func (h *WorkerHandler) CancelShift(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok || !principal.IsWorker() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized. Worker ID is required."})
		return
	}

	req, ok := bindAvailability(c)
	if !ok {
		return
	}

	result, obligations, err := h.engine.CancelShift(c.Request.Context(), principal.ID, req.date, req.shift)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.publisher.PublishAll(c.Request.Context(), obligations)

	affected := result.AffectedJobIDs
	if affected == nil {
		affected = []string{}
	}

	c.JSON(http.StatusOK, dto.CancelShiftResponse{
		Message:        "Shift canceled successfully.",
		AffectedJobIDs: affected,
	})
}

// ListInvitations handles GET /api/v1/workers/me/invitations
// Jobs the worker has been invited to and not yet answered.
func (h *WorkerHandler) ListInvitations(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok || !principal.IsWorker() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized. Worker ID is required."})
		return
	}

	jobs, err := h.storage.ListInvitedJobs(c.Request.Context(), principal.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response := make([]dto.JobDTO, len(jobs))
	for i := range jobs {
		response[i] = jobToDTO(&jobs[i])
	}

	c.JSON(http.StatusOK, response)
}

// ListMyJobs handles GET /api/v1/workers/me/jobs
// Jobs the worker has accepted.
func (h *WorkerHandler) ListMyJobs(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok || !principal.IsWorker() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized. Worker ID is required."})
		return
	}

	jobs, err := h.storage.ListAcceptedJobs(c.Request.Context(), principal.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response := make([]dto.JobDTO, len(jobs))
	for i := range jobs {
		response[i] = jobToDTO(&jobs[i])
	}

	c.JSON(http.StatusOK, response)
}

type availabilityParams struct {
	date  time.Time
	shift domain.Shift
}

func bindAvailability(c *gin.Context) (availabilityParams, bool) {
	var req dto.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date and shift are required"})
		return availabilityParams{}, false
	}

	shift, err := domain.ParseShift(req.Shift)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return availabilityParams{}, false
	}

	date, err := time.Parse(domain.DateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted as YYYY-MM-DD"})
		return availabilityParams{}, false
	}

	return availabilityParams{date: date, shift: shift}, true
}
