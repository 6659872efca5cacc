package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quackapp/staffing-be/internal/api/domain"
	"github.com/quackapp/staffing-be/internal/api/dto"
	"github.com/quackapp/staffing-be/internal/api/service"
	"github.com/quackapp/staffing-be/internal/api/storage"
	"github.com/quackapp/staffing-be/internal/notification"
	"github.com/quackapp/staffing-be/shared/postgresql"
)

// PrincipalKey is the gin context key the auth middleware stores the
// authenticated principal under.
const PrincipalKey = "principal"

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger    *slog.Logger
	Engine    *service.Engine
	Storage   *storage.Storage
	Publisher *notification.Publisher
	DBClient  *postgresql.Client
}

// JobHandler handles job lifecycle HTTP requests
type JobHandler struct {
	logger    *slog.Logger
	engine    *service.Engine
	storage   *storage.Storage
	publisher *notification.Publisher
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger:    deps.Logger,
		engine:    deps.Engine,
		storage:   deps.Storage,
		publisher: deps.Publisher,
	}
}

// WorkerHandler handles worker registry HTTP requests
type WorkerHandler struct {
	logger    *slog.Logger
	engine    *service.Engine
	storage   *storage.Storage
	publisher *notification.Publisher
}

// NewWorkerHandler creates a new WorkerHandler instance
func NewWorkerHandler(deps *Dependencies) *WorkerHandler {
	return &WorkerHandler{
		logger:    deps.Logger,
		engine:    deps.Engine,
		storage:   deps.Storage,
		publisher: deps.Publisher,
	}
}

// principalFrom extracts the authenticated principal set by the auth
// middleware.
func principalFrom(c *gin.Context) (domain.Principal, bool) {
	value, exists := c.Get(PrincipalKey)
	if !exists {
		return domain.Principal{}, false
	}
	principal, ok := value.(domain.Principal)
	return principal, ok
}

// respondError maps domain errors onto HTTP statuses. Unknown errors stay
// opaque to the caller.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, domain.ErrJobNotFound),
		errors.Is(err, domain.ErrWorkerNotFound),
		errors.Is(err, domain.ErrTenantNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, domain.ErrNoWorkersFound),
		errors.Is(err, domain.ErrJobAlreadyFilled),
		errors.Is(err, domain.ErrAvailabilityMismatch),
		errors.Is(err, domain.ErrAlreadyAccepted),
		errors.Is(err, domain.ErrNotAccepted),
		errors.Is(err, domain.ErrSlotNotFound),
		errors.Is(err, domain.ErrWorkerExists),
		errors.Is(err, domain.ErrInvalidShift):
		status = http.StatusBadRequest
		message = err.Error()
	default:
		logger.Error("Unhandled operation error", slog.Any("error", err))
	}

	c.JSON(status, gin.H{"error": message})
}

func jobToDTO(job *domain.Job) dto.JobDTO {
	workers := job.Workers
	if workers == nil {
		workers = []string{}
	}
	invited := job.InvitedWorkers
	if invited == nil {
		invited = []string{}
	}

	return dto.JobDTO{
		JobID:           job.JobID,
		UserCode:        job.UserCode,
		Title:           job.Title,
		Description:     job.Description,
		Location:        job.Location,
		Date:            job.ShiftDate.UTC().Format(domain.DateLayout),
		Shift:           string(job.Shift),
		WorkersRequired: job.WorkersRequired,
		Filled:          job.Filled,
		Workers:         workers,
		InvitedWorkers:  invited,
		CreatedAt:       job.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func activitiesToDTO(activities []domain.Activity) []dto.ActivityDTO {
	out := make([]dto.ActivityDTO, len(activities))
	for i, a := range activities {
		out[i] = dto.ActivityDTO{
			Message:   a.Message,
			CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return out
}

func workerToDTO(worker *domain.Worker) dto.WorkerDTO {
	availability := make([]dto.AvailabilityDTO, len(worker.Availability))
	for i, slot := range worker.Availability {
		availability[i] = dto.AvailabilityDTO{
			Date:  slot.Date.UTC().Format(domain.DateLayout),
			Shift: string(slot.Shift),
		}
	}

	return dto.WorkerDTO{
		WorkerID:     worker.WorkerID,
		UserCode:     worker.UserCode,
		Name:         worker.Name,
		Email:        worker.Email,
		Phone:        worker.Phone,
		Approved:     worker.Approved,
		Availability: availability,
		CreatedAt:    worker.CreatedAt.UTC().Format(time.RFC3339),
	}
}
