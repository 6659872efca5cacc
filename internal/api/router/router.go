package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quackapp/staffing-be/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies, jwtSecret string) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		if deps.DBClient != nil {
			if err := deps.DBClient.HealthCheck(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"service": "staffing-api-service",
					"error":   err.Error(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "staffing-api-service",
		})
	})

	jobHandler := handler.NewJobHandler(deps)
	workerHandler := handler.NewWorkerHandler(deps)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// POST /api/v1/workers - Worker self-registration, no auth
		v1.POST("/workers", workerHandler.RegisterWorker)

		authed := v1.Group("")
		authed.Use(AuthMiddleware(jwtSecret))
		{
			jobs := authed.Group("/jobs")
			{
				// POST /api/v1/jobs - Create a job and invite matching workers
				jobs.POST("", RequireTenant(), jobHandler.CreateJob)

				// GET /api/v1/jobs - List jobs with filtering and pagination
				jobs.GET("", RequireTenant(), jobHandler.ListJobs)

				// GET /api/v1/jobs/:job_id - Get job details
				jobs.GET("/:job_id", jobHandler.GetJob)

				// PATCH /api/v1/jobs/:job_id - Update job fields
				jobs.PATCH("/:job_id", RequireTenant(), jobHandler.UpdateJob)

				// DELETE /api/v1/jobs/:job_id - Delete a job
				jobs.DELETE("/:job_id", RequireTenant(), jobHandler.DeleteJob)

				// GET /api/v1/jobs/:job_id/workers - Workers assigned to a job
				jobs.GET("/:job_id/workers", RequireTenant(), jobHandler.ListAssignedWorkers)

				// POST /api/v1/jobs/:job_id/invite - Invite more workers to a job
				jobs.POST("/:job_id/invite", RequireTenant(), jobHandler.InviteWorkers)

				// POST /api/v1/jobs/:job_id/accept - Worker accepts an invitation
				jobs.POST("/:job_id/accept", RequireWorker(), jobHandler.AcceptJob)

				// POST /api/v1/jobs/:job_id/decline - Worker declines an invitation
				jobs.POST("/:job_id/decline", RequireWorker(), jobHandler.DeclineJob)

				// POST /api/v1/jobs/:job_id/respond - Accept or decline in one call
				jobs.POST("/:job_id/respond", RequireWorker(), jobHandler.RespondToInvitation)

				// DELETE /api/v1/jobs/:job_id/workers/me - Worker withdraws from a job
				jobs.DELETE("/:job_id/workers/me", RequireWorker(), jobHandler.RemoveAcceptedJob)
			}

			workers := authed.Group("/workers")
			{
				// GET /api/v1/workers - List tenant's workers, optional status filter
				workers.GET("", RequireTenant(), workerHandler.ListWorkers)

				// POST /api/v1/workers/messages - Broadcast a message to the pool
				workers.POST("/messages", RequireTenant(), workerHandler.BroadcastMessage)

				// GET /api/v1/workers/me/invitations - Pending invitations
				workers.GET("/me/invitations", RequireWorker(), workerHandler.ListInvitations)

				// GET /api/v1/workers/me/jobs - Accepted jobs
				workers.GET("/me/jobs", RequireWorker(), workerHandler.ListMyJobs)

				// GET /api/v1/workers/me/messages - Tenant messages received
				workers.GET("/me/messages", RequireWorker(), workerHandler.ListMyMessages)

				// POST /api/v1/workers/me/availability - Mark a slot available
				workers.POST("/me/availability", RequireWorker(), workerHandler.AddAvailability)

				// DELETE /api/v1/workers/me/availability - Cancel a shift
				workers.DELETE("/me/availability", RequireWorker(), workerHandler.CancelShift)

				// GET /api/v1/workers/:worker_id - Get worker details
				workers.GET("/:worker_id", RequireTenant(), workerHandler.GetWorker)

				// POST /api/v1/workers/:worker_id/approve - Approve a registration
				workers.POST("/:worker_id/approve", RequireTenant(), workerHandler.ApproveWorker)

				// DELETE /api/v1/workers/:worker_id/decline - Decline a registration
				workers.DELETE("/:worker_id/decline", RequireTenant(), workerHandler.DeclineWorker)

				// DELETE /api/v1/workers/:worker_id - Delete a worker
				workers.DELETE("/:worker_id", RequireTenant(), workerHandler.DeleteWorker)
			}
		}
	}

	return r
}
