package dto

type CreateJobRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description" binding:"required"`
	Location        string `json:"location" binding:"required"`
	Date            string `json:"date" binding:"required"`
	Shift           string `json:"shift" binding:"required"`
	WorkersRequired int    `json:"workers_required" binding:"required,gt=0"`
}

type UpdateJobRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description" binding:"required"`
	Location        string `json:"location" binding:"required"`
	WorkersRequired int    `json:"workers_required" binding:"required,gt=0"`
}

type InviteWorkersRequest struct {
	WorkerIDs []string `json:"worker_ids" binding:"required,min=1"`
}

type RespondToInvitationRequest struct {
	Response string `json:"response" binding:"required,oneof=accept decline"`
}

type ListJobsRequest struct {
	Shift    string `form:"shift"`
	Filled   *bool  `form:"filled"`
	PageSize int    `form:"page_size"`
	Cursor   string `form:"cursor"`
}

type ListJobsResponse struct {
	Jobs       []JobDTO `json:"jobs"`
	NextCursor string   `json:"next_cursor,omitempty"`
}

type JobDTO struct {
	JobID           string   `json:"job_id"`
	UserCode        string   `json:"user_code"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Location        string   `json:"location"`
	Date            string   `json:"date"`
	Shift           string   `json:"shift"`
	WorkersRequired int      `json:"workers_required"`
	Filled          bool     `json:"filled"`
	Workers         []string `json:"workers"`
	InvitedWorkers  []string `json:"invited_workers"`
	CreatedAt       string   `json:"created_at"`
}
