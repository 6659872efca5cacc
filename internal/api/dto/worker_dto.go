package dto

type RegisterWorkerRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required"`
	UserCode  string `json:"user_code" binding:"required"`
	PushToken string `json:"push_token"`
}

type AvailabilityRequest struct {
	Date  string `json:"date" binding:"required"`
	Shift string `json:"shift" binding:"required"`
}

type WorkerDTO struct {
	WorkerID     string            `json:"worker_id"`
	UserCode     string            `json:"user_code"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Phone        string            `json:"phone"`
	Approved     bool              `json:"approved"`
	Availability []AvailabilityDTO `json:"availability,omitempty"`
	Activities   []ActivityDTO     `json:"activities,omitempty"`
	CreatedAt    string            `json:"created_at"`
}

type AvailabilityDTO struct {
	Date  string `json:"date"`
	Shift string `json:"shift"`
}

type ActivityDTO struct {
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

type BroadcastMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

type MessageDTO struct {
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

type CancelShiftResponse struct {
	Message        string   `json:"message"`
	AffectedJobIDs []string `json:"affected_job_ids"`
}

type DeleteWorkerResponse struct {
	Message      string           `json:"message"`
	AffectedJobs []AffectedJobDTO `json:"affected_jobs"`
}

type AffectedJobDTO struct {
	Title string `json:"title"`
	Date  string `json:"date"`
	Shift string `json:"shift"`
}
