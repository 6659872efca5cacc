package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/quackapp/staffing-be/internal/api/domain"
)

// Channel is the delivery mechanism for an obligation.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPush  Channel = "push"
)

// Template selects the message rendered by the notifier.
type Template string

const (
	TemplateJobInvite          Template = "job_invite"
	TemplateJobAvailable       Template = "job_available"
	TemplateJobAccepted        Template = "job_accepted"
	TemplateJobDeclined        Template = "job_declined"
	TemplateWorkerRemoved      Template = "worker_removed"
	TemplateShiftCanceled      Template = "shift_canceled"
	TemplateWorkerDeleted      Template = "worker_deleted"
	TemplateWorkerRegistered   Template = "worker_registered"
	TemplateWorkerApproved     Template = "worker_approved"
	TemplateWorkerDeclined     Template = "worker_declined"
	TemplateAvailabilityMarked Template = "availability_marked"
	TemplateTenantMessage      Template = "tenant_message"
)

// RecipientKind distinguishes worker-directed from tenant-directed notices.
type RecipientKind string

const (
	RecipientWorker RecipientKind = "worker"
	RecipientTenant RecipientKind = "tenant"
)

// Recipient identifies who an obligation must reach and over which address.
type Recipient struct {
	Kind      RecipientKind `json:"kind"`
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email,omitempty"`
	PushToken string        `json:"push_token,omitempty"`
}

// AffectedJob is a compact job reference carried by cascade summaries.
type AffectedJob struct {
	Title string `json:"title"`
	Date  string `json:"date"`
	Shift string `json:"shift"`
}

// Data is the template payload. Fields not relevant to a template stay empty.
type Data struct {
	JobID        string        `json:"job_id,omitempty"`
	Title        string        `json:"title,omitempty"`
	Location     string        `json:"location,omitempty"`
	Date         string        `json:"date,omitempty"`
	Shift        string        `json:"shift,omitempty"`
	WorkerName   string        `json:"worker_name,omitempty"`
	Message      string        `json:"message,omitempty"`
	AffectedJobs []AffectedJob `json:"affected_jobs,omitempty"`
}

// Obligation is an abstract instruction to notify a recipient. The engine
// emits obligations after its state change commits; fulfillment is delegated
// to the notifier service and is not part of the transaction boundary.
type Obligation struct {
	ObligationID string    `json:"obligation_id"`
	Channel      Channel   `json:"channel"`
	Template     Template  `json:"template"`
	Recipient    Recipient `json:"recipient"`
	Data         Data      `json:"data"`
	CreatedAt    time.Time `json:"created_at"`
}

func newObligation(channel Channel, template Template, recipient Recipient, data Data) Obligation {
	return Obligation{
		ObligationID: uuid.New().String(),
		Channel:      channel,
		Template:     template,
		Recipient:    recipient,
		Data:         data,
		CreatedAt:    time.Now().UTC(),
	}
}

// JobData builds the common payload for job-centric templates.
func JobData(job *domain.Job) Data {
	return Data{
		JobID:    job.JobID,
		Title:    job.Title,
		Location: job.Location,
		Date:     job.ShiftDate.UTC().Format(domain.DateLayout),
		Shift:    string(job.Shift),
	}
}

func workerRecipient(w *domain.Worker) Recipient {
	return Recipient{
		Kind:      RecipientWorker,
		ID:        w.WorkerID,
		Name:      w.Name,
		Email:     w.Email,
		PushToken: w.PushToken,
	}
}

func tenantRecipient(t *domain.Tenant) Recipient {
	return Recipient{
		Kind:      RecipientTenant,
		ID:        t.UserCode,
		Name:      t.Name,
		Email:     t.Email,
		PushToken: t.PushToken,
	}
}

// InviteFanout builds the creation-time invitation set: one email obligation
// per invited worker, plus one push obligation per distinct device token.
func InviteFanout(job *domain.Job, invited []domain.Worker) []Obligation {
	data := JobData(job)
	obligations := make([]Obligation, 0, 2*len(invited))
	notifiedDevices := make(map[string]struct{}, len(invited))

	for i := range invited {
		w := &invited[i]
		obligations = append(obligations, newObligation(ChannelEmail, TemplateJobInvite, workerRecipient(w), data))

		if w.PushToken == "" {
			continue
		}
		if _, seen := notifiedDevices[w.PushToken]; seen {
			continue
		}
		notifiedDevices[w.PushToken] = struct{}{}
		obligations = append(obligations, newObligation(ChannelPush, TemplateJobInvite, workerRecipient(w), data))
	}

	return obligations
}

// MessageFanout builds the push fan-out for a tenant broadcast message: one
// obligation per distinct device token. The message itself is persisted to
// each worker's feed before the fan-out, so workers without a device still
// see it in the app.
func MessageFanout(pool []domain.Worker, data Data) []Obligation {
	obligations := make([]Obligation, 0, len(pool))
	notifiedDevices := make(map[string]struct{}, len(pool))

	for i := range pool {
		w := &pool[i]
		if w.PushToken == "" {
			continue
		}
		if _, seen := notifiedDevices[w.PushToken]; seen {
			continue
		}
		notifiedDevices[w.PushToken] = struct{}{}
		obligations = append(obligations, newObligation(ChannelPush, TemplateTenantMessage, workerRecipient(w), data))
	}

	return obligations
}

// AvailableBroadcast re-announces a reopened job to every worker under the
// job's tenant, over both channels. No availability filter applies.
func AvailableBroadcast(job *domain.Job, pool []domain.Worker) []Obligation {
	data := JobData(job)
	obligations := make([]Obligation, 0, 2*len(pool))

	for i := range pool {
		w := &pool[i]
		if w.PushToken != "" {
			obligations = append(obligations, newObligation(ChannelPush, TemplateJobAvailable, workerRecipient(w), data))
		}
		obligations = append(obligations, newObligation(ChannelEmail, TemplateJobAvailable, workerRecipient(w), data))
	}

	return obligations
}

// TenantNotice builds a single tenant-directed notice: push when the tenant
// has a registered device, email always.
func TenantNotice(tenant *domain.Tenant, template Template, data Data) []Obligation {
	obligations := make([]Obligation, 0, 2)
	if tenant.PushToken != "" {
		obligations = append(obligations, newObligation(ChannelPush, template, tenantRecipient(tenant), data))
	}
	obligations = append(obligations, newObligation(ChannelEmail, template, tenantRecipient(tenant), data))
	return obligations
}

// TenantPushNotice builds a push-only tenant notice, empty when the tenant
// has no registered device.
func TenantPushNotice(tenant *domain.Tenant, template Template, data Data) []Obligation {
	if tenant.PushToken == "" {
		return nil
	}
	return []Obligation{newObligation(ChannelPush, template, tenantRecipient(tenant), data)}
}

// WorkerPushNotice builds a push-only worker notice, empty when the worker
// has no registered device.
func WorkerPushNotice(worker *domain.Worker, template Template, data Data) []Obligation {
	if worker.PushToken == "" {
		return nil
	}
	return []Obligation{newObligation(ChannelPush, template, workerRecipient(worker), data)}
}

// WorkerNotice builds a single worker-directed notice over both channels,
// push only when a device token is registered.
func WorkerNotice(worker *domain.Worker, template Template, data Data) []Obligation {
	obligations := make([]Obligation, 0, 2)
	if worker.PushToken != "" {
		obligations = append(obligations, newObligation(ChannelPush, template, workerRecipient(worker), data))
	}
	obligations = append(obligations, newObligation(ChannelEmail, template, workerRecipient(worker), data))
	return obligations
}
