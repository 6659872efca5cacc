package notifier

import (
	"fmt"
	"strings"

	"github.com/quackapp/staffing-be/internal/notification"
)

// renderTemplate produces the subject/title and body for an obligation. Push
// deliveries use the subject as the notification title.
func renderTemplate(ob *notification.Obligation) (subject, body string, err error) {
	d := ob.Data
	name := ob.Recipient.Name

	switch ob.Template {
	case notification.TemplateJobInvite:
		subject = fmt.Sprintf("New Job Invitation: %s", d.Title)
		body = fmt.Sprintf(
			"Hi %s,\n\nYou have been invited to a new job.\n\nTitle: %s\nLocation: %s\nDate: %s\nShift: %s\n\nOpen the app to accept or decline.",
			name, d.Title, d.Location, d.Date, d.Shift,
		)

	case notification.TemplateJobAvailable:
		subject = fmt.Sprintf("Job Available Again: %s", d.Title)
		body = fmt.Sprintf(
			"Hi %s,\n\nA spot has opened up on a job.\n\nTitle: %s\nLocation: %s\nDate: %s\nShift: %s\n\nOpen the app to accept it before it fills up.",
			name, d.Title, d.Location, d.Date, d.Shift,
		)

	case notification.TemplateJobAccepted:
		subject = fmt.Sprintf("Job Accepted: %s", d.Title)
		body = fmt.Sprintf(
			"Hi %s,\n\n%s accepted your job \"%s\" on %s (%s).",
			name, d.WorkerName, d.Title, d.Date, d.Shift,
		)

	case notification.TemplateJobDeclined:
		subject = fmt.Sprintf("Job Declined: %s", d.Title)
		body = fmt.Sprintf(
			"Hi %s,\n\n%s declined the invitation to your job \"%s\" on %s (%s).",
			name, d.WorkerName, d.Title, d.Date, d.Shift,
		)

	case notification.TemplateWorkerRemoved:
		subject = fmt.Sprintf("Worker Withdrew: %s", d.Title)
		body = fmt.Sprintf(
			"Hi %s,\n\n%s withdrew from your job \"%s\" on %s (%s). The position is open again.",
			name, d.WorkerName, d.Title, d.Date, d.Shift,
		)

	case notification.TemplateShiftCanceled:
		subject = "Shift Canceled"
		body = fmt.Sprintf(
			"Hi %s,\n\n%s canceled their shift on %s (%s).%s",
			name, d.WorkerName, d.Date, d.Shift, affectedJobsSection(d.AffectedJobs),
		)

	case notification.TemplateWorkerDeleted:
		subject = "Worker Removed"
		body = fmt.Sprintf(
			"Hi %s,\n\n%s has been removed from your worker pool.%s",
			name, d.WorkerName, affectedJobsSection(d.AffectedJobs),
		)

	case notification.TemplateWorkerRegistered:
		subject = "Registration Received"
		body = fmt.Sprintf(
			"Hi %s,\n\nYour registration has been received and is awaiting approval. You will be notified once it is reviewed.",
			name,
		)

	case notification.TemplateWorkerApproved:
		subject = "Registration Approved"
		body = fmt.Sprintf(
			"Hi %s,\n\nYour registration has been approved. You can now receive job invitations.",
			name,
		)

	case notification.TemplateWorkerDeclined:
		subject = "Registration Declined"
		body = fmt.Sprintf(
			"Hi %s,\n\nYour registration request was declined.",
			name,
		)

	case notification.TemplateTenantMessage:
		subject = "New Message"
		body = fmt.Sprintf(
			"Hi %s,\n\n%s",
			name, d.Message,
		)

	case notification.TemplateAvailabilityMarked:
		subject = "Availability Updated"
		body = fmt.Sprintf(
			"Hi %s,\n\n%s marked themselves available on %s (%s).",
			name, d.WorkerName, d.Date, d.Shift,
		)

	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnknownTemplate, ob.Template)
	}

	return subject, body, nil
}

func affectedJobsSection(jobs []notification.AffectedJob) string {
	if len(jobs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\nAffected jobs:\n")
	for _, j := range jobs {
		fmt.Fprintf(&b, "- %s on %s (%s)\n", j.Title, j.Date, j.Shift)
	}
	return strings.TrimRight(b.String(), "\n")
}
