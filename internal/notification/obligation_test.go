package notification

import (
	"testing"
	"time"

	"github.com/quackapp/staffing-be/internal/api/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJob() *domain.Job {
	return &domain.Job{
		JobID:           "job-1",
		UserCode:        "AC-1001",
		Title:           "Warehouse shift",
		Location:        "Dock 4",
		ShiftDate:       time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
		Shift:           domain.ShiftAM,
		WorkersRequired: 2,
	}
}

func TestJobData(t *testing.T) {
	data := JobData(testJob())

	assert.Equal(t, "job-1", data.JobID)
	assert.Equal(t, "Warehouse shift", data.Title)
	assert.Equal(t, "Dock 4", data.Location)
	assert.Equal(t, "2026-09-01", data.Date)
	assert.Equal(t, "AM", data.Shift)
}

func TestInviteFanout(t *testing.T) {
	workers := []domain.Worker{
		{WorkerID: "w1", Name: "alice", Email: "alice@example.com", PushToken: "tok-1"},
		{WorkerID: "w2", Name: "bob", Email: "bob@example.com", PushToken: "tok-1"},
		{WorkerID: "w3", Name: "carol", Email: "carol@example.com"},
	}

	obligations := InviteFanout(testJob(), workers)

	var emails, pushes []Obligation
	for _, ob := range obligations {
		require.Equal(t, TemplateJobInvite, ob.Template)
		require.NotEmpty(t, ob.ObligationID)
		switch ob.Channel {
		case ChannelEmail:
			emails = append(emails, ob)
		case ChannelPush:
			pushes = append(pushes, ob)
		}
	}

	assert.Len(t, emails, 3)
	// w1 and w2 share a device, so only one push goes out for tok-1
	require.Len(t, pushes, 1)
	assert.Equal(t, "tok-1", pushes[0].Recipient.PushToken)
	assert.Equal(t, RecipientWorker, pushes[0].Recipient.Kind)
}

func TestInviteFanout_EmptyPool(t *testing.T) {
	assert.Empty(t, InviteFanout(testJob(), nil))
}

func TestMessageFanout(t *testing.T) {
	pool := []domain.Worker{
		{WorkerID: "w1", Name: "alice", Email: "alice@example.com", PushToken: "tok-1"},
		{WorkerID: "w2", Name: "bob", Email: "bob@example.com", PushToken: "tok-1"},
		{WorkerID: "w3", Name: "carol", Email: "carol@example.com"},
	}

	obligations := MessageFanout(pool, Data{Message: "Gate B is closed today"})

	// one push for the shared device, none for the tokenless worker, no email
	require.Len(t, obligations, 1)
	assert.Equal(t, ChannelPush, obligations[0].Channel)
	assert.Equal(t, TemplateTenantMessage, obligations[0].Template)
	assert.Equal(t, "tok-1", obligations[0].Recipient.PushToken)
	assert.Equal(t, "Gate B is closed today", obligations[0].Data.Message)
}

func TestMessageFanout_EmptyPool(t *testing.T) {
	assert.Empty(t, MessageFanout(nil, Data{Message: "hello"}))
}

func TestAvailableBroadcast(t *testing.T) {
	pool := []domain.Worker{
		{WorkerID: "w1", Name: "alice", Email: "alice@example.com", PushToken: "tok-1"},
		{WorkerID: "w2", Name: "bob", Email: "bob@example.com"},
	}

	obligations := AvailableBroadcast(testJob(), pool)

	var emails, pushes int
	for _, ob := range obligations {
		require.Equal(t, TemplateJobAvailable, ob.Template)
		switch ob.Channel {
		case ChannelEmail:
			emails++
		case ChannelPush:
			pushes++
		}
	}

	assert.Equal(t, 2, emails)
	assert.Equal(t, 1, pushes)
}

func TestTenantNotice(t *testing.T) {
	t.Run("with device token", func(t *testing.T) {
		tenant := &domain.Tenant{UserCode: "AC-1001", Name: "Acme", Email: "ops@acme.test", PushToken: "tok-t"}

		obligations := TenantNotice(tenant, TemplateJobAccepted, Data{WorkerName: "alice"})
		require.Len(t, obligations, 2)

		assert.Equal(t, ChannelPush, obligations[0].Channel)
		assert.Equal(t, ChannelEmail, obligations[1].Channel)
		assert.Equal(t, RecipientTenant, obligations[0].Recipient.Kind)
		assert.Equal(t, "AC-1001", obligations[0].Recipient.ID)
		assert.Equal(t, "alice", obligations[0].Data.WorkerName)
	})

	t.Run("without device token", func(t *testing.T) {
		tenant := &domain.Tenant{UserCode: "AC-1001", Name: "Acme", Email: "ops@acme.test"}

		obligations := TenantNotice(tenant, TemplateJobAccepted, Data{})
		require.Len(t, obligations, 1)
		assert.Equal(t, ChannelEmail, obligations[0].Channel)
	})
}

func TestWorkerNotice(t *testing.T) {
	t.Run("with device token", func(t *testing.T) {
		worker := &domain.Worker{WorkerID: "w1", Name: "alice", Email: "alice@example.com", PushToken: "tok-1"}

		obligations := WorkerNotice(worker, TemplateWorkerApproved, Data{})
		require.Len(t, obligations, 2)
		assert.Equal(t, ChannelPush, obligations[0].Channel)
		assert.Equal(t, ChannelEmail, obligations[1].Channel)
	})

	t.Run("without device token", func(t *testing.T) {
		worker := &domain.Worker{WorkerID: "w1", Name: "alice", Email: "alice@example.com"}

		obligations := WorkerNotice(worker, TemplateWorkerApproved, Data{})
		require.Len(t, obligations, 1)
		assert.Equal(t, ChannelEmail, obligations[0].Channel)
	})
}

func TestPushOnlyNotices(t *testing.T) {
	tenant := &domain.Tenant{UserCode: "AC-1001", Name: "Acme", PushToken: "tok-t"}
	worker := &domain.Worker{WorkerID: "w1", Name: "alice", PushToken: "tok-1"}

	assert.Len(t, TenantPushNotice(tenant, TemplateWorkerRegistered, Data{}), 1)
	assert.Len(t, WorkerPushNotice(worker, TemplateWorkerDeclined, Data{}), 1)

	tenant.PushToken = ""
	worker.PushToken = ""
	assert.Nil(t, TenantPushNotice(tenant, TemplateWorkerRegistered, Data{}))
	assert.Nil(t, WorkerPushNotice(worker, TemplateWorkerDeclined, Data{}))
}
