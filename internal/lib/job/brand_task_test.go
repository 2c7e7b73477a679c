package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/deppfellow/brand-api/internal/model/brand"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	to, name string
	calls    int
	err      error
}

func (m *fakeMailer) SendBrandRegisteredEmail(to, brandName string) error {
	m.calls++
	m.to, m.name = to, brandName
	return m.err
}

func newTestJobService(m Mailer) *JobService {
	logger := zerolog.Nop()
	return &JobService{mailer: m, logger: &logger}
}

func TestNewBrandRegisteredTask(t *testing.T) {
	b := &brand.Brand{ID: brand.NewID(), Name: "Acme", Email: "owner@acme.io"}

	task, err := NewBrandRegisteredTask(b)
	require.NoError(t, err)

	assert.Equal(t, TaskBrandRegistered, task.Type())

	var p BrandRegisteredPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, BrandRegisteredPayload{BrandID: b.ID.Hex(), Name: "Acme", Email: "owner@acme.io"}, p)
}

func TestHandleBrandRegisteredTask(t *testing.T) {
	mailer := &fakeMailer{}
	j := newTestJobService(mailer)

	task, err := NewBrandRegisteredTask(&brand.Brand{ID: brand.NewID(), Name: "Acme", Email: "owner@acme.io"})
	require.NoError(t, err)

	require.NoError(t, j.handleBrandRegisteredTask(context.Background(), task))
	assert.Equal(t, 1, mailer.calls)
	assert.Equal(t, "owner@acme.io", mailer.to)
	assert.Equal(t, "Acme", mailer.name)
}

func TestHandleBrandRegisteredTask_MailerErrorIsRetried(t *testing.T) {
	j := newTestJobService(&fakeMailer{err: errors.New("provider down")})

	task, err := NewBrandRegisteredTask(&brand.Brand{ID: brand.NewID(), Name: "Acme", Email: "owner@acme.io"})
	require.NoError(t, err)

	err = j.handleBrandRegisteredTask(context.Background(), task)
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleBrandRegisteredTask_BadPayloadSkipsRetry(t *testing.T) {
	mailer := &fakeMailer{}
	j := newTestJobService(mailer)

	err := j.handleBrandRegisteredTask(context.Background(), asynq.NewTask(TaskBrandRegistered, []byte("{")))

	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
	assert.Zero(t, mailer.calls)
}

func TestMux_RoutesBrandRegistered(t *testing.T) {
	j := newTestJobService(&fakeMailer{})

	_, pattern := j.Mux().Handler(asynq.NewTask(TaskBrandRegistered, nil))
	assert.Equal(t, TaskBrandRegistered, pattern)
}
