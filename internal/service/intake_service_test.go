package service

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/unilancer-labs/unilancer-api/internal/dto"
	"github.com/unilancer-labs/unilancer-api/internal/models"
	"github.com/unilancer-labs/unilancer-api/internal/repository"
	"github.com/unilancer-labs/unilancer-api/internal/wizard"
	"github.com/unilancer-labs/unilancer-api/pkg/challenge"
	"github.com/unilancer-labs/unilancer-api/pkg/retry"
)

type applicationRepoStub struct {
	created       []models.FreelancerApplication
	failures      int
	attempts      int
	updateErr     error
	updatedFields map[string]interface{}
}

func (s *applicationRepoStub) Create(ctx context.Context, application *models.FreelancerApplication) error {
	s.attempts++
	if s.attempts <= s.failures {
		return errors.New("connection reset")
	}
	application.ID = uint(len(s.created) + 1)
	s.created = append(s.created, *application)
	return nil
}

func (s *applicationRepoStub) GetByID(ctx context.Context, id uint) (models.FreelancerApplication, error) {
	for _, application := range s.created {
		if application.ID == id {
			return application, nil
		}
	}
	return models.FreelancerApplication{}, gorm.ErrRecordNotFound
}

func (s *applicationRepoStub) List(ctx context.Context, filter repository.RecordFilter) ([]models.FreelancerApplication, int64, error) {
	return s.created, int64(len(s.created)), nil
}

func (s *applicationRepoStub) UpdateStatus(ctx context.Context, id uint, status string) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	for i := range s.created {
		if s.created[i].ID == id {
			s.created[i].Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *applicationRepoStub) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updatedFields = fields
	return nil
}

func (s *applicationRepoStub) ListCandidates(ctx context.Context, requestID uint, search string) ([]models.FreelancerApplication, error) {
	return nil, nil
}

type requestRepoStub struct {
	created  []models.ProjectRequest
	attempts int
}

func (s *requestRepoStub) Create(ctx context.Context, request *models.ProjectRequest) error {
	s.attempts++
	request.ID = uint(len(s.created) + 1)
	s.created = append(s.created, *request)
	return nil
}

func (s *requestRepoStub) GetByID(ctx context.Context, id uint) (models.ProjectRequest, error) {
	for _, request := range s.created {
		if request.ID == id {
			return request, nil
		}
	}
	return models.ProjectRequest{}, gorm.ErrRecordNotFound
}

func (s *requestRepoStub) List(ctx context.Context, filter repository.RecordFilter) ([]models.ProjectRequest, int64, error) {
	return s.created, int64(len(s.created)), nil
}

func (s *requestRepoStub) UpdateStatus(ctx context.Context, id uint, status string) error {
	for i := range s.created {
		if s.created[i].ID == id {
			s.created[i].Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *requestRepoStub) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return nil
}

type activityRepoStub struct {
	entries []models.ActivityLog
	err     error
}

func (s *activityRepoStub) Create(ctx context.Context, entry *models.ActivityLog) error {
	if s.err != nil {
		return s.err
	}
	entry.ID = uint(len(s.entries) + 1)
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *activityRepoStub) List(ctx context.Context, filter repository.ActivityLogFilter) ([]models.ActivityLog, int64, error) {
	return s.entries, int64(len(s.entries)), nil
}

type gateStub struct {
	decision GateDecision
}

func (g gateStub) ValidateSubmission(ctx context.Context, token, action, remoteIP string, minScore float64) GateDecision {
	return g.decision
}

func (g gateStub) ValidateWithProvider(ctx context.Context, provider challenge.TokenProvider, action, remoteIP string, minScore float64) GateDecision {
	return g.decision
}

func openGate() gateStub {
	return gateStub{decision: GateDecision{Valid: true, Score: 0.9, Reason: ReasonAccepted}}
}

func validApplicationPayload() dto.ApplicationSubmitRequest {
	return dto.ApplicationSubmitRequest{
		FullName:       "Ada Deniz",
		Email:          "ada@example.com",
		Phone:          "+905320001122",
		Categories:     []string{"development"},
		Expertise:      []string{"web"},
		About:          "Full-stack developer.",
		Consent:        true,
		ChallengeToken: "tok",
	}
}

func validRequestPayload() dto.RequestSubmitRequest {
	return dto.RequestSubmitRequest{
		ContactName:    "Acme Ltd",
		Email:          "ops@acme.example",
		Phone:          "02125550000",
		Services:       []string{"web_development"},
		Budget:         "50k-100k",
		Description:    "Corporate site rebuild.",
		Consent:        true,
		ChallengeToken: "tok",
	}
}

func newIntakeService(apps *applicationRepoStub, reqs *requestRepoStub, activity *activityRepoStub, gate FraudGate, cache *redis.Client) IntakeService {
	return NewIntakeService(
		apps, reqs, activity, gate, NewLogNotifier(testLogger()), cache,
		validator.New(),
		IntakeConfig{RetryPolicy: retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, Multiplier: 2}},
		testLogger(),
	)
}

func TestSubmitApplicationForcesPendingStatus(t *testing.T) {
	apps := &applicationRepoStub{}
	activity := &activityRepoStub{}
	svc := newIntakeService(apps, &requestRepoStub{}, activity, openGate(), nil)

	resp, err := svc.SubmitApplication(context.Background(), validApplicationPayload(), "203.0.113.9")
	require.NoError(t, err)
	require.NotEmpty(t, resp.ReferenceID)
	require.Equal(t, models.StatusPending, resp.Status)

	require.Len(t, apps.created, 1)
	require.Equal(t, models.StatusPending, apps.created[0].Status)
	require.InDelta(t, 0.9, apps.created[0].FraudScore, 0.001)

	require.Len(t, activity.entries, 1)
	require.Equal(t, "submitted", activity.entries[0].Action)
	require.Equal(t, "system", activity.entries[0].Actor)
}

func TestSubmitApplicationRunsWizardRules(t *testing.T) {
	apps := &applicationRepoStub{}
	svc := newIntakeService(apps, &requestRepoStub{}, &activityRepoStub{}, openGate(), nil)

	payload := validApplicationPayload()
	payload.Expertise = []string{"seo"} // not unlocked by the development category

	_, err := svc.SubmitApplication(context.Background(), payload, "")
	require.Error(t, err)

	var stepErr *wizard.StepError
	require.ErrorAs(t, err, &stepErr)
	require.Empty(t, apps.created)
}

func TestSubmitApplicationGateRejection(t *testing.T) {
	apps := &applicationRepoStub{}
	gate := gateStub{decision: GateDecision{Reason: ReasonLowScore, Score: 0.1}}
	svc := newIntakeService(apps, &requestRepoStub{}, &activityRepoStub{}, gate, nil)

	_, err := svc.SubmitApplication(context.Background(), validApplicationPayload(), "")
	require.Error(t, err)

	var rejection *GateRejection
	require.ErrorAs(t, err, &rejection)
	require.Equal(t, ReasonLowScore, rejection.Reason)
	require.Empty(t, apps.created)
}

func TestSubmitApplicationRetriesTransientFailures(t *testing.T) {
	apps := &applicationRepoStub{failures: 2}
	svc := newIntakeService(apps, &requestRepoStub{}, &activityRepoStub{}, openGate(), nil)

	_, err := svc.SubmitApplication(context.Background(), validApplicationPayload(), "")
	require.NoError(t, err)
	require.Equal(t, 3, apps.attempts)
	require.Len(t, apps.created, 1)
}

func TestSubmitApplicationExhaustsRetryBudget(t *testing.T) {
	apps := &applicationRepoStub{failures: 10}
	svc := newIntakeService(apps, &requestRepoStub{}, &activityRepoStub{}, openGate(), nil)

	_, err := svc.SubmitApplication(context.Background(), validApplicationPayload(), "")
	require.Error(t, err)
	require.Equal(t, 3, apps.attempts, "attempts must stop at the configured budget")
	require.Empty(t, apps.created)
}

func TestSubmitApplicationDedupeWindow(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer redisClient.Close()

	apps := &applicationRepoStub{}
	svc := newIntakeService(apps, &requestRepoStub{}, &activityRepoStub{}, openGate(), redisClient)

	_, err = svc.SubmitApplication(context.Background(), validApplicationPayload(), "")
	require.NoError(t, err)

	_, err = svc.SubmitApplication(context.Background(), validApplicationPayload(), "")
	require.ErrorIs(t, err, ErrDuplicateSubmission)
	require.Len(t, apps.created, 1)
}

func TestSubmitApplicationActivityFailureIsNonFatal(t *testing.T) {
	apps := &applicationRepoStub{}
	activity := &activityRepoStub{err: errors.New("log store down")}
	svc := newIntakeService(apps, &requestRepoStub{}, activity, openGate(), nil)

	resp, err := svc.SubmitApplication(context.Background(), validApplicationPayload(), "")
	require.NoError(t, err, "a failed audit write must not fail the submission")
	require.NotEmpty(t, resp.ReferenceID)
	require.Len(t, apps.created, 1)
}

func TestSubmitRequestForcesPendingStatus(t *testing.T) {
	reqs := &requestRepoStub{}
	svc := newIntakeService(&applicationRepoStub{}, reqs, &activityRepoStub{}, openGate(), nil)

	resp, err := svc.SubmitRequest(context.Background(), validRequestPayload(), "")
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, resp.Status)
	require.Len(t, reqs.created, 1)
	require.Equal(t, "ops@acme.example", reqs.created[0].Email)
}

func TestSubmitRequestStructuralValidation(t *testing.T) {
	reqs := &requestRepoStub{}
	svc := newIntakeService(&applicationRepoStub{}, reqs, &activityRepoStub{}, openGate(), nil)

	payload := validRequestPayload()
	payload.Email = "not-an-email"

	_, err := svc.SubmitRequest(context.Background(), payload, "")
	require.Error(t, err)

	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)
	require.Empty(t, reqs.created)
}
