package handler_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/unilancer-labs/unilancer-api/internal/models"
)

func TestAdminListApplications(t *testing.T) {
	app, db := setupApp(t)

	require.NoError(t, db.Create(&models.FreelancerApplication{ReferenceID: "ref-1", FullName: "Derya Aksoy", Email: "derya@example.com", Status: models.StatusPending}).Error)
	require.NoError(t, db.Create(&models.FreelancerApplication{ReferenceID: "ref-2", FullName: "Umut Kaya", Email: "umut@example.com", Status: models.StatusAccepted}).Error)

	resp := performJSON(t, app, fiber.MethodGet, "/api/v1/admin/applications?status=pending", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	require.Len(t, items, 1)
	require.Equal(t, "Derya Aksoy", items[0].(map[string]interface{})["full_name"])
}

func TestAdminGetApplicationNotFound(t *testing.T) {
	app, _ := setupApp(t)

	resp := performJSON(t, app, fiber.MethodGet, "/api/v1/admin/applications/42", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAdminTransitionLifecycle(t *testing.T) {
	app, db := setupApp(t)

	record := models.FreelancerApplication{ReferenceID: "ref-1", FullName: "Derya Aksoy", Email: "derya@example.com", Status: models.StatusPending}
	require.NoError(t, db.Create(&record).Error)

	resp := performJSON(t, app, fiber.MethodPatch, "/api/v1/admin/applications/1/status", map[string]interface{}{
		"status": models.StatusReviewing,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var stored models.FreelancerApplication
	require.NoError(t, db.First(&stored, record.ID).Error)
	require.Equal(t, models.StatusReviewing, stored.Status)

	var entry models.ActivityLog
	require.NoError(t, db.Where("action = ?", "status_changed").First(&entry).Error)
	require.Equal(t, "admin@test.local", entry.Actor)

	resp = performJSON(t, app, fiber.MethodPatch, "/api/v1/admin/applications/1/status", map[string]interface{}{
		"status": "archived",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdminTransitionTerminalNeedsOverride(t *testing.T) {
	app, db := setupApp(t)

	record := models.FreelancerApplication{ReferenceID: "ref-1", FullName: "Derya Aksoy", Email: "derya@example.com", Status: models.StatusRejected}
	require.NoError(t, db.Create(&record).Error)

	resp := performJSON(t, app, fiber.MethodPatch, "/api/v1/admin/applications/1/status", map[string]interface{}{
		"status": models.StatusReviewing,
	})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = performJSON(t, app, fiber.MethodPatch, "/api/v1/admin/applications/1/status", map[string]interface{}{
		"status":   models.StatusReviewing,
		"override": true,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var entry models.ActivityLog
	require.NoError(t, db.Where("action = ?", "status_overridden").First(&entry).Error)
}

func TestAdminUpdateDetails(t *testing.T) {
	app, db := setupApp(t)

	record := models.FreelancerApplication{ReferenceID: "ref-1", FullName: "Derya Aksoy", Email: "derya@example.com", Status: models.StatusPending}
	require.NoError(t, db.Create(&record).Error)

	resp := performJSON(t, app, fiber.MethodPatch, "/api/v1/admin/applications/1/details", map[string]interface{}{
		"admin_summary": "promising portfolio",
		"rating":        4,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var stored models.FreelancerApplication
	require.NoError(t, db.First(&stored, record.ID).Error)
	require.Equal(t, "promising portfolio", stored.AdminSummary)

	resp = performJSON(t, app, fiber.MethodPatch, "/api/v1/admin/applications/1/details", map[string]interface{}{})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdminNotesLifecycle(t *testing.T) {
	app, db := setupApp(t)

	record := models.FreelancerApplication{ReferenceID: "ref-1", FullName: "Derya Aksoy", Email: "derya@example.com", Status: models.StatusPending}
	require.NoError(t, db.Create(&record).Error)

	resp := performJSON(t, app, fiber.MethodPost, "/api/v1/admin/applications/1/notes", map[string]interface{}{
		"body": "called the applicant",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = performJSON(t, app, fiber.MethodGet, "/api/v1/admin/applications/1/notes", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	notes := body["data"].([]interface{})
	require.Len(t, notes, 1)
	require.Equal(t, "admin@test.local", notes[0].(map[string]interface{})["author"])

	resp = performJSON(t, app, fiber.MethodDelete, "/api/v1/admin/applications/1/notes/1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = performJSON(t, app, fiber.MethodDelete, "/api/v1/admin/applications/1/notes/1", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// Note deletion leaves no audit trace.
	var count int64
	require.NoError(t, db.Model(&models.ActivityLog{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestAdminActivityFeed(t *testing.T) {
	app, db := setupApp(t)

	require.NoError(t, db.Create(&models.ActivityLog{RecordKind: models.KindApplication, RecordID: 1, Actor: "system", Action: "submitted"}).Error)
	require.NoError(t, db.Create(&models.ActivityLog{RecordKind: models.KindRequest, RecordID: 1, Actor: "admin", Action: "status_changed"}).Error)

	resp := performJSON(t, app, fiber.MethodGet, "/api/v1/admin/activity?kind=application", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	require.Len(t, items, 1)

	resp = performJSON(t, app, fiber.MethodGet, "/api/v1/admin/applications/1/activity", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAdminAssignmentFlow(t *testing.T) {
	app, db := setupApp(t)

	freelancer := models.FreelancerApplication{ReferenceID: "ref-1", FullName: "Derya Aksoy", Email: "derya@example.com", Status: models.StatusAccepted}
	pending := models.FreelancerApplication{ReferenceID: "ref-2", FullName: "Umut Kaya", Email: "umut@example.com", Status: models.StatusPending}
	request := models.ProjectRequest{ReferenceID: "req-1", ContactName: "Acme", Email: "ops@acme.example", Status: models.StatusReviewing}
	require.NoError(t, db.Create(&freelancer).Error)
	require.NoError(t, db.Create(&pending).Error)
	require.NoError(t, db.Create(&request).Error)

	resp := performJSON(t, app, fiber.MethodGet, "/api/v1/admin/requests/1/candidates", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	candidates := body["data"].([]interface{})
	require.Len(t, candidates, 1)

	resp = performJSON(t, app, fiber.MethodPost, "/api/v1/admin/requests/1/assignments", map[string]interface{}{
		"freelancer_id": freelancer.ID,
		"role":          "backend developer",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Same pair again conflicts.
	resp = performJSON(t, app, fiber.MethodPost, "/api/v1/admin/requests/1/assignments", map[string]interface{}{
		"freelancer_id": freelancer.ID,
		"role":          "designer",
	})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// A not-accepted freelancer is rejected.
	resp = performJSON(t, app, fiber.MethodPost, "/api/v1/admin/requests/1/assignments", map[string]interface{}{
		"freelancer_id": pending.ID,
		"role":          "designer",
	})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = performJSON(t, app, fiber.MethodPatch, "/api/v1/admin/requests/assignments/1/status", map[string]interface{}{
		"status": models.AssignmentInProgress,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = performJSON(t, app, fiber.MethodDelete, "/api/v1/admin/requests/assignments/1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.ProjectAssignment{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestAdminAnalyticsSummary(t *testing.T) {
	app, db := setupApp(t)

	require.NoError(t, db.Create(&models.FreelancerApplication{ReferenceID: "ref-1", FullName: "Derya Aksoy", Email: "derya@example.com", Status: models.StatusPending}).Error)
	require.NoError(t, db.Create(&models.NewsletterSubscription{Email: "derya@example.com"}).Error)

	resp := performJSON(t, app, fiber.MethodGet, "/api/v1/admin/analytics/summary", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	require.Equal(t, float64(1), data["newsletter_subscribers"])
	applications := data["applications"].([]interface{})
	require.Len(t, applications, 1)
}

func TestAdminRoutesRequireRole(t *testing.T) {
	app, _ := setupApp(t)

	// The stub JWT middleware sets the admin role, so this exercises the
	// happy path; the role check itself is covered in the middleware tests.
	resp := performJSON(t, app, fiber.MethodGet, "/api/v1/admin/applications", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
