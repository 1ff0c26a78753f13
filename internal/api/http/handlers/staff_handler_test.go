package handlers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestAdminRoutesRequireAuth(t *testing.T) {
	srv := newServer(t, "2024-06-01")

	resp := srv.do(t, fiber.MethodGet, "/admin/staff", nil, nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.status)
	require.Equal(t, "UNAUTHORIZED", resp.errorCode(t))

	resp = srv.do(t, fiber.MethodGet, "/admin/staff", nil, map[string]string{"X-API-Key": "wrong"})
	require.Equal(t, fiber.StatusUnauthorized, resp.status)

	resp = srv.do(t, fiber.MethodPost, "/api/devices", map[string]any{}, nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.status)
}

func TestLoginIssuesAdminToken(t *testing.T) {
	srv := newServer(t, "2024-06-01")

	resp := srv.do(t, fiber.MethodPost, "/admin/login", map[string]any{"password": "wrong"}, nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.status)

	resp = srv.do(t, fiber.MethodPost, "/admin/login", map[string]any{"password": testPassword}, nil)
	require.Equal(t, fiber.StatusOK, resp.status, string(resp.body))
	token := resp.data(t)["token"].(string)
	require.NotEmpty(t, token)

	resp = srv.do(t, fiber.MethodGet, "/admin/staff", nil, map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, fiber.StatusOK, resp.status)
}

func TestCreateStaff_DuplicateMobileReturnsExisting(t *testing.T) {
	srv := newServer(t, "2024-06-01")
	id := srv.createStaff(t, "Jane", "Doe", "0412345678", "", "")

	resp := srv.admin(t, fiber.MethodPost, "/admin/staff", map[string]any{
		"given_name":  "Janet",
		"family_name": "Doe",
		"mobile":      "0412345678",
		"start_date":  "2024-02-01",
	})
	require.Equal(t, fiber.StatusConflict, resp.status)
	errBody := resp.json(t)["error"].(map[string]any)
	require.Equal(t, "DUPLICATE_CONTACT", errBody["code"])
	existing := errBody["details"].(map[string]any)["existing"].(map[string]any)
	require.Equal(t, id, existing["id"])
	require.Equal(t, "Jane", existing["given_name"])
	require.Equal(t, "2024-01-01", existing["start_date"])

	list := srv.admin(t, fiber.MethodGet, "/admin/staff", nil)
	require.Len(t, list.json(t)["data"].([]any), 1)
}

func TestCreateStaff_Validation(t *testing.T) {
	srv := newServer(t, "2024-06-01")

	resp := srv.admin(t, fiber.MethodPost, "/admin/staff", map[string]any{"given_name": "Jane"})
	require.Equal(t, fiber.StatusBadRequest, resp.status)
	require.Equal(t, "VALIDATION_FAILED", resp.errorCode(t))

	resp = srv.admin(t, fiber.MethodPost, "/admin/staff", map[string]any{
		"given_name": "Jane", "family_name": "Doe", "mobile": "1", "start_date": "01/01/2024",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.status)

	resp = srv.admin(t, fiber.MethodPost, "/admin/staff", map[string]any{
		"given_name": "Jane", "family_name": "Doe", "mobile": "1", "start_date": "2024-01-01", "role_code": "PILOT",
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.status)
	require.Equal(t, "UNKNOWN_REFERENCE", resp.errorCode(t))
	require.Empty(t, srv.admin(t, fiber.MethodGet, "/admin/staff", nil).json(t)["data"])
}

func TestAssignOutcomesAndStatusCodes(t *testing.T) {
	srv := newServer(t, "2024-06-01")
	id := srv.createStaff(t, "Jane", "Doe", "0412345678", "", "")
	path := "/admin/staff/" + id + "/assignments"

	resp := srv.admin(t, fiber.MethodPost, path, map[string]any{"role_code": "RIDER", "location_code": "FARM", "effective_start": "2024-02-01"})
	require.Equal(t, fiber.StatusCreated, resp.status, string(resp.body))
	require.Equal(t, "created", resp.json(t)["outcome"])
	firstID := resp.data(t)["id"].(float64)

	resp = srv.admin(t, fiber.MethodPost, path, map[string]any{"role_code": "RIDER", "location_code": "FARM", "effective_start": "2024-03-01"})
	require.Equal(t, fiber.StatusOK, resp.status)
	require.Equal(t, "unchanged", resp.json(t)["outcome"])
	require.Equal(t, firstID, resp.data(t)["id"])

	resp = srv.admin(t, fiber.MethodPost, path, map[string]any{"role_code": "VET", "location_code": "FARM", "effective_start": "2024-04-01"})
	require.Equal(t, fiber.StatusCreated, resp.status)
	body := resp.json(t)
	require.Equal(t, "superseded", body["outcome"])
	require.Equal(t, firstID, body["superseded_id"])

	history := srv.admin(t, fiber.MethodGet, path, nil).json(t)["data"].([]any)
	require.Len(t, history, 2)
	newest := history[0].(map[string]any)
	older := history[1].(map[string]any)
	require.Equal(t, "VET", newest["role_code"])
	require.Nil(t, newest["effective_end"])
	require.Equal(t, "2024-04-01", older["effective_end"])

	resp = srv.admin(t, fiber.MethodPost, path, map[string]any{"role_code": "VET", "effective_start": "2024-05-01", "effective_end": "2024-04-01"})
	require.Equal(t, fiber.StatusBadRequest, resp.status)
	require.Equal(t, "INVALID_RANGE", resp.errorCode(t))
}

func TestStaffDetailEndAndReactivate(t *testing.T) {
	srv := newServer(t, "2024-06-01")
	id := srv.createStaff(t, "Jane", "Doe", "0412345678", "RIDER", "FARM")

	detail := srv.admin(t, fiber.MethodGet, "/admin/staff/"+id, nil).data(t)
	require.Equal(t, "2024-06-01", detail["as_of"])
	require.Equal(t, "RIDER", detail["current"].(map[string]any)["role_code"])

	before := srv.admin(t, fiber.MethodGet, "/admin/staff/"+id+"?d=2023-12-31", nil).data(t)
	require.Nil(t, before["current"])

	resp := srv.admin(t, fiber.MethodPost, "/admin/staff/"+id+"/end", map[string]any{"end_date": "2024-05-31"})
	require.Equal(t, fiber.StatusOK, resp.status, string(resp.body))
	require.Equal(t, false, resp.data(t)["is_active"])
	require.Equal(t, "2024-05-31", resp.data(t)["end_date"])

	history := srv.admin(t, fiber.MethodGet, "/admin/staff/"+id+"/assignments", nil).json(t)["data"].([]any)
	require.Equal(t, "2024-05-31", history[0].(map[string]any)["effective_end"])

	resp = srv.admin(t, fiber.MethodPost, "/admin/staff/"+id+"/end", map[string]any{"end_date": "2023-01-01"})
	require.Equal(t, fiber.StatusBadRequest, resp.status)
	require.Equal(t, "INVALID_RANGE", resp.errorCode(t))

	resp = srv.admin(t, fiber.MethodPost, "/admin/staff/"+id+"/reactivate", nil)
	require.Equal(t, fiber.StatusOK, resp.status)
	require.Equal(t, true, resp.data(t)["is_active"])
	require.Nil(t, resp.data(t)["end_date"])
}

func TestUpdateAndDeleteStaff(t *testing.T) {
	srv := newServer(t, "2024-06-01")
	id := srv.createStaff(t, "Jane", "Doe", "0412345678", "RIDER", "FARM")
	other := srv.createStaff(t, "John", "Smith", "0499999999", "", "")

	resp := srv.admin(t, fiber.MethodPut, "/admin/staff/"+id, map[string]any{"family_name": "Roe", "role_code": "VET"})
	require.Equal(t, fiber.StatusOK, resp.status, string(resp.body))
	data := resp.data(t)
	require.Equal(t, "Jane Roe", data["staff"].(map[string]any)["display_name"])
	assignment := data["assignment"].(map[string]any)
	require.Equal(t, "superseded", assignment["outcome"])
	require.Equal(t, "2024-06-01", assignment["data"].(map[string]any)["effective_start"])

	resp = srv.admin(t, fiber.MethodPut, "/admin/staff/"+other, map[string]any{"mobile": "0412345678"})
	require.Equal(t, fiber.StatusConflict, resp.status)

	resp = srv.admin(t, fiber.MethodDelete, "/admin/staff/"+id, nil)
	require.Equal(t, fiber.StatusNoContent, resp.status)
	resp = srv.admin(t, fiber.MethodGet, "/admin/staff/"+id, nil)
	require.Equal(t, fiber.StatusNotFound, resp.status)
}

func TestMalformedIDsAreNotFound(t *testing.T) {
	srv := newServer(t, "2024-06-01")

	resp := srv.admin(t, fiber.MethodGet, "/admin/staff/not-a-uuid", nil)
	require.Equal(t, fiber.StatusNotFound, resp.status)
	require.Equal(t, "NOT_FOUND", resp.errorCode(t))

	id := srv.createStaff(t, "Jane", "Doe", "0412345678", "", "")
	resp = srv.admin(t, fiber.MethodPost, "/admin/staff/"+id+"/assignments/abc/end", map[string]any{"end_date": "2024-01-01"})
	require.Equal(t, fiber.StatusNotFound, resp.status)
	resp = srv.admin(t, fiber.MethodPost, "/admin/staff/"+id+"/assignments/999/end", map[string]any{"end_date": "2024-01-01"})
	require.Equal(t, fiber.StatusNotFound, resp.status)
}

func TestOnSite(t *testing.T) {
	srv := newServer(t, "2024-06-01")
	srv.createStaff(t, "Jane", "Doe", "0412345678", "RIDER", "FARM")
	srv.createStaff(t, "John", "Smith", "0499999999", "VET", "")
	srv.createStaff(t, "Nora", "Quinn", "0411111111", "", "")

	resp := srv.do(t, fiber.MethodGet, "/staff", nil, nil)
	require.Equal(t, fiber.StatusBadRequest, resp.status)
	require.Equal(t, "VALIDATION_FAILED", resp.errorCode(t))

	resp = srv.do(t, fiber.MethodGet, "/staff?d=June", nil, nil)
	require.Equal(t, fiber.StatusBadRequest, resp.status)

	rows := srv.do(t, fiber.MethodGet, "/staff?d=2024-03-01", nil, nil).json(t)["data"].([]any)
	require.Len(t, rows, 2)
	require.Equal(t, "Doe", rows[0].(map[string]any)["family_name"])

	rows = srv.do(t, fiber.MethodGet, "/staff?d=2024-03-01&location=FARM", nil, nil).json(t)["data"].([]any)
	require.Len(t, rows, 1)
	require.Equal(t, "RIDER", rows[0].(map[string]any)["role_code"])
}

func TestReferenceAndHealthRoutes(t *testing.T) {
	srv := newServer(t, "2024-06-01")

	roles := srv.do(t, fiber.MethodGet, "/roles", nil, nil).json(t)["data"].([]any)
	require.Len(t, roles, 7)
	locations := srv.do(t, fiber.MethodGet, "/locations", nil, nil).json(t)["data"].([]any)
	require.Len(t, locations, 3)

	require.Equal(t, fiber.StatusOK, srv.do(t, fiber.MethodGet, "/healthz", nil, nil).status)
	metrics := srv.do(t, fiber.MethodGet, "/metrics", nil, nil)
	require.Equal(t, fiber.StatusOK, metrics.status)
	require.Contains(t, string(metrics.body), "http_requests_total")

	resp := srv.do(t, fiber.MethodGet, "/nope", nil, nil)
	require.Equal(t, fiber.StatusNotFound, resp.status)
	require.Equal(t, "NOT_FOUND", resp.errorCode(t))
}

func TestRegisterDevice(t *testing.T) {
	srv := newServer(t, "2024-06-01")
	id := srv.createStaff(t, "Jane", "Doe", "0412345678", "", "")

	resp := srv.admin(t, fiber.MethodPost, "/api/devices", map[string]any{"staff_id": id, "platform": "iOS", "token": "tok-1"})
	require.Equal(t, fiber.StatusCreated, resp.status, string(resp.body))
	require.Len(t, srv.store.Devices(id), 1)

	resp = srv.admin(t, fiber.MethodPost, "/api/devices", map[string]any{"staff_id": id, "platform": "Windows", "token": "tok-1"})
	require.Equal(t, fiber.StatusBadRequest, resp.status)
}
