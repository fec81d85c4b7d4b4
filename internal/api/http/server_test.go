package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/ankurdental/dentaldesk/config"
	"github.com/ankurdental/dentaldesk/internal/api/http/router"
	"github.com/ankurdental/dentaldesk/internal/seed"
	"github.com/ankurdental/dentaldesk/internal/service/calendar"
	"github.com/ankurdental/dentaldesk/internal/service/dashboard"
	"github.com/ankurdental/dentaldesk/internal/service/incident"
	"github.com/ankurdental/dentaldesk/internal/service/patient"
	"github.com/ankurdental/dentaldesk/internal/service/session"
	"github.com/ankurdental/dentaldesk/internal/store"
	"github.com/ankurdental/dentaldesk/internal/store/storetest"
	"github.com/ankurdental/dentaldesk/pkg/authorize"
	"github.com/ankurdental/dentaldesk/pkg/clock"
	pasetotoken "github.com/ankurdental/dentaldesk/pkg/paseto"
)

func testConfig() *config.Config {
	return &config.Config{
		Clinic: config.ClinicConfig{Name: "ENTNT Dental Center", DefaultRegion: "IN"},
		Server: config.ServerConfig{
			Port:           0,
			TimeoutSeconds: 5,
			Environment:    "development",
			MaxUploadMB:    1,
		},
		Authentication: config.AuthenticationConfig{
			SessionTTLMinutes: 60,
			Paseto: config.PasetoConfig{
				Mode:             "local",
				Issuer:           "dentaldesk",
				Audience:         "dentaldesk-api",
				AccessTTLMinutes: 60,
			},
		},
	}
}

func newTestApp(t *testing.T) (*fiber.App, *store.Store) {
	t.Helper()

	st, mem := storetest.New(t)
	if _, err := st.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	cfg := testConfig()
	mgr, err := pasetotoken.NewPasetoManager(cfg)
	if err != nil {
		t.Fatalf("NewPasetoManager() error = %v", err)
	}
	auth, err := authorize.New(authorize.DefaultConfig())
	if err != nil {
		t.Fatalf("authorize.New() error = %v", err)
	}

	clk := clock.Fake(time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC))
	incidents := incident.New(st, nil, 1<<20)
	dash := dashboard.New(st, clk)

	r := router.NewRouter(router.Params{
		Cfg:          cfg,
		Store:        st,
		Auth:         auth,
		SessionSvc:   session.New(st, mem, mgr, clk, time.Hour),
		PatientSvc:   patient.New(st, nil, clk, "IN", auth),
		IncidentSvc:  incidents,
		DashboardSvc: dash,
		CalendarSvc:  calendar.New(st),
		PasetoMgr:    mgr,
	})

	app := NewApp(cfg, nil, false)
	r.Register(app)
	return app, st
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (int, envelope, []byte) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return send(t, app, req)
}

func send(t *testing.T, app *fiber.App, req *nethttp.Request) (int, envelope, []byte) {
	t.Helper()

	resp, err := app.Test(req, fiber.TestConfig{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	var env envelope
	if strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		_ = json.Unmarshal(raw, &env)
	}
	return resp.StatusCode, env, raw
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()

	code, env, raw := call(t, app, fiber.MethodPost, "/api/v1/auth/login", "",
		map[string]string{"email": email, "password": password})
	if code != fiber.StatusOK {
		t.Fatalf("login %s: status %d, body %s", email, code, raw)
	}
	var out struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatal(err)
	}
	if out.AccessToken == "" || out.ExpiresIn <= 0 {
		t.Fatalf("login %s: data = %s", email, env.Data)
	}
	return out.AccessToken
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t)

	for _, path := range []string{"/livez", "/readyz", "/startupz"} {
		code, _, _ := call(t, app, fiber.MethodGet, path, "", nil)
		if code != fiber.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, code)
		}
	}
}

func TestLogin(t *testing.T) {
	app, _ := newTestApp(t)

	tests := []struct {
		name     string
		email    string
		password string
		want     int
	}{
		{"admin", "admin@entnt.in", "admin123", fiber.StatusOK},
		{"patient", "john@entnt.in", "patient123", fiber.StatusOK},
		{"wrong password", "admin@entnt.in", "nope", fiber.StatusUnauthorized},
		{"unknown email", "ghost@entnt.in", "admin123", fiber.StatusUnauthorized},
		{"missing password", "admin@entnt.in", "", fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env, _ := call(t, app, fiber.MethodPost, "/api/v1/auth/login", "",
				map[string]string{"email": tt.email, "password": tt.password})
			if code != tt.want {
				t.Fatalf("status = %d, want %d (error %q)", code, tt.want, env.Error)
			}
			if code == fiber.StatusOK && strings.Contains(string(env.Data), "admin123") {
				t.Error("login response leaks the password")
			}
		})
	}
}

func TestMeAndLogout(t *testing.T) {
	app, _ := newTestApp(t)
	token := login(t, app, "john@entnt.in", "patient123")

	code, env, _ := call(t, app, fiber.MethodGet, "/api/v1/auth/me", token, nil)
	if code != fiber.StatusOK {
		t.Fatalf("GET /auth/me = %d", code)
	}
	var me struct {
		ID        string `json:"id"`
		Role      string `json:"role"`
		PatientID string `json:"patientId"`
		Password  string `json:"password"`
	}
	if err := json.Unmarshal(env.Data, &me); err != nil {
		t.Fatal(err)
	}
	if me.ID != "2" || me.Role != "Patient" || me.PatientID != "p1" || me.Password != "" {
		t.Errorf("me = %+v", me)
	}

	if code, _, _ := call(t, app, fiber.MethodPost, "/api/v1/auth/logout", token, nil); code != fiber.StatusNoContent {
		t.Fatalf("POST /auth/logout = %d", code)
	}
	if code, _, _ := call(t, app, fiber.MethodGet, "/api/v1/auth/me", token, nil); code != fiber.StatusUnauthorized {
		t.Errorf("GET /auth/me after logout = %d, want 401", code)
	}
}

func TestUnauthenticated(t *testing.T) {
	app, _ := newTestApp(t)

	for _, path := range []string{"/api/v1/patients", "/api/v1/incidents/i1", "/api/v1/dashboard"} {
		code, env, _ := call(t, app, fiber.MethodGet, path, "", nil)
		if code != fiber.StatusUnauthorized {
			t.Errorf("GET %s = %d, want 401", path, code)
		}
		if env.Error == "" {
			t.Errorf("GET %s: missing error envelope", path)
		}
	}

	code, _, _ := call(t, app, fiber.MethodGet, "/api/v1/patients", "not-a-token", nil)
	if code != fiber.StatusUnauthorized {
		t.Errorf("garbage token = %d, want 401", code)
	}
}

func TestPatientAccess(t *testing.T) {
	app, _ := newTestApp(t)
	token := login(t, app, "john@entnt.in", "patient123")

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{fiber.MethodGet, "/api/v1/patients/p1", fiber.StatusOK},
		{fiber.MethodGet, "/api/v1/patients/p1/incidents", fiber.StatusOK},
		{fiber.MethodGet, "/api/v1/patients/p1/dashboard", fiber.StatusOK},
		{fiber.MethodGet, "/api/v1/incidents/i1", fiber.StatusOK},
		{fiber.MethodGet, "/api/v1/incidents/i1/files/1", fiber.StatusOK},
		{fiber.MethodGet, "/api/v1/dashboard", fiber.StatusOK},

		{fiber.MethodGet, "/api/v1/patients/p2", fiber.StatusForbidden},
		{fiber.MethodGet, "/api/v1/patients/p2/incidents", fiber.StatusForbidden},
		{fiber.MethodGet, "/api/v1/incidents/i2", fiber.StatusForbidden},
		{fiber.MethodGet, "/api/v1/patients", fiber.StatusForbidden},
		{fiber.MethodGet, "/api/v1/incidents", fiber.StatusForbidden},
		{fiber.MethodGet, "/api/v1/calendar", fiber.StatusForbidden},
		{fiber.MethodDelete, "/api/v1/patients/p1", fiber.StatusForbidden},
		{fiber.MethodDelete, "/api/v1/incidents/i1", fiber.StatusForbidden},

		{fiber.MethodGet, "/api/v1/incidents/missing", fiber.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			code, env, _ := call(t, app, tt.method, tt.path, token, nil)
			if code != tt.want {
				t.Errorf("status = %d, want %d (error %q)", code, tt.want, env.Error)
			}
		})
	}
}

func TestPatientDashboard(t *testing.T) {
	app, _ := newTestApp(t)
	token := login(t, app, "john@entnt.in", "patient123")

	code, env, _ := call(t, app, fiber.MethodGet, "/api/v1/dashboard", token, nil)
	if code != fiber.StatusOK {
		t.Fatalf("GET /dashboard = %d", code)
	}
	var d struct {
		Patient struct {
			ID string `json:"id"`
		} `json:"patient"`
		TotalAppointments int `json:"totalAppointments"`
	}
	if err := json.Unmarshal(env.Data, &d); err != nil {
		t.Fatal(err)
	}
	want := 0
	for _, inc := range seed.Incidents() {
		if inc.PatientID == "p1" {
			want++
		}
	}
	if d.Patient.ID != "p1" || d.TotalAppointments != want {
		t.Errorf("dashboard = %+v, want %d appointments", d, want)
	}
}

func TestAdminPatientLifecycle(t *testing.T) {
	app, st := newTestApp(t)
	token := login(t, app, "admin@entnt.in", "admin123")

	code, env, _ := call(t, app, fiber.MethodPost, "/api/v1/patients", token, map[string]string{
		"id":      "p9",
		"name":    "Kavya Rao",
		"dob":     "1999-03-01",
		"contact": "+91-9876501234",
	})
	if code != fiber.StatusCreated {
		t.Fatalf("POST /patients = %d (%s)", code, env.Error)
	}

	code, env, _ = call(t, app, fiber.MethodPost, "/api/v1/patients", token, map[string]string{
		"id":      "p9",
		"name":    "Duplicate",
		"dob":     "1999-03-01",
		"contact": "+91-9876501234",
	})
	if code != fiber.StatusConflict {
		t.Errorf("duplicate POST /patients = %d (%s), want 409", code, env.Error)
	}

	code, env, _ = call(t, app, fiber.MethodPost, "/api/v1/patients", token, map[string]string{
		"name": "No Contact",
		"dob":  "1999-03-01",
	})
	if code != fiber.StatusBadRequest {
		t.Errorf("invalid POST /patients = %d (%s), want 400", code, env.Error)
	}

	code, env, _ = call(t, app, fiber.MethodPut, "/api/v1/patients/p9", token, map[string]string{
		"healthInfo": "Penicillin allergy",
	})
	if code != fiber.StatusOK || !strings.Contains(string(env.Data), "Penicillin allergy") {
		t.Errorf("PUT /patients/p9 = %d %s", code, env.Data)
	}

	code, env, _ = call(t, app, fiber.MethodPost, "/api/v1/incidents", token, map[string]any{
		"id":              "i99",
		"patientId":       "p9",
		"title":           "Root Canal",
		"description":     "Lower left molar",
		"appointmentDate": "2025-03-01T10:00:00",
		"cost":            4500,
	})
	if code != fiber.StatusCreated {
		t.Fatalf("POST /incidents = %d (%s)", code, env.Error)
	}

	code, env, _ = call(t, app, fiber.MethodPost, "/api/v1/incidents", token, map[string]any{
		"patientId":       "nobody",
		"title":           "Orphan",
		"appointmentDate": "2025-03-01T10:00:00",
	})
	if code != fiber.StatusBadRequest {
		t.Errorf("orphan POST /incidents = %d (%s), want 400", code, env.Error)
	}

	code, env, _ = call(t, app, fiber.MethodPut, "/api/v1/incidents/i99", token, map[string]any{
		"status":    "Completed",
		"treatment": "Root canal treatment",
	})
	if code != fiber.StatusOK || !strings.Contains(string(env.Data), `"status":"Completed"`) {
		t.Errorf("PUT /incidents/i99 = %d %s", code, env.Data)
	}

	if code, _, _ = call(t, app, fiber.MethodDelete, "/api/v1/patients/p9", token, nil); code != fiber.StatusNoContent {
		t.Fatalf("DELETE /patients/p9 = %d", code)
	}
	if code, _, _ = call(t, app, fiber.MethodGet, "/api/v1/patients/p9", token, nil); code != fiber.StatusNotFound {
		t.Errorf("GET deleted patient = %d, want 404", code)
	}
	if code, _, _ = call(t, app, fiber.MethodGet, "/api/v1/incidents/i99", token, nil); code != fiber.StatusNotFound {
		t.Errorf("GET cascaded incident = %d, want 404", code)
	}
	if code, _, _ = call(t, app, fiber.MethodDelete, "/api/v1/patients/p9", token, nil); code != fiber.StatusNotFound {
		t.Errorf("second DELETE = %d, want 404", code)
	}

	incidents, err := st.Incidents(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, inc := range incidents {
		if inc.PatientID == "p9" {
			t.Errorf("incident %s survived its patient", inc.ID)
		}
	}
}

func TestAdminListsAndCalendar(t *testing.T) {
	app, _ := newTestApp(t)
	token := login(t, app, "admin@entnt.in", "admin123")

	code, env, _ := call(t, app, fiber.MethodGet, "/api/v1/patients?search=priya", token, nil)
	if code != fiber.StatusOK {
		t.Fatalf("GET /patients = %d", code)
	}
	var patients []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &patients); err != nil {
		t.Fatal(err)
	}
	if len(patients) != 1 || patients[0].ID != "p2" {
		t.Errorf("search priya = %+v", patients)
	}

	code, env, _ = call(t, app, fiber.MethodGet, "/api/v1/incidents?status=Bogus", token, nil)
	if code != fiber.StatusBadRequest {
		t.Errorf("bad status filter = %d (%s), want 400", code, env.Error)
	}

	code, _, _ = call(t, app, fiber.MethodGet, "/api/v1/calendar?year=2025&month=1", token, nil)
	if code != fiber.StatusOK {
		t.Errorf("GET /calendar = %d", code)
	}

	code, env, _ = call(t, app, fiber.MethodGet, "/api/v1/calendar/day?date=2025-01-15", token, nil)
	if code != fiber.StatusOK || !strings.Contains(string(env.Data), `"i1"`) {
		t.Errorf("GET /calendar/day = %d %s", code, env.Data)
	}

	code, env, _ = call(t, app, fiber.MethodGet, "/api/v1/dashboard", token, nil)
	if code != fiber.StatusOK || !strings.Contains(string(env.Data), `"totalPatients":5`) {
		t.Errorf("GET /dashboard = %d %s", code, env.Data)
	}
}

func TestFiles(t *testing.T) {
	app, _ := newTestApp(t)
	token := login(t, app, "admin@entnt.in", "admin123")

	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/incidents/i1/files/1", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	code, _, raw := send(t, app, req)
	if code != fiber.StatusOK {
		t.Fatalf("download = %d", code)
	}
	if !bytes.HasPrefix(raw, []byte("\x89PNG")) {
		t.Errorf("download body does not look like a PNG: %q", raw[:min(8, len(raw))])
	}

	if code, _, _ = call(t, app, fiber.MethodGet, "/api/v1/incidents/i1/files/9", token, nil); code != fiber.StatusNotFound {
		t.Errorf("missing index = %d, want 404", code)
	}
	if code, _, _ = call(t, app, fiber.MethodGet, "/api/v1/incidents/i1/files/x", token, nil); code != fiber.StatusBadRequest {
		t.Errorf("bad index = %d, want 400", code)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "notes.txt")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write([]byte("post-op: soft food for two days"))
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req = httptest.NewRequest(fiber.MethodPost, "/api/v1/incidents/i4/files", &buf)
	req.Header.Set(fiber.HeaderContentType, mw.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	code, env, _ := send(t, app, req)
	if code != fiber.StatusCreated {
		t.Fatalf("upload = %d (%s)", code, env.Error)
	}
	if !strings.Contains(string(env.Data), `"name":"notes.txt"`) {
		t.Errorf("upload response = %s", env.Data)
	}

	req = httptest.NewRequest(fiber.MethodGet, "/api/v1/incidents/i4/files/0", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	code, _, raw = send(t, app, req)
	if code != fiber.StatusOK || string(raw) != "post-op: soft food for two days" {
		t.Errorf("round trip = %d %q", code, raw)
	}

	if code, _, _ = call(t, app, fiber.MethodDelete, "/api/v1/incidents/i4/files/0", token, nil); code != fiber.StatusOK {
		t.Errorf("remove = %d", code)
	}
}
