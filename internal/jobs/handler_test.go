package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/gerardoh13/jobly/internal/apperr"
	"github.com/gerardoh13/jobly/internal/auth"
	"github.com/gerardoh13/jobly/internal/sqlutil"
)

var testSecret = []byte("test-secret")

type stubStore struct {
	create func(ctx context.Context, p CreateParams) (Job, error)
	list   func(ctx context.Context, f sqlutil.JobFilter) ([]Job, error)
	get    func(ctx context.Context, id int64) (Job, error)
	update func(ctx context.Context, id int64, p UpdateParams) (Job, error)
	delete func(ctx context.Context, id int64) error
}

func (s *stubStore) Create(ctx context.Context, p CreateParams) (Job, error) {
	return s.create(ctx, p)
}

func (s *stubStore) List(ctx context.Context, f sqlutil.JobFilter) ([]Job, error) {
	return s.list(ctx, f)
}

func (s *stubStore) Get(ctx context.Context, id int64) (Job, error) {
	return s.get(ctx, id)
}

func (s *stubStore) Update(ctx context.Context, id int64, p UpdateParams) (Job, error) {
	return s.update(ctx, id, p)
}

func (s *stubStore) Delete(ctx context.Context, id int64) error {
	return s.delete(ctx, id)
}

func testApp(t *testing.T, store Store) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: apperr.ErrorHandler})
	app.Use(auth.Authenticate(testSecret))

	h := NewHandler(store, nil)
	app.Post("/jobs", auth.RequireAdmin, h.CreateJob)
	app.Get("/jobs", h.ListJobs)
	app.Get("/jobs/:id", h.GetJob)
	app.Patch("/jobs/:id", auth.RequireAdmin, h.UpdateJob)
	app.Delete("/jobs/:id", auth.RequireAdmin, h.DeleteJob)
	return app
}

func doReq(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test %s %s: %v", method, path, err)
	}
	return resp
}

func adminToken(t *testing.T) string {
	t.Helper()
	tok, err := auth.MakeToken(auth.Identity{Username: "root", IsAdmin: true}, testSecret)
	if err != nil {
		t.Fatalf("MakeToken: %v", err)
	}
	return tok
}

func userToken(t *testing.T, username string) string {
	t.Helper()
	tok, err := auth.MakeToken(auth.Identity{Username: username}, testSecret)
	if err != nil {
		t.Fatalf("MakeToken: %v", err)
	}
	return tok
}

func TestCreateJob(t *testing.T) {
	store := &stubStore{
		create: func(_ context.Context, p CreateParams) (Job, error) {
			return Job{ID: 7, Title: p.Title, Salary: p.Salary, Equity: p.Equity, CompanyHandle: p.CompanyHandle}, nil
		},
	}
	app := testApp(t, store)

	body := fiber.Map{"title": "Engineer", "salary": 90000, "equity": 0.05, "companyHandle": "acme"}
	resp := doReq(t, app, http.MethodPost, "/jobs", adminToken(t), body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var got struct {
		Job Job `json:"job"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Job.ID != 7 || got.Job.Title != "Engineer" || got.Job.CompanyHandle != "acme" {
		t.Fatalf("job = %+v", got.Job)
	}
	if got.Job.Salary == nil || *got.Job.Salary != 90000 {
		t.Fatalf("salary = %v, want 90000", got.Job.Salary)
	}
}

func TestCreateJob_Authz(t *testing.T) {
	store := &stubStore{
		create: func(_ context.Context, p CreateParams) (Job, error) {
			t.Fatal("store must not be reached")
			return Job{}, nil
		},
	}
	app := testApp(t, store)
	body := fiber.Map{"title": "Engineer", "companyHandle": "acme"}

	if resp := doReq(t, app, http.MethodPost, "/jobs", "", body); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("anonymous status = %d, want 403", resp.StatusCode)
	}
	if resp := doReq(t, app, http.MethodPost, "/jobs", userToken(t, "bob"), body); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("non-admin status = %d, want 403", resp.StatusCode)
	}
}

func TestCreateJob_Validation(t *testing.T) {
	store := &stubStore{
		create: func(_ context.Context, p CreateParams) (Job, error) {
			t.Fatal("store must not be reached")
			return Job{}, nil
		},
	}
	app := testApp(t, store)

	tests := []struct {
		name string
		body fiber.Map
	}{
		{"missing title", fiber.Map{"companyHandle": "acme"}},
		{"missing company", fiber.Map{"title": "Engineer"}},
		{"negative salary", fiber.Map{"title": "Engineer", "companyHandle": "acme", "salary": -1}},
		{"equity above one", fiber.Map{"title": "Engineer", "companyHandle": "acme", "equity": 1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doReq(t, app, http.MethodPost, "/jobs", adminToken(t), tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestCreateJob_StoreErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unknown company", apperr.ErrNotFound, http.StatusNotFound},
		{"duplicate posting", apperr.ErrDuplicate, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &stubStore{
				create: func(_ context.Context, p CreateParams) (Job, error) {
					return Job{}, fmt.Errorf("job %s at %s: %w", p.Title, p.CompanyHandle, tt.err)
				},
			}
			app := testApp(t, store)
			body := fiber.Map{"title": "Engineer", "companyHandle": "ghost"}
			resp := doReq(t, app, http.MethodPost, "/jobs", adminToken(t), body)
			if resp.StatusCode != tt.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestListJobs_Filters(t *testing.T) {
	var got sqlutil.JobFilter
	store := &stubStore{
		list: func(_ context.Context, f sqlutil.JobFilter) ([]Job, error) {
			got = f
			return []Job{{ID: 1, Title: "Engineer", CompanyHandle: "acme"}}, nil
		},
	}
	app := testApp(t, store)

	resp := doReq(t, app, http.MethodGet, "/jobs?title=eng&minSalary=50000&hasEquity=true", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got.Title == nil || *got.Title != "eng" {
		t.Fatalf("title filter = %v, want eng", got.Title)
	}
	if got.MinSalary == nil || *got.MinSalary != 50000 {
		t.Fatalf("minSalary filter = %v, want 50000", got.MinSalary)
	}
	if got.HasEquity == nil || !*got.HasEquity {
		t.Fatalf("hasEquity filter = %v, want true", got.HasEquity)
	}

	var body struct {
		Jobs []Job `json:"jobs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Jobs) != 1 || body.Jobs[0].Title != "Engineer" {
		t.Fatalf("jobs = %+v", body.Jobs)
	}
}

func TestListJobs_AnonymousWithInvalidToken(t *testing.T) {
	store := &stubStore{
		list: func(_ context.Context, f sqlutil.JobFilter) ([]Job, error) {
			return []Job{}, nil
		},
	}
	app := testApp(t, store)

	// Garbage tokens do not break public listing.
	resp := doReq(t, app, http.MethodGet, "/jobs", "not.a.token", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestListJobs_BadFilters(t *testing.T) {
	store := &stubStore{
		list: func(_ context.Context, f sqlutil.JobFilter) ([]Job, error) {
			t.Fatal("store must not be reached")
			return nil, nil
		},
	}
	app := testApp(t, store)

	tests := []struct {
		name string
		path string
	}{
		{"unknown key", "/jobs?seniority=staff"},
		{"non-numeric minSalary", "/jobs?minSalary=lots"},
		{"non-boolean hasEquity", "/jobs?hasEquity=maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doReq(t, app, http.MethodGet, tt.path, "", nil)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestGetJob(t *testing.T) {
	store := &stubStore{
		get: func(_ context.Context, id int64) (Job, error) {
			if id != 7 {
				return Job{}, fmt.Errorf("job %d: %w", id, apperr.ErrNotFound)
			}
			return Job{ID: 7, Title: "Engineer", CompanyHandle: "acme"}, nil
		},
	}
	app := testApp(t, store)

	resp := doReq(t, app, http.MethodGet, "/jobs/7", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if resp := doReq(t, app, http.MethodGet, "/jobs/999", "", nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing job status = %d, want 404", resp.StatusCode)
	}
	if resp := doReq(t, app, http.MethodGet, "/jobs/seven", "", nil); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("non-numeric id status = %d, want 400", resp.StatusCode)
	}
}

func TestUpdateJob(t *testing.T) {
	store := &stubStore{
		update: func(_ context.Context, id int64, p UpdateParams) (Job, error) {
			if len(p.Fields()) == 0 {
				return Job{}, sqlutil.ErrNoFields
			}
			j := Job{ID: id, Title: "Engineer", CompanyHandle: "acme"}
			if p.Title != nil {
				j.Title = *p.Title
			}
			if p.Salary != nil {
				j.Salary = p.Salary
			}
			return j, nil
		},
	}
	app := testApp(t, store)

	resp := doReq(t, app, http.MethodPatch, "/jobs/7", adminToken(t), fiber.Map{"title": "Staff Engineer", "salary": 120000})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Job Job `json:"job"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Job.Title != "Staff Engineer" {
		t.Fatalf("title = %q, want Staff Engineer", body.Job.Title)
	}
}

func TestUpdateJob_RejectsCompanyHandle(t *testing.T) {
	store := &stubStore{
		update: func(_ context.Context, id int64, p UpdateParams) (Job, error) {
			t.Fatal("store must not be reached")
			return Job{}, nil
		},
	}
	app := testApp(t, store)

	// Moving a job between companies is not a thing, even for admins.
	body := fiber.Map{"companyHandle": "megacorp"}
	resp := doReq(t, app, http.MethodPatch, "/jobs/7", adminToken(t), body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestUpdateJob_Rejections(t *testing.T) {
	store := &stubStore{
		update: func(_ context.Context, id int64, p UpdateParams) (Job, error) {
			if len(p.Fields()) == 0 {
				return Job{}, sqlutil.ErrNoFields
			}
			return Job{ID: id}, nil
		},
	}
	app := testApp(t, store)

	tests := []struct {
		name string
		body fiber.Map
	}{
		{"unknown field", fiber.Map{"seniority": "staff"}},
		{"id is immutable", fiber.Map{"id": 99}},
		{"empty update", fiber.Map{}},
		{"equity above one", fiber.Map{"equity": 2.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doReq(t, app, http.MethodPatch, "/jobs/7", adminToken(t), tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
		})
	}

	if resp := doReq(t, app, http.MethodPatch, "/jobs/7", userToken(t, "bob"), fiber.Map{"title": "X"}); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("non-admin status = %d, want 403", resp.StatusCode)
	}
}

func TestDeleteJob(t *testing.T) {
	store := &stubStore{
		delete: func(_ context.Context, id int64) error {
			if id != 7 {
				return fmt.Errorf("job %d: %w", id, apperr.ErrNotFound)
			}
			return nil
		},
	}
	app := testApp(t, store)

	resp := doReq(t, app, http.MethodDelete, "/jobs/7", adminToken(t), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Deleted string `json:"deleted"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Deleted != "7" {
		t.Fatalf("deleted = %q, want 7", body.Deleted)
	}

	if resp := doReq(t, app, http.MethodDelete, "/jobs/999", adminToken(t), nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing job status = %d, want 404", resp.StatusCode)
	}
}
