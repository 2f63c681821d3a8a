package router

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/gerardoh13/jobly/internal/admin"
	"github.com/gerardoh13/jobly/internal/apperr"
	"github.com/gerardoh13/jobly/internal/auth"
	"github.com/gerardoh13/jobly/internal/companies"
	handlers "github.com/gerardoh13/jobly/internal/http"
	"github.com/gerardoh13/jobly/internal/jobs"
	"github.com/gerardoh13/jobly/internal/sqlutil"
	"github.com/gerardoh13/jobly/internal/users"
)

var testSecret = []byte("test-secret")

type companiesStub struct{}

func (companiesStub) Create(context.Context, companies.CreateParams) (companies.Company, error) {
	return companies.Company{Handle: "acme"}, nil
}

func (companiesStub) List(context.Context, sqlutil.CompanyFilter) ([]companies.Company, error) {
	return []companies.Company{}, nil
}

func (companiesStub) Get(context.Context, string) (companies.CompanyDetail, error) {
	return companies.CompanyDetail{}, nil
}

func (companiesStub) Update(context.Context, string, companies.UpdateParams) (companies.Company, error) {
	return companies.Company{}, nil
}

func (companiesStub) Delete(context.Context, string) error { return nil }

type jobsStub struct{}

func (jobsStub) Create(context.Context, jobs.CreateParams) (jobs.Job, error) {
	return jobs.Job{ID: 1}, nil
}

func (jobsStub) List(context.Context, sqlutil.JobFilter) ([]jobs.Job, error) {
	return []jobs.Job{}, nil
}

func (jobsStub) Get(context.Context, int64) (jobs.Job, error) { return jobs.Job{ID: 1}, nil }

func (jobsStub) Update(context.Context, int64, jobs.UpdateParams) (jobs.Job, error) {
	return jobs.Job{ID: 1}, nil
}

func (jobsStub) Delete(context.Context, int64) error { return nil }

type usersStub struct{}

func (usersStub) Create(_ context.Context, p users.CreateParams) (users.User, error) {
	return users.User{Username: p.Username}, nil
}

func (usersStub) Authenticate(context.Context, string, string) (users.User, error) {
	return users.User{}, fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
}

func (usersStub) List(context.Context) ([]users.User, error) { return []users.User{}, nil }

func (usersStub) Get(_ context.Context, username string) (users.UserDetail, error) {
	return users.UserDetail{User: users.User{Username: username}}, nil
}

func (usersStub) Update(_ context.Context, username string, _ users.UpdateParams) (users.User, error) {
	return users.User{Username: username}, nil
}

func (usersStub) Delete(context.Context, string) error { return nil }

func (usersStub) ApplyToJob(context.Context, string, int64) error { return nil }

func testApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: apperr.ErrorHandler})
	app.Use(auth.Authenticate(testSecret))

	r := &Router{
		AuthHandler:      &handlers.AuthHandler{Users: usersStub{}, Secret: testSecret},
		CompaniesHandler: companies.NewHandler(companiesStub{}, nil),
		JobsHandler:      jobs.NewHandler(jobsStub{}, nil),
		UsersHandler:     users.NewHandler(usersStub{}, nil, testSecret),
		AdminHandler:     admin.NewHandler(nil),
	}
	r.RegisterRoutes(app)
	return app
}

func request(t *testing.T, app *fiber.App, method, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
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

func token(t *testing.T, username string, admin bool) string {
	t.Helper()
	tok, err := auth.MakeToken(auth.Identity{Username: username, IsAdmin: admin}, testSecret)
	if err != nil {
		t.Fatalf("MakeToken: %v", err)
	}
	return tok
}

// TestRouteGuards drives the real route table and checks that each route
// sits behind the right guard.
func TestRouteGuards(t *testing.T) {
	app := testApp(t)
	admin := token(t, "root", true)
	alice := token(t, "alice", false)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"public company list", http.MethodGet, "/companies", "", http.StatusOK},
		{"public company detail", http.MethodGet, "/companies/acme", "", http.StatusOK},
		{"public job list", http.MethodGet, "/jobs", "", http.StatusOK},
		{"public job detail", http.MethodGet, "/jobs/1", "", http.StatusOK},

		{"company create needs admin", http.MethodPost, "/companies", "", http.StatusForbidden},
		{"company create non-admin", http.MethodPost, "/companies", alice, http.StatusForbidden},
		{"company update needs admin", http.MethodPatch, "/companies/acme", alice, http.StatusForbidden},
		{"company delete as admin", http.MethodDelete, "/companies/acme", admin, http.StatusOK},

		{"job create needs admin", http.MethodPost, "/jobs", alice, http.StatusForbidden},
		{"job update needs admin", http.MethodPatch, "/jobs/1", "", http.StatusForbidden},
		{"job delete as admin", http.MethodDelete, "/jobs/1", admin, http.StatusOK},

		{"user list needs admin", http.MethodGet, "/users", alice, http.StatusForbidden},
		{"user list as admin", http.MethodGet, "/users", admin, http.StatusOK},
		{"user detail as self", http.MethodGet, "/users/alice", alice, http.StatusOK},
		{"user detail as other", http.MethodGet, "/users/alice", token(t, "bob", false), http.StatusForbidden},
		{"user detail as admin", http.MethodGet, "/users/alice", admin, http.StatusOK},
		{"user delete as self", http.MethodDelete, "/users/alice", alice, http.StatusOK},
		{"apply as other user", http.MethodPost, "/users/alice/jobs/1", token(t, "bob", false), http.StatusForbidden},
		{"apply as self", http.MethodPost, "/users/alice/jobs/1", alice, http.StatusCreated},

		{"admin overview anonymous", http.MethodGet, "/admin/overview", "", http.StatusForbidden},
		{"admin overview non-admin", http.MethodGet, "/admin/overview", alice, http.StatusForbidden},

		{"token route rejects empty body", http.MethodPost, "/auth/token", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := request(t, app, tt.method, tt.path, tt.token)
			if resp.StatusCode != tt.want {
				t.Fatalf("%s %s status = %d, want %d", tt.method, tt.path, resp.StatusCode, tt.want)
			}
		})
	}
}
