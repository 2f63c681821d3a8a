package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gerardoh13/jobly/internal/admin"
	"github.com/gerardoh13/jobly/internal/auth"
	"github.com/gerardoh13/jobly/internal/companies"
	handlers "github.com/gerardoh13/jobly/internal/http"
	"github.com/gerardoh13/jobly/internal/jobs"
	"github.com/gerardoh13/jobly/internal/users"
)

type Router struct {
	AuthHandler      *handlers.AuthHandler
	CompaniesHandler *companies.Handler
	JobsHandler      *jobs.Handler
	UsersHandler     *users.Handler
	AdminHandler     *admin.Handler
}

// RegisterRoutes attaches every route with its guards. Authenticate runs
// globally (wired in main) before any of these, so guards only decide
// whether the attached identity is enough.
func (r *Router) RegisterRoutes(app *fiber.App) {
	authLimit := RateLimitAuth()
	app.Post("/auth/token", authLimit, r.AuthHandler.Token)
	app.Post("/auth/register", authLimit, r.AuthHandler.Register)

	writeLimit := RateLimitWrite()

	app.Post("/companies", auth.RequireAdmin, writeLimit, r.CompaniesHandler.CreateCompany)
	app.Get("/companies", r.CompaniesHandler.ListCompanies)
	app.Get("/companies/:handle", r.CompaniesHandler.GetCompany)
	app.Patch("/companies/:handle", auth.RequireAdmin, writeLimit, r.CompaniesHandler.UpdateCompany)
	app.Delete("/companies/:handle", auth.RequireAdmin, writeLimit, r.CompaniesHandler.DeleteCompany)

	app.Post("/jobs", auth.RequireAdmin, writeLimit, r.JobsHandler.CreateJob)
	app.Get("/jobs", r.JobsHandler.ListJobs)
	app.Get("/jobs/:id", r.JobsHandler.GetJob)
	app.Patch("/jobs/:id", auth.RequireAdmin, writeLimit, r.JobsHandler.UpdateJob)
	app.Delete("/jobs/:id", auth.RequireAdmin, writeLimit, r.JobsHandler.DeleteJob)

	app.Post("/users", auth.RequireAdmin, writeLimit, r.UsersHandler.CreateUser)
	app.Get("/users", auth.RequireAdmin, r.UsersHandler.ListUsers)
	app.Get("/users/:username", auth.RequireAdminOrSelf("username"), r.UsersHandler.GetUser)
	app.Patch("/users/:username", auth.RequireAdminOrSelf("username"), writeLimit, r.UsersHandler.UpdateUser)
	app.Delete("/users/:username", auth.RequireAdminOrSelf("username"), writeLimit, r.UsersHandler.DeleteUser)
	app.Post("/users/:username/jobs/:id", auth.RequireAdminOrSelf("username"), writeLimit, r.UsersHandler.ApplyToJob)

	app.Get("/admin/overview", auth.RequireAdmin, r.AdminHandler.Overview)
}
