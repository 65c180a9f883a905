package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "taskapi/docs"
	"taskapi/internal/http/middleware"
	"taskapi/internal/service"
)

// Services bundles the use cases the HTTP layer exposes.
type Services struct {
	Auth         service.AuthService
	Projects     service.ProjectService
	ProjectUsers service.ProjectUserService
	Tasks        service.TaskService
	Attachments  service.AttachmentService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// requireAuth guards every route except health, metrics, swagger, signup and login.
// metrics may be nil to skip the /metrics endpoint.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc Services, requireAuth fiber.Handler, metrics prometheus.Gatherer) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	if metrics != nil {
		app.Get(middleware.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(metrics, promhttp.HandlerOpts{})))
	}

	// docs.SwaggerInfo keeps host and schemes empty so the UI targets whatever
	// host and scheme served it.
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Post("/signup", Signup(svc.Auth))
	app.Post("/login", Login(svc.Auth))

	app.Post("/logout", requireAuth, Logout(svc.Auth))
	app.Get("/me", requireAuth, Me(svc.Auth))

	projects := app.Group("/projects", requireAuth)
	projects.Post("/", CreateProject(svc.Projects))
	projects.Get("/", ListProjects(svc.Projects))
	projects.Get("/:id", GetProject(svc.Projects))

	projects.Get("/:id/project-users", ListProjectUsers(svc.ProjectUsers))
	projects.Post("/:id/project-users", CreateProjectUser(svc.ProjectUsers))
	projects.Patch("/:id/project-users", UpdateProjectUsers(svc.ProjectUsers))
	projects.Delete("/:id/project-users", DeleteProjectUsers(svc.ProjectUsers))

	projects.Get("/:id/tasks", ListTasks(svc.Tasks))
	projects.Post("/:id/tasks", CreateTask(svc.Tasks))
	projects.Delete("/:id/tasks", DeleteTasks(svc.Tasks))
	projects.Patch("/:projectId/tasks/:taskId", UpdateTask(svc.Tasks))

	attachments := projects.Group("/:projectId/tasks/:taskId/attachments")
	attachments.Post("/", UploadAttachment(svc.Attachments))
	attachments.Get("/", ListAttachments(svc.Attachments))
	attachments.Get("/:attachmentId", GetAttachment(svc.Attachments))
	attachments.Get("/:attachmentId/content", DownloadAttachment(svc.Attachments))
	attachments.Delete("/:attachmentId", DeleteAttachment(svc.Attachments))

	app.Get("/tasks/:id/project", requireAuth, GetTaskProject(svc.Projects))
}
