package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(handler.metrics))

	registerAPIRoutes(app, handler)
	app.Use(handler.NotFound)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.Logout)
	auth.Get("/me", handler.AuthRequired, handler.Me)

	cycles := api.Group("/cycles", handler.AuthRequired)
	cycles.Get("", handler.ListCycles)
	cycles.Post("", handler.CreateCycle)
	cycles.Get("/stream", handler.StreamCycles)
	cycles.Get("/:id", handler.GetCycle)
	cycles.Put("/:id", handler.UpdateCycle)
	cycles.Delete("/:id", handler.DeleteCycle)

	api.Get("/calendar", handler.AuthRequired, handler.GetCalendar)
	api.Get("/stats", handler.AuthRequired, handler.GetStats)
	api.Get("/prediction", handler.AuthRequired, handler.GetPrediction)

	settings := api.Group("/settings", handler.AuthRequired)
	settings.Put("/telegram", handler.UpdateTelegramSettings)
	settings.Put("/password", handler.ChangePassword)
	settings.Post("/clear-data", handler.ClearData)
	settings.Delete("/account", handler.DeleteAccount)

	export := api.Group("/export", handler.AuthRequired)
	export.Get("/summary", handler.ExportSummary)
	export.Get("/csv", handler.ExportCSV)
	export.Get("/json", handler.ExportJSON)
}
