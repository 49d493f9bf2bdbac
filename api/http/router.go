package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/apvclinic/apv/api/http/handlers"
)

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App, vet *handlers.VeterinarioHandler, health *handlers.HealthHandler, authMW fiber.Handler) {
	// Health and readiness endpoints for probes/monitoring
	app.Get("/health", health.Health)
	app.Get("/ready", health.Ready)

	v := app.Group("/api/veterinarios")

	// Public identity lifecycle
	v.Post("/", vet.Register)
	v.Get("/confirmar/:token", vet.Confirm)
	v.Post("/login", vet.Login)
	v.Post("/olvide-password", vet.ForgotPassword)
	v.Get("/olvide-password/:token", vet.CheckResetToken)
	v.Post("/olvide-password/:token", vet.ResetPassword)

	// Protected routes; actualizar-password must be registered before
	// the :id wildcard so the static segment wins.
	v.Get("/perfil", authMW, vet.Profile)
	v.Put("/actualizar-password", authMW, vet.ChangePassword)
	v.Put("/:id", authMW, vet.UpdateProfile)
}
