package main

import (
	"context"
	"fmt"
	"log"

	common_api "github.com/periljames/amo-portal-sub002/internal/common/api"
	"github.com/periljames/amo-portal-sub002/internal/config"
	"github.com/periljames/amo-portal-sub002/internal/database"
	"github.com/periljames/amo-portal-sub002/internal/features/housekeeping"
	"github.com/periljames/amo-portal-sub002/internal/features/importcommit"
	"github.com/periljames/amo-portal-sub002/internal/features/preview"
	"github.com/periljames/amo-portal-sub002/internal/features/report"
	"github.com/periljames/amo-portal-sub002/internal/features/snapshot"
	"github.com/periljames/amo-portal-sub002/internal/features/system"
	"github.com/periljames/amo-portal-sub002/internal/features/template"
	"github.com/periljames/amo-portal-sub002/internal/logger"
	"github.com/periljames/amo-portal-sub002/internal/metrics"
	"github.com/periljames/amo-portal-sub002/internal/middleware"
	"github.com/periljames/amo-portal-sub002/internal/providers"
	"github.com/periljames/amo-portal-sub002/pkg/utils"

	_ "github.com/periljames/amo-portal-sub002/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             64 * 1024 * 1024, // spreadsheet uploads
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Use custom CORS middleware
	app.Use(middleware.CORSMiddleware())

	// Extract the X-AMO-Operator tenant header
	app.Use(middleware.OperatorMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for _, route := range routes {
		route.Setup(app)
	}
	log.Println("All routes registered successfully")
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// StartJanitor wires the housekeeping sweeper into the app lifecycle
func StartJanitor(lc fx.Lifecycle, janitor *housekeeping.Janitor) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return janitor.Start()
		},
		OnStop: func(ctx context.Context) error {
			janitor.Stop()
			return nil
		},
	})
}

// @title           AMO Portal Import API
// @version         1.0
// @description     Bulk import reconciliation, commit, and undo/redo engine for aviation maintenance master data.

// @host            localhost:8080
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Metrics, events, outbound services
			metrics.NewRegistry,
			system.NewEventsHub,
			providers.NewPreviewProvider,
			providers.NewImportProvider,

			// Repositories
			template.NewTemplateRepository,
			importcommit.NewBatchRepository,

			// Services
			preview.NewSessionStore,
			preview.NewPreviewService,
			template.NewTemplateService,
			importcommit.NewCommitService,
			snapshot.NewSnapshotService,
			report.NewReportService,
			housekeeping.NewJanitor,

			// Controllers
			preview.NewPreviewController,
			template.NewTemplateController,
			importcommit.NewCommitController,
			snapshot.NewSnapshotController,
			report.NewReportController,
			system.NewWebSocketController,

			// API Routes
			AsRoute(preview.NewPreviewApi),
			AsRoute(template.NewTemplateApi),
			AsRoute(importcommit.NewCommitApi),
			AsRoute(snapshot.NewSnapshotApi),
			AsRoute(report.NewReportApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewMetricsApi),
			AsRoute(system.NewSwaggerApi),
			AsRoute(system.NewWebSocketApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) {
				utils.SetSecret(cfg.JWTSecret)
			},
			RegisterAllRoutesWithAnnotation,
			StartServer,
			StartJanitor,
		),
	)

	app.Run()
}
