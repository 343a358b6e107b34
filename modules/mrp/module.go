package mrp

import (
	"embed"

	"github.com/steiner385/MachShop-sub013/modules/mrp/handlers"
	"github.com/steiner385/MachShop-sub013/modules/mrp/infrastructure/persistence"
	"github.com/steiner385/MachShop-sub013/modules/mrp/services"
	"github.com/steiner385/MachShop-sub013/pkg/application"
	"github.com/steiner385/MachShop-sub013/pkg/configuration"
	"github.com/steiner385/MachShop-sub013/pkg/outbox"
)

//go:embed infrastructure/persistence/schema/mrp-schema.sql
var migrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()
	app.Migrations().RegisterSchema(&migrationFiles)
	app.RegisterServices(
		services.NewMRPRunService(
			persistence.NewSnapshotRepository(),
			persistence.NewRunRepository(),
			outbox.NewPublisher(),
			services.RunServiceOptions{
				MaxBOMDepth:        conf.MRP.MaxBOMDepth,
				DefaultHorizonDays: conf.MRP.DefaultHorizonDays,
			},
		),
		services.NewPlannedOrderService(
			persistence.NewPlannedOrderRepository(),
			outbox.NewPublisher(),
		),
	)
	handlers.RegisterMRPEventHandlers(app)
	return nil
}

func (m *Module) Name() string {
	return "mrp"
}
