package modules

import (
	"github.com/steiner385/MachShop-sub013/modules/mrp"
	"github.com/steiner385/MachShop-sub013/pkg/application"
)

var BuiltInModules = []application.Module{
	mrp.NewModule(),
}

// Load registers the built-in modules followed by any external ones.
func Load(app application.Application, externalModules ...application.Module) error {
	if err := application.RegisterModules(app, BuiltInModules...); err != nil {
		return err
	}
	return application.RegisterModules(app, externalModules...)
}
