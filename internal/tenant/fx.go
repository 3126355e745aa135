package tenant

import (
	"github.com/armoniahq/armonia/internal/tenant/repository"
	"github.com/armoniahq/armonia/internal/tenant/service"
	"github.com/armoniahq/armonia/internal/tenant/store"
	"go.uber.org/fx"
)

var Module = fx.Module("tenant.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
	fx.Provide(store.NewManager),
	fx.Provide(func(m *store.Manager) store.Provider { return m }),
)
