package portfolio

import (
	"github.com/armoniahq/armonia/internal/portfolio/service"
	"go.uber.org/fx"
)

var Module = fx.Module("portfolio.service",
	fx.Provide(service.NewService),
)
