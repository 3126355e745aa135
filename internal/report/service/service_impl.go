package service

import (
	reportdomain "github.com/armoniahq/armonia/internal/report/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	reportTitle   = "Consolidated Financial Report"
	dateLayout    = "2006-01-02"
	failedRowNote = "unavailable"
)

type Service struct {
	log *zap.Logger
}

type ServiceParam struct {
	fx.In

	Log *zap.Logger
}

func NewService(p ServiceParam) reportdomain.Service {
	return &Service{
		log: p.Log.Named("report.service"),
	}
}
