package usecase

import (
	"context"
	"time"

	"github.com/Aadyothcoding/ece-project-connect/internal/repository"
	"github.com/Aadyothcoding/ece-project-connect/internal/usecase/domain"

	"go.uber.org/zap"
)

// InterfaceUsecase aggregates all usecase interfaces.
type InterfaceUsecase interface {
	ApplicationUsecaseInterface
	ConsentUsecaseInterface
	VisibilityUsecaseInterface
	DecisionUsecaseInterface
	TeamUsecaseInterface
	NotificationUsecaseInterface
	StatsUsecaseInterface
	RetentionUsecaseInterface
}

// New constructs a new usecase layer with its dependencies.
func New(log *zap.SugaredLogger, ctx context.Context, repo repository.Repository, timeout time.Duration, opts ...domain.Option) InterfaceUsecase {
	return domain.New(log, ctx, repo, timeout, opts...)
}
