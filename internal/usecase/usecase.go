package usecase

import (
	"context"
	"time"

	"volunteer-attendance/internal/repository"
	"volunteer-attendance/internal/usecase/domain"

	"go.uber.org/zap"
)

// InterfaceUsecase aggregates all usecase interfaces.
type InterfaceUsecase interface {
	PersonUsecaseInterface
	DepartmentUsecaseInterface
	TeamUsecaseInterface
	InvitationUsecaseInterface
	AttendanceUsecaseInterface
}

// New constructs a new usecase layer with its dependencies.
func New(
	log *zap.SugaredLogger,
	ctx context.Context,
	repo repository.Repository,
	timeout time.Duration,
	dayLocation *time.Location,
	joinCodeLength int,
) InterfaceUsecase {
	return domain.New(log, ctx, repo, timeout, dayLocation, joinCodeLength)
}
