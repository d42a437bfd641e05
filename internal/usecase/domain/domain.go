package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"volunteer-attendance/internal/entities"
	"volunteer-attendance/internal/repository"
	"volunteer-attendance/pkg/codegen"

	"go.uber.org/zap"
)

// Usecase struct implements all usecase interfaces.
type Usecase struct {
	ctx         context.Context
	log         *zap.SugaredLogger
	repo        repository.Repository
	timeout     time.Duration
	dayLocation *time.Location
	now         func() time.Time
	scanCode    func() string
	joinCode    func() string
}

// New constructs a new usecase layer with its dependencies.
// dayLocation is the zone whose calendar date keys attendance records.
func New(
	log *zap.SugaredLogger,
	ctx context.Context,
	repo repository.Repository,
	timeout time.Duration,
	dayLocation *time.Location,
	joinCodeLength int,
) *Usecase {
	if dayLocation == nil {
		dayLocation = time.UTC
	}
	return &Usecase{
		ctx:         ctx,
		log:         log.Named("usecase"),
		repo:        repo,
		timeout:     timeout,
		dayLocation: dayLocation,
		now:         time.Now,
		scanCode:    codegen.ScanCode,
		joinCode:    codegen.JoinCodes(joinCodeLength),
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// actor loads the authenticated caller. The stored role wins over whatever the
// identity token claimed.
func (u *Usecase) actor(ctx context.Context, actorID string) (entities.Actor, error) {
	if actorID == "" {
		return entities.Actor{}, fmt.Errorf("%w: actor is required", entities.ErrInvalidArgument)
	}
	actor, err := u.repo.GetActor(ctx, actorID)
	if err != nil {
		if errors.Is(err, entities.ErrPersonNotFound) {
			u.log.Warnw("unknown actor", "actor_id", actorID)
			return entities.Actor{}, entities.ErrNoPermission
		}
		return entities.Actor{}, err
	}
	if !actor.IsApproved {
		return entities.Actor{}, entities.ErrNotApproved
	}
	return actor, nil
}

func required(field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", entities.ErrInvalidArgument, field)
	}
	return nil
}
