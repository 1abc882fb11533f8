package matches

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/SilverAnton/UserIteractionProj/internal/domain/model"
	pgrepo "github.com/SilverAnton/UserIteractionProj/internal/repo/postgres"
)

const likeWindow = 24 * time.Hour

var (
	ErrValidation     = errors.New("validation error")
	ErrTargetNotFound = errors.New("target user not found")
	ErrDailyLimit     = errors.New("daily likes limit reached")
)

// TooFastError reports a burst-limiter block with a retry hint.
type TooFastError struct {
	RetryAfterSec int64
}

func (e TooFastError) Error() string {
	return "too fast"
}

func (e TooFastError) RetryAfter() int64 {
	if e.RetryAfterSec <= 0 {
		return 1
	}
	return e.RetryAfterSec
}

func IsTooFast(err error) (*TooFastError, bool) {
	var tf TooFastError
	if errors.As(err, &tf) {
		return &tf, true
	}
	return nil, false
}

type Outcome string

const (
	OutcomeLiked       Outcome = "liked"
	OutcomeMutualMatch Outcome = "mutual_match"
)

type UserStore interface {
	GetByID(ctx context.Context, id int64) (model.User, error)
}

type LikeStore interface {
	CountRecentBySource(ctx context.Context, fromUserID int64, since time.Time) (int, error)
	Exists(ctx context.Context, fromUserID, targetUserID int64) (bool, error)
	Create(ctx context.Context, fromUserID, targetUserID int64, createdAt time.Time) (model.LikeEdge, error)
}

// Notifier delivers best-effort mail; SubmitLike never fails because of it.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

type BurstLimiter interface {
	Enabled() bool
	AllowLike(ctx context.Context, userID int64) (int64, bool, error)
}

type Config struct {
	LikesPerDay int
}

type Service struct {
	users    UserStore
	likes    LikeStore
	notifier Notifier
	limiter  BurstLimiter
	logger   *zap.Logger
	cfg      Config
	now      func() time.Time
}

type Dependencies struct {
	Users    UserStore
	Likes    LikeStore
	Notifier Notifier
	Limiter  BurstLimiter
	Logger   *zap.Logger
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.LikesPerDay <= 0 {
		cfg.LikesPerDay = 5
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		users:    deps.Users,
		likes:    deps.Likes,
		notifier: deps.Notifier,
		limiter:  deps.Limiter,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
}

// SubmitLike records interest of actor in target.
//
// The sequence is count, reverse lookup, insert; the steps are not
// wrapped in one transaction, so two concurrent submissions from the
// same actor near the daily cap can both pass the count check. That
// window is accepted: the cap is a soft product limit, not an
// accounting invariant.
func (s *Service) SubmitLike(ctx context.Context, actorID, targetID int64) (Outcome, error) {
	if actorID <= 0 || targetID <= 0 {
		return "", ErrValidation
	}
	if s.users == nil || s.likes == nil {
		return "", fmt.Errorf("match dependencies are not configured")
	}

	if s.limiter != nil && s.limiter.Enabled() {
		retryAfter, allowed, err := s.limiter.AllowLike(ctx, actorID)
		if err != nil {
			return "", fmt.Errorf("apply burst limiter: %w", err)
		}
		if !allowed {
			return "", TooFastError{RetryAfterSec: retryAfter}
		}
	}

	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return "", fmt.Errorf("load actor: %w", err)
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return "", ErrTargetNotFound
		}
		return "", fmt.Errorf("load target: %w", err)
	}

	now := s.now().UTC()

	recent, err := s.likes.CountRecentBySource(ctx, actorID, now.Add(-likeWindow))
	if err != nil {
		return "", fmt.Errorf("count recent likes: %w", err)
	}
	if recent >= s.cfg.LikesPerDay {
		return "", ErrDailyLimit
	}

	reciprocal, err := s.likes.Exists(ctx, targetID, actorID)
	if err != nil {
		return "", fmt.Errorf("check reciprocal like: %w", err)
	}

	if reciprocal {
		s.notifyMutualMatch(ctx, actor, target)
		return OutcomeMutualMatch, nil
	}

	if _, err := s.likes.Create(ctx, actorID, targetID, now); err != nil {
		return "", fmt.Errorf("create like edge: %w", err)
	}

	return OutcomeLiked, nil
}

// notifyMutualMatch emails both participants. Failures are logged and
// swallowed: the match state must not depend on mail transport.
func (s *Service) notifyMutualMatch(ctx context.Context, actor, target model.User) {
	if s.notifier == nil {
		return
	}

	const subject = "It's a mutual match!"

	actorBody := fmt.Sprintf("You matched with %s! You can reach them at %s", target.FirstName, target.Email)
	if err := s.notifier.Send(ctx, actor.Email, subject, actorBody); err != nil {
		s.logger.Warn("mutual match notification failed",
			zap.Int64("user_id", actor.ID),
			zap.Error(err),
		)
	}

	targetBody := fmt.Sprintf("You matched with %s! You can reach them at %s", actor.FirstName, actor.Email)
	if err := s.notifier.Send(ctx, target.Email, subject, targetBody); err != nil {
		s.logger.Warn("mutual match notification failed",
			zap.Int64("user_id", target.ID),
			zap.Error(err),
		)
	}
}
