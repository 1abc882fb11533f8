package listing

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/SilverAnton/UserIteractionProj/internal/domain/model"
	pgrepo "github.com/SilverAnton/UserIteractionProj/internal/repo/postgres"
	"github.com/SilverAnton/UserIteractionProj/internal/services/geo"
)

var (
	ErrValidation          = errors.New("validation error")
	ErrRequesterNotFound   = errors.New("requester not found")
	ErrRequesterNoLocation = errors.New("requester has no coordinates")
)

const (
	OrderNone = ""
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// absent marks an unset filter inside the cache key material so that
// "no filter" and an empty-string filter hash differently.
const absent = "none"

type Filters struct {
	Gender     *string
	Name       *string
	Surname    *string
	DistanceKM *float64
	Order      string
}

type UserStore interface {
	GetByID(ctx context.Context, id int64) (model.User, error)
	List(ctx context.Context, filter pgrepo.ListFilter) ([]model.User, error)
}

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte) error
}

type Service struct {
	users  UserStore
	cache  Cache
	logger *zap.Logger
}

type Dependencies struct {
	Users  UserStore
	Cache  Cache
	Logger *zap.Logger
}

func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		users:  deps.Users,
		cache:  deps.Cache,
		logger: logger,
	}
}

// userView is the wire shape of one listing entry. The service owns the
// encoding because cached payloads are served back byte for byte.
type userView struct {
	ID        int64     `json:"id"`
	Avatar    string    `json:"avatar"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Gender    string    `json:"gender"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
}

// ListUsers returns the encoded listing for the given filter set. A
// cache hit is returned exactly as stored; distances are not
// recomputed for cached payloads.
func (s *Service) ListUsers(ctx context.Context, requesterID int64, filters Filters) ([]byte, error) {
	if requesterID <= 0 {
		return nil, ErrValidation
	}
	switch filters.Order {
	case OrderNone, OrderAsc, OrderDesc:
	default:
		return nil, ErrValidation
	}
	if filters.DistanceKM != nil && *filters.DistanceKM < 0 {
		return nil, ErrValidation
	}
	if s.users == nil {
		return nil, fmt.Errorf("listing dependencies are not configured")
	}

	var requester model.User
	if filters.DistanceKM != nil {
		var err error
		requester, err = s.users.GetByID(ctx, requesterID)
		if err != nil {
			if errors.Is(err, pgrepo.ErrUserNotFound) {
				return nil, ErrRequesterNotFound
			}
			return nil, fmt.Errorf("load requester: %w", err)
		}
		if !requester.HasCoordinates() {
			return nil, ErrRequesterNoLocation
		}
	}

	key := cacheKey(filters, requester)

	if s.cache != nil {
		payload, hit, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("listing cache read failed", zap.Error(err))
		} else if hit {
			return payload, nil
		}
	}

	users, err := s.users.List(ctx, pgrepo.ListFilter{
		Gender:  filters.Gender,
		Name:    filters.Name,
		Surname: filters.Surname,
		Order:   filters.Order,
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	views := make([]userView, 0, len(users))
	for _, user := range users {
		if filters.DistanceKM != nil {
			if !user.HasCoordinates() {
				continue
			}
			distance := geo.DistanceKM(
				*requester.Latitude, *requester.Longitude,
				*user.Latitude, *user.Longitude,
			)
			if distance > *filters.DistanceKM {
				continue
			}
		}
		views = append(views, userView{
			ID:        user.ID,
			Avatar:    user.Avatar,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
			Gender:    user.Gender,
			Latitude:  user.Latitude,
			Longitude: user.Longitude,
			CreatedAt: user.CreatedAt,
		})
	}

	payload, err := json.Marshal(views)
	if err != nil {
		return nil, fmt.Errorf("encode listing: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, payload); err != nil {
			s.logger.Warn("listing cache write failed", zap.Error(err))
		}
	}

	return payload, nil
}

// cacheKey digests the filter values. The requester's coordinates join
// the material only when a distance filter is present, so distance
// results are never shared across requesters standing in different
// places while plain filter queries still share one entry.
func cacheKey(filters Filters, requester model.User) string {
	parts := []string{
		stringOrAbsent(filters.Gender),
		stringOrAbsent(filters.Name),
		stringOrAbsent(filters.Surname),
		floatOrAbsent(filters.DistanceKM),
		orderOrAbsent(filters.Order),
	}
	if filters.DistanceKM != nil {
		parts = append(parts,
			floatOrAbsent(requester.Latitude),
			floatOrAbsent(requester.Longitude),
		)
	}

	sum := md5.Sum([]byte(strings.Join(parts, "_")))
	return hex.EncodeToString(sum[:])
}

func stringOrAbsent(value *string) string {
	if value == nil {
		return absent
	}
	return *value
}

func floatOrAbsent(value *float64) string {
	if value == nil {
		return absent
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

func orderOrAbsent(order string) string {
	if order == OrderNone {
		return absent
	}
	return order
}
