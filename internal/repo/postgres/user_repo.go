package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SilverAnton/UserIteractionProj/internal/domain/model"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

type NewUser struct {
	Avatar       string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Gender       string
	Latitude     *float64
	Longitude    *float64
}

// ListFilter mirrors the listing query parameters. Nil pointer means
// the filter is absent. Order accepts "asc", "desc" or empty for the
// storage's natural order.
type ListFilter struct {
	Gender  *string
	Name    *string
	Surname *string
	Order   string
}

func (r *UserRepo) Create(ctx context.Context, u NewUser) (model.User, error) {
	if r.pool == nil {
		return model.User{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(u.Email) == "" || u.PasswordHash == "" {
		return model.User{}, fmt.Errorf("invalid user payload")
	}

	var created model.User
	err := r.pool.QueryRow(ctx, `
INSERT INTO users (avatar, first_name, last_name, email, password, gender, latitude, longitude, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
RETURNING id, COALESCE(avatar, ''), first_name, last_name, email, password, gender, latitude, longitude, created_at
`, nullableString(u.Avatar), u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Gender, u.Latitude, u.Longitude).Scan(
		&created.ID,
		&created.Avatar,
		&created.FirstName,
		&created.LastName,
		&created.Email,
		&created.PasswordHash,
		&created.Gender,
		&created.Latitude,
		&created.Longitude,
		&created.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.User{}, ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}

	return created, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (model.User, error) {
	if r.pool == nil {
		return model.User{}, fmt.Errorf("postgres pool is nil")
	}
	if id <= 0 {
		return model.User{}, ErrUserNotFound
	}

	var u model.User
	err := r.pool.QueryRow(ctx, `
SELECT id, COALESCE(avatar, ''), first_name, last_name, email, password, gender, latitude, longitude, created_at
FROM users
WHERE id = $1
`, id).Scan(
		&u.ID, &u.Avatar, &u.FirstName, &u.LastName, &u.Email,
		&u.PasswordHash, &u.Gender, &u.Latitude, &u.Longitude, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("get user by id: %w", err)
	}

	return u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	if r.pool == nil {
		return model.User{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(email) == "" {
		return model.User{}, ErrUserNotFound
	}

	var u model.User
	err := r.pool.QueryRow(ctx, `
SELECT id, COALESCE(avatar, ''), first_name, last_name, email, password, gender, latitude, longitude, created_at
FROM users
WHERE email = $1
`, email).Scan(
		&u.ID, &u.Avatar, &u.FirstName, &u.LastName, &u.Email,
		&u.PasswordHash, &u.Gender, &u.Latitude, &u.Longitude, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("get user by email: %w", err)
	}

	return u, nil
}

func (r *UserRepo) Exists(ctx context.Context, id int64) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}
	if id <= 0 {
		return false, nil
	}

	var one int
	err := r.pool.QueryRow(ctx, `SELECT 1 FROM users WHERE id = $1`, id).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check user exists: %w", err)
	}

	return true, nil
}

// List applies the gender/name/surname filters in SQL. The distance
// filter is applied in-process by the caller because it depends on the
// requester's coordinates.
func (r *UserRepo) List(ctx context.Context, f ListFilter) ([]model.User, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	query := `
SELECT id, COALESCE(avatar, ''), first_name, last_name, email, password, gender, latitude, longitude, created_at
FROM users
WHERE
	($1::boolean = FALSE OR gender = $2)
	AND ($3::boolean = FALSE OR first_name ILIKE '%' || $4 || '%')
	AND ($5::boolean = FALSE OR last_name ILIKE '%' || $6 || '%')
`
	switch strings.ToLower(strings.TrimSpace(f.Order)) {
	case "asc":
		query += "ORDER BY created_at ASC\n"
	case "desc":
		query += "ORDER BY created_at DESC\n"
	}

	rows, err := r.pool.Query(ctx, query,
		f.Gender != nil, stringOrEmpty(f.Gender),
		f.Name != nil, stringOrEmpty(f.Name),
		f.Surname != nil, stringOrEmpty(f.Surname),
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.ID, &u.Avatar, &u.FirstName, &u.LastName, &u.Email,
			&u.PasswordHash, &u.Gender, &u.Latitude, &u.Longitude, &u.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate user rows: %w", rows.Err())
	}

	return users, nil
}

func nullableString(v string) *string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}

func stringOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
