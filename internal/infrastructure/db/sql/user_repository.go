package sql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/portal/user-accounts/internal/core/domain"
)

const (
	usernameIndex = "idx_users_username"
	emailIndex    = "idx_users_email"

	mysqlDuplicateEntry = 1062
	pgUniqueViolation   = "23505"
)

type userRecord struct {
	ID           string    `gorm:"type:varchar(36);primaryKey"`
	Username     string    `gorm:"type:varchar(100);uniqueIndex:idx_users_username;not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex:idx_users_email;not null"`
	FullName     string    `gorm:"type:varchar(255);not null;default:''"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(16);not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (userRecord) TableName() string {
	return "users"
}

// UserRepository is the gorm-backed ports.UserRepository.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// EnsureIndexes migrates the users table together with its unique indexes.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&userRecord{})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var rec userRecord
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&rec).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, domain.ErrUserNotFound
	case err != nil:
		return nil, fmt.Errorf("find user: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *UserRepository) exists(ctx context.Context, query string, arg string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userRecord{}).Where(query, arg).Limit(1).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return count > 0, nil
}

func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		rec := fromDomain(user)
		rec.ID = uuid.NewString()
		if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
			return classifyWriteError("insert user", err)
		}
		user.ID = rec.ID
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&userRecord{}).Where("id = ?", user.ID).Updates(updateColumns(user))
		if res.Error != nil {
			return classifyWriteError("update user", res.Error)
		}
		if res.RowsAffected > 0 {
			return nil
		}
		// MySQL reports zero affected rows when nothing changed, so confirm
		// the row exists before calling it missing.
		var count int64
		if err := tx.Model(&userRecord{}).Where("id = ?", user.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		if count == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
}

// updateColumns lists the mutable columns. updated_at comes from the caller
// so every store keeps the service's clock.
func updateColumns(u *domain.User) map[string]any {
	return map[string]any{
		"email":         u.Email,
		"full_name":     u.FullName,
		"password_hash": u.PasswordHash,
		"role":          string(u.Role),
		"updated_at":    u.UpdatedAt,
	}
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	var recs []userRecord
	if err := r.db.WithContext(ctx).Order("username").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]*domain.User, len(recs))
	for i := range recs {
		out[i] = recs[i].toDomain()
	}
	return out, nil
}

// Ping reports whether the database answers.
func (r *UserRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// classifyWriteError maps unique violations from either driver onto the
// violated index.
func classifyWriteError(op string, err error) error {
	index, dup := duplicateIndex(err)
	if !dup {
		return fmt.Errorf("%s: %w", op, err)
	}
	switch {
	case strings.Contains(index, usernameIndex):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrConflict, domain.ErrUsernameTaken)
	case strings.Contains(index, emailIndex):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrConflict, domain.ErrEmailRegistered)
	default:
		return fmt.Errorf("%s: %w", op, domain.ErrConflict)
	}
}

// duplicateIndex reports whether err is a unique violation and, when the
// driver exposes it, the text naming the offending index.
func duplicateIndex(err error) (string, bool) {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return mysqlErr.Message, true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName, true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return err.Error(), true
	}
	return "", false
}

func fromDomain(u *domain.User) userRecord {
	return userRecord{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FullName:     u.FullName,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (rec userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:           rec.ID,
		Username:     rec.Username,
		Email:        rec.Email,
		FullName:     rec.FullName,
		PasswordHash: rec.PasswordHash,
		Role:         domain.Role(rec.Role),
		CreatedAt:    rec.CreatedAt.UTC(),
		UpdatedAt:    rec.UpdatedAt.UTC(),
	}
}
