package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/storefront-api/internal/domains/identity/domain"
	identityports "github.com/Apurer/storefront-api/internal/domains/identity/ports"
)

// SessionStore persists sessions in PostgreSQL. The actor is snapshotted at sign-in.
type SessionStore struct {
	db *gorm.DB
}

// NewSessionStore wires a PostgreSQL-backed session store. Caller owns DB lifecycle.
func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db}
}

type sessionRecord struct {
	Token       string     `gorm:"primaryKey;column:token;size:512"`
	AccountID   int64      `gorm:"column:account_id;index"`
	AccountKind string     `gorm:"column:account_kind"`
	RoleID      int        `gorm:"column:role_id"`
	Email       string     `gorm:"column:email"`
	DisplayName string     `gorm:"column:display_name"`
	ExpiresAt   *time.Time `gorm:"column:expires_at;index"`
	CreatedAt   time.Time  `gorm:"column:created_at;index"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (sessionRecord) TableName() string { return "user_sessions" }

// Save upserts a session keyed by token.
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if session == nil || strings.TrimSpace(session.Token) == "" {
		return errors.New("session token is required")
	}
	rec := sessionRecord{
		Token:       session.Token,
		AccountID:   session.Actor.ID,
		AccountKind: string(session.Actor.Kind),
		RoleID:      int(session.Actor.Role),
		Email:       session.Actor.Email,
		DisplayName: session.Actor.DisplayName,
		CreatedAt:   session.CreatedAt,
	}
	if !session.ExpiresAt.IsZero() {
		expiry := session.ExpiresAt
		rec.ExpiresAt = &expiry
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"account_id", "account_kind", "role_id", "email", "display_name", "expires_at", "updated_at"}),
		}).
		Create(&rec).Error
}

// Get loads a session by token.
func (s *SessionStore) Get(ctx context.Context, token string) (*domain.Session, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var rec sessionRecord
	if err := s.db.WithContext(ctx).First(&rec, "token = ?", strings.TrimSpace(token)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identityports.ErrSessionNotFound
		}
		return nil, err
	}
	session := &domain.Session{
		Token: rec.Token,
		Actor: domain.Actor{
			ID:          rec.AccountID,
			Kind:        domain.AccountKind(rec.AccountKind),
			Role:        domain.Role(rec.RoleID),
			Email:       rec.Email,
			DisplayName: rec.DisplayName,
		},
		CreatedAt: rec.CreatedAt,
	}
	if rec.ExpiresAt != nil {
		session.ExpiresAt = *rec.ExpiresAt
	}
	return session, nil
}

// Delete removes a session by token.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&sessionRecord{}, "token = ?", token).Error
}

// PurgeExpired removes all sessions expired at now. Use for housekeeping or cron.
func (s *SessionStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	result := s.db.WithContext(ctx).Where("expires_at IS NOT NULL AND expires_at <= ?", now).Delete(&sessionRecord{})
	return result.RowsAffected, result.Error
}

func (s *SessionStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres session store not configured")
	}
	return nil
}

var (
	_ identityports.SessionStore  = (*SessionStore)(nil)
	_ identityports.SessionPurger = (*SessionStore)(nil)
)
