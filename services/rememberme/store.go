package rememberme

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrPersistence marks store write failures so callers can distinguish "the
// durable guarantee did not take effect" from lookup misses.
var ErrPersistence = errors.New("remember me store operation failed")

// TokenStore is the persistence contract the service requires. Lookups that
// find nothing return (nil, nil); deletes are idempotent.
type TokenStore interface {
	Insert(rec *RememberMeToken) error
	FindByHash(hash string) (*RememberMeToken, error)
	FindByTokenID(userID uint, tokenID string) (*RememberMeToken, error)
	ListForUser(userID uint) ([]RememberMeToken, error)
	TouchLastUsed(hash string, at time.Time) error
	DeleteByHash(hash string) error
	DeleteAllForUser(userID uint) error
	RevocationEpoch(userID uint) (time.Time, error)
	SetRevocationEpoch(userID uint, at time.Time) error
}

// UserProvider resolves the opaque user record a verified token points at.
type UserProvider interface {
	GetUser(userID uint) (any, error)
}

type gormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) TokenStore {
	return &gormStore{db: db}
}

func (s *gormStore) Insert(rec *RememberMeToken) error {
	if err := s.db.Create(rec).Error; err != nil {
		return fmt.Errorf("%w: insert: %v", ErrPersistence, err)
	}
	return nil
}

func (s *gormStore) FindByHash(hash string) (*RememberMeToken, error) {
	var rec RememberMeToken
	if err := s.db.Where("token_hash = ?", hash).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: find by hash: %v", ErrPersistence, err)
	}
	return &rec, nil
}

func (s *gormStore) FindByTokenID(userID uint, tokenID string) (*RememberMeToken, error) {
	var rec RememberMeToken
	if err := s.db.Where("user_id = ? AND token_id = ?", userID, tokenID).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: find by token id: %v", ErrPersistence, err)
	}
	return &rec, nil
}

func (s *gormStore) ListForUser(userID uint) ([]RememberMeToken, error) {
	var recs []RememberMeToken
	err := s.db.Where("user_id = ? AND expires_at > ?", userID, time.Now()).
		Order("issued_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list for user: %v", ErrPersistence, err)
	}
	return recs, nil
}

func (s *gormStore) TouchLastUsed(hash string, at time.Time) error {
	err := s.db.Model(&RememberMeToken{}).
		Where("token_hash = ?", hash).
		Update("last_used_at", at).Error
	if err != nil {
		return fmt.Errorf("%w: touch last used: %v", ErrPersistence, err)
	}
	return nil
}

func (s *gormStore) DeleteByHash(hash string) error {
	err := s.db.Unscoped().Where("token_hash = ?", hash).Delete(&RememberMeToken{}).Error
	if err != nil {
		return fmt.Errorf("%w: delete by hash: %v", ErrPersistence, err)
	}
	return nil
}

func (s *gormStore) DeleteAllForUser(userID uint) error {
	err := s.db.Unscoped().Where("user_id = ?", userID).Delete(&RememberMeToken{}).Error
	if err != nil {
		return fmt.Errorf("%w: delete all for user: %v", ErrPersistence, err)
	}
	return nil
}

func (s *gormStore) RevocationEpoch(userID uint) (time.Time, error) {
	var epoch RevocationEpoch
	if err := s.db.Where("user_id = ?", userID).First(&epoch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("%w: revocation epoch: %v", ErrPersistence, err)
	}
	return epoch.RevokedAt, nil
}

func (s *gormStore) SetRevocationEpoch(userID uint, at time.Time) error {
	epoch := RevocationEpoch{UserID: userID, RevokedAt: at}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"revoked_at", "updated_at"}),
	}).Create(&epoch).Error
	if err != nil {
		return fmt.Errorf("%w: set revocation epoch: %v", ErrPersistence, err)
	}
	return nil
}
