package rememberme

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tech-arch1tect/persistauth/config"
	"github.com/tech-arch1tect/persistauth/crypto"
	"github.com/tech-arch1tect/persistauth/services/logging"
	"go.uber.org/zap"
)

var (
	ErrRememberMeDisabled = errors.New("remember me functionality is disabled")
	ErrUserProviderNotSet = errors.New("remember me user provider is not configured")
)

const unknownValue = "unknown"

// IssuedToken pairs the raw token (cookie value, never persisted) with its
// stored record.
type IssuedToken struct {
	Raw    string
	Record *RememberMeToken
}

// Identity is the outcome of a successful verification.
type Identity struct {
	UserID uint
	User   any
	Token  *RememberMeToken
}

// Service owns the remember-me token lifecycle. It holds no mutable state of
// its own; the store is the serialization point, so every method is safe to
// call from concurrent request handlers.
type Service struct {
	config  *config.RememberMeConfig
	store   TokenStore
	users   UserProvider
	logger  *logging.Service
	cookies CookieOptions
	now     func() time.Time
}

func NewService(cfg *config.RememberMeConfig, store TokenStore, users UserProvider, logger *logging.Service) *Service {
	return &Service{
		config:  cfg,
		store:   store,
		users:   users,
		logger:  logger,
		cookies: CookieOptionsFromConfig(cfg),
		now:     time.Now,
	}
}

func (s *Service) Enabled() bool {
	return s.config.Enabled
}

func (s *Service) Expiry() time.Duration {
	return s.config.Expiry
}

// Create issues a new token for userID. The returned raw value is the caller's
// to bind as a cookie; on any failure no raw token is returned and no cookie
// must be set.
func (s *Service) Create(userID uint, r *http.Request, deviceName string) (*IssuedToken, error) {
	if !s.config.Enabled {
		s.logger.Warn("remember me token creation attempted but feature is disabled",
			zap.Uint("user_id", userID))
		return nil, ErrRememberMeDisabled
	}

	raw, err := crypto.GenerateTokenWithLength(s.config.TokenLength)
	if err != nil {
		s.logger.Error("failed to generate remember me token",
			zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}

	userAgent, ipAddress := requestProvenance(r)
	if deviceName == "" {
		deviceName = FormatDeviceName(userAgent)
	}

	now := s.now()
	rec := &RememberMeToken{
		TokenID:    uuid.NewString(),
		UserID:     userID,
		TokenHash:  crypto.HashToken(raw),
		IssuedAt:   now,
		ExpiresAt:  now.Add(s.config.Expiry),
		DeviceName: deviceName,
		UserAgent:  userAgent,
		IPAddress:  ipAddress,
	}

	if err := s.store.Insert(rec); err != nil {
		s.logger.Error("failed to persist remember me token",
			zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("remember me token created",
		zap.Uint("user_id", userID),
		zap.String("token_id", rec.TokenID),
		zap.String("device_name", rec.DeviceName),
		zap.Time("expires_at", rec.ExpiresAt))

	return &IssuedToken{Raw: raw, Record: rec}, nil
}

// Verify resolves a raw token to an identity, or nil for anything that is not
// a live token: empty input, unknown digest, expired, revoked, orphaned user.
// Internal failures are logged and downgraded to nil; this boundary never
// surfaces an error into request handling.
func (s *Service) Verify(rawToken string) *Identity {
	if rawToken == "" || !s.config.Enabled {
		return nil
	}

	hash := crypto.HashToken(rawToken)

	rec, err := s.store.FindByHash(hash)
	if err != nil {
		s.logger.Error("remember me token lookup failed", zap.Error(err))
		return nil
	}
	if rec == nil {
		s.logger.Debug("unknown remember me token presented")
		return nil
	}

	now := s.now()

	if now.After(rec.ExpiresAt) {
		s.expire(rec)
		return nil
	}

	revoked, ok := s.revokedByEpoch(rec)
	if !ok {
		return nil
	}
	if revoked {
		s.logger.Info("remember me token invalidated by bulk revocation",
			zap.Uint("user_id", rec.UserID), zap.String("token_id", rec.TokenID))
		if err := s.store.DeleteByHash(rec.TokenHash); err != nil {
			s.logger.Warn("failed to delete bulk-revoked remember me token", zap.Error(err))
		}
		return nil
	}

	if err := s.store.TouchLastUsed(hash, now); err != nil {
		// Best-effort: a stale last_used_at must not fail verification.
		s.logger.Warn("failed to update remember me last used timestamp",
			zap.Uint("user_id", rec.UserID), zap.Error(err))
	} else {
		rec.LastUsedAt = &now
	}

	if s.users == nil {
		s.logger.Error("remember me verification failed", zap.Error(ErrUserProviderNotSet))
		return nil
	}

	user, err := s.users.GetUser(rec.UserID)
	if err != nil || user == nil {
		s.logger.Warn("remember me token user not found",
			zap.Uint("user_id", rec.UserID), zap.Error(err))
		return nil
	}

	s.logger.Debug("remember me token verified",
		zap.Uint("user_id", rec.UserID), zap.String("token_id", rec.TokenID))

	return &Identity{UserID: rec.UserID, User: user, Token: rec}
}

// expire is the ACTIVE -> EXPIRED transition, detected lazily on read. The
// cleanup delete is idempotent and its failure only delays removal.
func (s *Service) expire(rec *RememberMeToken) {
	s.logger.Info("remember me token expired",
		zap.Uint("user_id", rec.UserID),
		zap.String("token_id", rec.TokenID),
		zap.Time("expired_at", rec.ExpiresAt))

	if err := s.store.DeleteByHash(rec.TokenHash); err != nil {
		s.logger.Warn("failed to delete expired remember me token", zap.Error(err))
	}
}

// revokedByEpoch reports whether rec was issued at or before the user's last
// bulk revocation. The second return is false when the epoch could not be
// read, which downgrades verification to absent.
func (s *Service) revokedByEpoch(rec *RememberMeToken) (revoked bool, ok bool) {
	epoch, err := s.store.RevocationEpoch(rec.UserID)
	if err != nil {
		s.logger.Error("failed to read revocation epoch",
			zap.Uint("user_id", rec.UserID), zap.Error(err))
		return false, false
	}
	if epoch.IsZero() {
		return false, true
	}
	return !rec.IssuedAt.After(epoch), true
}

// Revoke deletes the record matching the raw token. Revoking an unknown or
// already-revoked token is not an error; store failures propagate.
func (s *Service) Revoke(rawToken string) error {
	if rawToken == "" {
		return nil
	}

	if err := s.store.DeleteByHash(crypto.HashToken(rawToken)); err != nil {
		s.logger.Error("failed to revoke remember me token", zap.Error(err))
		return err
	}

	s.logger.Info("remember me token revoked")
	return nil
}

// RevokeAllForUser kills every live token for the user. The revocation epoch
// is written before the bulk delete: a token whose row survives the racing
// delete still fails verification because it was issued before the epoch,
// while a create that starts after the epoch write legitimately survives.
func (s *Service) RevokeAllForUser(userID uint) error {
	if err := s.store.SetRevocationEpoch(userID, s.now()); err != nil {
		s.logger.Error("failed to record revocation epoch",
			zap.Uint("user_id", userID), zap.Error(err))
		return err
	}

	if err := s.store.DeleteAllForUser(userID); err != nil {
		s.logger.Error("failed to revoke remember me tokens",
			zap.Uint("user_id", userID), zap.Error(err))
		return err
	}

	s.logger.Info("all remember me tokens revoked", zap.Uint("user_id", userID))
	return nil
}

// ListDevices returns the user's live tokens for a device-management surface.
// Rows orphaned by a raced bulk delete are filtered out by the epoch.
func (s *Service) ListDevices(userID uint) ([]RememberMeToken, error) {
	recs, err := s.store.ListForUser(userID)
	if err != nil {
		return nil, err
	}

	epoch, err := s.store.RevocationEpoch(userID)
	if err != nil {
		return nil, err
	}
	if epoch.IsZero() {
		return recs, nil
	}

	live := recs[:0]
	for _, rec := range recs {
		if rec.IssuedAt.After(epoch) {
			live = append(live, rec)
		}
	}
	return live, nil
}

// RevokeByTokenID revokes a single device by its public token id. Unknown ids
// are not an error.
func (s *Service) RevokeByTokenID(userID uint, tokenID string) error {
	rec, err := s.store.FindByTokenID(userID, tokenID)
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}

	if err := s.store.DeleteByHash(rec.TokenHash); err != nil {
		s.logger.Error("failed to revoke remember me token",
			zap.Uint("user_id", userID), zap.String("token_id", tokenID), zap.Error(err))
		return err
	}

	s.logger.Info("remember me token revoked",
		zap.Uint("user_id", userID), zap.String("token_id", tokenID))
	return nil
}

// requestProvenance captures best-effort user agent and client address at
// issuance. The first forwarded-for entry wins, then the transport peer, then
// the literal "unknown".
func requestProvenance(r *http.Request) (userAgent, ipAddress string) {
	userAgent = unknownValue
	ipAddress = unknownValue

	if r == nil {
		return userAgent, ipAddress
	}

	if ua := r.UserAgent(); ua != "" {
		userAgent = ua
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first, _, found := strings.Cut(forwarded, ","); found || first != "" {
			if addr := strings.TrimSpace(first); addr != "" {
				return userAgent, addr
			}
		}
	}

	if r.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
			return userAgent, host
		}
		return userAgent, r.RemoteAddr
	}

	return userAgent, ipAddress
}
