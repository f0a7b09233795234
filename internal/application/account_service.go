package application

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/bloodlink/bloodlink-backend/internal/authz"
	"github.com/bloodlink/bloodlink-backend/internal/domain/entity"
	repo "github.com/bloodlink/bloodlink-backend/internal/domain/repository"
	"github.com/bloodlink/bloodlink-backend/internal/referencedata"
	"github.com/bloodlink/bloodlink-backend/pkg/apperr"
	"github.com/bloodlink/bloodlink-backend/pkg/helpers"
	"github.com/bloodlink/bloodlink-backend/pkg/mailer"
)

// AccountService orchestrates registration, login sessions, and account
// management. Redis, GCS, and the queue are optional collaborators.
type AccountService struct {
	Accounts  repo.AccountRepository
	JWT       *helpers.JWTManager
	Redis     *redis.Client
	GCS       *storage.Client
	GCSBucket string
	Queue     JobQueue
	Logger    *logrus.Logger
}

func NewAccountService(accounts repo.AccountRepository, jwt *helpers.JWTManager, rdb *redis.Client, gcs *storage.Client, gcsBucket string, queue JobQueue, logger *logrus.Logger) *AccountService {
	return &AccountService{
		Accounts:  accounts,
		JWT:       jwt,
		Redis:     rdb,
		GCS:       gcs,
		GCSBucket: gcsBucket,
		Queue:     queue,
		Logger:    logger,
	}
}

// TokenPair is one login session's access/refresh tokens.
type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

type RegisterInput struct {
	Email      string
	Password   string
	Name       string
	Phone      string
	BloodGroup string
	District   string
	Upazila    string
	PhotoURL   string
}

// Register creates a donor account. Exactly one account may exist per email;
// a second registration for the same address fails AlreadyExists.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*entity.Account, error) {
	if in.BloodGroup != "" && !referencedata.ValidBloodGroup(in.BloodGroup) {
		return nil, apperr.New(apperr.Invalid, "unknown blood group %q", in.BloodGroup)
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "hash password")
	}
	a := &entity.Account{
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: hash,
		Name:         in.Name,
		Phone:        in.Phone,
		BloodGroup:   in.BloodGroup,
		District:     in.District,
		Upazila:      in.Upazila,
		PhotoURL:     in.PhotoURL,
		Role:         entity.RoleDonor,
		Status:       entity.AccountActive,
	}
	if err := s.Accounts.Insert(ctx, a); err != nil {
		return nil, err
	}
	s.enqueue(ctx, mailer.EmailJob{
		To:       a.Email,
		Subject:  "Welcome to BloodLink",
		Template: mailer.TemplateWelcome,
		Data:     map[string]any{"Name": a.Name},
	})
	return a, nil
}

// Login validates credentials and opens a Redis-backed session. Blocked
// accounts may still sign in; blocking only gates new donation requests.
func (s *AccountService) Login(ctx context.Context, email, password string) (*entity.Account, TokenPair, error) {
	a, err := s.Accounts.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil || a == nil {
		return nil, TokenPair{}, apperr.New(apperr.Unauthenticated, "invalid credentials")
	}
	if !helpers.CompareHashAndPassword(a.PasswordHash, password) {
		return nil, TokenPair{}, apperr.New(apperr.Unauthenticated, "invalid credentials")
	}
	pair, err := s.issueTokens(ctx, a)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return a, pair, nil
}

func (s *AccountService) issueTokens(ctx context.Context, a *entity.Account) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(a.Email, sid)
	if err != nil {
		return TokenPair{}, apperr.Wrap(err, apperr.Internal, "generate access token")
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(a.Email, sid)
	if err != nil {
		return TokenPair{}, apperr.Wrap(err, apperr.Internal, "generate refresh token")
	}

	if s.Redis != nil {
		key := helpers.SessionKey(a.Email)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"email":      a.Email,
			"name":       a.Name,
			"role":       string(a.Role),
			"sid":        sid,
			"created_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis session write failed")
		}
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Refresh rotates the session id and token pair. The refresh token's sid must
// match the live session.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, apperr.New(apperr.Unauthenticated, "invalid refresh token")
	}
	a, err := s.Accounts.GetByEmail(ctx, claims.Email)
	if err != nil || a == nil {
		return TokenPair{}, apperr.New(apperr.Unauthenticated, "invalid refresh token")
	}
	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, helpers.SessionKey(a.Email)).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, apperr.New(apperr.Unauthenticated, "session expired")
		}
	}
	return s.issueTokens(ctx, a)
}

// Logout drops the live session.
func (s *AccountService) Logout(ctx context.Context, email string) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Del(ctx, helpers.SessionKey(email)).Err()
}

// Caller loads the account behind a resolved identity.
func (s *AccountService) Caller(ctx context.Context, email string) (*entity.Account, error) {
	return loadCaller(ctx, s.Accounts, email)
}

// GetRole returns the caller's role; clients use it to choose a dashboard.
func (s *AccountService) GetRole(ctx context.Context, callerEmail string) (entity.Role, error) {
	caller, err := loadCaller(ctx, s.Accounts, callerEmail)
	if err != nil {
		return "", err
	}
	return caller.Role, nil
}

// Get returns one account. Owners see themselves; admins see anyone.
func (s *AccountService) Get(ctx context.Context, callerEmail, id string) (*entity.Account, error) {
	caller, err := loadCaller(ctx, s.Accounts, callerEmail)
	if err != nil {
		return nil, err
	}
	a, err := s.Accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Decide(caller, authz.OwnerOrAdmin, a.Email); err != nil {
		return nil, err
	}
	return a, nil
}

// List pages through all accounts. Admin only.
func (s *AccountService) List(ctx context.Context, callerEmail string, f repo.AccountFilter, p repo.Page) ([]*entity.Account, int, error) {
	caller, err := loadCaller(ctx, s.Accounts, callerEmail)
	if err != nil {
		return nil, 0, err
	}
	if err := authz.Decide(caller, authz.AdminOnly, ""); err != nil {
		return nil, 0, err
	}
	return s.Accounts.List(ctx, f, p)
}

// UpdateProfile applies the owner allow-list patch to an account. Email,
// role, and status are not representable in the patch.
func (s *AccountService) UpdateProfile(ctx context.Context, callerEmail, id string, patch entity.ProfilePatch) (*entity.Account, error) {
	caller, err := loadCaller(ctx, s.Accounts, callerEmail)
	if err != nil {
		return nil, err
	}
	a, err := s.Accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Decide(caller, authz.OwnerOrAdmin, a.Email); err != nil {
		return nil, err
	}
	if patch.BloodGroup != nil && !referencedata.ValidBloodGroup(*patch.BloodGroup) {
		return nil, apperr.New(apperr.Invalid, "unknown blood group %q", *patch.BloodGroup)
	}
	patch.Apply(a)
	a.UpdatedAt = time.Now().UTC()
	if err := s.Accounts.Update(ctx, a); err != nil {
		return nil, err
	}
	s.refreshSession(ctx, a)
	return a, nil
}

// UploadPhoto stores a profile photo in GCS and records its public URL on the
// caller's own account.
func (s *AccountService) UploadPhoto(ctx context.Context, callerEmail string, r io.Reader, filename, contentType string) (string, error) {
	caller, err := loadCaller(ctx, s.Accounts, callerEmail)
	if err != nil {
		return "", err
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", apperr.New(apperr.Unavailable, "photo storage not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("photos", caller.ID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", apperr.Wrap(err, apperr.Unavailable, "photo upload failed")
	}
	caller.PhotoURL = url
	caller.UpdatedAt = time.Now().UTC()
	if err := s.Accounts.Update(ctx, caller); err != nil {
		return "", err
	}
	s.refreshSession(ctx, caller)
	return url, nil
}

// UpdateRole promotes or demotes an account. Admin only.
func (s *AccountService) UpdateRole(ctx context.Context, callerEmail, id string, role entity.Role) (*entity.Account, error) {
	caller, err := loadCaller(ctx, s.Accounts, callerEmail)
	if err != nil {
		return nil, err
	}
	if err := authz.Decide(caller, authz.AdminOnly, ""); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, apperr.New(apperr.Invalid, "unknown role %q", role)
	}
	a, err := s.Accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Role = role
	a.UpdatedAt = time.Now().UTC()
	if err := s.Accounts.Update(ctx, a); err != nil {
		return nil, err
	}
	s.refreshSession(ctx, a)
	return a, nil
}

// UpdateStatus blocks or unblocks an account. Admin only; the target is
// notified by email.
func (s *AccountService) UpdateStatus(ctx context.Context, callerEmail, id string, status entity.AccountStatus) (*entity.Account, error) {
	caller, err := loadCaller(ctx, s.Accounts, callerEmail)
	if err != nil {
		return nil, err
	}
	if err := authz.Decide(caller, authz.AdminOnly, ""); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperr.New(apperr.Invalid, "unknown status %q", status)
	}
	a, err := s.Accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Status = status
	a.UpdatedAt = time.Now().UTC()
	if err := s.Accounts.Update(ctx, a); err != nil {
		return nil, err
	}
	s.enqueue(ctx, mailer.EmailJob{
		To:       a.Email,
		Subject:  "Your BloodLink account status changed",
		Template: mailer.TemplateAccountBlocked,
		Data:     map[string]any{"Name": a.Name, "Status": string(a.Status)},
	})
	return a, nil
}

// SearchDonors is the public donor directory: active donors only, filtered by
// blood group and location.
func (s *AccountService) SearchDonors(ctx context.Context, f repo.DonorFilter) ([]*entity.Account, error) {
	if f.BloodGroup != "" && !referencedata.ValidBloodGroup(f.BloodGroup) {
		return nil, apperr.New(apperr.Invalid, "unknown blood group %q", f.BloodGroup)
	}
	return s.Accounts.SearchDonors(ctx, f)
}

func (s *AccountService) refreshSession(ctx context.Context, a *entity.Account) {
	if s.Redis == nil {
		return
	}
	key := helpers.SessionKey(a.Email)
	err := s.Redis.HSet(ctx, key, map[string]any{
		"name":       a.Name,
		"role":       string(a.Role),
		"updated_at": nowRFC3339(),
	}).Err()
	if err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("key", key).Warn("redis session refresh failed")
	}
}

func (s *AccountService) enqueue(ctx context.Context, job mailer.EmailJob) {
	if s.Queue == nil {
		return
	}
	if err := s.Queue.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("to", job.To).Warn("email job publish failed")
	}
}
