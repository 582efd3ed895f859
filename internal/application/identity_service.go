package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/crateyy/internal/domain/entity"
	repo "github.com/oksasatya/crateyy/internal/domain/repository"
	"github.com/oksasatya/crateyy/pkg/helpers"
)

type IdentityService struct {
	Repo     repo.UserRepository
	Verifier CredentialVerifier
	JWT      *helpers.JWTManager
	Redis    *redis.Client
	Notifier *Notifier
	Logger   *logrus.Logger

	AllowAdminSignup bool
}

// Session is the signed access token handed to the browser as a cookie.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

func NewIdentityService(r repo.UserRepository, verifier CredentialVerifier, jwt *helpers.JWTManager, rdb *redis.Client, notifier *Notifier, logger *logrus.Logger) *IdentityService {
	if verifier == nil {
		verifier = BcryptVerifier{}
	}
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &IdentityService{
		Repo:     r,
		Verifier: verifier,
		JWT:      jwt,
		Redis:    rdb,
		Notifier: notifier,
		Logger:   logger,
	}
}

// FindByCredentials returns the user whose email and password match.
// Accounts without a password (Google only) never match.
func (s *IdentityService) FindByCredentials(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storageErr("get user by email", err)
	}
	ok, rehash := s.Verifier.Verify(u.Password, password)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if rehash {
		s.upgradePassword(ctx, u, password)
	}
	return u, nil
}

func (s *IdentityService) upgradePassword(ctx context.Context, u *entity.User, plain string) {
	hash, err := s.Verifier.Hash(plain)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("rehash password failed")
		return
	}
	if err := s.Repo.UpdatePassword(ctx, u.ID, hash); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("store upgraded password failed")
		return
	}
	u.Password = hash
	s.Logger.WithField("user_id", u.ID).Info("legacy password upgraded to bcrypt")
}

// Login checks credentials and, when role is given, that the account has it.
func (s *IdentityService) Login(ctx context.Context, email, password, role string) (*entity.User, error) {
	u, err := s.FindByCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if role != "" && entity.Role(role) != u.Role {
		return nil, ErrRoleMismatch
	}
	return u, nil
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Register creates a local account. Duplicate emails fail with ErrEmailTaken.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	role := entity.Role(in.Role)
	if role == "" {
		role = entity.RoleCustomer
	}
	if !role.Valid() {
		return nil, &ValidationError{Fields: map[string]string{"role": "must be one of: customer, admin"}}
	}
	if role == entity.RoleAdmin && !s.AllowAdminSignup {
		return nil, ErrAdminSignup
	}
	hash, err := s.Verifier.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    normalizeEmail(in.Email),
		Password: hash,
		Role:     role,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, storageErr("create user", err)
	}
	s.Notifier.Welcome(ctx, u)
	return u, nil
}

// FindOrLinkExternal resolves a federated login: by external id, then by
// email (attaching the external id), then by creating a customer. An email
// match already linked to another external id fails with ErrAccountLinked.
func (s *IdentityService) FindOrLinkExternal(ctx context.Context, ext entity.ExternalIdentity) (*entity.User, error) {
	u, err := s.Repo.GetByGoogleID(ctx, ext.Subject)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repo.ErrUserNotFound) {
		return nil, storageErr("get user by google id", err)
	}

	email := normalizeEmail(ext.Email)
	u, err = s.Repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if u.GoogleID != "" && u.GoogleID != ext.Subject {
			s.Logger.WithField("user_id", u.ID).Warn("refusing to relink google account")
			return nil, ErrAccountLinked
		}
		if err := s.Repo.LinkGoogleID(ctx, u.ID, ext.Subject); err != nil {
			return nil, storageErr("link google id", err)
		}
		u.GoogleID = ext.Subject
		s.Logger.WithField("user_id", u.ID).Info("linked google account to existing user")
		return u, nil
	case !errors.Is(err, repo.ErrUserNotFound):
		return nil, storageErr("get user by email", err)
	}

	name := strings.TrimSpace(ext.Name)
	if name == "" {
		name = email
	}
	u = &entity.User{
		Name:     name,
		Email:    email,
		GoogleID: ext.Subject,
		Role:     entity.RoleCustomer,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, storageErr("create user", err)
	}
	s.Notifier.Welcome(ctx, u)
	return u, nil
}

func (s *IdentityService) FindByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storageErr("get user", err)
	}
	return u, nil
}

// StartSession signs an access token and records the session in Redis.
// Logging in again replaces the previous session id, ending older sessions.
func (s *IdentityService) StartSession(ctx context.Context, u *entity.User) (Session, error) {
	sid := uuid.NewString()
	token, exp, err := s.JWT.GenerateAccessToken(u.ID, sid, string(u.Role))
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		return Session{}, err
	}

	if s.Redis != nil {
		rec := helpers.SessionRecord{UserID: u.ID, Email: u.Email, Name: u.Name, Role: string(u.Role), SessionID: sid}
		if rErr := helpers.SaveSession(ctx, s.Redis, rec, time.Until(exp)); rErr != nil {
			s.Logger.WithError(rErr).WithField("user_id", u.ID).Warn("save session failed")
		}
	}
	return Session{Token: token, ExpiresAt: exp}, nil
}

// EndSession drops the Redis session; the cookie is cleared by the caller.
func (s *IdentityService) EndSession(ctx context.Context, userID string) {
	if s.Redis == nil || userID == "" {
		return
	}
	if err := helpers.DropSession(ctx, s.Redis, userID); err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("delete session failed")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
