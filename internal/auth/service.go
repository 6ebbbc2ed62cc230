package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/users"
	pkgAuth "github.com/angelmondragon/storefront-backend/pkg/auth"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
)

// Service defines the behavior needed by the auth controller.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Result, error)
	Login(ctx context.Context, req LoginRequest) (*Result, error)
	Logout(ctx context.Context, sessionID string) error
	CurrentUser(ctx context.Context, userID uint64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uint64, in users.UpdateProfileInput) (*models.User, error)
}

type userService interface {
	Register(ctx context.Context, in users.RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetByID(ctx context.Context, id uint64) (*models.User, error)
	UpdateProfile(ctx context.Context, id uint64, in users.UpdateProfileInput) (*models.User, error)
}

type sessionManager interface {
	Create(ctx context.Context, userID uint64) (string, error)
	Destroy(ctx context.Context, sessionID string) error
}

type service struct {
	users      userService
	session    sessionManager
	sessionCfg config.SessionConfig
	metrics    *metrics.StorefrontMetrics
	now        func() time.Time
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Users          userService
	SessionManager sessionManager
	SessionConfig  config.SessionConfig
	Metrics        *metrics.StorefrontMetrics
	Now            func() time.Time
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user service is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		users:      params.Users,
		session:    params.SessionManager,
		sessionCfg: params.SessionConfig,
		metrics:    params.Metrics,
		now:        now,
	}, nil
}

// Register creates the account and logs it in straight away.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*Result, error) {
	user, err := s.users.Register(ctx, users.RegisterInput{
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
	})
	if err != nil {
		s.metrics.IncAuthAttempt(metrics.AuthActionRegister, outcomeFor(err))
		return nil, err
	}
	res, err := s.openSession(ctx, user)
	if err != nil {
		s.metrics.IncAuthAttempt(metrics.AuthActionRegister, metrics.OutcomeError)
		return nil, err
	}
	s.metrics.IncAuthAttempt(metrics.AuthActionRegister, metrics.OutcomeSuccess)
	return res, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*Result, error) {
	user, err := s.users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		s.metrics.IncAuthAttempt(metrics.AuthActionLogin, outcomeFor(err))
		return nil, err
	}
	res, err := s.openSession(ctx, user)
	if err != nil {
		s.metrics.IncAuthAttempt(metrics.AuthActionLogin, metrics.OutcomeError)
		return nil, err
	}
	s.metrics.IncAuthAttempt(metrics.AuthActionLogin, metrics.OutcomeSuccess)
	return res, nil
}

// Logout drops the session binding. Unknown or empty ids are fine.
func (s *service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.session.Destroy(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "destroy session")
	}
	return nil
}

func (s *service) CurrentUser(ctx context.Context, userID uint64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "not authenticated")
		}
		return nil, err
	}
	return user, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uint64, in users.UpdateProfileInput) (*models.User, error) {
	return s.users.UpdateProfile(ctx, userID, in)
}

func (s *service) openSession(ctx context.Context, user *models.User) (*Result, error) {
	sessionID, err := s.session.Create(ctx, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}
	now := s.now().UTC()
	token, err := pkgAuth.MintSessionToken(s.sessionCfg, now, sessionID)
	if err != nil {
		_ = s.session.Destroy(ctx, sessionID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token")
	}
	return &Result{
		User:      user,
		SessionID: sessionID,
		Token:     token,
		ExpiresAt: now.Add(s.sessionCfg.TTL),
	}, nil
}

func outcomeFor(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return metrics.OutcomeError
	}
	switch typed.Code() {
	case pkgerrors.CodeInternal, pkgerrors.CodeDependency:
		return metrics.OutcomeError
	}
	return metrics.OutcomeRejected
}
