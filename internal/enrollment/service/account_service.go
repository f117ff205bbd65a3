package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/learnsphere/enrollment-service/config"
	"github.com/learnsphere/enrollment-service/internal/enrollment/domain"
	"github.com/learnsphere/enrollment-service/internal/enrollment/dto"
	apperrors "github.com/learnsphere/enrollment-service/internal/errors"
)

type AccountService struct {
	repo         domain.AccountRepository
	tokenService TokenGenerator
	cfg          *config.Config
	logger       *zap.Logger
}

func NewAccountService(repo domain.AccountRepository, tokenService TokenGenerator, cfg *config.Config,
	logger *zap.Logger) *AccountService {
	return &AccountService{
		repo:         repo,
		tokenService: tokenService,
		cfg:          cfg,
		logger:       logger,
	}
}

// Signup creates an unverified, pending account and returns the one-time
// verification token. Delivering the token (mail) is the caller's concern.
func (s *AccountService) Signup(ctx context.Context, input dto.SignupInput) (*domain.Account, string, error) {
	kind := domain.AccountKind(input.Kind)
	if kind != domain.KindStudent && kind != domain.KindTeacher {
		return nil, "", apperrors.ErrInvalidAccountKind
	}

	existing, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", apperrors.ErrEmailAlreadyInUse
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()

	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Kind:         kind,
		Verified:     false,
		Approval:     domain.ApprovalPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, "", err
	}

	verificationToken, err := s.tokenService.NewOpaqueToken()
	if err != nil {
		return nil, "", err
	}
	if err := s.repo.SetVerificationToken(ctx, account.ID, verificationToken); err != nil {
		return nil, "", err
	}

	return account, verificationToken, nil
}

// EnsureAdmin seeds the configured admin account on startup. Admins cannot
// be created through signup; the seeded account is the only way an admin
// token is ever issued. Existing accounts with the email are left untouched.
func (s *AccountService) EnsureAdmin(ctx context.Context, email, password string) error {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now()

	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Kind:         domain.KindAdmin,
		Verified:     true,
		Approval:     domain.ApprovalApproved,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return err
	}

	s.logger.Info("admin account seeded", zap.String("email", email))

	return nil
}

// ActiveAccount resolves an account by ID and rejects banned ones. The auth
// middleware calls it on every request so a ban takes effect immediately,
// not at access-token expiry.
func (s *AccountService) ActiveAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperrors.ErrNotFound
	}
	if account.Approval == domain.ApprovalBanned {
		return nil, apperrors.ErrAccountBanned
	}
	return account, nil
}

// VerifyEmail consumes a one-time verification token. Unknown tokens and
// already verified accounts both report not found.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) error {
	ok, err := s.repo.ConsumeVerificationToken(ctx, token)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrNotFound
	}
	return nil
}

// RequestVerification issues a fresh verification token for an account that
// has not yet verified its email.
func (s *AccountService) RequestVerification(ctx context.Context, email string) (string, error) {
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if account == nil || account.Verified {
		return "", apperrors.ErrNotFound
	}

	token, err := s.tokenService.NewOpaqueToken()
	if err != nil {
		return "", err
	}
	if err := s.repo.SetVerificationToken(ctx, account.ID, token); err != nil {
		return "", err
	}

	return token, nil
}

func (s *AccountService) Login(ctx context.Context, input dto.LoginInput) (*dto.TokenResponse, error) {
	account, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}

	if account == nil || bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !account.Verified {
		return nil, apperrors.ErrEmailNotVerified
	}

	if account.Approval == domain.ApprovalBanned {
		return nil, apperrors.ErrAccountBanned
	}

	accessToken, _, err := s.tokenService.Generate(account.ID, string(account.Kind))
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokenService.NewOpaqueToken()
	if err != nil {
		return nil, err
	}

	// Rotation on issue: the stored value is replaced, so any previously
	// issued refresh token stops redeeming.
	if err := s.repo.SetRefreshToken(ctx, account.ID, &refreshToken); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokenService.GetAccessTokenExpiry().Seconds()),
	}, nil
}

// Refresh redeems the presented refresh token and rotates it. The swap is a
// conditional write keyed on the presented value, so a concurrent rotation
// makes the slower caller fail instead of resurrecting a stale token.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	account, err := s.repo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperrors.ErrRefreshTokenInvalid
	}

	if account.Approval == domain.ApprovalBanned {
		return nil, apperrors.ErrAccountBanned
	}

	next, err := s.tokenService.NewOpaqueToken()
	if err != nil {
		return nil, err
	}

	swapped, err := s.repo.SwapRefreshToken(ctx, account.ID, refreshToken, next)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, apperrors.ErrRefreshTokenInvalid
	}

	accessToken, _, err := s.tokenService.Generate(account.ID, string(account.Kind))
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: next,
		ExpiresIn:    int64(s.tokenService.GetAccessTokenExpiry().Seconds()),
	}, nil
}

func (s *AccountService) Logout(ctx context.Context, accountID string) error {
	return s.repo.SetRefreshToken(ctx, accountID, nil)
}

// RequestReset issues a time-bound password reset token, overwriting any
// prior one for the account.
func (s *AccountService) RequestReset(ctx context.Context, email string) (*dto.ForgotPasswordOutput, error) {
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperrors.ErrNotFound
	}

	token, err := s.tokenService.NewOpaqueToken()
	if err != nil {
		return nil, err
	}

	expiry := time.Now().Add(time.Duration(s.cfg.ResetExpiryMin) * time.Minute)
	if err := s.repo.SetResetToken(ctx, account.ID, token, expiry); err != nil {
		return nil, err
	}

	return &dto.ForgotPasswordOutput{ResetToken: token, ExpiresAt: expiry}, nil
}

// ResetPassword consumes a reset token. The credential update and the token
// clearing happen in one guarded write so the token cannot be replayed.
func (s *AccountService) ResetPassword(ctx context.Context, input dto.ResetPasswordInput) error {
	account, err := s.repo.GetByResetToken(ctx, input.Token)
	if err != nil {
		return err
	}
	if account == nil || account.ResetExpiry == nil {
		return apperrors.ErrResetTokenInvalid
	}

	now := time.Now()
	if !now.Before(*account.ResetExpiry) {
		return apperrors.ErrResetTokenExpired
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	ok, err := s.repo.ConsumeResetToken(ctx, input.Token, string(hashedPassword), now)
	if err != nil {
		return err
	}
	if !ok {
		// Lost a race with another consumption or with expiry.
		return apperrors.ErrResetTokenInvalid
	}

	s.logger.Info("password reset", zap.String("account_id", account.ID))

	return nil
}

// SetApproval moves the account through the admission state machine.
func (s *AccountService) SetApproval(ctx context.Context, accountID string, state domain.ApprovalState) error {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account == nil {
		return apperrors.ErrNotFound
	}

	if !account.Approval.CanTransition(state) {
		return apperrors.ErrInvalidTransition
	}

	if err := s.repo.SetApproval(ctx, accountID, state); err != nil {
		return err
	}

	s.logger.Info("approval state changed",
		zap.String("account_id", accountID),
		zap.String("from", string(account.Approval)),
		zap.String("to", string(state)))

	return nil
}
