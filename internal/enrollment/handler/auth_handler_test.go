package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/learnsphere/enrollment-service/config"
	"github.com/learnsphere/enrollment-service/internal/enrollment/domain"
	"github.com/learnsphere/enrollment-service/internal/enrollment/dto"
	"github.com/learnsphere/enrollment-service/internal/enrollment/handler"
	"github.com/learnsphere/enrollment-service/internal/enrollment/service"
	"github.com/learnsphere/enrollment-service/internal/mocks"
)

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	return req
}

func TestSignupHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockAccountRepository(ctrl)
	mockTokenService := mocks.NewMockTokenGenerator(ctrl)
	accountService := service.NewAccountService(mockRepo, mockTokenService, &config.Config{}, zap.NewNop())
	authHandler := handler.NewAuthHandler(accountService, mockTokenService)

	app := fiber.New()
	app.Post("/signup", authHandler.Signup)

	t.Run("success", func(t *testing.T) {
		input := dto.SignupInput{Email: "ana@example.com", Password: "password123", Kind: "student"}

		mockRepo.EXPECT().GetByEmail(gomock.Any(), input.Email).Return(nil, nil)
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		mockTokenService.EXPECT().NewOpaqueToken().Return("verify-token", nil)
		mockRepo.EXPECT().SetVerificationToken(gomock.Any(), gomock.Any(), "verify-token").Return(nil)

		resp, err := app.Test(jsonRequest(t, "POST", "/signup", input))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

		var out map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, input.Email, out["email"])
		assert.Equal(t, "verify-token", out["verification_token"])
	})

	t.Run("bad request", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/signup", bytes.NewReader([]byte("not-json")))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("duplicate email", func(t *testing.T) {
		input := dto.SignupInput{Email: "taken@example.com", Password: "password123", Kind: "teacher"}

		mockRepo.EXPECT().GetByEmail(gomock.Any(), input.Email).
			Return(&domain.Account{ID: "existing", Email: input.Email}, nil)

		resp, _ := app.Test(jsonRequest(t, "POST", "/signup", input))
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})

	t.Run("unknown kind", func(t *testing.T) {
		input := dto.SignupInput{Email: "x@example.com", Password: "password123", Kind: "admin"}

		resp, _ := app.Test(jsonRequest(t, "POST", "/signup", input))
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestVerifyHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockAccountRepository(ctrl)
	accountService := service.NewAccountService(mockRepo, nil, &config.Config{}, zap.NewNop())
	authHandler := handler.NewAuthHandler(accountService, nil)

	app := fiber.New()
	app.Get("/verify", authHandler.Verify)

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().ConsumeVerificationToken(gomock.Any(), "good-token").Return(true, nil)

		resp, _ := app.Test(httptest.NewRequest("GET", "/verify?token=good-token", nil))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("missing token", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest("GET", "/verify", nil))
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("stale token", func(t *testing.T) {
		mockRepo.EXPECT().ConsumeVerificationToken(gomock.Any(), "stale-token").Return(false, nil)

		resp, _ := app.Test(httptest.NewRequest("GET", "/verify?token=stale-token", nil))
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestLoginHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockAccountRepository(ctrl)
	mockTokenService := mocks.NewMockTokenGenerator(ctrl)
	accountService := service.NewAccountService(mockRepo, mockTokenService, &config.Config{}, zap.NewNop())
	authHandler := handler.NewAuthHandler(accountService, mockTokenService)

	app := fiber.New()
	app.Post("/login", authHandler.Login)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	account := &domain.Account{
		ID:           "account-1",
		Email:        "ana@example.com",
		PasswordHash: string(hash),
		Kind:         domain.KindStudent,
		Verified:     true,
		Approval:     domain.ApprovalApproved,
	}

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().GetByEmail(gomock.Any(), account.Email).Return(account, nil)
		mockTokenService.EXPECT().Generate(account.ID, "student").
			Return("access-token", time.Now().Add(15*time.Minute), nil)
		mockTokenService.EXPECT().NewOpaqueToken().Return("refresh-token", nil)
		mockRepo.EXPECT().SetRefreshToken(gomock.Any(), account.ID, gomock.Any()).Return(nil)
		mockTokenService.EXPECT().GetAccessTokenExpiry().Return(15 * time.Minute)

		resp, err := app.Test(jsonRequest(t, "POST", "/login",
			dto.LoginInput{Email: account.Email, Password: "password123"}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var tokens dto.TokenResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&tokens))
		assert.Equal(t, "access-token", tokens.AccessToken)
		assert.Equal(t, "refresh-token", tokens.RefreshToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockRepo.EXPECT().GetByEmail(gomock.Any(), account.Email).Return(account, nil)

		resp, _ := app.Test(jsonRequest(t, "POST", "/login",
			dto.LoginInput{Email: account.Email, Password: "wrong"}))
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unverified account", func(t *testing.T) {
		unverified := *account
		unverified.Verified = false
		mockRepo.EXPECT().GetByEmail(gomock.Any(), account.Email).Return(&unverified, nil)

		resp, _ := app.Test(jsonRequest(t, "POST", "/login",
			dto.LoginInput{Email: account.Email, Password: "password123"}))
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})
}

func TestRefreshHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockAccountRepository(ctrl)
	mockTokenService := mocks.NewMockTokenGenerator(ctrl)
	accountService := service.NewAccountService(mockRepo, mockTokenService, &config.Config{}, zap.NewNop())
	authHandler := handler.NewAuthHandler(accountService, mockTokenService)

	app := fiber.New()
	app.Post("/refresh", authHandler.Refresh)

	t.Run("success", func(t *testing.T) {
		account := &domain.Account{ID: "account-1", Kind: domain.KindStudent, Approval: domain.ApprovalApproved}

		mockRepo.EXPECT().GetByRefreshToken(gomock.Any(), "old-refresh").Return(account, nil)
		mockTokenService.EXPECT().Generate(account.ID, "student").
			Return("new-access", time.Now().Add(15*time.Minute), nil)
		mockTokenService.EXPECT().NewOpaqueToken().Return("new-refresh", nil)
		mockRepo.EXPECT().SwapRefreshToken(gomock.Any(), account.ID, "old-refresh", "new-refresh").Return(true, nil)
		mockTokenService.EXPECT().GetAccessTokenExpiry().Return(15 * time.Minute)

		resp, _ := app.Test(jsonRequest(t, "POST", "/refresh", dto.RefreshInput{RefreshToken: "old-refresh"}))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("unknown refresh token", func(t *testing.T) {
		mockRepo.EXPECT().GetByRefreshToken(gomock.Any(), "bogus").Return(nil, nil)

		resp, _ := app.Test(jsonRequest(t, "POST", "/refresh", dto.RefreshInput{RefreshToken: "bogus"}))
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestResetHandlers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockAccountRepository(ctrl)
	mockTokenService := mocks.NewMockTokenGenerator(ctrl)
	cfg := &config.Config{ResetExpiryMin: 15}
	accountService := service.NewAccountService(mockRepo, mockTokenService, cfg, zap.NewNop())
	authHandler := handler.NewAuthHandler(accountService, mockTokenService)

	app := fiber.New()
	app.Post("/password/forgot", authHandler.ForgotPassword)
	app.Post("/password/reset", authHandler.ResetPassword)

	t.Run("forgot returns the reset token", func(t *testing.T) {
		account := &domain.Account{ID: "account-1", Email: "ana@example.com"}

		mockRepo.EXPECT().GetByEmail(gomock.Any(), account.Email).Return(account, nil)
		mockTokenService.EXPECT().NewOpaqueToken().Return("reset-token", nil)
		mockRepo.EXPECT().SetResetToken(gomock.Any(), account.ID, "reset-token", gomock.Any()).Return(nil)

		resp, _ := app.Test(jsonRequest(t, "POST", "/password/forgot",
			dto.ForgotPasswordInput{Email: account.Email}))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var out dto.ForgotPasswordOutput
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "reset-token", out.ResetToken)
	})

	t.Run("forgot for unknown email", func(t *testing.T) {
		mockRepo.EXPECT().GetByEmail(gomock.Any(), "ghost@example.com").Return(nil, nil)

		resp, _ := app.Test(jsonRequest(t, "POST", "/password/forgot",
			dto.ForgotPasswordInput{Email: "ghost@example.com"}))
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("reset with live token", func(t *testing.T) {
		expiry := time.Now().Add(10 * time.Minute)
		account := &domain.Account{ID: "account-1", ResetExpiry: &expiry}

		mockRepo.EXPECT().GetByResetToken(gomock.Any(), "reset-token").Return(account, nil)
		mockRepo.EXPECT().ConsumeResetToken(gomock.Any(), "reset-token", gomock.Any(), gomock.Any()).
			Return(true, nil)

		resp, _ := app.Test(jsonRequest(t, "POST", "/password/reset",
			dto.ResetPasswordInput{Token: "reset-token", Password: "newpassword1"}))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("reset with expired token", func(t *testing.T) {
		expiry := time.Now().Add(-time.Minute)
		account := &domain.Account{ID: "account-1", ResetExpiry: &expiry}

		mockRepo.EXPECT().GetByResetToken(gomock.Any(), "dead-token").Return(account, nil)

		resp, _ := app.Test(jsonRequest(t, "POST", "/password/reset",
			dto.ResetPasswordInput{Token: "dead-token", Password: "newpassword1"}))
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
