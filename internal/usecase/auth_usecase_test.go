package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinic-appointment-api/config"
	"clinic-appointment-api/internal/delivery/dto"
	"clinic-appointment-api/internal/domain/entity"
	"clinic-appointment-api/pkg/jwt"
)

type authFixture struct {
	uc       AuthUsecase
	users    *fakeUserRepo
	tokens   *fakeTokenStore
	otp      *fakeOTPStore
	notifier *fakeNotifier
	audit    *fakeAuditService
	jwt      *jwt.JWTService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:    newFakeUserRepo(),
		tokens:   newFakeTokenStore(),
		otp:      &fakeOTPStore{},
		notifier: &fakeNotifier{},
		audit:    &fakeAuditService{},
		jwt: jwt.NewJWTService(config.JWTConfig{
			Secret:        "test-secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: time.Hour,
		}),
	}
	f.uc = NewAuthUsecase(&fakeTransactor{}, quietLogger(), f.users, f.audit, f.jwt, f.tokens, f.otp, f.notifier)
	return f
}

func signupRequest() *dto.SignupRequest {
	return &dto.SignupRequest{
		Name:            "Jane Doe",
		Email:           "Jane@Example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		Phone:           "+15550123",
	}
}

func TestSignup(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	resp, err := f.uc.Signup(ctx, signupRequest())
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if resp.User.Email != "jane@example.com" {
		t.Errorf("email should be normalised, got %q", resp.User.Email)
	}
	if resp.User.Role != entity.RoleUser {
		t.Errorf("expected role user, got %q", resp.User.Role)
	}
	if resp.Token.AccessToken == "" || resp.Token.RefreshToken == "" {
		t.Fatal("expected a token pair")
	}

	stored, _ := f.users.FindByEmail(nil, "jane@example.com")
	if stored == nil || stored.Password == "secret123" {
		t.Fatal("password must be stored hashed")
	}

	if len(f.notifier.emails) != 1 || f.notifier.emails[0].subject != "Welcome!" {
		t.Errorf("expected welcome email, got %+v", f.notifier.emails)
	}
	if len(f.notifier.sms) != 1 || f.notifier.sms[0].to != "+15550123" {
		t.Errorf("expected welcome SMS, got %+v", f.notifier.sms)
	}

	if _, err := f.uc.Signup(ctx, signupRequest()); !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}
}

func TestSignup_PasswordMismatch(t *testing.T) {
	f := newAuthFixture()
	req := signupRequest()
	req.ConfirmPassword = "different"

	if _, err := f.uc.Signup(context.Background(), req); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	if _, err := f.uc.Signup(ctx, signupRequest()); err != nil {
		t.Fatalf("signup: %v", err)
	}

	tokens, err := f.uc.Login(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := f.jwt.ValidateToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if ok, _ := f.tokens.Exists(ctx, jwt.AccessToken, claims.UserID, claims.TokenID); !ok {
		t.Error("access token should be whitelisted")
	}

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "wrong password", email: "jane@example.com", password: "nope"},
		{name: "unknown email", email: "who@example.com", password: "secret123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Login(ctx, &dto.LoginRequest{Email: tt.email, Password: tt.password})
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestOTPLogin(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	phone := "+15550999"

	if err := f.uc.SendOTP(ctx, &dto.SendOTPRequest{Phone: phone}); err != nil {
		t.Fatalf("send otp: %v", err)
	}
	if len(f.notifier.sms) != 1 || f.notifier.sms[0].body != "Your OTP is: 123456" {
		t.Fatalf("unexpected OTP SMS: %+v", f.notifier.sms)
	}

	if _, err := f.uc.VerifyOTP(ctx, &dto.VerifyOTPRequest{Phone: phone, OTP: "000000"}); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP, got %v", err)
	}

	resp, err := f.uc.VerifyOTP(ctx, &dto.VerifyOTPRequest{Phone: phone, OTP: "123456"})
	if err != nil {
		t.Fatalf("verify otp: %v", err)
	}
	if resp.User.Phone != phone {
		t.Errorf("expected phone-only user, got %+v", resp.User)
	}

	// Single use
	if _, err := f.uc.VerifyOTP(ctx, &dto.VerifyOTPRequest{Phone: phone, OTP: "123456"}); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP on reuse, got %v", err)
	}
}

func TestRefreshToken_RotatesAndRevokes(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	signup, err := f.uc.Signup(ctx, signupRequest())
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	req := &dto.RefreshTokenRequest{RefreshToken: signup.Token.RefreshToken}
	if _, err := f.uc.RefreshToken(ctx, req); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if _, err := f.uc.RefreshToken(ctx, req); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked on reuse, got %v", err)
	}

	// An access token is not a refresh token
	_, err = f.uc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: signup.Token.AccessToken})
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestLogout_RevokesTokens(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	signup, err := f.uc.Signup(ctx, signupRequest())
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	access, _ := f.jwt.ValidateToken(signup.Token.AccessToken)
	refresh, _ := f.jwt.ValidateToken(signup.Token.RefreshToken)

	if err := f.uc.Logout(ctx, access.UserID, access.TokenID, refresh.TokenID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if ok, _ := f.tokens.Exists(ctx, jwt.AccessToken, access.UserID, access.TokenID); ok {
		t.Error("access token should be revoked")
	}
	if ok, _ := f.tokens.Exists(ctx, jwt.RefreshToken, refresh.UserID, refresh.TokenID); ok {
		t.Error("refresh token should be revoked")
	}
}
