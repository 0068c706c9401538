package service

import (
	"errors"
	"testing"
	"time"

	"english_exam_backend/internal/config"
	"english_exam_backend/internal/repository"
	"english_exam_backend/internal/util"
)

func newTestAuthService(t *testing.T) (*AuthService, *repository.UserRepository) {
	t.Helper()
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-long-enough-for-hs256"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(userRepo, cfg), userRepo
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, err := svc.Register("", "pw"); !errors.Is(err, util.ErrEmptyCredentials) {
		t.Errorf("empty username error = %v, want ErrEmptyCredentials", err)
	}
	if _, err := svc.Register("user", ""); !errors.Is(err, util.ErrEmptyCredentials) {
		t.Errorf("empty password error = %v, want ErrEmptyCredentials", err)
	}
	if _, err := svc.Register("   ", "pw"); !errors.Is(err, util.ErrEmptyCredentials) {
		t.Errorf("blank username error = %v, want ErrEmptyCredentials", err)
	}

	// 保留用户名大小写不敏感
	for _, name := range []string{"admin", "Admin", "ADMIN"} {
		if _, err := svc.Register(name, "pw"); !errors.Is(err, util.ErrReservedUsername) {
			t.Errorf("Register(%q) error = %v, want ErrReservedUsername", name, err)
		}
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)

	user, err := svc.Register("alice", "s3cret")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.PasswordHash == "s3cret" {
		t.Fatal("password stored in plaintext")
	}
	if user.IsAdmin() {
		t.Error("regular user flagged as admin")
	}

	// 重名注册被拒
	if _, err := svc.Register("alice", "other"); !errors.Is(err, util.ErrUsernameTaken) {
		t.Errorf("duplicate Register() error = %v, want ErrUsernameTaken", err)
	}

	token, logged, err := svc.Login("alice", "s3cret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if logged.ID != user.ID {
		t.Errorf("logged in user id = %d, want %d", logged.ID, user.ID)
	}

	claims, err := util.ParseJWT(token, svc.Cfg.JWT.Secret)
	if err != nil {
		t.Fatalf("ParseJWT() error = %v", err)
	}
	if claims.UserID != user.ID || claims.Username != "alice" || claims.IsAdmin {
		t.Errorf("claims = %+v, want user %d alice non-admin", claims, user.ID)
	}

	if _, err := util.ParseJWT(token, "wrong-secret"); err == nil {
		t.Error("ParseJWT() with wrong secret succeeded")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, err := svc.Register("bob", "pw"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, _, err := svc.Login("bob", "wrong"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login("nobody", "pw"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("unknown user error = %v, want ErrInvalidCredentials", err)
	}
}
