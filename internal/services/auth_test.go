package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/hrdesk/hrdesk-backend/internal/repos"
	"github.com/hrdesk/hrdesk-backend/internal/requestdata"
	"github.com/hrdesk/hrdesk-backend/internal/types"
)

func newAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb := newTestDB(t)
	stmts := []string{
		`CREATE TABLE users (
			id text PRIMARY KEY,
			email text NOT NULL UNIQUE,
			password text NOT NULL,
			name text NOT NULL,
			role text NOT NULL DEFAULT 'member',
			created_at datetime,
			updated_at datetime
		)`,
		`CREATE TABLE user_tokens (
			id text PRIMARY KEY,
			user_id text NOT NULL,
			access_token text NOT NULL,
			refresh_token text NOT NULL UNIQUE,
			expires_at datetime NOT NULL,
			created_at datetime
		)`,
	}
	for _, stmt := range stmts {
		if err := gdb.Exec(stmt).Error; err != nil {
			t.Fatalf("create table: %v", err)
		}
	}
	return gdb
}

func newTestAuthService(t *testing.T, gdb *gorm.DB) AuthService {
	t.Helper()
	log := newTestLogger()
	return NewAuthService(
		gdb, log,
		repos.NewUserRepo(gdb, log),
		repos.NewUserTokenRepo(gdb, log),
		"test-secret",
		time.Hour,
		24*time.Hour,
	)
}

func TestRegisterAndLogin(t *testing.T) {
	gdb := newAuthTestDB(t)
	svc := newTestAuthService(t, gdb)
	ctx := context.Background()

	user := &types.User{Email: "  Jamie@Example.COM ", Password: "hunter22", Name: "Jamie"}
	if err := svc.RegisterUser(ctx, user); err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "jamie@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.Password == "hunter22" {
		t.Fatal("password stored in plaintext")
	}

	if err := svc.RegisterUser(ctx, &types.User{Email: "jamie@example.com", Password: "x", Name: "Dup"}); err == nil {
		t.Fatal("duplicate registration succeeded")
	}

	access, refresh, err := svc.LoginUser(ctx, "jamie@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("login returned empty tokens")
	}

	if _, _, err := svc.LoginUser(ctx, "jamie@example.com", "wrong"); err == nil {
		t.Fatal("login with wrong password succeeded")
	}

	// Second login replaces the first session.
	_, refresh2, err := svc.LoginUser(ctx, "jamie@example.com", "hunter22")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	var tokenCount int64
	gdb.Model(&types.UserToken{}).Count(&tokenCount)
	if tokenCount != 1 {
		t.Fatalf("user tokens = %d, want 1 after relogin", tokenCount)
	}
	if refresh2 == refresh {
		t.Fatal("relogin reused the refresh token")
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	gdb := newAuthTestDB(t)
	svc := newTestAuthService(t, gdb)
	ctx := context.Background()

	if err := svc.RegisterUser(ctx, &types.User{Email: "a@b.co", Password: "pw", Name: "A"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, refresh, err := svc.LoginUser(ctx, "a@b.co", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshCtx := requestdata.WithRequestData(ctx, &requestdata.RequestData{RefreshToken: refresh})
	access2, refresh2, err := svc.RefreshUser(refreshCtx)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if access2 == "" || refresh2 == "" || refresh2 == refresh {
		t.Fatalf("refresh did not rotate: access=%q refresh=%q", access2, refresh2)
	}

	// The old refresh token is dead after rotation.
	staleCtx := requestdata.WithRequestData(ctx, &requestdata.RequestData{RefreshToken: refresh})
	if _, _, err := svc.RefreshUser(staleCtx); err == nil {
		t.Fatal("stale refresh token accepted")
	}
}

func TestLogoutDeletesSession(t *testing.T) {
	gdb := newAuthTestDB(t)
	svc := newTestAuthService(t, gdb)
	ctx := context.Background()

	if err := svc.RegisterUser(ctx, &types.User{Email: "a@b.co", Password: "pw", Name: "A"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	access, _, err := svc.LoginUser(ctx, "a@b.co", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	logoutCtx := requestdata.WithRequestData(ctx, &requestdata.RequestData{TokenString: access})
	if err := svc.LogoutUser(logoutCtx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	var tokenCount int64
	gdb.Model(&types.UserToken{}).Count(&tokenCount)
	if tokenCount != 0 {
		t.Fatalf("user tokens = %d, want 0 after logout", tokenCount)
	}
}

func TestSetContextFromToken(t *testing.T) {
	gdb := newAuthTestDB(t)
	svc := newTestAuthService(t, gdb)
	ctx := context.Background()

	admin := &types.User{Email: "admin@b.co", Password: "pw", Name: "Admin", Role: "admin"}
	if err := svc.RegisterUser(ctx, admin); err != nil {
		t.Fatalf("register: %v", err)
	}
	access, _, err := svc.LoginUser(ctx, "admin@b.co", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	authedCtx, err := svc.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := requestdata.GetRequestData(authedCtx)
	if rd == nil {
		t.Fatal("no request data attached")
	}
	if rd.UserID != admin.ID {
		t.Fatalf("user id = %q, want %q", rd.UserID, admin.ID)
	}
	if !rd.HasScope("classify") || !rd.HasScope("admin") {
		t.Fatalf("scopes = %v, want classify and admin", rd.Scopes)
	}

	if _, err := svc.SetContextFromToken(ctx, "not.a.jwt"); err == nil {
		t.Fatal("malformed token accepted")
	}
}
