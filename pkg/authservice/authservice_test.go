package authservice

import (
	"context"
	"testing"
	"time"

	"github.com/wisbric/orbit/pkg/apierror"
	"github.com/wisbric/orbit/pkg/authservice/localprovider"
)

func newTestService(cfg Config) *Service {
	return New(localprovider.New(), cfg, nil)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.EnableAutoRefresh = false
	cfg.SessionMaxAge = time.Hour
	return cfg
}

func mustRegister(t *testing.T, s *Service, email, password string) Session {
	t.Helper()
	res := s.Register(context.Background(), RegisterInput{Email: email, Password: password, DisplayName: "Test User"})
	if !res.Success {
		t.Fatalf("register %q: %v", email, res.Err)
	}
	return res.Data
}

func TestRegister_IssuesSessionWithAccessToken(t *testing.T) {
	s := newTestService(testConfig())
	sess := mustRegister(t, s, "Alice@Example.com", "Passw0rd")

	if sess.AccessToken == "" {
		t.Fatal("expected a non-empty access token")
	}
	if sess.User.Email != "alice@example.com" {
		t.Errorf("email = %q, want normalized lowercase", sess.User.Email)
	}
	if cur, ok := s.CurrentSession(); !ok || cur.User.Email != sess.User.Email {
		t.Fatal("expected the new session to be installed as current")
	}
}

func TestRegister_RejectsInvalidEmail(t *testing.T) {
	s := newTestService(testConfig())
	res := s.Register(context.Background(), RegisterInput{Email: "not-an-email", Password: "Passw0rd"})
	if res.Success {
		t.Fatal("expected invalid email to be rejected")
	}
	if res.Err.Code != apierror.CodeValidationError {
		t.Errorf("code = %q, want %q", res.Err.Code, apierror.CodeValidationError)
	}
}

func TestRegister_RejectsWeakPassword(t *testing.T) {
	s := newTestService(testConfig())
	cases := []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"}
	for _, pw := range cases {
		res := s.Register(context.Background(), RegisterInput{Email: "user@example.com", Password: pw})
		if res.Success {
			t.Errorf("password %q: expected rejection", pw)
		} else if res.Err.Code != apierror.CodeValidationError {
			t.Errorf("password %q: code = %q, want %q", pw, res.Err.Code, apierror.CodeValidationError)
		}
	}
}

func TestRegister_DuplicateEmailRejected(t *testing.T) {
	s := newTestService(testConfig())
	mustRegister(t, s, "bob@example.com", "Passw0rd")

	res := s.Register(context.Background(), RegisterInput{Email: "BOB@example.com", Password: "Passw0rd"})
	if res.Success {
		t.Fatal("expected duplicate email to be rejected")
	}
	if res.Err.Code != apierror.CodeUserAlreadyExists {
		t.Errorf("code = %q, want %q", res.Err.Code, apierror.CodeUserAlreadyExists)
	}
}

func TestLogin_WrongPasswordRejected(t *testing.T) {
	s := newTestService(testConfig())
	mustRegister(t, s, "carol@example.com", "Passw0rd")

	res := s.Login(context.Background(), LoginInput{Email: "carol@example.com", Password: "WrongPass1"})
	if res.Success {
		t.Fatal("expected wrong password to be rejected")
	}
	if res.Err.Code != apierror.CodeInvalidCredentials {
		t.Errorf("code = %q, want %q", res.Err.Code, apierror.CodeInvalidCredentials)
	}
}

func TestLogin_CorrectCredentialsIssueSession(t *testing.T) {
	s := newTestService(testConfig())
	mustRegister(t, s, "dana@example.com", "Passw0rd")
	_ = s.Logout(context.Background())

	res := s.Login(context.Background(), LoginInput{Email: "dana@example.com", Password: "Passw0rd"})
	if !res.Success {
		t.Fatalf("login: %v", res.Err)
	}
	if res.Data.AccessToken == "" {
		t.Fatal("expected an access token")
	}
}

func TestLogout_ClearsCurrentSession(t *testing.T) {
	s := newTestService(testConfig())
	mustRegister(t, s, "erin@example.com", "Passw0rd")

	res := s.Logout(context.Background())
	if !res.Success {
		t.Fatalf("logout: %v", res.Err)
	}
	if _, ok := s.CurrentSession(); ok {
		t.Fatal("expected no current session after logout")
	}
}

func TestRequireAuthentication_UnauthorizedWithNoSession(t *testing.T) {
	s := newTestService(testConfig())
	res := s.RequireAuthentication()
	if res.Success {
		t.Fatal("expected failure with no session")
	}
	if res.Err.Code != apierror.CodeUnauthorized {
		t.Errorf("code = %q, want %q", res.Err.Code, apierror.CodeUnauthorized)
	}
}

func TestRequireAuthentication_SessionExpired(t *testing.T) {
	cfg := testConfig()
	cfg.SessionMaxAge = -time.Minute
	s := newTestService(cfg)
	mustRegister(t, s, "frank@example.com", "Passw0rd")

	res := s.RequireAuthentication()
	if res.Success {
		t.Fatal("expected failure with expired session")
	}
	if res.Err.Code != apierror.CodeSessionExpired {
		t.Errorf("code = %q, want %q", res.Err.Code, apierror.CodeSessionExpired)
	}
}

func TestRequireRole_ForbiddenWhenLacking(t *testing.T) {
	s := newTestService(testConfig())
	mustRegister(t, s, "grace@example.com", "Passw0rd") // defaults to RoleViewer

	res := s.RequireRole(RoleAdmin)
	if res.Success {
		t.Fatal("expected failure: viewer lacks admin role")
	}
	if res.Err.Code != apierror.CodeForbidden {
		t.Errorf("code = %q, want %q", res.Err.Code, apierror.CodeForbidden)
	}
}

func TestRequireAnyRole_SucceedsWithOneMatch(t *testing.T) {
	s := newTestService(testConfig())
	mustRegister(t, s, "henry@example.com", "Passw0rd")

	res := s.RequireAnyRole(RoleAdmin, RoleViewer)
	if !res.Success {
		t.Fatalf("expected success: viewer matches one of the requested roles: %v", res.Err)
	}
}

func TestRolePredicates(t *testing.T) {
	roles := []Role{RoleOperator, RoleNode}
	if !hasRole(roles, RoleOperator) {
		t.Error("expected hasRole(operator) to be true")
	}
	if hasRole(roles, RoleAdmin) {
		t.Error("expected hasRole(admin) to be false")
	}
	if !hasAnyRole(roles, RoleViewer, RoleNode) {
		t.Error("expected hasAnyRole to match RoleNode")
	}
	if hasAnyRole(roles, RoleAdmin, RoleViewer) {
		t.Error("expected hasAnyRole to find no match")
	}
}

func TestIsAdmin_CanManageResources_IsNodeAgent(t *testing.T) {
	s := newTestService(testConfig())
	mustRegister(t, s, "ivan@example.com", "Passw0rd")

	if s.IsAdmin() {
		t.Error("expected a fresh viewer registration to not be admin")
	}
	if s.CanManageResources() {
		t.Error("expected a viewer to not be able to manage resources")
	}
	if s.IsNodeAgent() {
		t.Error("expected a viewer to not be a node agent")
	}

	res := s.UpdateUser(context.Background(), mustCurrentUserID(s), UpdateUserInput{Roles: []Role{RoleAdmin}})
	if !res.Success {
		t.Fatalf("update user: %v", res.Err)
	}
	if !s.IsAdmin() {
		t.Error("expected promoted user to be admin")
	}
	if !s.CanManageResources() {
		t.Error("expected admin to be able to manage resources")
	}
}

func mustCurrentUserID(s *Service) string {
	sess, _ := s.CurrentSession()
	return sess.User.ID
}

func TestUpdateUser_UnknownCodePassesThrough(t *testing.T) {
	s := newTestService(testConfig())
	res := s.UpdateUser(context.Background(), "does-not-exist", UpdateUserInput{})
	if res.Success {
		t.Fatal("expected failure for unknown user")
	}
	if res.Err.Code != apierror.CodeUserNotFound {
		t.Errorf("code = %q, want %q", res.Err.Code, apierror.CodeUserNotFound)
	}
}

func TestDeleteUser_ClearsSessionWhenSelfDeleted(t *testing.T) {
	s := newTestService(testConfig())
	mustRegister(t, s, "judy@example.com", "Passw0rd")
	userID := mustCurrentUserID(s)

	res := s.DeleteUser(context.Background(), userID)
	if !res.Success {
		t.Fatalf("delete user: %v", res.Err)
	}
	if _, ok := s.CurrentSession(); ok {
		t.Fatal("expected session to be cleared after self-deletion")
	}
}

func TestSessionRoundTrip_IssueAndValidate(t *testing.T) {
	issuer := newSessionIssuer(nil, time.Hour)
	u := User{ID: "u-1", Email: "kay@example.com", Roles: []Role{RoleDeveloper}}

	token, expiresAt, err := issuer.issue(u)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	got, gotExpiry, err := issuer.validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got.ID != u.ID || got.Email != u.Email {
		t.Errorf("validated user = %+v, want %+v", got, u)
	}
	if !gotExpiry.Equal(expiresAt) {
		t.Errorf("expiry = %v, want %v", gotExpiry, expiresAt)
	}
}

func TestSessionValidate_RejectsWrongKey(t *testing.T) {
	issuerA := newSessionIssuer([]byte("key-aaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"), time.Hour)
	issuerB := newSessionIssuer([]byte("key-bbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"), time.Hour)

	token, _, err := issuerA.issue(User{ID: "u-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, _, err := issuerB.validate(token); err == nil {
		t.Fatal("expected validation to fail against a different signing key")
	}
}

func TestValidEmail(t *testing.T) {
	cases := map[string]bool{
		"user@example.com":    true,
		"user+tag@example.co": true,
		"not-an-email":        false,
		"":                    false,
		"@example.com":        false,
	}
	for in, want := range cases {
		if got := validEmail(in); got != want {
			t.Errorf("validEmail(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestValidPassword(t *testing.T) {
	cases := map[string]bool{
		"Passw0rd":    true,
		"Aa1aaaaa":    true,
		"short1A":     false,
		"alllower1":   false,
		"ALLUPPER1":   false,
		"NoDigitsHer": false,
	}
	for in, want := range cases {
		if got := validPassword(in); got != want {
			t.Errorf("validPassword(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := normalizeEmail("  Foo@Bar.COM  "); got != "foo@bar.com" {
		t.Errorf("normalizeEmail = %q, want foo@bar.com", got)
	}
}
