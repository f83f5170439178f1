package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"deluxetours/internal/shared/config"
	"deluxetours/internal/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	byEmail map[string]*users.User
	byID    map[string]*users.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*users.User),
		byID:    make(map[string]*users.User),
	}
}

func (r *fakeUserRepo) add(user *users.User) {
	r.byEmail[user.Email] = user
	r.byID[user.ID.String()] = user
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, user *users.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.add(user)
	return nil
}

func (r *fakeUserRepo) UpdateUser(ctx context.Context, user *users.User) error {
	if _, ok := r.byID[user.ID.String()]; !ok {
		return ErrUserNotFound
	}
	r.add(user)
	return nil
}

func (r *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*users.User, error) {
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*users.User, error) {
	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (r *fakeUserRepo) UpdateUserPassword(ctx context.Context, id, hashedPassword string) error {
	u, ok := r.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	u.Password = hashedPassword
	return nil
}

func (r *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := r.byEmail[email]
	return ok, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.JWTExpiresIn = time.Hour
	cfg.JWT.RefreshExpiresIn = 24 * time.Hour
	return cfg
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, testConfig())

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Name:     "Amina Odhiambo",
		Email:    "amina@example.com",
		Phone:    "254712345678",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if resp.User.Role != string(users.RoleUser) {
		t.Errorf("Role = %s, want USER", resp.User.Role)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("token pair not issued")
	}

	login, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "amina@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if login.User.ID != resp.User.ID {
		t.Errorf("login user ID = %s, want %s", login.User.ID, resp.User.ID)
	}

	_, err = svc.Login(context.Background(), &LoginRequest{
		Email:    "amina@example.com",
		Password: "wrong",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: error = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, testConfig())

	req := &RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret123"}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	if _, err := svc.Register(context.Background(), req); !errors.Is(err, ErrUserAlreadyExists) {
		t.Errorf("second Register() error = %v, want ErrUserAlreadyExists", err)
	}
}

func TestRegisterClaimsGuestAccount(t *testing.T) {
	repo := newFakeUserRepo()
	guest := &users.User{
		ID:    uuid.New(),
		Name:  "Guest Checkout",
		Email: "guest@example.com",
		Role:  users.RoleGuest,
	}
	repo.add(guest)
	svc := NewService(repo, testConfig())

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Name:     "James Mwangi",
		Email:    "guest@example.com",
		Phone:    "254722334455",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if resp.User.ID != guest.ID.String() {
		t.Errorf("claimed user ID = %s, want existing guest %s", resp.User.ID, guest.ID)
	}
	if resp.User.Role != string(users.RoleUser) {
		t.Errorf("Role = %s, want USER after claiming", resp.User.Role)
	}
	if resp.User.Name != "James Mwangi" {
		t.Errorf("Name = %q, want updated name", resp.User.Name)
	}
	if guest.Password == "" {
		t.Error("password not set on claimed account")
	}
}

func TestRegisterIgnoresGuestRoleRequest(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, testConfig())

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Name:     "Sneaky",
		Email:    "sneaky@example.com",
		Password: "secret123",
		Role:     "guest",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if resp.User.Role != string(users.RoleUser) {
		t.Errorf("Role = %s, want USER (guest role not requestable)", resp.User.Role)
	}
}

func TestLoginRejectsGuestAccount(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(&users.User{
		ID:    uuid.New(),
		Email: "guest@example.com",
		Role:  users.RoleGuest,
	})
	svc := NewService(repo, testConfig())

	_, err := svc.Login(context.Background(), &LoginRequest{Email: "guest@example.com", Password: ""})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("guest login: error = %v, want ErrInvalidCredentials", err)
	}
}

func TestValidateToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, testConfig())

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Name: "A", Email: "a@example.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	claims, err := svc.ValidateToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != resp.User.ID {
		t.Errorf("UserID = %s, want %s", claims.UserID, resp.User.ID)
	}
	if claims.Type != "access" {
		t.Errorf("Type = %q, want access", claims.Type)
	}

	if _, err := svc.ValidateToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token: error = %v, want ErrInvalidToken", err)
	}
}

func TestValidateTokenExpired(t *testing.T) {
	repo := newFakeUserRepo()
	cfg := testConfig()
	cfg.JWT.JWTExpiresIn = -time.Minute
	svc := NewService(repo, cfg)

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Name: "A", Email: "a@example.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, err := svc.ValidateToken(resp.AccessToken); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expired token: error = %v, want ErrTokenExpired", err)
	}
}

func TestRefreshToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, testConfig())

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Name: "A", Email: "a@example.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	pair, err := svc.RefreshToken(context.Background(), resp.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken() error = %v", err)
	}
	if pair.AccessToken == "" {
		t.Error("no access token issued")
	}

	// Access tokens must not be usable for refresh.
	if _, err := svc.RefreshToken(context.Background(), resp.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("refresh with access token: error = %v, want ErrInvalidToken", err)
	}
}

func TestChangePassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, testConfig())

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Name: "A", Email: "a@example.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	err = svc.ChangePassword(context.Background(), resp.User.ID, &ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "newsecret",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong current password: error = %v, want ErrInvalidCredentials", err)
	}

	err = svc.ChangePassword(context.Background(), resp.User.ID, &ChangePasswordRequest{
		CurrentPassword: "secret123",
		NewPassword:     "newsecret",
	})
	if err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}

	user, _ := repo.GetUserByID(context.Background(), resp.User.ID)
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("newsecret")) != nil {
		t.Error("new password not stored")
	}
}
