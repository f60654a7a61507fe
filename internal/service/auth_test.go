package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pawhaven/platform/internal/dto"
	apperrors "github.com/pawhaven/platform/internal/errors"
	"github.com/pawhaven/platform/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserStore struct {
	users        map[uint]*model.User
	shelters     map[uint]*model.Shelter
	nextID       uint
	createErr    error
	lastLoginIDs []uint
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users:    make(map[uint]*model.User),
		shelters: make(map[uint]*model.Shelter),
	}
}

func (s *fakeUserStore) addUser(user *model.User) *model.User {
	s.nextID++
	user.ID = s.nextID
	s.users[user.ID] = user
	return user
}

func (s *fakeUserStore) GetByID(_ context.Context, id uint) (*model.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeUserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeUserStore) CreateWithShelter(_ context.Context, user *model.User, shelter *model.Shelter) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.addUser(user)
	if shelter != nil {
		shelter.UserID = user.ID
		s.shelters[user.ID] = shelter
	}
	return nil
}

func (s *fakeUserStore) UpdateLastLogin(_ context.Context, id uint) error {
	s.lastLoginIDs = append(s.lastLoginIDs, id)
	return nil
}

func (s *fakeUserStore) UpdateRememberToken(_ context.Context, id uint, tokenHash string, expiresAt *time.Time) error {
	user, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.RememberTokenHash = tokenHash
	user.RememberTokenExpires = expiresAt
	return nil
}

func (s *fakeUserStore) FindByRememberToken(_ context.Context, token string) (*model.User, error) {
	for _, user := range s.users {
		if user.RememberTokenHash == "" {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(user.RememberTokenHash), []byte(token)) == nil {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func newTestAuthService(t *testing.T, store *fakeUserStore) *AuthService {
	t.Helper()
	auth, err := NewAuthService(store, bcrypt.MinCost, 30*24*time.Hour, "+94")
	if err != nil {
		t.Fatalf("Failed to create auth service: %v", err)
	}
	return auth
}

func validAdopterRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		UserType:        "adopter",
		Username:        "jane_doe",
		FirstName:       "Jane",
		LastName:        "Doe",
		Email:           "jane@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Phone:           "0771234567",
		Street:          "12 Lake Road",
		City:            "Colombo",
		District:        "Colombo",
		Province:        "Western",
	}
}

func validShelterRequest() *dto.RegisterRequest {
	req := validAdopterRequest()
	req.UserType = "shelter"
	req.Username = "happy_paws"
	req.Email = "shelter@example.com"
	req.ShelterName = "Happy Paws"
	req.ShelterLicense = "LIC-2024-001"
	req.ShelterCapacity = 40
	return req
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	return string(hash)
}

func containsMessage(messages []string, want string) bool {
	for _, message := range messages {
		if message == want {
			return true
		}
	}
	return false
}

func TestRegisterAdopter(t *testing.T) {
	store := newFakeUserStore()
	auth := newTestAuthService(t, store)

	req := validAdopterRequest()
	req.Email = "Jane@Example.com"
	req.Phone = "077-123 4567"

	formErrors, err := auth.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(formErrors) > 0 {
		t.Fatalf("Unexpected form errors: %v", formErrors.Messages())
	}

	user, lookupErr := store.GetByUsername(context.Background(), "jane_doe")
	if lookupErr != nil {
		t.Fatalf("User was not created: %v", lookupErr)
	}

	if user.Email != "jane@example.com" {
		t.Errorf("Expected lowercased email, got %s", user.Email)
	}
	if user.Phone != "+94771234567" {
		t.Errorf("Expected normalized phone +94771234567, got %s", user.Phone)
	}
	if user.Role != model.RoleAdopter {
		t.Errorf("Expected role adopter, got %s", user.Role)
	}
	if !user.IsActive {
		t.Error("Expected new account to be active")
	}
	if user.Password == "secret1" {
		t.Error("Password was stored in plaintext")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret1")) != nil {
		t.Error("Stored hash does not verify against the password")
	}
	if len(store.shelters) != 0 {
		t.Error("Adopter registration should not create a shelter profile")
	}
}

func TestRegisterShelter(t *testing.T) {
	store := newFakeUserStore()
	auth := newTestAuthService(t, store)

	formErrors, err := auth.Register(context.Background(), validShelterRequest())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(formErrors) > 0 {
		t.Fatalf("Unexpected form errors: %v", formErrors.Messages())
	}

	user, lookupErr := store.GetByUsername(context.Background(), "happy_paws")
	if lookupErr != nil {
		t.Fatalf("User was not created: %v", lookupErr)
	}

	shelter, ok := store.shelters[user.ID]
	if !ok {
		t.Fatal("Shelter profile was not created")
	}
	if shelter.ShelterName != "Happy Paws" {
		t.Errorf("Expected shelter name Happy Paws, got %s", shelter.ShelterName)
	}
	if shelter.UserID != user.ID {
		t.Errorf("Shelter profile not linked to user: got %d, want %d", shelter.UserID, user.ID)
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*dto.RegisterRequest)
		message string
	}{
		{
			name:    "Short username",
			mutate:  func(r *dto.RegisterRequest) { r.Username = "ab" },
			message: "Username must be at least 3 characters",
		},
		{
			name:    "Username with spaces",
			mutate:  func(r *dto.RegisterRequest) { r.Username = "jane doe" },
			message: "Username may only contain letters, digits and underscores",
		},
		{
			name:    "Invalid email",
			mutate:  func(r *dto.RegisterRequest) { r.Email = "not-an-email" },
			message: "Please enter a valid email address",
		},
		{
			name:    "Short password",
			mutate:  func(r *dto.RegisterRequest) { r.Password = "abc"; r.ConfirmPassword = "abc" },
			message: "Password must be at least 6 characters",
		},
		{
			name:    "Password mismatch",
			mutate:  func(r *dto.RegisterRequest) { r.ConfirmPassword = "different1" },
			message: "Passwords do not match",
		},
		{
			name:    "Invalid phone",
			mutate:  func(r *dto.RegisterRequest) { r.Phone = "12345" },
			message: "Please enter a valid phone number",
		},
		{
			name:    "Missing city",
			mutate:  func(r *dto.RegisterRequest) { r.City = "   " },
			message: "City is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeUserStore()
			auth := newTestAuthService(t, store)

			req := validAdopterRequest()
			tt.mutate(req)

			formErrors, err := auth.Register(context.Background(), req)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(formErrors) == 0 {
				t.Fatal("Expected validation errors, got none")
			}
			if !containsMessage(formErrors.Messages(), tt.message) {
				t.Errorf("Expected message %q, got %v", tt.message, formErrors.Messages())
			}
			if len(store.users) != 0 {
				t.Error("No user should be created on validation failure")
			}
		})
	}
}

func TestRegisterShelterFieldsRequired(t *testing.T) {
	store := newFakeUserStore()
	auth := newTestAuthService(t, store)

	req := validShelterRequest()
	req.ShelterName = ""
	req.ShelterLicense = ""
	req.ShelterCapacity = 0

	formErrors, err := auth.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	messages := formErrors.Messages()
	for _, want := range []string{
		"Shelter name is required",
		"Shelter license number is required",
		"Shelter capacity is required",
	} {
		if !containsMessage(messages, want) {
			t.Errorf("Expected message %q, got %v", want, messages)
		}
	}
}

func TestRegisterAdopterIgnoresShelterFields(t *testing.T) {
	store := newFakeUserStore()
	auth := newTestAuthService(t, store)

	// An adopter submission leaves the shelter fields empty
	formErrors, err := auth.Register(context.Background(), validAdopterRequest())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(formErrors) > 0 {
		t.Fatalf("Unexpected form errors: %v", formErrors.Messages())
	}
}

func TestRegisterDuplicates(t *testing.T) {
	store := newFakeUserStore()
	auth := newTestAuthService(t, store)

	store.addUser(&model.User{
		Username: "jane_doe",
		Email:    "jane@example.com",
		Role:     model.RoleAdopter,
	})

	formErrors, err := auth.Register(context.Background(), validAdopterRequest())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	messages := formErrors.Messages()
	if !containsMessage(messages, apperrors.ErrUsernameExists.Message) {
		t.Errorf("Expected username conflict message, got %v", messages)
	}
	if !containsMessage(messages, apperrors.ErrEmailExists.Message) {
		t.Errorf("Expected email conflict message, got %v", messages)
	}
	if len(messages) != 2 {
		t.Errorf("Expected both conflicts reported together, got %v", messages)
	}
}

func TestRegisterInsertConflict(t *testing.T) {
	store := newFakeUserStore()
	auth := newTestAuthService(t, store)

	// The row appears between the pre-check and the insert
	store.createErr = gorm.ErrDuplicatedKey

	formErrors, err := auth.Register(context.Background(), validAdopterRequest())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(formErrors) != 1 {
		t.Fatalf("Expected one conflict message, got %v", formErrors.Messages())
	}
	if formErrors[0].Message != apperrors.ErrEmailExists.Message {
		t.Errorf("Expected email conflict attribution, got %q", formErrors[0].Message)
	}
}

func TestLoginPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		expected *apperrors.DomainError
	}{
		{
			name:     "Missing password wins over missing email",
			email:    "",
			password: "",
			expected: apperrors.ErrPasswordRequired,
		},
		{
			name:     "Missing email",
			email:    "",
			password: "secret1",
			expected: apperrors.ErrEmailRequired,
		},
		{
			name:     "Malformed email",
			email:    "not-an-email",
			password: "secret1",
			expected: apperrors.ErrEmailInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := newTestAuthService(t, newFakeUserStore())

			_, err := auth.Login(context.Background(), &dto.LoginRequest{Email: tt.email, Password: tt.password})
			if !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestLoginCredentialFailuresShareMessage(t *testing.T) {
	store := newFakeUserStore()
	auth := newTestAuthService(t, store)

	store.addUser(&model.User{
		Username: "jane_doe",
		Email:    "jane@example.com",
		Password: hashPassword(t, "secret1"),
		IsActive: true,
	})

	_, unknownErr := auth.Login(context.Background(), &dto.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	_, wrongErr := auth.Login(context.Background(), &dto.LoginRequest{Email: "jane@example.com", Password: "wrong-password"})

	if unknownErr == nil || wrongErr == nil {
		t.Fatal("Expected both login attempts to fail")
	}
	if apperrors.GetErrorMessage(unknownErr) != apperrors.GetErrorMessage(wrongErr) {
		t.Errorf("Unknown email and wrong password must be indistinguishable: %q vs %q",
			apperrors.GetErrorMessage(unknownErr), apperrors.GetErrorMessage(wrongErr))
	}
}

func TestLoginDeactivatedAccount(t *testing.T) {
	store := newFakeUserStore()
	auth := newTestAuthService(t, store)

	store.addUser(&model.User{
		Username: "jane_doe",
		Email:    "jane@example.com",
		Password: hashPassword(t, "secret1"),
		IsActive: false,
	})

	_, err := auth.Login(context.Background(), &dto.LoginRequest{Email: "jane@example.com", Password: "secret1"})
	if !errors.Is(err, apperrors.ErrAccountDeactivated) {
		t.Errorf("Expected deactivated account error, got %v", err)
	}

	// A wrong password on a deactivated account must not reveal the account state
	_, err = auth.Login(context.Background(), &dto.LoginRequest{Email: "jane@example.com", Password: "wrong"})
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("Expected generic credentials error, got %v", err)
	}
}

func TestLoginSuccess(t *testing.T) {
	store := newFakeUserStore()
	auth := newTestAuthService(t, store)

	seeded := store.addUser(&model.User{
		Username:  "jane_doe",
		Email:     "jane@example.com",
		Password:  hashPassword(t, "secret1"),
		Role:      model.RoleAdopter,
		FirstName: "Jane",
		IsActive:  true,
	})

	user, err := auth.Login(context.Background(), &dto.LoginRequest{Email: "  Jane@Example.com  ", Password: "secret1"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if user.ID != seeded.ID {
		t.Errorf("Expected user %d, got %d", seeded.ID, user.ID)
	}
	if len(store.lastLoginIDs) != 1 || store.lastLoginIDs[0] != seeded.ID {
		t.Errorf("Expected last login update for user %d, got %v", seeded.ID, store.lastLoginIDs)
	}
}

func TestRememberTokenLifecycle(t *testing.T) {
	store := newFakeUserStore()
	auth := newTestAuthService(t, store)

	user := store.addUser(&model.User{
		Username: "jane_doe",
		Email:    "jane@example.com",
		Role:     model.RoleAdopter,
		IsActive: true,
	})

	token, expiresAt, err := auth.IssueRememberToken(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	if len(token) != 64 {
		t.Errorf("Expected 64-char hex token, got %d chars", len(token))
	}
	if !expiresAt.After(time.Now().Add(29 * 24 * time.Hour)) {
		t.Errorf("Expected roughly 30-day expiry, got %v", expiresAt)
	}
	if user.RememberTokenHash == "" || strings.Contains(user.RememberTokenHash, token) {
		t.Error("Token must be stored hashed")
	}

	redeemed, newToken, _, err := auth.RedeemRememberToken(context.Background(), token)
	if err != nil {
		t.Fatalf("Failed to redeem token: %v", err)
	}
	if redeemed.ID != user.ID {
		t.Errorf("Expected user %d, got %d", user.ID, redeemed.ID)
	}
	if newToken == token {
		t.Error("Token must rotate on use")
	}

	// The old token is dead after rotation
	if _, _, _, err := auth.RedeemRememberToken(context.Background(), token); err == nil {
		t.Error("Expected old token to be rejected after rotation")
	}

	if err := auth.ClearRememberToken(context.Background(), user.ID); err != nil {
		t.Fatalf("Failed to clear token: %v", err)
	}
	if user.RememberTokenHash != "" {
		t.Error("Expected token hash to be cleared")
	}
	if _, _, _, err := auth.RedeemRememberToken(context.Background(), newToken); err == nil {
		t.Error("Expected cleared token to be rejected")
	}
}

func TestRememberTokenExpired(t *testing.T) {
	store := newFakeUserStore()
	auth := newTestAuthService(t, store)

	user := store.addUser(&model.User{
		Username: "jane_doe",
		Email:    "jane@example.com",
		IsActive: true,
	})

	token, _, err := auth.IssueRememberToken(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	expired := time.Now().Add(-time.Hour)
	user.RememberTokenExpires = &expired

	if _, _, _, err := auth.RedeemRememberToken(context.Background(), token); err == nil {
		t.Error("Expected expired token to be rejected")
	}
	if user.RememberTokenHash != "" {
		t.Error("Expected expired token hash to be cleared on redemption attempt")
	}
}

func TestRememberTokenDeactivatedAccount(t *testing.T) {
	store := newFakeUserStore()
	auth := newTestAuthService(t, store)

	user := store.addUser(&model.User{
		Username: "jane_doe",
		Email:    "jane@example.com",
		IsActive: true,
	})

	token, _, err := auth.IssueRememberToken(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	user.IsActive = false

	if _, _, _, err := auth.RedeemRememberToken(context.Background(), token); !errors.Is(err, apperrors.ErrAccountDeactivated) {
		t.Errorf("Expected deactivated account error, got %v", err)
	}
}

func TestRegisterThenLoginRoundTrip(t *testing.T) {
	store := newFakeUserStore()
	auth := newTestAuthService(t, store)

	formErrors, err := auth.Register(context.Background(), validAdopterRequest())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(formErrors) > 0 {
		t.Fatalf("Unexpected form errors: %v", formErrors.Messages())
	}

	user, err := auth.Login(context.Background(), &dto.LoginRequest{
		Email:    "jane@example.com",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("Login after registration failed: %v", err)
	}
	if user.Role != model.RoleAdopter {
		t.Errorf("Expected role adopter, got %s", user.Role)
	}

	snapshot := auth.SessionSnapshot(user)
	if snapshot.Role != model.RoleAdopter || snapshot.UserID != user.ID {
		t.Errorf("Snapshot does not reflect the registered user: %+v", snapshot)
	}
}

func TestSessionSnapshot(t *testing.T) {
	auth := newTestAuthService(t, newFakeUserStore())

	user := &model.User{
		Username:  "jane_doe",
		Email:     "jane@example.com",
		Role:      model.RoleAdopter,
		FirstName: "Jane",
		LastName:  "Doe",
	}
	user.ID = 7

	snapshot := auth.SessionSnapshot(user)
	if snapshot.UserID != 7 {
		t.Errorf("Expected user id 7, got %d", snapshot.UserID)
	}
	if snapshot.Username != "jane_doe" || snapshot.Role != model.RoleAdopter {
		t.Errorf("Snapshot does not match user: %+v", snapshot)
	}
	if snapshot.CreatedAt.IsZero() {
		t.Error("Expected snapshot creation time to be set")
	}
}
