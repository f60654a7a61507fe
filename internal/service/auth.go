package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pawhaven/platform/internal/dto"
	apperrors "github.com/pawhaven/platform/internal/errors"
	"github.com/pawhaven/platform/internal/model"
	ctxutil "github.com/pawhaven/platform/pkg/context"
	"github.com/pawhaven/platform/pkg/logger"
	"github.com/pawhaven/platform/pkg/session"
	"github.com/pawhaven/platform/pkg/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var emailSyntax = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// UserStore is the persistence surface the auth flows need. Implemented by
// repository.UserRepository; faked in tests.
type UserStore interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	CreateWithShelter(ctx context.Context, user *model.User, shelter *model.Shelter) error
	UpdateLastLogin(ctx context.Context, id uint) error
	UpdateRememberToken(ctx context.Context, id uint, tokenHash string, expiresAt *time.Time) error
	FindByRememberToken(ctx context.Context, token string) (*model.User, error)
}

type AuthService struct {
	users         UserStore
	validate      *validator.Validate
	bcryptCost    int
	rememberTTL   time.Duration
	countryPrefix string
}

func NewAuthService(users UserStore, bcryptCost int, rememberTTL time.Duration, countryPrefix string) (*AuthService, error) {
	validate := validator.New()
	if err := validation.RegisterCustomValidators(validate); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:         users,
		validate:      validate,
		bcryptCost:    bcryptCost,
		rememberTTL:   rememberTTL,
		countryPrefix: countryPrefix,
	}, nil
}

// Register validates the submission and persists the new user (plus the
// shelter profile for shelter accounts) atomically. A non-empty Errors return
// means the form should be re-rendered; a non-nil error means the attempt
// failed for reasons the user cannot fix by editing fields.
//
// All syntactic rules run before any database access; the duplicate checks
// both run even when the first one fails, so both messages surface together.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (validation.Errors, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Register")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	trimRegisterRequest(req)

	logger.InfoWithContext(ctx, "Registration attempt").
		String("email", req.Email).
		String("username", req.Username).
		String("user_type", req.UserType).
		Log()

	if err := s.validate.Struct(req); err != nil {
		formErrors := validation.CollectErrors(err)
		logger.InfoWithContext(ctx, "Registration validation failed").
			String("email", req.Email).
			Int("error_count", len(formErrors)).
			Log()
		return formErrors, nil
	}

	var formErrors validation.Errors

	if _, err := s.users.GetByUsername(ctx, req.Username); err == nil {
		formErrors = append(formErrors, validation.FieldError{Field: "Username", Message: apperrors.ErrUsernameExists.Message})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.ErrorWithContext(ctx, "Username availability check failed").
			String("username", req.Username).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrRegistrationFailed, err)
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		formErrors = append(formErrors, validation.FieldError{Field: "Email", Message: apperrors.ErrEmailExists.Message})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.ErrorWithContext(ctx, "Email availability check failed").
			String("email", req.Email).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrRegistrationFailed, err)
	}

	if len(formErrors) > 0 {
		return formErrors, nil
	}

	phone, err := NormalizePhone(req.Phone, s.countryPrefix)
	if err != nil {
		return validation.Errors{{Field: "Phone", Message: "Please enter a valid phone number"}}, nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to hash password").
			String("email", req.Email).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrRegistrationFailed, err)
	}

	user := &model.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashedPassword),
		Role:      req.UserType,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     phone,
		Street:    req.Street,
		City:      req.City,
		District:  req.District,
		Province:  req.Province,
		IsActive:  true,
	}

	var shelter *model.Shelter
	if req.UserType == model.RoleShelter {
		shelter = &model.Shelter{
			ShelterName:   req.ShelterName,
			LicenseNumber: req.ShelterLicense,
			Capacity:      req.ShelterCapacity,
		}
	}

	if err := s.users.CreateWithShelter(ctx, user, shelter); err != nil {
		// The store's uniqueness constraint is the authority: a conflict that
		// slipped past the pre-check maps to the same duplicate message.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.attributeDuplicate(ctx, req), nil
		}
		logger.ErrorWithContext(ctx, "Registration transaction failed").
			String("email", req.Email).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrRegistrationFailed, err)
	}

	logger.InfoWithContext(ctx, "User registered successfully").
		String("email", req.Email).
		String("role", user.Role).
		Int("user_id", int(user.ID)).
		Log()

	return nil, nil
}

// attributeDuplicate decides which field collided after the insert hit the
// uniqueness constraint
func (s *AuthService) attributeDuplicate(ctx context.Context, req *dto.RegisterRequest) validation.Errors {
	if _, err := s.users.GetByUsername(ctx, req.Username); err == nil {
		return validation.Errors{{Field: "Username", Message: apperrors.ErrUsernameExists.Message}}
	}
	return validation.Errors{{Field: "Email", Message: apperrors.ErrEmailExists.Message}}
}

// Login verifies credentials and returns the matched user. Unknown email and
// wrong password return the same error; a known, verified account that is
// deactivated returns its own message.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*model.User, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Login")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Field precedence is fixed: password, then email, then email syntax
	if req.Password == "" {
		return nil, apperrors.ErrPasswordRequired
	}
	if email == "" {
		return nil, apperrors.ErrEmailRequired
	}
	if !emailSyntax.MatchString(email) {
		return nil, apperrors.ErrEmailInvalid
	}

	logger.InfoWithContext(ctx, "Login attempt").
		String("email", email).
		Log()

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.InfoWithContext(ctx, "Login failed: unknown email").
				String("email", email).
				Log()
			return nil, apperrors.ErrInvalidCredentials
		}
		logger.ErrorWithContext(ctx, "Login lookup failed").
			String("email", email).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrLoginFailed, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		logger.WarnWithContext(ctx, "Login failed: password mismatch").
			String("email", email).
			Int("user_id", int(user.ID)).
			Log()
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		logger.WarnWithContext(ctx, "Login denied: account deactivated").
			String("email", email).
			Int("user_id", int(user.ID)).
			Log()
		return nil, apperrors.ErrAccountDeactivated
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		// Login still succeeds
		logger.WarnWithContext(ctx, "Failed to update last login").
			Int("user_id", int(user.ID)).
			Err(err).
			Log()
	}

	logger.InfoWithContext(ctx, "User logged in successfully").
		String("email", email).
		String("role", user.Role).
		Int("user_id", int(user.ID)).
		Log()

	return user, nil
}

// SessionSnapshot builds the denormalized session payload taken at login
func (s *AuthService) SessionSnapshot(user *model.User) session.Data {
	return session.Data{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		CreatedAt: time.Now(),
	}
}

// IssueRememberToken creates a fresh remember-me token for the user, stores
// its bcrypt hash with the configured expiry and returns the plaintext value
// for the cookie.
func (s *AuthService) IssueRememberToken(ctx context.Context, userID uint) (string, time.Time, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "IssueRememberToken")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	token, err := generateRememberToken()
	if err != nil {
		return "", time.Time{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to hash remember token: %w", err)
	}

	expiresAt := time.Now().Add(s.rememberTTL)
	if err := s.users.UpdateRememberToken(ctx, userID, string(hash), &expiresAt); err != nil {
		return "", time.Time{}, err
	}

	logger.DebugWithContext(ctx, "Remember token issued").
		Int("user_id", int(userID)).
		Log()

	return token, expiresAt, nil
}

// RedeemRememberToken re-authenticates a caller from a remember-me cookie.
// On success the token is rotated: the returned replacement must be set as
// the new cookie value. Expired or unmatched tokens fail.
func (s *AuthService) RedeemRememberToken(ctx context.Context, token string) (*model.User, string, time.Time, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "RedeemRememberToken")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	user, err := s.users.FindByRememberToken(ctx, token)
	if err != nil {
		return nil, "", time.Time{}, apperrors.WrapError(apperrors.ErrInvalidCredentials, err)
	}

	if user.RememberTokenExpires != nil && user.RememberTokenExpires.Before(time.Now()) {
		logger.InfoWithContext(ctx, "Remember token expired").
			Int("user_id", int(user.ID)).
			Log()
		if err := s.users.UpdateRememberToken(ctx, user.ID, "", nil); err != nil {
			logger.WarnWithContext(ctx, "Failed to clear expired remember token").
				Int("user_id", int(user.ID)).
				Err(err).
				Log()
		}
		return nil, "", time.Time{}, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, "", time.Time{}, apperrors.ErrAccountDeactivated
	}

	newToken, expiresAt, err := s.IssueRememberToken(ctx, user.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	logger.InfoWithContext(ctx, "Session re-established from remember token").
		Int("user_id", int(user.ID)).
		String("role", user.Role).
		Log()

	return user, newToken, expiresAt, nil
}

// ClearRememberToken drops the stored token, invalidating outstanding cookies
func (s *AuthService) ClearRememberToken(ctx context.Context, userID uint) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "ClearRememberToken")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")
	return s.users.UpdateRememberToken(ctx, userID, "", nil)
}

// generateRememberToken returns a 64-hex-char random token
func generateRememberToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate remember token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

func trimRegisterRequest(req *dto.RegisterRequest) {
	req.UserType = strings.TrimSpace(req.UserType)
	req.Username = strings.TrimSpace(req.Username)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	req.Street = strings.TrimSpace(req.Street)
	req.City = strings.TrimSpace(req.City)
	req.District = strings.TrimSpace(req.District)
	req.Province = strings.TrimSpace(req.Province)
	req.ShelterName = strings.TrimSpace(req.ShelterName)
	req.ShelterLicense = strings.TrimSpace(req.ShelterLicense)
}
