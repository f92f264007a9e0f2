package services_test

import (
	"fmt"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"nilai/internal/models"
	"nilai/internal/repositories"
	"nilai/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(filter repositories.UserFilter) ([]models.User, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

var errEmailFree = fmt.Errorf("no such user: %w", repositories.ErrNotFound)

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func TestAuthService_Register(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	// Test successful registration
	mockRepo.On("GetByEmail", "alice@example.com").Return(nil, errEmailFree).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, err := authService.Register("Alice Longname Testperson", "alice@example.com", "1 Test Street", "Sup3rSecret!")
	assert.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "Sup3rSecret!", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("Sup3rSecret!")))
	mockRepo.AssertExpectations(t)

	// Test email already registered: the repo is never asked to create
	mockRepo.On("GetByEmail", "alice@example.com").Return(&models.User{ID: "1"}, nil).Once()
	_, err = authService.Register("Alice Longname Testperson", "alice@example.com", "1 Test Street", "Sup3rSecret!")
	assert.ErrorIs(t, err, services.ErrEmailTaken)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_PasswordPolicy(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	valid := []string{"Abc12345!", "PASSWORD@1", "xY#aaaaa", "Abcdefghijklmn1!"}
	for _, password := range valid {
		assert.NoError(t, authService.ValidatePasswordPolicy(password), "expected %q to pass", password)
	}

	invalid := []string{
		"Ab1!",               // too short
		"Abcdefghijklmnop1!", // too long
		"abc12345!",          // no uppercase
		"Abc123456",          // no special character
		"",
	}
	for _, password := range invalid {
		err := authService.ValidatePasswordPolicy(password)
		assert.ErrorIs(t, err, services.ErrPasswordPolicy, "expected %q to fail", password)
	}

	// A policy failure during registration must never reach the repository.
	mockRepo.On("GetByEmail", "bob@example.com").Return(nil, errEmailFree).Once()
	_, err := authService.Register("Bob Longname Testperson II", "bob@example.com", "2 Test Street", "weakpass")
	assert.ErrorIs(t, err, services.ErrPasswordPolicy)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("Sup3rSecret!"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Name:     "Alice Longname Testperson",
		Email:    "alice@example.com",
		Password: string(hashedPassword),
		Role:     models.RoleUser,
	}

	// Test successful login
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	loggedIn, token, err := authService.Login(user.Email, "Sup3rSecret!")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token)

	// The token must carry identity and role, with a 7-day expiry.
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, "USER", claims["role"])
	exp := int64(claims["exp"].(float64))
	assert.InDelta(t, time.Now().Add(7*24*time.Hour).Unix(), exp, 60)
	mockRepo.AssertExpectations(t)

	// Wrong password and unknown email fail with the same error, so a
	// caller cannot tell whether the email exists.
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	_, _, errWrongPassword := authService.Login(user.Email, "WrongPass1!")
	assert.ErrorIs(t, errWrongPassword, services.ErrInvalidCredentials)

	mockRepo.On("GetByEmail", "nobody@example.com").Return(nil, errEmailFree).Once()
	_, _, errUnknownEmail := authService.Login("nobody@example.com", "Sup3rSecret!")
	assert.ErrorIs(t, errUnknownEmail, services.ErrInvalidCredentials)
	assert.Equal(t, errWrongPassword, errUnknownEmail)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ChangePassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("Sup3rSecret!"), bcrypt.DefaultCost)
	makeUser := func() *models.User {
		return &models.User{
			ID:       "user-123",
			Email:    "alice@example.com",
			Password: string(hashedPassword),
			Role:     models.RoleUser,
		}
	}

	// Wrong current password
	mockRepo.On("GetByID", "user-123").Return(makeUser(), nil).Once()
	err := authService.ChangePassword("user-123", "WrongPass1!", "N3wSecret!")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	// New password violates the policy; nothing is persisted
	mockRepo.On("GetByID", "user-123").Return(makeUser(), nil).Once()
	err = authService.ChangePassword("user-123", "Sup3rSecret!", "weakpass")
	assert.ErrorIs(t, err, services.ErrPasswordPolicy)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything)

	// Successful change re-hashes before persisting
	mockRepo.On("GetByID", "user-123").Return(makeUser(), nil).Once()
	mockRepo.On("Update", mock.MatchedBy(func(u *models.User) bool {
		return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("N3wSecret!")) == nil
	})).Return(nil).Once()
	err = authService.ChangePassword("user-123", "Sup3rSecret!", "N3wSecret!")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	// Generate a valid token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"role":    "ADMIN",
		"exp":     jwt.TimeFunc().Add(time.Hour).Unix(),
	})
	validTokenString, _ := token.SignedString([]byte(testJWTSecret))

	// Test valid token
	claims, err := authService.ValidateToken(validTokenString)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims["user_id"])
	assert.Equal(t, "ADMIN", claims["role"])

	// Garbage, wrong secret and expiry all fail identically.
	_, err = authService.ValidateToken("invalid.token.string")
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	wrongSecretToken, _ := token.SignedString([]byte("some_other_secret"))
	_, err = authService.ValidateToken(wrongSecretToken)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"role":    "USER",
		"exp":     jwt.TimeFunc().Add(-time.Hour).Unix(), // Expired 1 hour ago
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}
