package services

import (
	"testing"

	"github.com/amanmukri03/trello-backend/internal/models"
	"github.com/amanmukri03/trello-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// AuthServiceTestSuite defines the test suite for AuthService
type AuthServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *AuthService
}

// SetupTest runs before each test
func (suite *AuthServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.User{})
	suite.Require().NoError(err)

	suite.service = NewAuthService(repository.NewUserRepository(suite.db))
}

// TearDownTest runs after each test
func (suite *AuthServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *AuthServiceTestSuite) TestSignup_Success() {
	user, err := suite.service.Signup(SignupInput{
		Name:     "Mira",
		Email:    "Mira@Example.com",
		Password: "password123",
		Role:     models.RoleManager,
	})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), "Mira", user.Name)
	// Emails are normalized to lower case.
	assert.Equal(suite.T(), "mira@example.com", user.Email)
	assert.Equal(suite.T(), models.RoleManager, user.Role)
	assert.NotEqual(suite.T(), "password123", user.PasswordHash)
	assert.NoError(suite.T(), bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
}

func (suite *AuthServiceTestSuite) TestSignup_DefaultsToMember() {
	user, err := suite.service.Signup(SignupInput{
		Name:     "Noor",
		Email:    "noor@example.com",
		Password: "password123",
	})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.RoleMember, user.Role)
}

func (suite *AuthServiceTestSuite) TestSignup_InvalidRole() {
	_, err := suite.service.Signup(SignupInput{
		Name:     "Noor",
		Email:    "noor@example.com",
		Password: "password123",
		Role:     "Owner",
	})

	assert.ErrorIs(suite.T(), err, ErrInvalidRole)
}

func (suite *AuthServiceTestSuite) TestSignup_PasswordTooShort() {
	_, err := suite.service.Signup(SignupInput{
		Name:     "Noor",
		Email:    "noor@example.com",
		Password: "short",
	})

	assert.ErrorIs(suite.T(), err, ErrPasswordTooShort)
}

func (suite *AuthServiceTestSuite) TestSignup_DuplicateEmail() {
	_, err := suite.service.Signup(SignupInput{
		Name: "Noor", Email: "noor@example.com", Password: "password123",
	})
	suite.Require().NoError(err)

	_, err = suite.service.Signup(SignupInput{
		Name: "Other", Email: "NOOR@example.com", Password: "password123",
	})

	assert.ErrorIs(suite.T(), err, ErrEmailTaken)
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	_, err := suite.service.Signup(SignupInput{
		Name: "Noor", Email: "noor@example.com", Password: "password123",
	})
	suite.Require().NoError(err)

	user, err := suite.service.Login(LoginInput{
		Email:    "noor@example.com",
		Password: "password123",
	})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), "Noor", user.Name)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	_, err := suite.service.Signup(SignupInput{
		Name: "Noor", Email: "noor@example.com", Password: "password123",
	})
	suite.Require().NoError(err)

	_, err = suite.service.Login(LoginInput{
		Email:    "noor@example.com",
		Password: "wrongpassword",
	})

	assert.ErrorIs(suite.T(), err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownEmail() {
	_, err := suite.service.Login(LoginInput{
		Email:    "ghost@example.com",
		Password: "password123",
	})

	assert.ErrorIs(suite.T(), err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestGetUser_NotFound() {
	_, err := suite.service.GetUser(999)

	assert.ErrorIs(suite.T(), err, ErrUserNotFound)
}

// TestSuite runs the test suite
func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
