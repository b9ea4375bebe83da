package services

import (
	"errors"

	"promptversioning-backend/internal/models"
	"promptversioning-backend/internal/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserAlreadyExists  = errors.New("user with this username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// RegisterUser creates an account. The first account becomes an admin.
func (s *UserService) RegisterUser(username, password string) (*models.User, error) {
	var existingUser models.User
	result := s.db.Where("username = ?", username).First(&existingUser)
	if result.Error == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var userCount int64
	if err := s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return nil, err
	}

	role := models.RoleUser
	if userCount == 0 {
		role = models.RoleAdmin
	}

	user := &models.User{
		Username: username,
		Password: string(hashedPassword),
		Role:     role,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// LoginUser checks the password and issues a signed token.
func (s *UserService) LoginUser(username, password string) (string, *models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(s.jwtSecret, user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

// EnsureAdmin creates the bootstrap admin account when it does not exist yet.
func (s *UserService) EnsureAdmin(username, password string) (bool, error) {
	var admin models.User
	err := s.db.Where("username = ?", username).First(&admin).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	admin = models.User{Username: username, Password: string(hashedPassword), Role: models.RoleAdmin}
	if err := s.db.Create(&admin).Error; err != nil {
		return false, err
	}
	return true, nil
}
