package store

import (
	"errors"
	"time"

	"korsify/backend/models"

	"gorm.io/gorm"
)

// Одиночные выборки возвращают (запись, найдена, ошибка): отсутствие
// записи — не ошибка, вызывающий сам решает, как на него реагировать.

func (s *Store) GetUser(id uint) (models.User, bool, error) {
	var user models.User
	err := s.DB.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, err
	}
	return user, true, nil
}

func (s *Store) GetUserByEmail(email string) (models.User, bool, error) {
	var user models.User
	err := s.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, err
	}
	return user, true, nil
}

func (s *Store) CreateUser(user *models.User) error {
	if user.AuthProvider == "" {
		user.AuthProvider = "local"
	}
	return s.DB.Create(user).Error
}

func (s *Store) UpdateUser(id uint, updates map[string]interface{}) (models.User, error) {
	if err := s.DB.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return models.User{}, err
	}
	var user models.User
	err := s.DB.First(&user, id).Error
	return user, err
}

func (s *Store) UpdateUserRole(id uint, role string) error {
	return s.DB.Model(&models.User{}).Where("id = ?", id).
		Update("current_role", role).Error
}

func (s *Store) UpdateUserPassword(id uint, passwordHash string) error {
	return s.DB.Model(&models.User{}).Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

func (s *Store) GetUserByGoogleID(googleID string) (models.User, bool, error) {
	return s.getUserByProviderID("google_id", googleID)
}

func (s *Store) GetUserByAppleID(appleID string) (models.User, bool, error) {
	return s.getUserByProviderID("apple_id", appleID)
}

func (s *Store) GetUserByLinkedInID(linkedinID string) (models.User, bool, error) {
	return s.getUserByProviderID("linked_in_id", linkedinID)
}

func (s *Store) getUserByProviderID(column, value string) (models.User, bool, error) {
	var user models.User
	err := s.DB.Where(column+" = ?", value).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, err
	}
	return user, true, nil
}

func (s *Store) UpdateUserGoogleID(userID uint, googleID string) error {
	return s.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("google_id", googleID).Error
}

// CreateGoogleUser регистрирует пользователя по данным OAuth-колбэка.
// Аккаунты Google считаются подтверждёнными, роль выбирается после входа.
func (s *Store) CreateGoogleUser(email, googleID, firstName, lastName string) (models.User, error) {
	user := models.User{
		Email:         email,
		GoogleID:      googleID,
		FirstName:     firstName,
		LastName:      lastName,
		EmailVerified: true,
		AuthProvider:  "google",
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// UpsertUser создаёт пользователя или обновляет существующего по email
func (s *Store) UpsertUser(user *models.User) error {
	existing, found, err := s.GetUserByEmail(user.Email)
	if err != nil {
		return err
	}
	if !found {
		return s.CreateUser(user)
	}
	user.ID = existing.ID
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now()
	return s.DB.Save(user).Error
}
