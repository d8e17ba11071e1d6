package repository

import (
	"errors"

	"nanny-payroll-bot/internal/models"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) (*UserRepository, error) {
	// Автомиграция - создает таблицы если их нет
	err := db.AutoMigrate(&models.User{})
	if err != nil {
		return nil, err
	}

	return &UserRepository{db: db}, nil
}

func (r *UserRepository) Create(user *models.User) error {
	// Проверяем, существует ли уже пользователь
	exists, err := r.Exists(user.ChatID)
	if err != nil {
		return err
	}
	if exists {
		return errors.New("user already exists")
	}

	return r.db.Create(user).Error
}

func (r *UserRepository) GetByChatID(chatID int64) (*models.User, error) {
	var user models.User
	result := r.db.Preload("Employee").Where("chat_id = ?", chatID).First(&user)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if result.Error != nil {
		return nil, result.Error
	}

	return &user, nil
}

func (r *UserRepository) Update(user *models.User) error {
	exists, err := r.Exists(user.ChatID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}

	return r.db.Omit("Employee").Save(user).Error
}

func (r *UserRepository) Delete(chatID int64) error {
	result := r.db.Where("chat_id = ?", chatID).Delete(&models.User{})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) Exists(chatID int64) (bool, error) {
	var count int64
	result := r.db.Model(&models.User{}).Where("chat_id = ?", chatID).Count(&count)

	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (r *UserRepository) GetAll() ([]*models.User, error) {
	var users []*models.User
	result := r.db.Preload("Employee").Order("id ASC").Find(&users)

	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

func (r *UserRepository) UpdateRole(chatID int64, role models.Role) error {
	return r.updateColumn(chatID, "role", string(role))
}

// LinkEmployee привязывает пользователя к сотруднику; nil снимает привязку
func (r *UserRepository) LinkEmployee(chatID int64, employeeID *uint) error {
	return r.updateColumn(chatID, "employee_id", employeeID)
}

func (r *UserRepository) updateColumn(chatID int64, column string, value any) error {
	result := r.db.Model(&models.User{}).
		Where("chat_id = ?", chatID).
		Update(column, value)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) GetAdmins() ([]*models.User, error) {
	var admins []*models.User
	result := r.db.Where("role = ?", models.RoleAdmin).Find(&admins)

	if result.Error != nil {
		return nil, result.Error
	}

	return admins, nil
}

func (r *UserRepository) GetStats() (int, int, error) {
	var total int64
	var admins int64

	// Получаем общее количество пользователей
	result := r.db.Model(&models.User{}).Count(&total)
	if result.Error != nil {
		return 0, 0, result.Error
	}

	// Получаем количество администраторов
	result = r.db.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&admins)
	if result.Error != nil {
		return 0, 0, result.Error
	}

	return int(total), int(admins), nil
}
