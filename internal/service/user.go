package service

import (
	"fmt"
	"strings"

	"nanny-payroll-bot/internal/models"
	"nanny-payroll-bot/internal/repository"
)

type UserService struct {
	repo      *repository.UserRepository
	employees repository.EmployeeRepository
}

func NewUserService(repo *repository.UserRepository, employees repository.EmployeeRepository) *UserService {
	return &UserService{repo: repo, employees: employees}
}

// CreateUser создает нового пользователя с ролью client по умолчанию
func (s *UserService) CreateUser(chatID int64, username, firstName, lastName string) (*models.User, error) {
	if strings.TrimSpace(firstName) == "" {
		return nil, fmt.Errorf("first name must not be empty")
	}

	user := &models.User{
		ChatID:    chatID,
		Username:  username,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Role:      models.RoleClient, // По умолчанию client
	}

	if err := s.repo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUser возвращает пользователя по chatID
func (s *UserService) GetUser(chatID int64) (*models.User, error) {
	user, err := s.repo.GetByChatID(chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// UpdateRole обновляет роль пользователя (только для админов)
func (s *UserService) UpdateRole(adminChatID, targetChatID int64, role models.Role) error {
	if err := s.requireAdmin(adminChatID); err != nil {
		return err
	}

	target, err := s.repo.GetByChatID(targetChatID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if target == nil {
		return ErrUserNotFound
	}

	return s.repo.UpdateRole(targetChatID, role)
}

// LinkEmployee привязывает пользователя к сотруднику (только для админов)
func (s *UserService) LinkEmployee(adminChatID, targetChatID int64, employeeName string) (*models.Employee, error) {
	if err := s.requireAdmin(adminChatID); err != nil {
		return nil, err
	}

	employee, err := s.employees.GetByName(strings.TrimSpace(employeeName))
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, fmt.Errorf("%w: %q", ErrEmployeeNotFound, employeeName)
	}

	if err := s.repo.LinkEmployee(targetChatID, &employee.ID); err != nil {
		return nil, err
	}
	return employee, nil
}

func (s *UserService) requireAdmin(chatID int64) error {
	admin, err := s.repo.GetByChatID(chatID)
	if err != nil {
		return fmt.Errorf("failed to check admin: %w", err)
	}
	if admin == nil || !admin.IsAdmin() {
		return fmt.Errorf("%w: only administrators can do this", ErrAccessDenied)
	}
	return nil
}

// FormatUserInfo форматирует информацию о пользователе для вывода
func (s *UserService) FormatUserInfo(user *models.User) string {
	var lines []string

	lines = append(lines, "👤 Profile:")
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("🆔 Chat ID: %d", user.ChatID))

	if user.Username != "" {
		lines = append(lines, fmt.Sprintf("📛 Username: @%s", user.Username))
	}

	lines = append(lines, fmt.Sprintf("👨‍💼 Name: %s", strings.TrimSpace(user.FirstName+" "+user.LastName)))

	roleEmoji := "👤"
	if user.IsAdmin() {
		roleEmoji = "👑"
	}
	lines = append(lines, fmt.Sprintf("%s Role: %s", roleEmoji, string(user.Role)))

	if user.Employee != nil {
		lines = append(lines, fmt.Sprintf("🧾 Employee: %s", user.Employee.Name))
	}

	return strings.Join(lines, "\n")
}

// DeleteUser удаляет пользователя
func (s *UserService) DeleteUser(chatID int64) error {
	exists, err := s.repo.Exists(chatID)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}

	if !exists {
		return ErrUserNotFound
	}

	return s.repo.Delete(chatID)
}

// GetAllUsers возвращает всех пользователей
func (s *UserService) GetAllUsers() ([]*models.User, error) {
	return s.repo.GetAll()
}

// GetStats возвращает статистику
func (s *UserService) GetStats() (int, int, error) {
	return s.repo.GetStats()
}

// FormatAllUsers форматирует список всех пользователей
func (s *UserService) FormatAllUsers() (string, error) {
	users, err := s.GetAllUsers()
	if err != nil {
		return "", err
	}

	if len(users) == 0 {
		return "📭 No users yet.", nil
	}

	var lines []string
	lines = append(lines, "📋 Users:")
	lines = append(lines, "")

	for i, user := range users {
		roleEmoji := "👤"
		if user.IsAdmin() {
			roleEmoji = "👑"
		}

		userInfo := fmt.Sprintf("%d. %s %s - ID: %d", i+1, roleEmoji, user.DisplayName(), user.ChatID)
		if user.Employee != nil {
			userInfo += fmt.Sprintf(" → %s", user.Employee.Name)
		}
		lines = append(lines, userInfo)
	}

	total, admins, _ := s.GetStats()
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("📊 Total users: %d", total))
	lines = append(lines, fmt.Sprintf("👑 Administrators: %d", admins))

	return strings.Join(lines, "\n"), nil
}

// IsAdmin проверяет, является ли пользователь администратором
func (s *UserService) IsAdmin(chatID int64) (bool, error) {
	user, err := s.repo.GetByChatID(chatID)
	if err != nil {
		return false, err
	}

	return user != nil && user.IsAdmin(), nil
}

// InitializeAdmin инициализирует администратора из конфига
func (s *UserService) InitializeAdmin(adminChatID int64) error {
	if adminChatID == 0 {
		return nil // Админ не задан в конфиге
	}

	existingUser, err := s.repo.GetByChatID(adminChatID)
	if err != nil {
		return err
	}

	if existingUser != nil {
		// Если пользователь существует, обновляем его роль на админа
		return s.repo.UpdateRole(adminChatID, models.RoleAdmin)
	}

	adminUser := &models.User{
		ChatID:    adminChatID,
		Username:  "admin",
		FirstName: "Administrator",
		Role:      models.RoleAdmin,
	}

	return s.repo.Create(adminUser)
}
