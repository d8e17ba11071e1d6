package models

import "time"

type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

// User - пользователь чата. Администратор ведет расчеты за работодателя,
// клиент может быть привязан к сотруднику и видеть только его данные.
type User struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	ChatID     int64     `gorm:"uniqueIndex;not null" json:"chat_id"`
	Username   string    `json:"username"`
	FirstName  string    `gorm:"not null" json:"first_name"`
	LastName   string    `json:"last_name"`
	Role       Role      `gorm:"default:'client'" json:"role"`
	EmployeeID *uint     `gorm:"index" json:"employee_id"`

	Employee *Employee `gorm:"foreignKey:EmployeeID" json:"-"`
}

// IsAdmin проверяет, является ли пользователь администратором
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// SetRole устанавливает роль
func (u *User) SetRole(role Role) {
	u.Role = role
}

// CanView проверяет доступ к данным сотрудника
func (u *User) CanView(employee *Employee) bool {
	if u.IsAdmin() {
		return true
	}
	return employee != nil && u.EmployeeID != nil && *u.EmployeeID == employee.ID
}

// DisplayName возвращает имя для сообщений
func (u *User) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	if u.Username != "" {
		name += " (@" + u.Username + ")"
	}
	return name
}

// TableName задает имя таблицы в БД
func (User) TableName() string {
	return "users"
}
