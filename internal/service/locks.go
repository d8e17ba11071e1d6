package service

import (
	"strings"
	"sync"
)

// EmployeeLocks выдает мьютекс на сотрудника. Загрузка записей, расчет и
// сохранение одного сотрудника из чата и из HTTP API выполняются по очереди.
type EmployeeLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewEmployeeLocks() *EmployeeLocks {
	return &EmployeeLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock захватывает мьютекс сотрудника и возвращает функцию освобождения
func (l *EmployeeLocks) Lock(name string) func() {
	key := strings.ToLower(strings.TrimSpace(name))

	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
