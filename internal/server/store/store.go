// Package store provides the server's persistence layer using GORM.
package store

import (
	"errors"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned when a record does not exist or belongs to
// a different user.
var ErrNotFound = errors.New("not found")

// User is the account record.
type User struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Task is the task record. Timestamps serialize as RFC 3339, which the
// client treats as opaque display strings.
type Task struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      string    `gorm:"index;not null" json:"user_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description *string   `gorm:"size:1000" json:"description"`
	Completed   bool      `gorm:"index;default:false" json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store wraps the database handle.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the SQLite database at path and migrates the
// schema. Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&User{}, &Task{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// CreateUser inserts a new account.
func (s *Store) CreateUser(u *User) error {
	return s.db.Create(u).Error
}

// FindUserByEmail returns the account with the given email.
func (s *Store) FindUserByEmail(email string) (*User, error) {
	var u User
	if err := s.db.First(&u, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// EmailExists checks whether an account with the email already exists.
func (s *Store) EmailExists(email string) (bool, error) {
	var count int64
	if err := s.db.Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListTasks returns a user's tasks filtered by status and sorted.
// status: all|pending|completed; sort: created (created_at desc) | title (asc).
func (s *Store) ListTasks(userID, status, sort string) ([]Task, error) {
	q := s.db.Where("user_id = ?", userID)

	switch status {
	case "pending":
		q = q.Where("completed = ?", false)
	case "completed":
		q = q.Where("completed = ?", true)
	}

	if sort == "title" {
		q = q.Order("title asc")
	} else {
		q = q.Order("created_at desc")
	}

	tasks := []Task{}
	if err := q.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask returns a single task, ensuring it belongs to the user.
func (s *Store) GetTask(userID string, taskID int) (*Task, error) {
	var t Task
	if err := s.db.First(&t, "id = ? AND user_id = ?", taskID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// CreateTask inserts a new task for the user.
func (s *Store) CreateTask(t *Task) error {
	return s.db.Create(t).Error
}

// UpdateTask applies the given column changes to a user's task and
// returns the updated record.
func (s *Store) UpdateTask(userID string, taskID int, changes map[string]any) (*Task, error) {
	t, err := s.GetTask(userID, taskID)
	if err != nil {
		return nil, err
	}
	changes["updated_at"] = time.Now().UTC()
	if err := s.db.Model(t).Updates(changes).Error; err != nil {
		return nil, err
	}
	return s.GetTask(userID, taskID)
}

// DeleteTask removes a user's task. Returns ErrNotFound when nothing
// was deleted.
func (s *Store) DeleteTask(userID string, taskID int) error {
	res := s.db.Where("id = ? AND user_id = ?", taskID, userID).Delete(&Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleTask flips a task's completed flag and returns the updated record.
func (s *Store) ToggleTask(userID string, taskID int) (*Task, error) {
	t, err := s.GetTask(userID, taskID)
	if err != nil {
		return nil, err
	}
	return s.UpdateTask(userID, taskID, map[string]any{"completed": !t.Completed})
}
