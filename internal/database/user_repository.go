package database

import (
	"database/sql"
	"fmt"

	"github.com/example/algotrack/pkg/models"
)

// UserRepository handles database operations for users
type UserRepository struct{}

// NewUserRepository creates a new repository instance
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// GetByID returns a user by ID
func (r *UserRepository) GetByID(id int64) (*models.User, error) {
	var user models.User
	err := DB.Get(&user, "SELECT id, username, created_at, updated_at FROM users WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %v", err)
	}
	return &user, nil
}

// GetAll returns all users
func (r *UserRepository) GetAll() ([]models.User, error) {
	var users []models.User
	err := DB.Select(&users, "SELECT id, username, created_at, updated_at FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %v", err)
	}
	return users, nil
}

// GetOrCreate returns the user with the given ID, creating it on first sight.
func (r *UserRepository) GetOrCreate(id int64, username string) (*models.User, error) {
	var user models.User
	err := DB.Get(&user, "SELECT id, username, created_at, updated_at FROM users WHERE id = $1", id)
	if err == nil {
		return &user, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}

	if _, err := DB.Exec("INSERT INTO users (id, username) VALUES ($1, $2)", id, username); err != nil {
		return nil, fmt.Errorf("failed to create user: %v", err)
	}
	return r.GetByID(id)
}

// Delete removes a user and the progress owned by it
func (r *UserRepository) Delete(id int64) error {
	if _, err := DB.Exec("DELETE FROM sheet_progress WHERE user_id = $1", id); err != nil {
		return fmt.Errorf("failed to delete user progress: %v", err)
	}
	if _, err := DB.Exec("DELETE FROM users WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete user: %v", err)
	}
	return nil
}
