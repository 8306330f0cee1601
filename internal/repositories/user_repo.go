package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scholarspace/user-service/internal/database"
	"github.com/scholarspace/user-service/internal/models"
)

const userColumns = `user_id, name, email, password_hash, role, phone, date_of_birth, address, emergency_contact, department_id, is_active, is_first_login, created_at, last_login`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{pool: db.Pool}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanUserRow handles nullable columns and populates a User model.
func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User
	var passwordHash, phone, address, emergencyContact *string
	var role string

	err := scanner.Scan(
		&user.ID, &user.Name, &user.Email, &passwordHash, &role,
		&phone, &user.DateOfBirth, &address, &emergencyContact,
		&user.DepartmentID, &user.IsActive, &user.IsFirstLogin,
		&user.CreatedAt, &user.LastLogin,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	user.Role = models.Role(role)
	if passwordHash != nil {
		user.PasswordHash = *passwordHash
	}
	if phone != nil {
		user.Phone = *phone
	}
	if address != nil {
		user.Address = *address
	}
	if emergencyContact != nil {
		user.EmergencyContact = *emergencyContact
	}

	return &user, nil
}

func scanUserRows(rows pgx.Rows) ([]*models.User, error) {
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	return scanUserRow(r.pool.QueryRow(ctx, query, id))
}

// GetByEmail matches the unique email column exactly. Callers normalize
// email casing before storage and lookup.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUserRow(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	return scanUserRows(rows)
}

func (r *UserRepository) ListByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, role.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query users by role: %w", err)
	}
	return scanUserRows(rows)
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.CreatedAt = time.Now()

	query := `
		INSERT INTO users (name, email, password_hash, role, phone, date_of_birth, address, emergency_contact, department_id, is_active, is_first_login, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + userColumns

	return scanUserRow(r.pool.QueryRow(ctx, query,
		user.Name, user.Email, nullable(user.PasswordHash), user.Role.String(),
		nullable(user.Phone), user.DateOfBirth, nullable(user.Address), nullable(user.EmergencyContact),
		user.DepartmentID, user.IsActive, user.IsFirstLogin, user.CreatedAt,
	))
}

func (r *UserRepository) Update(ctx context.Context, id int64, user *models.User) (*models.User, error) {
	query := `
		UPDATE users
		SET name = $1, role = $2, phone = $3, date_of_birth = $4, address = $5, emergency_contact = $6, department_id = $7, is_active = $8
		WHERE user_id = $9
		RETURNING ` + userColumns

	return scanUserRow(r.pool.QueryRow(ctx, query,
		user.Name, user.Role.String(), nullable(user.Phone), user.DateOfBirth,
		nullable(user.Address), nullable(user.EmergencyContact), user.DepartmentID,
		user.IsActive, id,
	))
}

// UpdatePassword replaces the stored hash and clears the first-login flag.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, is_first_login = FALSE WHERE user_id = $2`

	result, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE users SET last_login = $1 WHERE user_id = $2`

	result, err := r.pool.Exec(ctx, query, at, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SetActive toggles the soft-delete flag.
func (r *UserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE users SET is_active = $1 WHERE user_id = $2`

	result, err := r.pool.Exec(ctx, query, active, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// CountByRole returns user counts grouped by role.
func (r *UserRepository) CountByRole(ctx context.Context) (map[models.Role]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}
	defer rows.Close()

	counts := map[models.Role]int64{
		models.RoleAdmin:      0,
		models.RoleInstructor: 0,
		models.RoleStudent:    0,
	}
	for rows.Next() {
		var role string
		var count int64
		if err := rows.Scan(&role, &count); err != nil {
			return nil, fmt.Errorf("failed to scan role count: %w", err)
		}
		counts[models.Role(role)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating role counts: %w", err)
	}

	return counts, nil
}

// Counts returns total, active, and recently-registered user counts.
func (r *UserRepository) Counts(ctx context.Context) (total, active, recent int64, err error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_active),
		       COUNT(*) FILTER (WHERE created_at > now() - INTERVAL '30 days')
		FROM users`

	if err = r.pool.QueryRow(ctx, query).Scan(&total, &active, &recent); err != nil {
		return 0, 0, 0, database.MapPostgresError(err)
	}
	return total, active, recent, nil
}

// MonthlyRegistrations returns per-month registration counts for the last
// six months, keyed by "YYYY-MM".
func (r *UserRepository) MonthlyRegistrations(ctx context.Context) (map[string]int64, error) {
	query := `
		SELECT to_char(created_at, 'YYYY-MM') AS month, COUNT(*)
		FROM users
		WHERE created_at > now() - INTERVAL '6 months'
		GROUP BY month
		ORDER BY month`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query registration trends: %w", err)
	}
	defer rows.Close()

	trends := make(map[string]int64)
	for rows.Next() {
		var month string
		var count int64
		if err := rows.Scan(&month, &count); err != nil {
			return nil, fmt.Errorf("failed to scan registration trend: %w", err)
		}
		trends[month] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registration trends: %w", err)
	}

	return trends, nil
}
