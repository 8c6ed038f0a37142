package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/talentoplus/backend/internal/domain"
)

func (r *Repository) GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	query := `
		SELECT a.id, a.email, a.password_hash, a.created_at, COALESCE(ar.role, '')
		FROM accounts a LEFT JOIN account_roles ar ON a.id = ar.account_id
		WHERE a.username = $1
		ORDER BY ar.role
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var account *domain.Account
	for rows.Next() {
		var row struct {
			ID           int64
			Email        string
			PasswordHash string
			CreatedAt    time.Time
			Role         string
		}

		dst := []any{&row.ID, &row.Email, &row.PasswordHash, &row.CreatedAt, &row.Role}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if account == nil {
			account = &domain.Account{
				ID:           row.ID,
				Username:     username,
				Email:        row.Email,
				PasswordHash: row.PasswordHash,
				Roles:        make([]domain.Role, 0),
				CreatedAt:    row.CreatedAt,
			}
		}
		if row.Role != "" {
			account.Roles = append(account.Roles, domain.Role(row.Role))
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if account == nil {
		return nil, sql.ErrNoRows
	}

	return account, nil
}

// CreateAccount 在同一个事务中创建账户以及它的角色
func (r *Repository) CreateAccount(ctx context.Context, account *domain.Account) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO accounts (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	args := []any{account.Username, account.Email, account.PasswordHash}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&account.ID, &account.CreatedAt); err != nil {
		return translateConstraintError(err)
	}

	query = `
		INSERT INTO account_roles (account_id, role) VALUES ($1, $2)
	`

	for _, role := range account.Roles {
		if _, err := tx.ExecContext(ctx, query, account.ID, role); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) UpdateAccountPassword(ctx context.Context, username string, passwordHash string) error {
	query := `
		UPDATE accounts SET password_hash = $1 WHERE username = $2
	`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, passwordHash, username)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
