package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"golang.org/x/text/cases"

	"github.com/sakif/skill-log/internal/apperror"
	"github.com/sakif/skill-log/internal/model"
	"github.com/sakif/skill-log/internal/repository"
)

// compile-time check that *DB implements repository.AccountRepository
var _ repository.AccountRepository = (*DB)(nil)

const accountColumns = `id, name, password, role, created_at`

// nameKey is the case-folded form stored in accounts.name_key.
//
// SQLite's NOCASE collation only folds ASCII, which is useless for Cyrillic
// names, so folding happens here. A Caser is not safe for concurrent use,
// hence one per call.
func nameKey(name string) string {
	return cases.Fold().String(name)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*model.Account, error) {
	var a model.Account
	if err := row.Scan(&a.ID, &a.Name, &a.Password, &a.Role, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAccount inserts a new account, filling in ID, CreatedAt and a default
// role. The UNIQUE index on name turns a racing duplicate insert into the same
// DuplicateName error the service's pre-check returns.
func (db *DB) CreateAccount(ctx context.Context, account *model.Account) error {
	account.ID = xid.New().String()
	account.CreatedAt = time.Now().UTC()
	if account.Role == "" {
		account.Role = model.RoleUser
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO accounts (id, name, name_key, password, role, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		account.ID,
		account.Name,
		nameKey(account.Name),
		account.Password,
		account.Role,
		account.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.DuplicateName(account.Name)
		}
		return fmt.Errorf("sqlite: creating account: %w", err)
	}

	return nil
}

// GetAccountByID returns apperror.ErrNotFound if no account has that ID.
func (db *DB) GetAccountByID(ctx context.Context, id string) (*model.Account, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)

	account, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("account", id)
		}
		return nil, fmt.Errorf("sqlite: getting account %s: %w", id, err)
	}
	return account, nil
}

func (db *DB) FindAccountByName(ctx context.Context, name string) (*model.Account, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE name = ?`, name)

	account, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("account", name)
		}
		return nil, fmt.Errorf("sqlite: finding account %q: %w", name, err)
	}
	return account, nil
}

func (db *DB) FindAccountByNameFold(ctx context.Context, name string) (*model.Account, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts
		 WHERE name_key = ?
		 ORDER BY created_at ASC, rowid ASC
		 LIMIT 1`,
		nameKey(name),
	)

	account, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("account", name)
		}
		return nil, fmt.Errorf("sqlite: finding account %q ignoring case: %w", name, err)
	}
	return account, nil
}

// FindAccountByCredentials matches name and password exactly. Both "unknown
// name" and "wrong password" come back as ErrNotFound.
func (db *DB) FindAccountByCredentials(ctx context.Context, name, password string) (*model.Account, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE name = ? AND password = ?`,
		name, password,
	)

	account, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("account", name)
		}
		return nil, fmt.Errorf("sqlite: checking credentials for %q: %w", name, err)
	}
	return account, nil
}

func (db *DB) ListAccountsByName(ctx context.Context) ([]model.Account, error) {
	return db.listAccounts(ctx, `ORDER BY name ASC`)
}

func (db *DB) ListAccountsByNewest(ctx context.Context) ([]model.Account, error) {
	return db.listAccounts(ctx, `ORDER BY created_at DESC, rowid DESC`)
}

func (db *DB) listAccounts(ctx context.Context, orderBy string) ([]model.Account, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts `+orderBy)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]model.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning account row: %w", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating accounts: %w", err)
	}

	return accounts, nil
}

// UpdateAccount applies the non-nil fields of update and returns the
// resulting row. Column names come from a fixed list, never from input.
func (db *DB) UpdateAccount(ctx context.Context, id string, update model.AccountUpdate) (*model.Account, error) {
	var (
		sets []string
		args []any
	)
	if update.Name != nil {
		sets = append(sets, "name = ?", "name_key = ?")
		args = append(args, *update.Name, nameKey(*update.Name))
	}
	if update.Password != nil {
		sets = append(sets, "password = ?")
		args = append(args, *update.Password)
	}
	if update.Role != nil {
		sets = append(sets, "role = ?")
		args = append(args, *update.Role)
	}
	if len(sets) == 0 {
		return nil, apperror.NoUpdates()
	}
	args = append(args, id)

	result, err := db.conn.ExecContext(ctx,
		`UPDATE accounts SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.DuplicateName(*update.Name)
		}
		return nil, fmt.Errorf("sqlite: updating account %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, apperror.NotFound("account", id)
	}

	return db.GetAccountByID(ctx, id)
}

// DeleteAccount removes the account. Deleting a missing ID is not an error,
// and the account's practice logs are left in place.
func (db *DB) DeleteAccount(ctx context.Context, id string) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("sqlite: deleting account %s: %w", id, err)
	}
	return nil
}
