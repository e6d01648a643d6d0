package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/skill-log/internal/apperror"
	"github.com/sakif/skill-log/internal/model"
)

// newTestDB returns a fresh in-memory database that is closed when the test ends.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestAccount(t *testing.T, db *DB, name, password string, role model.Role) *model.Account {
	t.Helper()
	account := &model.Account{Name: name, Password: password, Role: role}
	if err := db.CreateAccount(context.Background(), account); err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

func TestCreateAccount(t *testing.T) {
	db := newTestDB(t)

	account := &model.Account{Name: "Луна Лавгуд", Password: "secret1"}
	if err := db.CreateAccount(context.Background(), account); err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}

	if account.ID == "" {
		t.Error("CreateAccount() did not set ID")
	}
	if account.CreatedAt.IsZero() {
		t.Error("CreateAccount() did not set CreatedAt")
	}
	if account.Role != model.RoleUser {
		t.Errorf("Role = %q, want default %q", account.Role, model.RoleUser)
	}

	found, err := db.GetAccountByID(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("GetAccountByID() error = %v", err)
	}
	if found.Name != "Луна Лавгуд" || found.Password != "secret1" {
		t.Errorf("persisted account = %+v", found)
	}
}

func TestCreateAccount_DuplicateNameHitsUniqueIndex(t *testing.T) {
	db := newTestDB(t)
	createTestAccount(t, db, "Гарри Поттер", "secret1", model.RoleUser)

	err := db.CreateAccount(context.Background(), &model.Account{Name: "Гарри Поттер", Password: "other12"})
	if !errors.Is(err, apperror.ErrDuplicateName) {
		t.Fatalf("CreateAccount() error = %v, want ErrDuplicateName", err)
	}
}

func TestCreateAccount_NameDifferingInCaseIsAllowed(t *testing.T) {
	db := newTestDB(t)
	createTestAccount(t, db, "Гарри Поттер", "secret1", model.RoleUser)

	if err := db.CreateAccount(context.Background(), &model.Account{Name: "гарри поттер", Password: "secret1"}); err != nil {
		t.Fatalf("CreateAccount() error = %v, want nil", err)
	}
}

func TestGetAccountByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetAccountByID(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetAccountByID() error = %v, want ErrNotFound", err)
	}
}

func TestFindAccountByName_IsCaseSensitive(t *testing.T) {
	db := newTestDB(t)
	createTestAccount(t, db, "Луна Лавгуд", "secret1", model.RoleUser)

	if _, err := db.FindAccountByName(context.Background(), "Луна Лавгуд"); err != nil {
		t.Fatalf("FindAccountByName(exact) error = %v", err)
	}
	if _, err := db.FindAccountByName(context.Background(), "луна лавгуд"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("FindAccountByName(lower) error = %v, want ErrNotFound", err)
	}
}

func TestFindAccountByNameFold(t *testing.T) {
	db := newTestDB(t)
	created := createTestAccount(t, db, "Луна Лавгуд", "secret1", model.RoleUser)

	for _, query := range []string{"луна лавгуд", "ЛУНА ЛАВГУД", "Луна Лавгуд"} {
		found, err := db.FindAccountByNameFold(context.Background(), query)
		if err != nil {
			t.Fatalf("FindAccountByNameFold(%q) error = %v", query, err)
		}
		if found.ID != created.ID {
			t.Errorf("FindAccountByNameFold(%q) ID = %q, want %q", query, found.ID, created.ID)
		}
	}

	if _, err := db.FindAccountByNameFold(context.Background(), "Невилл"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("FindAccountByNameFold(missing) error = %v, want ErrNotFound", err)
	}
}

func TestFindAccountByNameFold_OldestWins(t *testing.T) {
	db := newTestDB(t)
	first := createTestAccount(t, db, "Луна", "secret1", model.RoleUser)
	createTestAccount(t, db, "луна", "secret2", model.RoleUser)

	found, err := db.FindAccountByNameFold(context.Background(), "ЛУНА")
	if err != nil {
		t.Fatalf("FindAccountByNameFold() error = %v", err)
	}
	if found.ID != first.ID {
		t.Errorf("got %q, want oldest account %q", found.Name, first.Name)
	}
}

func TestFindAccountByCredentials(t *testing.T) {
	db := newTestDB(t)
	createTestAccount(t, db, "Гермиона", "secret1", model.RoleUser)

	tests := []struct {
		name     string
		login    string
		password string
		wantErr  bool
	}{
		{"exact match", "Гермиона", "secret1", false},
		{"wrong password", "Гермиона", "secret2", true},
		{"unknown name", "Рон", "secret1", true},
		{"name differs in case", "гермиона", "secret1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.FindAccountByCredentials(context.Background(), tt.login, tt.password)
			if tt.wantErr && !errors.Is(err, apperror.ErrNotFound) {
				t.Errorf("error = %v, want ErrNotFound", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("error = %v, want nil", err)
			}
		})
	}
}

func TestListAccounts_Ordering(t *testing.T) {
	db := newTestDB(t)
	createTestAccount(t, db, "Вера", "secret1", model.RoleUser)
	createTestAccount(t, db, "Анна", "secret1", model.RoleAdmin)
	createTestAccount(t, db, "Борис", "secret1", model.RoleUser)

	byName, err := db.ListAccountsByName(context.Background())
	if err != nil {
		t.Fatalf("ListAccountsByName() error = %v", err)
	}
	if got := []string{byName[0].Name, byName[1].Name, byName[2].Name}; got[0] != "Анна" || got[1] != "Борис" || got[2] != "Вера" {
		t.Errorf("ListAccountsByName() order = %v", got)
	}

	newest, err := db.ListAccountsByNewest(context.Background())
	if err != nil {
		t.Fatalf("ListAccountsByNewest() error = %v", err)
	}
	if got := []string{newest[0].Name, newest[1].Name, newest[2].Name}; got[0] != "Борис" || got[1] != "Анна" || got[2] != "Вера" {
		t.Errorf("ListAccountsByNewest() order = %v", got)
	}
}

func TestListAccounts_EmptyIsNotNil(t *testing.T) {
	db := newTestDB(t)

	accounts, err := db.ListAccountsByName(context.Background())
	if err != nil {
		t.Fatalf("ListAccountsByName() error = %v", err)
	}
	if accounts == nil {
		t.Error("ListAccountsByName() returned nil, want empty slice")
	}
}

func TestUpdateAccount(t *testing.T) {
	db := newTestDB(t)
	account := createTestAccount(t, db, "Драко", "secret1", model.RoleUser)

	role := model.RoleAdmin
	name := "Драко Малфой"
	updated, err := db.UpdateAccount(context.Background(), account.ID, model.AccountUpdate{Name: &name, Role: &role})
	if err != nil {
		t.Fatalf("UpdateAccount() error = %v", err)
	}
	if updated.Name != name || updated.Role != model.RoleAdmin || updated.Password != "secret1" {
		t.Errorf("UpdateAccount() = %+v", updated)
	}

	// name_key follows the rename
	if _, err := db.FindAccountByNameFold(context.Background(), "драко малфой"); err != nil {
		t.Errorf("FindAccountByNameFold() after rename error = %v", err)
	}
}

func TestUpdateAccount_Errors(t *testing.T) {
	db := newTestDB(t)
	createTestAccount(t, db, "Джинни", "secret1", model.RoleUser)
	other := createTestAccount(t, db, "Рон", "secret1", model.RoleUser)

	if _, err := db.UpdateAccount(context.Background(), other.ID, model.AccountUpdate{}); !errors.Is(err, apperror.ErrNoUpdates) {
		t.Errorf("empty update error = %v, want ErrNoUpdates", err)
	}

	pw := "newpass"
	if _, err := db.UpdateAccount(context.Background(), "missing", model.AccountUpdate{Password: &pw}); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("missing id error = %v, want ErrNotFound", err)
	}

	taken := "Джинни"
	if _, err := db.UpdateAccount(context.Background(), other.ID, model.AccountUpdate{Name: &taken}); !errors.Is(err, apperror.ErrDuplicateName) {
		t.Errorf("rename to taken name error = %v, want ErrDuplicateName", err)
	}
}

func TestDeleteAccount_LeavesLogs(t *testing.T) {
	db := newTestDB(t)
	account := createTestAccount(t, db, "Седрик", "secret1", model.RoleUser)
	createTestLog(t, db, account.ID, "Анимагия")

	if err := db.DeleteAccount(context.Background(), account.ID); err != nil {
		t.Fatalf("DeleteAccount() error = %v", err)
	}
	if _, err := db.GetAccountByID(context.Background(), account.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetAccountByID() after delete error = %v, want ErrNotFound", err)
	}

	logs, err := db.ListLogs(context.Background(), listByUser(account.ID))
	if err != nil {
		t.Fatalf("ListLogs() error = %v", err)
	}
	if len(logs) != 1 {
		t.Errorf("orphaned logs = %d, want 1", len(logs))
	}

	// deleting again is not an error
	if err := db.DeleteAccount(context.Background(), account.ID); err != nil {
		t.Errorf("second DeleteAccount() error = %v", err)
	}
}

func TestPing(t *testing.T) {
	db := newTestDB(t)
	if err := db.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}
