// Package service contains the business rules of the practice log.
//
// Handlers parse HTTP and services enforce rules; neither knows SQL. Every
// service takes repository interfaces so tests can hand it in-memory fakes
// and the direct-store client adapter can call it without HTTP.
//
//	AuthHandler  → AuthService  → AccountRepository
//	AdminHandler → AdminService ↗
//	LogHandler   → LogService   → LogRepository
//	SkillHandler → SkillService → LogRepository + AccountRepository + catalog
//
// ERROR CONTRACT:
// A service returns either an *apperror.AppError, which the handler turns
// into its status and wire code, or a wrapped store error, which it has
// already logged and which the caller only sees as a generic 500.
package service

import (
	"log/slog"
	"strings"

	"github.com/sakif/skill-log/internal/catalog"
	"github.com/sakif/skill-log/internal/repository"
	"github.com/sakif/skill-log/internal/validation"
)

// lookupName normalizes a name carried in a URL path segment: underscores
// stand for spaces.
func lookupName(name string) string {
	return strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
}

// Set bundles the services one store backs.
type Set struct {
	Auth   *AuthService
	Admin  *AdminService
	Logs   *LogService
	Skills *SkillService
}

// NewSet wires every service over the same repositories.
func NewSet(
	accounts repository.AccountRepository,
	logs repository.LogRepository,
	validator *validation.Validator,
	cat *catalog.Catalog,
	logger *slog.Logger,
) *Set {
	return &Set{
		Auth:   NewAuthService(accounts, validator, logger),
		Admin:  NewAdminService(accounts, validator, logger),
		Logs:   NewLogService(logs, validator, logger),
		Skills: NewSkillService(logs, accounts, cat, logger),
	}
}
