// Command skillctl is a terminal client for the skill practice log. It keeps
// the signed-in session between runs and talks to the API (or, with
// CLIENT_BACKEND=store, straight to the database).
//
// Usage:
//
//	skillctl signup <name> <password>
//	skillctl login <name> <password>
//	skillctl logout
//	skillctl skills [-self]
//	skillctl submit -skill <name> -link <url> [-file <path>]
//	skillctl logs [-skill <name>]
//	skillctl delete <log-id>
//	skillctl approve <log-id>
//	skillctl reject <log-id>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sakif/skill-log/internal/apperror"
	"github.com/sakif/skill-log/internal/catalog"
	"github.com/sakif/skill-log/internal/client"
	"github.com/sakif/skill-log/internal/config"
	"github.com/sakif/skill-log/internal/logging"
	"github.com/sakif/skill-log/internal/model"
	"github.com/sakif/skill-log/internal/state"
)

const usage = `usage: skillctl <command> [args]

commands:
  signup <name> <password>
  login <name> <password>
  logout
  skills [-self]
  submit -skill <name> -link <url> [-file <path>]
  logs [-skill <name>]
  delete <log-id>
  approve <log-id>
  reject <log-id>
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// stdout is command output; logs go to LOG_FILE only
	logger, closer := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, NoStdout: true})
	defer closer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, cfg, logger, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "skillctl: %s\n", describe(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger, cmd string, args []string) error {
	c, clientCloser, err := client.New(cfg, logger)
	if err != nil {
		return err
	}
	defer clientCloser.Close()

	sessions, sessionCloser, err := openSessions(ctx, cfg)
	if err != nil {
		return err
	}
	defer sessionCloser.Close()

	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return err
	}

	store, err := state.New(ctx, c, sessions, cat, logger)
	if err != nil {
		return err
	}

	switch cmd {
	case "signup", "login":
		if len(args) != 2 {
			return fmt.Errorf("%s needs <name> <password>", cmd)
		}
		signIn := store.SignIn
		if cmd == "signup" {
			signIn = store.SignUp
		}
		account, err := signIn(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("signed in as %s (%s)\n", account.Name, account.Role)
		return nil

	case "logout":
		return store.SignOut(ctx)

	case "skills":
		fs := flag.NewFlagSet("skills", flag.ContinueOnError)
		self := fs.Bool("self", false, "admins: show own progress instead of moderation counts")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if err := requireUser(store); err != nil {
			return err
		}
		if err := store.FetchSkills(ctx, *self); err != nil {
			return err
		}
		printSkills(store.Skills())
		return nil

	case "submit":
		return submit(ctx, store, args)

	case "logs":
		fs := flag.NewFlagSet("logs", flag.ContinueOnError)
		skill := fs.String("skill", "", "only logs for this skill")
		if err := fs.Parse(args); err != nil {
			return err
		}
		logs, err := store.MyLogs(ctx, *skill)
		if err != nil {
			return err
		}
		printLogs(logs)
		return nil

	case "delete":
		if len(args) != 1 {
			return errors.New("delete needs <log-id>")
		}
		if err := requireUser(store); err != nil {
			return err
		}
		return store.DeletePracticeLog(ctx, args[0])

	case "approve", "reject":
		if len(args) != 1 {
			return fmt.Errorf("%s needs <log-id>", cmd)
		}
		if user := store.User(); user == nil || !user.IsAdmin() {
			return apperror.Forbidden("admin role required")
		}
		status := model.StatusApproved
		if cmd == "reject" {
			status = model.StatusRejected
		}
		return store.UpdateLogStatus(ctx, args[0], status)
	}

	return fmt.Errorf("unknown command %q\n%s", cmd, usage)
}

func submit(ctx context.Context, store *state.Store, args []string) error {
	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	skill := fs.String("skill", "", "skill name")
	link := fs.String("link", "", "link to the forum post")
	file := fs.String("file", "", "read the text from a file instead of stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*skill) == "" {
		return errors.New("submit needs -skill")
	}

	var (
		content []byte
		err     error
	)
	if *file != "" {
		content, err = os.ReadFile(*file)
	} else {
		content, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("reading text: %w", err)
	}

	log, err := store.AddPracticeLog(ctx, *skill, string(content), *link)
	if err != nil {
		return err
	}
	fmt.Printf("submitted %s: %d words, %s\n", log.ID, log.WordCount, log.Status)
	return nil
}

func requireUser(store *state.Store) error {
	if store.User() == nil {
		return errors.New("not signed in, run skillctl login first")
	}
	return nil
}

func printSkills(skills []model.Skill) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	for _, s := range skills {
		if s.ApprovedCount != nil {
			fmt.Fprintf(w, "%s\tapproved %d\tpending %d\n", s.Name, *s.ApprovedCount, *s.PendingCount)
			continue
		}
		fmt.Fprintf(w, "%s\t%d%%\n", s.Name, s.Progress)
	}
}

func printLogs(logs []model.PracticeLog) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	for _, l := range logs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d words\t%s\n",
			l.ID, l.CreatedAt.Local().Format("2006-01-02 15:04"), l.SkillName, l.WordCount, l.Status)
	}
}

// describe prefers the user-facing message of a domain error.
func describe(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func openSessions(ctx context.Context, cfg config.Config) (state.SessionStore, io.Closer, error) {
	if cfg.SessionBackend == config.SessionRedis {
		rdb, err := state.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return state.NewRedisSessionStore(rdb), rdb, nil
	}
	return state.NewFileSessionStore(cfg.SessionFile), noClose{}, nil
}

type noClose struct{}

func (noClose) Close() error { return nil }

