package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/alexanderramin/sitemenu/internal/db"
)

// FailOnNthExecUoW runs each transaction through a DBTX that fails the Nth
// ExecContext call with Err. Reads pass through uncounted. For a menu
// AppendChild the two gap shifts are execs 1 and 2 and the insert is 3.
//
// FailOn 0 never fails, which turns the type into a write recorder: every
// statement that reached the database is kept for Statements.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int
	Err    error

	mu    sync.Mutex
	execs []string
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	wrapped := &failOnNthExec{DBTX: tx, uow: u}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

// Statements returns the verb of each exec that ran, e.g. "UPDATE menus",
// across all transactions so far.
func (u *FailOnNthExecUoW) Statements() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.execs...)
}

type failOnNthExec struct {
	db.DBTX
	uow   *FailOnNthExecUoW
	count int
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.count++
	if f.uow.FailOn > 0 && f.count == f.uow.FailOn {
		return nil, f.uow.Err
	}
	res, err := f.DBTX.ExecContext(ctx, query, args...)
	if err == nil {
		f.uow.mu.Lock()
		f.uow.execs = append(f.uow.execs, statementVerb(query))
		f.uow.mu.Unlock()
	}
	return res, err
}

// statementVerb reduces a query to its verb and table: "INSERT INTO menus"
// becomes "INSERT menus".
func statementVerb(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}
	verb := strings.ToUpper(fields[0])
	for i := 1; i < len(fields); i++ {
		switch strings.ToUpper(fields[i]) {
		case "INTO", "FROM", "OR", "REPLACE", "IGNORE":
			continue
		}
		return verb + " " + fields[i]
	}
	return verb
}
