package errors

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/traffic/internal/keyring"
	"github.com/julianstephens/traffic/internal/lock"
	"github.com/julianstephens/traffic/internal/logger"
	"github.com/julianstephens/traffic/internal/scheduler"
	"github.com/julianstephens/traffic/internal/storage"
)

var hints = []struct {
	target error
	hint   string
}{
	{scheduler.ErrClientNotFound, "add the client with 'traffic client add <name>' or check the spelling in the request"},
	{scheduler.ErrInvalidWorkConfig, "check the working hours with 'traffic settings show'"},
	{lock.ErrLocked, "wait for the other commit to finish, then run the command again"},
	{storage.ErrEmbeddedCredentials, "store the connection string with 'traffic keyring set' and set dsn = \"keyring\""},
	{keyring.ErrNotFound, "store a connection string with 'traffic keyring set'"},
	{keyring.ErrKeyringUnavailable, "use a password-less DSN with ~/.pgpass or PGPASSWORD instead"},
}

// Hint returns a suggested next step for errors the user can fix, or "".
func Hint(err error) string {
	if err == nil {
		return ""
	}
	for _, h := range hints {
		if errors.Is(err, h.target) {
			return h.hint
		}
	}
	if strings.Contains(err.Error(), "storage not initialized") {
		return "run 'traffic init' to create the database"
	}
	return ""
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" && !strings.Contains(msg, hint) {
		msg += "\nHint: " + hint
	}
	return msg
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
