// Package gitleterr defines the closed set of user-visible error strings
// that gitlet commands may fail with.
//
// Per the CLI contract, a recognized error is printed verbatim to standard
// output and the process exits 0 — it is not an "error" in the process-exit
// sense, just a message. UserError marks a message as belonging to that
// closed set so internal/cli can tell it apart from an unspecified internal
// failure, which propagates to cmd/gitlet and exits non-zero.
package gitleterr

import "fmt"

// UserError is a recognized, user-facing failure message.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

// New constructs a UserError with the given message.
func New(message string) *UserError {
	return &UserError{Message: message}
}

// Newf constructs a UserError with a formatted message.
func Newf(format string, args ...any) *UserError {
	return &UserError{Message: fmt.Sprintf(format, args...)}
}

// Closed set of exact user-facing messages. Centralizing them here means a
// command handler and its tests are always comparing the same string.
var (
	ErrAlreadyInitialized        = New("A Gitlet version-control system already exists in the current directory.")
	ErrNotInitialized            = New("Not in an initialized Gitlet directory.")
	ErrNoCommand                 = New("Please enter a command.")
	ErrUnknownCommand            = New("No command with that name exists.")
	ErrIncorrectOperands         = New("Incorrect operands.")
	ErrEmptyCommitMessage        = New("Please enter a commit message.")
	ErrFileDoesNotExist          = New("File does not exist.")
	ErrNoChangesToCommit         = New("No changes added to the commit.")
	ErrNoReasonToRemove          = New("No reason to remove the file.")
	ErrFileNotInCommit           = New("File does not exist in that commit.")
	ErrNoSuchBranch              = New("No such branch exists.")
	ErrAlreadyOnBranch           = New("No need to checkout the current branch.")
	ErrUntrackedFileInTheWay     = New("There is an untracked file in the way; delete it, or add and commit it first.")
	ErrBranchAlreadyExists       = New("A branch with that name already exists.")
	ErrCannotRemoveCurrentBranch = New("Cannot remove the current branch.")
	ErrNoCommitWithID            = New("No commit with that id exists.")
	ErrNoCommitFoundWithMessage  = New("Found no commit with that message.")
	ErrUncommittedChanges        = New("You have uncommitted changes.")
	ErrNoSuchBranchToMerge       = New("A branch with that name does not exist.")
	ErrCannotMergeSelf           = New("Cannot merge a branch with itself.")
	ErrGivenBranchIsAncestor     = New("Given branch is an ancestor of the current branch.")
	ErrRemoteAlreadyExists       = New("A remote with that name already exists.")
	ErrNoSuchRemote              = New("A remote with that name does not exist.")
)
