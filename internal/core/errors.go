package core

import (
	"errors"
	"fmt"
)

// Kind classifies an operation failure.
type Kind uint8

const (
	KindIO            Kind = iota // permission, disk or other OS-level failure
	KindNotFound                  // file or folder absent
	KindAlreadyExists             // target exists and overwrite was not requested
	KindNotADirectory             // folder operation on a non-directory
	KindDecrypt                   // key mismatch or corrupted ciphertext
	KindSerialization             // content could not be encoded or parsed as JSON
	KindInvalidPath               // empty, absolute or escaping name
)

var (
	ErrIO            = errors.New("i/o failure")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrNotADirectory = errors.New("not a directory")
	ErrDecrypt       = errors.New("decryption failed")
	ErrSerialization = errors.New("serialization failed")
	ErrInvalidPath   = errors.New("invalid path")

	ErrPassphraseRequired = errors.New("key file is sealed: passphrase required")
	ErrIsDirectory        = errors.New("is a folder, use delete-folder")
	ErrInvalidUTF8        = errors.New("content is not valid UTF-8")
	ErrRootOverlap        = errors.New("target contains the other storage root")
	ErrKeyFile            = errors.New("key files cannot be written or removed")
	ErrClosed             = errors.New("manager is closed")
)

var kindSentinels = [...]error{
	KindIO:            ErrIO,
	KindNotFound:      ErrNotFound,
	KindAlreadyExists: ErrAlreadyExists,
	KindNotADirectory: ErrNotADirectory,
	KindDecrypt:       ErrDecrypt,
	KindSerialization: ErrSerialization,
	KindInvalidPath:   ErrInvalidPath,
}

func (k Kind) String() string {
	return k.sentinelErr().Error()
}

// Operation names, also used as journal ops.
const (
	OpSave         = "save"
	OpRead         = "read"
	OpDelete       = "delete"
	OpEdit         = "edit"
	OpClear        = "clear"
	OpDeleteFolder = "delete-folder"
	OpList         = "list"
	OpSearch       = "search"
	OpDiff         = "diff"
)

var opVerbs = map[string]string{
	OpSave:         "saving file",
	OpRead:         "reading file",
	OpDelete:       "deleting file",
	OpEdit:         "editing file",
	OpClear:        "clearing storage",
	OpDeleteFolder: "deleting folder",
	OpList:         "listing files",
	OpSearch:       "searching files",
	OpDiff:         "comparing file",
}

// Error is the failure result of a storage operation. Its message is meant
// to be shown to the user as-is.
type Error struct {
	Kind Kind
	Op   string
	Name string
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		if e.Op == OpDeleteFolder {
			return fmt.Sprintf("The folder '%s/' does not exist.", e.Name)
		}
		return "File not found"
	case KindAlreadyExists:
		return "File already exists."
	case KindNotADirectory:
		return fmt.Sprintf("'%s' is not a folder.", e.Name)
	}

	verb, ok := opVerbs[e.Op]
	if !ok {
		verb = e.Op
	}
	cause := e.Err
	if cause == nil {
		cause = e.Kind.sentinelErr()
	}
	if e.Name == "" {
		return fmt.Sprintf("Error %s: %v", verb, cause)
	}
	return fmt.Sprintf("Error %s '%s': %v", verb, e.Name, cause)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinelErr()
}

func (k Kind) sentinelErr() error {
	if int(k) < len(kindSentinels) {
		return kindSentinels[k]
	}
	return ErrIO
}

func newError(kind Kind, op, name string, err error) *Error {
	return &Error{Kind: kind, Op: op, Name: name, Err: err}
}

// KindOf returns the kind of err, or KindIO when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindIO
}
