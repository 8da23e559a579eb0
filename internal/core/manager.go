package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/illarion/lockfs/internal/config"
	"github.com/illarion/lockfs/internal/crypto"
	"github.com/illarion/lockfs/internal/keyring"
	"github.com/illarion/lockfs/internal/logging"
	"github.com/illarion/lockfs/internal/security"
	"github.com/illarion/lockfs/internal/storage"
)

const (
	KeySuffix      = ".key"
	DirPermSecure  = 0700 // Directory: owner rwx only
	FilePermSecure = 0600 // File: owner rw only
)

// EncryptedMarker prefixes every encrypted payload on disk.
var EncryptedMarker = []byte("E::")

// Area selects one of the two storage roots.
type Area int

const (
	Persistent Area = iota
	Transient
)

func (a Area) String() string {
	if a == Transient {
		return "temp"
	}
	return "data"
}

// PassphraseFunc supplies the passphrase for a sealed key file.
type PassphraseFunc func(keyFile string) ([]byte, error)

// Manager owns the persistent and transient storage roots and the cipher
// bound to the active key. All operations are synchronous and read the
// filesystem on every call.
type Manager struct {
	roots      [2]*security.Root
	cipher     *crypto.Cipher
	keyFile    string
	journal    *storage.Journal
	log        logging.Logger
	passphrase PassphraseFunc
}

// Option configures a Manager.
type Option func(*Manager)

// WithJournal records mutating operations in j. The caller owns j.
func WithJournal(j *storage.Journal) Option {
	return func(m *Manager) {
		m.journal = j
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(m *Manager) {
		m.log = l
	}
}

// WithPassphraseFunc sets the fallback used to obtain the passphrase of a
// sealed key file when neither configuration nor the keyring provides one.
func WithPassphraseFunc(fn PassphraseFunc) Option {
	return func(m *Manager) {
		m.passphrase = fn
	}
}

// New creates both storage roots if needed, then loads the key file from the
// transient root or generates one.
func New(cfg config.Config, opts ...Option) (*Manager, error) {
	m := &Manager{log: logging.Discard}
	for _, opt := range opts {
		opt(m)
	}

	if cfg.PersistentDir == "" || cfg.TransientDir == "" {
		return nil, fmt.Errorf("storage directories not configured")
	}

	for i, dir := range []string{cfg.PersistentDir, cfg.TransientDir} {
		if err := os.MkdirAll(dir, DirPermSecure); err != nil {
			m.Close()
			return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
		}
		root, err := security.OpenRoot(dir)
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("failed to open storage directory %s: %w", dir, err)
		}
		m.roots[i] = root
	}
	m.log.Debugf("data storage: %s", m.roots[Persistent].Dir())
	m.log.Debugf("temp storage: %s", m.roots[Transient].Dir())

	if err := m.loadOrCreateKey(cfg); err != nil {
		m.Close()
		return nil, err
	}
	return m, nil
}

// Close releases the storage roots and wipes the key from memory.
func (m *Manager) Close() error {
	var errs []error
	for i, root := range m.roots {
		if root != nil {
			errs = append(errs, root.Close())
			m.roots[i] = nil
		}
	}
	if m.cipher != nil {
		m.cipher.Destroy()
		m.cipher = nil
	}
	return errors.Join(errs...)
}

// Root returns the absolute directory of the area.
func (m *Manager) Root(area Area) string {
	if r := m.root(area); r != nil {
		return r.Dir()
	}
	return ""
}

// KeyFile returns the name of the active key file in the transient root.
func (m *Manager) KeyFile() string {
	return m.keyFile
}

// KeySealed reports whether the active key file is protected by a
// passphrase.
func (m *Manager) KeySealed() (bool, error) {
	if m.cipher == nil {
		return false, ErrClosed
	}
	data, err := m.roots[Transient].ReadFile(m.keyFile)
	if err != nil {
		return false, fmt.Errorf("failed to read key file: %w", err)
	}
	defer crypto.ClearBytes(data)
	return crypto.IsSealed(data), nil
}

// checkOpen fails every operation once Close has run.
func (m *Manager) checkOpen(op, name string) error {
	if m.cipher == nil {
		return newError(KindIO, op, name, ErrClosed)
	}
	return nil
}

func (m *Manager) root(area Area) *security.Root {
	if area == Transient {
		return m.roots[Transient]
	}
	return m.roots[Persistent]
}

// other returns the area that is not area.
func other(area Area) Area {
	if area == Transient {
		return Persistent
	}
	return Transient
}

// loadOrCreateKey loads the lexicographically first key file, or writes a
// new one when the transient root has none.
func (m *Manager) loadOrCreateKey(cfg config.Config) error {
	entries, err := m.roots[Transient].ReadDir(".")
	if err != nil {
		return fmt.Errorf("failed to list temp storage: %w", err)
	}

	var keys []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), KeySuffix) {
			keys = append(keys, e.Name())
		}
	}

	if len(keys) == 0 {
		return m.createKey(cfg)
	}
	if len(keys) > 1 {
		m.log.Warnf("found %d key files in %s, using %s", len(keys), m.roots[Transient].Dir(), keys[0])
	}
	return m.loadKey(cfg, keys[0])
}

func (m *Manager) loadKey(cfg config.Config, name string) error {
	data, err := m.roots[Transient].ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read key file: %w", err)
	}
	defer crypto.ClearBytes(data)

	key := data
	if crypto.IsSealed(data) {
		passphrase, err := m.resolvePassphrase(cfg, name)
		if err != nil {
			return err
		}
		defer crypto.ClearBytes(passphrase)

		key, err = crypto.UnsealKey(data, passphrase)
		if err != nil {
			return fmt.Errorf("failed to unseal key file %s: %w", name, err)
		}
		defer crypto.ClearBytes(key)
	}

	cipher, err := crypto.NewCipher(key)
	if err != nil {
		return fmt.Errorf("failed to load key file %s: %w", name, err)
	}
	m.cipher = cipher
	m.keyFile = name
	m.log.Debugf("loaded key file %s", name)
	return nil
}

func (m *Manager) createKey(cfg config.Config) error {
	key, err := crypto.GenerateKey()
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}
	defer crypto.ClearBytes(key)

	name := uuid.New().String() + KeySuffix
	data := key
	if cfg.KeyPassphrase != "" {
		data, err = crypto.SealKey(key, []byte(cfg.KeyPassphrase))
		if err != nil {
			return fmt.Errorf("failed to seal key: %w", err)
		}
	}

	if err := m.roots[Transient].CreateExclusive(name, data, FilePermSecure); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}

	cipher, err := crypto.NewCipher(key)
	if err != nil {
		return fmt.Errorf("failed to load generated key: %w", err)
	}
	m.cipher = cipher
	m.keyFile = name
	m.log.Infof("created key file %s", filepath.Join(m.roots[Transient].Dir(), name))

	if cfg.KeyPassphrase != "" && cfg.UseKeyring {
		if err := keyring.SavePassphrase(name, cfg.KeyPassphrase); err != nil {
			m.log.Warnf("failed to store passphrase in keyring: %v", err)
		}
	}
	return nil
}

// resolvePassphrase tries configuration, then the OS keyring, then the
// passphrase callback.
func (m *Manager) resolvePassphrase(cfg config.Config, keyFile string) ([]byte, error) {
	if cfg.KeyPassphrase != "" {
		return []byte(cfg.KeyPassphrase), nil
	}
	if cfg.UseKeyring {
		p, err := keyring.GetPassphrase(keyFile)
		if err == nil && p != "" {
			m.log.Debugf("using passphrase from keyring")
			return []byte(p), nil
		}
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			m.log.Warnf("keyring lookup failed: %v", err)
		}
	}
	if m.passphrase != nil {
		return m.passphrase(keyFile)
	}
	return nil, ErrPassphraseRequired
}

// record appends an entry to the journal when one is configured. Journal
// failures are logged only.
func (m *Manager) record(op string, area Area, name string, encrypted bool, opErr error) {
	if m.journal == nil {
		return
	}
	entry := storage.Entry{Op: op, Area: area.String(), Name: name, Encrypted: encrypted}
	if opErr != nil {
		entry.Error = opErr.Error()
	}
	if err := m.journal.Record(entry); err != nil {
		m.log.Warnf("failed to record %s in journal: %v", op, err)
	}
}
