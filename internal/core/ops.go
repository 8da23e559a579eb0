package core

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// SaveOptions control Save.
type SaveOptions struct {
	Area      Area
	Overwrite bool // replace an existing file
	Encrypt   bool // store as EncryptedMarker + token
}

// EditOptions control Edit.
type EditOptions struct {
	Area    Area
	Encrypt bool
}

// Save writes content under name in the selected area, creating
// intermediate directories. An existing file is left untouched unless
// Overwrite is set.
func (m *Manager) Save(name string, c Content, opts SaveOptions) (err error) {
	defer func() { m.record(OpSave, opts.Area, name, opts.Encrypt, err) }()
	return m.save(OpSave, name, c, opts)
}

func (m *Manager) save(op, name string, c Content, opts SaveOptions) error {
	if err := m.checkOpen(op, name); err != nil {
		return err
	}
	root := m.root(opts.Area)
	rel, err := m.validateFile(op, name, opts.Area)
	if err != nil {
		return err
	}
	if err := m.guardKey(op, name, opts.Area, rel); err != nil {
		return err
	}

	if dir := path.Dir(rel); dir != "." {
		if err := root.MkdirAll(dir, DirPermSecure); err != nil {
			return newError(KindIO, op, name, err)
		}
	}

	info, err := root.Stat(rel)
	switch {
	case err == nil && !opts.Overwrite:
		return newError(KindAlreadyExists, op, name, nil)
	case err == nil && info.IsDir():
		return newError(KindIO, op, name, ErrIsDirectory)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return newError(KindIO, op, name, err)
	}

	data, err := c.payload(rel, opts.Encrypt)
	if err != nil {
		return newError(KindSerialization, op, name, err)
	}

	if opts.Encrypt {
		token, err := m.cipher.Encrypt(data)
		if err != nil {
			return newError(KindIO, op, name, err)
		}
		marked := make([]byte, 0, len(EncryptedMarker)+len(token))
		marked = append(marked, EncryptedMarker...)
		data = append(marked, token...)
	}

	if err := root.WriteFile(rel, data, FilePermSecure); err != nil {
		return newError(KindIO, op, name, err)
	}
	m.log.Debugf("saved %s (%s, %d bytes)", root.Abs(rel), c.Kind(), len(data))
	return nil
}

// Read returns the content stored under name. Files with a known binary
// extension come back as Binary; encrypted payloads are decrypted; JSON
// files are parsed into Structured; everything else is Text.
func (m *Manager) Read(name string, area Area) (Content, error) {
	if err := m.checkOpen(OpRead, name); err != nil {
		return Content{}, err
	}
	rel, err := m.validateFile(OpRead, name, area)
	if err != nil {
		return Content{}, err
	}

	data, err := m.root(area).ReadFile(rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Content{}, newError(KindNotFound, OpRead, name, err)
		}
		return Content{}, newError(KindIO, OpRead, name, err)
	}

	binary := isBinaryName(rel)

	if bytes.HasPrefix(data, EncryptedMarker) {
		plain, err := m.cipher.Decrypt(data[len(EncryptedMarker):])
		if err != nil {
			return Content{}, newError(KindDecrypt, OpRead, name, err)
		}
		if binary {
			return Binary(plain), nil
		}
		if !utf8.Valid(plain) {
			return Content{}, newError(KindDecrypt, OpRead, name, ErrInvalidUTF8)
		}
		return Text(string(plain)), nil
	}

	if binary {
		return Binary(data), nil
	}
	if !utf8.Valid(data) {
		return Content{}, newError(KindIO, OpRead, name, ErrInvalidUTF8)
	}
	if isJSONName(rel) {
		v, err := unmarshalJSON(data)
		if err != nil {
			return Content{}, newError(KindSerialization, OpRead, name, err)
		}
		return Structured(v), nil
	}
	return Text(string(data)), nil
}

// Delete removes a single file. Folders are refused; use DeleteFolder.
func (m *Manager) Delete(name string, area Area) (err error) {
	defer func() { m.record(OpDelete, area, name, false, err) }()

	if err := m.checkOpen(OpDelete, name); err != nil {
		return err
	}
	root := m.root(area)
	rel, err := m.validateFile(OpDelete, name, area)
	if err != nil {
		return err
	}
	if err := m.guardKey(OpDelete, name, area, rel); err != nil {
		return err
	}

	info, err := root.Stat(rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return newError(KindNotFound, OpDelete, name, err)
		}
		return newError(KindIO, OpDelete, name, err)
	}
	if info.IsDir() {
		return newError(KindIO, OpDelete, name, ErrIsDirectory)
	}

	if err := root.Remove(rel); err != nil {
		return newError(KindIO, OpDelete, name, err)
	}
	m.log.Debugf("deleted %s", root.Abs(rel))
	return nil
}

// Exists reports whether name exists in the area. Invalid names, including
// the area root itself, never exist.
func (m *Manager) Exists(name string, area Area) bool {
	if m.checkOpen(OpRead, name) != nil {
		return false
	}
	rel, err := m.validateFile(OpRead, name, area)
	if err != nil {
		return false
	}
	_, err = m.root(area).Stat(rel)
	return err == nil
}

// Edit overwrites an existing file. Unlike Save it fails when the file is
// absent.
func (m *Manager) Edit(name string, c Content, opts EditOptions) (err error) {
	defer func() { m.record(OpEdit, opts.Area, name, opts.Encrypt, err) }()

	if err := m.checkOpen(OpEdit, name); err != nil {
		return err
	}
	if _, err := m.validateFile(OpEdit, name, opts.Area); err != nil {
		return err
	}
	if !m.Exists(name, opts.Area) {
		return newError(KindNotFound, OpEdit, name, nil)
	}
	return m.save(OpEdit, name, c, SaveOptions{Area: opts.Area, Overwrite: true, Encrypt: opts.Encrypt})
}

// Clear removes every entry of the area's root except key files. Folders
// are removed with their contents; a folder holding the other area's root
// is skipped.
func (m *Manager) Clear(area Area) (err error) {
	defer func() { m.record(OpClear, area, "", false, err) }()

	if err := m.checkOpen(OpClear, ""); err != nil {
		return err
	}
	root := m.root(area)
	entries, err := root.ReadDir(".")
	if err != nil {
		return newError(KindIO, OpClear, "", err)
	}

	for _, e := range entries {
		if strings.HasSuffix(e.Name(), KeySuffix) {
			continue
		}
		if m.holdsOtherRoot(area, e.Name()) {
			m.log.Debugf("clear: skipping %s, it holds %s storage", e.Name(), other(area))
			continue
		}
		if err := root.RemoveAll(e.Name()); err != nil {
			return newError(KindIO, OpClear, "", err)
		}
	}
	m.log.Debugf("cleared %s", root.Dir())
	return nil
}

// DeleteFolder removes a folder and everything below it. The area root
// itself and folders holding the other area's root cannot be removed.
func (m *Manager) DeleteFolder(name string, area Area) (err error) {
	defer func() { m.record(OpDeleteFolder, area, name, false, err) }()

	if err := m.checkOpen(OpDeleteFolder, name); err != nil {
		return err
	}
	root := m.root(area)
	rel, err := root.Clean(name)
	if err != nil {
		return newError(KindInvalidPath, OpDeleteFolder, name, err)
	}
	if rel == "." {
		return newError(KindInvalidPath, OpDeleteFolder, name, fmt.Errorf("refusing to remove the %s storage root", area))
	}

	info, err := root.Stat(rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return newError(KindNotFound, OpDeleteFolder, name, err)
		}
		return newError(KindIO, OpDeleteFolder, name, err)
	}
	if !info.IsDir() {
		return newError(KindNotADirectory, OpDeleteFolder, name, nil)
	}
	if m.holdsOtherRoot(area, rel) {
		return newError(KindInvalidPath, OpDeleteFolder, name, ErrRootOverlap)
	}

	if err := root.RemoveAll(rel); err != nil {
		return newError(KindIO, OpDeleteFolder, name, err)
	}
	m.log.Debugf("deleted folder %s", root.Abs(rel))
	return nil
}

// validateFile normalizes a file name. The root itself is not a valid file.
func (m *Manager) validateFile(op, name string, area Area) (string, error) {
	rel, err := m.root(area).Clean(name)
	if err != nil {
		return "", newError(KindInvalidPath, op, name, err)
	}
	if rel == "." {
		return "", newError(KindInvalidPath, op, name, fmt.Errorf("name refers to the %s storage root", area))
	}
	return rel, nil
}

// holdsOtherRoot reports whether rel in area is, or contains, the other
// area's root directory.
func (m *Manager) holdsOtherRoot(area Area, rel string) bool {
	target := m.root(area).Abs(rel)
	otherDir := m.root(other(area)).Dir()
	return otherDir == target || strings.HasPrefix(otherDir, target+string(filepath.Separator))
}

// guardKey refuses to write or remove a key file candidate: a KeySuffix
// name directly inside the transient root, reached from either area.
func (m *Manager) guardKey(op, name string, area Area, rel string) error {
	if !strings.HasSuffix(path.Base(rel), KeySuffix) {
		return nil
	}
	if filepath.Dir(m.root(area).Abs(rel)) != m.roots[Transient].Dir() {
		return nil
	}
	return newError(KindInvalidPath, op, name, ErrKeyFile)
}
