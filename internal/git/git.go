package git

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// KeyStatus reports how git sees the key file and the storage areas
type KeyStatus struct {
	IsRepo     bool
	KeyTracked bool     // key file committed or staged (critical)
	KeyIgnored bool     // key file matched by .gitignore (good)
	Unignored  []string // storage areas not matched by .gitignore
}

// IsGitRepo checks if the directory is inside a git work tree
func IsGitRepo(dir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = dir
	return cmd.Run() == nil
}

// IsTracked checks if a file is tracked by git
func IsTracked(dir, path string) bool {
	cmd := exec.Command("git", "ls-files", "--", path)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return false
	}
	return len(strings.TrimSpace(string(output))) > 0
}

// IsIgnored checks if a path is ignored by git (handles all .gitignore files)
func IsIgnored(dir, path string) bool {
	cmd := exec.Command("git", "check-ignore", "-q", "--", path)
	cmd.Dir = dir
	// git check-ignore returns exit code 0 if the path is ignored
	return cmd.Run() == nil
}

// CheckKey checks whether the key file at keyPath could end up in git.
// Storage area directories are checked for ignore rules too.
func CheckKey(keyPath string, areas ...string) *KeyStatus {
	dir := filepath.Dir(keyPath)
	status := &KeyStatus{}
	if !IsGitRepo(dir) {
		return status
	}
	status.IsRepo = true

	status.KeyTracked = IsTracked(dir, filepath.Base(keyPath))
	status.KeyIgnored = IsIgnored(dir, filepath.Base(keyPath))

	// A work tree root cannot be ignored, so areas are checked from their parent
	for _, area := range areas {
		parent := filepath.Dir(area)
		if IsGitRepo(parent) && !IsIgnored(parent, filepath.Base(area)) {
			status.Unignored = append(status.Unignored, area)
		}
	}
	return status
}

// FormatKeyStatus formats git status for display
func FormatKeyStatus(keyName string, status *KeyStatus) string {
	if !status.IsRepo {
		return ""
	}

	var result strings.Builder
	result.WriteString("\nGit Integration:\n")

	switch {
	case status.KeyTracked:
		fmt.Fprintf(&result, "   error: key file %s is tracked by git (run: git rm --cached %s)\n", keyName, keyName)
	case !status.KeyIgnored:
		fmt.Fprintf(&result, "   warning: key file %s not in .gitignore (add *.key to .gitignore)\n", keyName)
	default:
		result.WriteString("   ok: key file is ignored by git\n")
	}

	for _, area := range status.Unignored {
		fmt.Fprintf(&result, "   warning: %s not in .gitignore\n", area)
	}
	return result.String()
}
