// Package security validates filesystem paths before any other component
// reads or mutates them. A ValidatedPath can only be produced here, which
// keeps unvalidated strings out of the scanners and the cleanup executor.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"reclaim/internal/platform"
)

// Validation failure kinds. Callers match them with errors.Is.
var (
	ErrNotFound      = errors.New("path does not exist")
	ErrProtectedPath = errors.New("path is protected")
	ErrInvalidPath   = errors.New("path is invalid")
)

// PathError wraps a validation failure with the offending path.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("validate %s: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// ValidatedPath is a canonical, existence-checked, non-protected path.
// The zero value is not a valid path; the canonical form is only reachable
// through Validator.Validate.
type ValidatedPath struct {
	canonical string
}

func (p ValidatedPath) String() string { return p.canonical }

// IsZero reports whether the path was never validated.
func (p ValidatedPath) IsZero() bool { return p.canonical == "" }

// Validator canonicalizes paths and rejects targets under the platform
// deny-list. Scans and deletions share one Validator instance.
type Validator struct {
	info  *platform.Info
	extra []string // operator-supplied protected roots from config
	cache *validationCache
}

// NewValidator creates a Validator backed by the platform deny-list plus
// any extra protected roots.
func NewValidator(info *platform.Info, extraProtected ...string) *Validator {
	extra := make([]string, 0, len(extraProtected))
	for _, p := range extraProtected {
		extra = append(extra, filepath.Clean(p))
	}
	return &Validator{
		info:  info,
		extra: extra,
		cache: newValidationCache(defaultCacheSize, defaultCacheTTL),
	}
}

// Shell metacharacters rejected outright. Validated paths may later be
// handed to platform tooling, so they must never reach a shell unescaped.
var dangerousChars = []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\n", "\r", "\x00"}

// Validate resolves raw to its canonical absolute form and checks it
// against the deny-list. It is a pure function of filesystem state at call
// time; the TOCTOU window that implies is handled downstream by the
// executor's existence re-check.
func (v *Validator) Validate(raw string) (ValidatedPath, error) {
	if strings.TrimSpace(raw) == "" {
		return ValidatedPath{}, &PathError{Path: raw, Err: ErrInvalidPath}
	}

	for _, char := range dangerousChars {
		if strings.Contains(raw, char) {
			return ValidatedPath{}, &PathError{Path: raw, Err: ErrInvalidPath}
		}
	}

	abs, err := filepath.Abs(raw)
	if err != nil {
		return ValidatedPath{}, &PathError{Path: raw, Err: fmt.Errorf("%w: %v", ErrInvalidPath, err)}
	}

	// Resolve symlinks so a link into /etc cannot masquerade as a safe target.
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return ValidatedPath{}, &PathError{Path: raw, Err: ErrNotFound}
		}
		return ValidatedPath{}, &PathError{Path: raw, Err: fmt.Errorf("%w: %v", ErrInvalidPath, err)}
	}

	clean := filepath.Clean(resolved)
	if v.isProtected(clean) {
		return ValidatedPath{}, &PathError{Path: clean, Err: ErrProtectedPath}
	}

	return ValidatedPath{canonical: clean}, nil
}

// ValidateCached is Validate behind a short-lived result cache. Deletion
// selections routinely name the same path more than once, and callers
// re-validating a selection pay nothing for the repeats.
func (v *Validator) ValidateCached(raw string) (ValidatedPath, error) {
	if vp, err, ok := v.cache.get(raw); ok {
		return vp, err
	}
	vp, err := v.Validate(raw)
	v.cache.set(raw, vp, err)
	return vp, err
}

// IsProtected checks the deny-list without canonicalizing. It exists for
// cheap mid-traversal checks where the path is already absolute.
func (v *Validator) IsProtected(path string) bool {
	return v.isProtected(filepath.Clean(path))
}

func (v *Validator) isProtected(clean string) bool {
	if v.info.IsProtected(clean) {
		return true
	}
	for _, protected := range v.extra {
		if clean == protected || strings.HasPrefix(clean, protected+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
