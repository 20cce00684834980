package core

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var NowFunc = time.Now // mockable

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Now returns the current UTC time.
func Now() time.Time {
	return NowFunc().UTC()
}

// NewID returns a new unique identifier prefixed with `prefix` (e.g. "student-6f1c...").
func NewID(prefix string) string {
	return prefix + "-" + uuid.New().String()
}

var (
	rnd   = rand.New(rand.NewSource(time.Now().UnixNano()))
	rndMu sync.Mutex
)

// RandomDuration returns a random duration in [min, max). It returns min when max <= min.
func RandomDuration(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	rndMu.Lock()
	defer rndMu.Unlock()
	return min + time.Duration(rnd.Int63n(int64(max-min)))
}

// Wait blocks for d or until ctx is done, whichever happens first.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Getwd tries to find the project root (the directory holding go.mod).
// go-test changes the working directory to the test package being run; installed binaries fall back to
// the current working directory.
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	currDir := wd
	for {
		if fi, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil && !fi.IsDir() {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == string(os.PathSeparator) || newDir == currDir {
			return wd
		}
		currDir = newDir
	}
}
