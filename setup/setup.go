// Package setup provisions the folders pipelines write into.
// Existing folders are left untouched and are not reported as created.
package setup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Result lists the folders created by one call.
type Result struct {
	Created []string
	// Errors holds per-folder failures for calls that continue past them.
	Errors []error
}

// Summary renders the result as a one-line message.
func (r *Result) Summary(what string) string {
	if len(r.Created) == 0 {
		return fmt.Sprintf("No new %s were created as they already exist.", what)
	}
	return fmt.Sprintf("%d new %s created: %s", len(r.Created), what, strings.Join(r.Created, ", "))
}

// Options transform folder names before creation.
type Options struct {
	Lowercase   bool
	Underscores bool // replace spaces with underscores
}

func (o Options) apply(name string) string {
	if o.Lowercase {
		name = strings.ToLower(name)
	}
	if o.Underscores {
		name = strings.ReplaceAll(name, " ", "_")
	}
	return name
}

// EnsureBase creates base and its parents.
func EnsureBase(base string) error {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create base folder %s", base)
	}
	return nil
}

// ForRange creates one folder per year from start to end inclusive.
func ForRange(base string, start, end int) (*Result, error) {
	if start > end {
		return nil, errors.Newf("start year %d must be less than or equal to end year %d", start, end)
	}
	res := &Result{}
	for year := start; year <= end; year++ {
		created, err := create(base, strconv.Itoa(year))
		if err != nil {
			return res, err
		}
		if created {
			res.Created = append(res.Created, strconv.Itoa(year))
		}
	}
	zap.S().Infow("folders created for range", "base", base, "start", start, "end", end, "created", len(res.Created))
	return res, nil
}

// FromList creates one folder per name after applying opts. A failure for
// one name is recorded and the remaining names are still attempted.
func FromList(base string, names []string, opts Options) *Result {
	res := &Result{}
	for _, name := range names {
		name = opts.apply(name)
		created, err := create(base, name)
		if err != nil {
			res.Errors = append(res.Errors, err)
			continue
		}
		if created {
			res.Created = append(res.Created, name)
		}
	}
	zap.S().Infow("folders created from list", "base", base, "requested", len(names), "created", len(res.Created), "errors", len(res.Errors))
	return res
}

// Prefixed creates "<prefix><name>" for each name.
func Prefixed(base string, names []string, prefix string) (*Result, error) {
	if len(names) == 0 {
		return nil, errors.New("the list of folder names is empty")
	}
	prefixed := make([]string, len(names))
	for i, name := range names {
		prefixed[i] = prefix + name
	}
	return FromList(base, prefixed, Options{}), nil
}

// Periodically creates folder_1, folder_2, ... every interval until duration
// elapses or ctx is done. It stops at the first unexpected error.
func Periodically(ctx context.Context, base string, duration, interval time.Duration) (*Result, error) {
	res := &Result{}
	ctx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for index := 1; ; index++ {
		name := fmt.Sprintf("folder_%d", index)
		created, err := create(base, name)
		if err != nil {
			return res, err
		}
		if created {
			res.Created = append(res.Created, name)
		}

		select {
		case <-ctx.Done():
			zap.S().Infow("periodic folder creation finished", "base", base, "created", len(res.Created), "duration", duration)
			return res, nil
		case <-ticker.C:
		}
	}
}

func create(base, name string) (bool, error) {
	path := filepath.Join(base, name)
	err := os.Mkdir(path, 0o755)
	if err == nil {
		zap.S().Debugw("folder created", "path", path)
		return true, nil
	}
	if errors.Is(err, os.ErrExist) {
		return false, nil
	}
	return false, errors.Wrapf(err, "failed to create folder %s", path)
}
