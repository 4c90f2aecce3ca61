package resource

import (
	"context"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// CollectOptions controls which files Collect discovers
type CollectOptions struct {
	// ProjectKey prefixes every component key
	ProjectKey string
	// BaseDir is the directory to walk
	BaseDir string
	// Exclusions are slash-separated glob patterns relative to BaseDir.
	// "*" and "?" do not cross directory boundaries, "**" matches any number
	// of directories.
	Exclusions []string
	// Encoding is recorded on every collected file
	Encoding string
}

// ComponentKey returns the component key of a project-relative path
func ComponentKey(projectKey, relPath string) string {
	relPath = filepath.ToSlash(relPath)
	if projectKey == "" {
		return relPath
	}
	return projectKey + ":" + relPath
}

// Collect walks opts.BaseDir and returns every non-excluded file, sorted by
// name. Hidden directories are skipped.
func Collect(ctx context.Context, opts CollectOptions) ([]*Resource, error) {
	logger := ctxlog.From(ctx)

	absBase, err := filepath.Abs(opts.BaseDir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve base directory", goerr.V("dir", opts.BaseDir))
	}

	encoding := opts.Encoding
	if encoding == "" {
		encoding = DefaultEncoding
	}

	for _, pattern := range opts.Exclusions {
		if _, err := path.Match(strings.ReplaceAll(pattern, "**", "*"), ""); err != nil {
			return nil, goerr.Wrap(err, "invalid exclusion pattern", goerr.V("pattern", pattern))
		}
	}

	var resources []*Resource
	err = filepath.WalkDir(absBase, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			if p != absBase && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(absBase, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if pattern, ok := matchAny(opts.Exclusions, rel); ok {
			logger.Debug("excluded file", "path", rel, "pattern", pattern)
			return nil
		}

		resources = append(resources, &Resource{
			Key:      ComponentKey(opts.ProjectKey, rel),
			Name:     rel,
			Path:     p,
			Encoding: encoding,
			Kind:     File,
		})
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to collect files", goerr.V("dir", absBase))
	}

	sort.Slice(resources, func(i, j int) bool {
		return resources[i].Name < resources[j].Name
	})
	logger.Debug("collected files", "count", len(resources), "dir", absBase)
	return resources, nil
}

func matchAny(patterns []string, rel string) (string, bool) {
	for _, pattern := range patterns {
		if Match(pattern, rel) {
			return pattern, true
		}
	}
	return "", false
}

// Match reports whether the slash-separated path name matches pattern.
// Malformed patterns match nothing.
func Match(pattern, name string) bool {
	return matchSegments(splitPath(pattern), splitPath(name))
}

func splitPath(s string) []string {
	s = strings.Trim(filepath.ToSlash(s), "/")
	if s == "" {
		return nil
	}
	return strings.Split(s, "/")
}

func matchSegments(pattern, name []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			if len(rest) == 0 {
				return true
			}
			for i := 0; i <= len(name); i++ {
				if matchSegments(rest, name[i:]) {
					return true
				}
			}
			return false
		}
		if len(name) == 0 {
			return false
		}
		ok, err := path.Match(pattern[0], name[0])
		if err != nil || !ok {
			return false
		}
		pattern, name = pattern[1:], name[1:]
	}
	return len(name) == 0
}
