// Package resource describes the files an analysis ran on and indexes them by
// component key for one report build.
package resource

// Kind distinguishes files from directories
type Kind int

const (
	File Kind = iota
	Directory
)

func (k Kind) String() string {
	switch k {
	case File:
		return "FILE"
	case Directory:
		return "DIRECTORY"
	default:
		return "UNKNOWN"
	}
}

// DefaultEncoding is used for resources whose encoding was not detected
const DefaultEncoding = "UTF-8"

// Resource is a scanned file or directory. Two resources are the same
// resource when their keys are equal.
type Resource struct {
	// Key is the component key, unique per file within a project
	Key string
	// Name is the display name, the project-relative path for files
	Name string
	// Path is the file-system path; empty for non-file resources
	Path     string
	Encoding string
	Kind     Kind
}

// Equal reports whether r and other share the same component key
func (r *Resource) Equal(other *Resource) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.Key == other.Key
}

// IsFile reports whether the resource is a file with a readable path
func (r *Resource) IsFile() bool {
	return r != nil && r.Kind == File && r.Path != ""
}
