package reporter

import (
	"os"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/pthm/issuesreport/internal/resource"
)

// SourceProvider reads resource sources decoded with their declared
// encoding. Files are read once per provider.
type SourceProvider struct {
	mu    sync.Mutex
	cache map[string][]string
}

// NewSourceProvider creates an empty SourceProvider
func NewSourceProvider() *SourceProvider {
	return &SourceProvider{cache: make(map[string][]string)}
}

// Lines returns the lines of res, without line terminators. Line n of the
// file is at index n-1.
func (p *SourceProvider) Lines(res *resource.Resource) ([]string, error) {
	if !res.IsFile() {
		return nil, goerr.New("resource has no source", goerr.V("key", res.Key))
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if lines, ok := p.cache[res.Key]; ok {
		return lines, nil
	}

	data, err := os.ReadFile(res.Path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read source", goerr.V("path", res.Path))
	}

	text, err := decode(data, res.Encoding)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode source", goerr.V("path", res.Path), goerr.V("encoding", res.Encoding))
	}

	lines := splitLines(text)
	p.cache[res.Key] = lines
	return lines, nil
}

func decode(data []byte, name string) (string, error) {
	if name == "" {
		name = resource.DefaultEncoding
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return "", err
	}
	if enc == nil {
		return "", goerr.New("unsupported encoding", goerr.V("encoding", name))
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
