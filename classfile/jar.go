package classfile

import (
	"archive/zip"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"

	"github.com/swind/go-jdeobf/index"
)

const classSuffix = ".class"

// JarProvider serves the classes of a jar. Classes are parsed on first
// request and cached; it is safe for concurrent use.
type JarProvider struct {
	closer io.Closer
	files  map[string]*zip.File
	names  []string

	mu    sync.Mutex
	cache map[string]*index.ClassNode
}

// OpenJar opens the jar at path. The caller must Close it.
func OpenJar(path string) (*JarProvider, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open jar %s: %w", path, err)
	}
	p := newJarProvider(&zr.Reader)
	p.closer = zr
	return p, nil
}

// NewJarProvider reads a jar held in r.
func NewJarProvider(r io.ReaderAt, size int64) (*JarProvider, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("read jar: %w", err)
	}
	return newJarProvider(zr), nil
}

func newJarProvider(zr *zip.Reader) *JarProvider {
	p := &JarProvider{
		files: make(map[string]*zip.File),
		cache: make(map[string]*index.ClassNode),
	}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(f.Name, classSuffix) {
			continue
		}
		name := strings.TrimSuffix(f.Name, classSuffix)
		// multi-release and module descriptors are not part of the program
		if strings.HasPrefix(name, "META-INF/") || name == "module-info" {
			continue
		}
		if _, dup := p.files[name]; dup {
			continue
		}
		p.files[name] = f
		p.names = append(p.names, name)
	}
	sort.Strings(p.names)
	return p
}

// ClassNames lists the internal names of the classes in the jar, sorted.
func (p *JarProvider) ClassNames() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

func (p *JarProvider) Class(name string) (*index.ClassNode, error) {
	p.mu.Lock()
	node, ok := p.cache[name]
	p.mu.Unlock()
	if ok {
		return node, nil
	}

	f, ok := p.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", index.ErrClassNotFound, name)
	}
	data, err := readFile(f)
	if err != nil {
		return nil, err
	}
	node, err = Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Name, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if cached, ok := p.cache[name]; ok {
		return cached, nil
	}
	p.cache[name] = node
	return node, nil
}

// Fingerprint hashes the names and contents of every class, so mappings
// can be matched against the jar they were made for.
func (p *JarProvider) Fingerprint() (uint64, error) {
	h := xxhash.New()
	for _, name := range p.names {
		_, _ = h.WriteString(name)
		rc, err := p.files[name].Open()
		if err != nil {
			return 0, fmt.Errorf("open %s: %w", name, err)
		}
		_, err = io.Copy(h, rc)
		rc.Close()
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", name, err)
		}
	}
	return h.Sum64(), nil
}

func (p *JarProvider) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

func readFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	return data, nil
}

// FilterClassNames drops the names matching any of the exclude patterns.
// Patterns use doublestar syntax over internal names, e.g. "com/foo/**".
func FilterClassNames(names, exclude []string) ([]string, error) {
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("bad class pattern %q", pattern)
		}
	}
	out := make([]string, 0, len(names))
next:
	for _, name := range names {
		for _, pattern := range exclude {
			if ok, _ := doublestar.Match(pattern, name); ok {
				continue next
			}
		}
		out = append(out, name)
	}
	return out, nil
}
