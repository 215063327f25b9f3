package cli

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/swind/go-jdeobf/classfile"
	"github.com/swind/go-jdeobf/index"
	"github.com/swind/go-jdeobf/mapping"
	"github.com/swind/go-jdeobf/proguard"
)

// workspace is an open jar with its built index.
type workspace struct {
	jar     *classfile.JarProvider
	index   *index.JarIndex
	classes int
}

func openWorkspace(ctx context.Context, path string) (*workspace, error) {
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)
	p := newProgress(logger)

	jar, err := classfile.OpenJar(path)
	if err != nil {
		return nil, err
	}
	names, err := classfile.FilterClassNames(jar.ClassNames(), cfg.Index.Exclude)
	if err != nil {
		jar.Close()
		return nil, err
	}

	opts := append(cfg.IndexOptions(), index.WithLogger(logger))
	idx := index.NewJarIndex(opts...)
	if err := idx.IndexJar(ctx, names, jar, &indexProgress{logger: logger}); err != nil {
		jar.Close()
		return nil, fmt.Errorf("index %s: %w", path, err)
	}
	p.done("Indexed jar", "path", path, "classes", len(names))
	return &workspace{jar: jar, index: idx, classes: len(names)}, nil
}

func (w *workspace) Close() error {
	return w.jar.Close()
}

// remapper creates a remapper over the index, seeded with the ProGuard
// mapping at mappingPath when one is given.
func (w *workspace) remapper(ctx context.Context, mappingPath string) (*mapping.EntryRemapper, error) {
	r, err := mapping.NewEntryRemapper(w.index, nil)
	if err != nil {
		return nil, err
	}
	if mappingPath == "" {
		return r, nil
	}

	in, err := openInput(mappingPath, os.Stdin)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	mappings, err := proguard.Read(in)
	if err != nil {
		return nil, fmt.Errorf("read mapping %s: %w", mappingPath, err)
	}
	n, err := mappings.Apply(r)
	if err != nil {
		return nil, fmt.Errorf("apply mapping %s: %w", mappingPath, err)
	}
	// the import is the baseline, not a change
	r.TakeMappingDelta()
	loggerFromContext(ctx).Info("Applied mapping", "path", mappingPath, "entries", n)
	return r, nil
}

type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var first error
	for _, c := range m {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type readCloser struct {
	io.Reader
	io.Closer
}

// openInput opens path for reading; "-" reads stdin and ".gz" files are
// decompressed.
func openInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return readCloser{Reader: gz, Closer: multiCloser{gz, f}}, nil
}
