package navis

import (
	"context"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/SridharJagannathan/navis/blobstore"
	"github.com/SridharJagannathan/navis/blobstore/httpstore"
	"github.com/SridharJagannathan/navis/neuron"
	"github.com/SridharJagannathan/navis/swc"
)

// Directory and store imports fan out once the batch is larger than this.
const parallelThreshold = 10

// ReadSWC imports neurons from src, which may be a file path, a directory,
// an http(s) URL, or raw SWC content. Files with .gz, .zst or .lz4
// extensions are decompressed transparently. Directory imports run in
// parallel once the batch exceeds a small threshold.
func ReadSWC(ctx context.Context, src string, optFns ...Option) (*NeuronList, error) {
	o := applyOptions(optFns)

	switch {
	case httpstore.IsURL(src):
		return readURL(ctx, src, o)
	case looksLikeContent(src):
		n, err := decodeReader(strings.NewReader(src), "string", o)
		if err != nil {
			return nil, &ReadError{Source: "string", cause: translateError(err)}
		}
		o.logger.LogRead(ctx, "string", n.Len(), nil)
		return NewList(n), nil
	}

	info, err := os.Stat(src)
	if err != nil {
		return nil, &ReadError{Source: src, cause: translateError(err)}
	}
	if info.IsDir() {
		return readDir(ctx, src, o)
	}

	n, err := readFile(src, o)
	o.logger.LogRead(ctx, src, nodeCount(n), err)
	if err != nil {
		return nil, &ReadError{Source: src, cause: translateError(err)}
	}
	return NewList(n), nil
}

// ReadSWCFrom decodes a single neuron from r. name is used for the
// neuron's name, origin and compression detection and may be empty.
func ReadSWCFrom(ctx context.Context, r io.Reader, name string, optFns ...Option) (*TreeNeuron, error) {
	o := applyOptions(optFns)
	n, err := decodeReader(r, name, o)
	o.logger.LogRead(ctx, name, nodeCount(n), err)
	if err != nil {
		return nil, &ReadError{Source: name, cause: translateError(err)}
	}
	return n, nil
}

// ReadStore bulk-imports every SWC blob under prefix from a blobstore.
func ReadStore(ctx context.Context, store blobstore.Reader, prefix string, optFns ...Option) (*NeuronList, error) {
	o := applyOptions(optFns)

	names, err := store.List(ctx, prefix)
	if err != nil {
		return nil, &ReadError{Source: prefix, cause: translateError(err)}
	}
	var keys []string
	for _, name := range names {
		if swc.Match(name) && matchPattern(o.pattern, path.Base(name)) {
			keys = append(keys, name)
		}
	}
	if len(keys) == 0 {
		return nil, &ReadError{Source: prefix, cause: ErrEmptySource}
	}

	open := func(ctx context.Context, key string) (*TreeNeuron, error) {
		rc, err := store.Open(ctx, key)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return decodeReader(rc, key, o)
	}
	return readBatch(ctx, prefix, keys, o, open)
}

func readURL(ctx context.Context, src string, o options) (*NeuronList, error) {
	store := httpstore.New()
	rc, err := store.Open(ctx, src)
	if err != nil {
		o.logger.LogRead(ctx, src, 0, err)
		return nil, &ReadError{Source: src, cause: translateError(err)}
	}
	defer rc.Close()

	n, err := decodeReader(rc, src, o)
	o.logger.LogRead(ctx, src, nodeCount(n), err)
	if err != nil {
		return nil, &ReadError{Source: src, cause: translateError(err)}
	}
	return NewList(n), nil
}

func readDir(ctx context.Context, dir string, o options) (*NeuronList, error) {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != dir && !o.recursive {
				return fs.SkipDir
			}
			return nil
		}
		if swc.Match(d.Name()) && matchPattern(o.pattern, d.Name()) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, &ReadError{Source: dir, cause: translateError(err)}
	}
	if len(files) == 0 {
		return nil, &ReadError{Source: dir, cause: ErrEmptySource}
	}

	open := func(_ context.Context, p string) (*TreeNeuron, error) {
		return readFile(p, o)
	}
	return readBatch(ctx, dir, files, o, open)
}

// readBatch decodes the given keys, in parallel above parallelThreshold,
// preserving input order.
func readBatch(ctx context.Context, source string, keys []string, o options, open func(context.Context, string) (*TreeNeuron, error)) (*NeuronList, error) {
	neurons := make([]*neuron.TreeNeuron, len(keys))

	if len(keys) <= parallelThreshold || o.workers == 1 {
		for i, key := range keys {
			n, err := open(ctx, key)
			if err != nil {
				o.logger.LogBatchRead(ctx, source, len(keys), 1)
				return nil, &ReadError{Source: key, cause: translateError(err)}
			}
			neurons[i] = n
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.workers)
		for i, key := range keys {
			g.Go(func() error {
				n, err := open(gctx, key)
				if err != nil {
					return &ReadError{Source: key, cause: translateError(err)}
				}
				neurons[i] = n
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			o.logger.LogBatchRead(ctx, source, len(keys), 1)
			return nil, err
		}
	}

	o.logger.LogBatchRead(ctx, source, len(keys), 0)
	return NewList(neurons...), nil
}

func readFile(p string, o options) (*TreeNeuron, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeReader(f, p, o)
}

// decodeReader decodes one neuron, unwrapping compression by the name's
// extension and filling in name and origin.
func decodeReader(r io.Reader, name string, o options) (*TreeNeuron, error) {
	rc, err := swc.WrapReader(name, r)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	dec := swc.NewDecoder(rc)
	dec.ConnectorLabels = o.connectorLabels
	dec.SomaLabel = o.somaLabel
	n, err := dec.Decode()
	if err != nil {
		return nil, err
	}
	n.Origin = name
	n.Name = nameFromSource(name)
	return n, nil
}

// nameFromSource derives a neuron name from a path, URL or store key by
// stripping directories and the .swc / compression extensions.
func nameFromSource(src string) string {
	if httpstore.IsURL(src) {
		if u, err := url.Parse(src); err == nil {
			src = u.Path
		}
	}
	base := path.Base(filepath.ToSlash(src))
	return strings.TrimSuffix(swc.BaseName(base), ".swc")
}

// looksLikeContent reports whether src is raw SWC text rather than a path
// or URL. Multi-line strings cannot be paths.
func looksLikeContent(src string) bool {
	return strings.ContainsAny(src, "\n\r")
}

func matchPattern(pattern, name string) bool {
	if pattern == "" {
		return true
	}
	ok, err := path.Match(pattern, name)
	return err == nil && ok
}

func nodeCount(n *TreeNeuron) int {
	if n == nil {
		return 0
	}
	return n.Len()
}
