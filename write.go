package navis

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/SridharJagannathan/navis/blobstore"
	"github.com/SridharJagannathan/navis/swc"
)

// WriteSWC exports a single neuron to filename. Compression is chosen by
// extension (.swc, .swc.gz, .swc.zst, .swc.lz4). Parent directories are
// created as needed.
func WriteSWC(ctx context.Context, n *TreeNeuron, filename string, optFns ...Option) error {
	o := applyOptions(optFns)
	err := writeFile(n, filename, o)
	o.logger.LogWrite(ctx, filename, 1, err)
	if err != nil {
		return &WriteError{Target: filename, cause: err}
	}
	return nil
}

// WriteSWCTo encodes a single neuron to w. name selects the compression
// wrapper and may be empty for plain SWC.
func WriteSWCTo(_ context.Context, n *TreeNeuron, w io.Writer, name string, optFns ...Option) error {
	o := applyOptions(optFns)
	if err := encode(n, w, name, o); err != nil {
		return &WriteError{Target: name, cause: err}
	}
	return nil
}

// WriteAll exports every neuron of a list into dir, one file per neuron
// named after the neuron (falling back to its ID). ext sets the filename
// extension and compression, e.g. ".swc" or ".swc.gz".
func WriteAll(ctx context.Context, l *NeuronList, dir, ext string, optFns ...Option) error {
	o := applyOptions(optFns)
	if ext == "" {
		ext = ".swc"
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &WriteError{Target: dir, cause: err}
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for _, n := range l.Neurons {
		g.Go(func() error {
			p := filepath.Join(dir, exportName(n)+ext)
			if err := writeFile(n, p, o); err != nil {
				return &WriteError{Target: p, cause: err}
			}
			return nil
		})
	}
	err := g.Wait()
	o.logger.LogWrite(ctx, dir, l.Len(), err)
	return err
}

// WriteStore exports every neuron of a list into a blobstore under prefix.
func WriteStore(ctx context.Context, store blobstore.Store, l *NeuronList, prefix, ext string, optFns ...Option) error {
	o := applyOptions(optFns)
	if ext == "" {
		ext = ".swc"
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for _, n := range l.Neurons {
		g.Go(func() error {
			key := path.Join(prefix, exportName(n)+ext)
			var buf bytes.Buffer
			if err := encode(n, &buf, key, o); err != nil {
				return &WriteError{Target: key, cause: err}
			}
			if err := store.Put(gctx, key, buf.Bytes()); err != nil {
				return &WriteError{Target: key, cause: translateError(err)}
			}
			return nil
		})
	}
	err := g.Wait()
	o.logger.LogWrite(ctx, prefix, l.Len(), err)
	return err
}

func writeFile(n *TreeNeuron, filename string, o options) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := encode(n, f, filename, o); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encode(n *TreeNeuron, w io.Writer, name string, o options) error {
	wc, err := swc.WrapWriter(name, w)
	if err != nil {
		return err
	}

	enc := swc.NewEncoder(wc)
	enc.Header = normalizeHeader(o.header)
	enc.Labels = o.writeLabels
	enc.KeepLabels = o.keepLabels
	enc.ExportSynapses = o.exportSynapses
	if err := enc.Encode(n); err != nil {
		wc.Close()
		return err
	}
	return wc.Close()
}

// normalizeHeader ensures every header line carries a '#' prefix and the
// block ends with a newline. Empty input stays empty so the encoder
// generates its default header.
func normalizeHeader(header string) string {
	if header == "" {
		return ""
	}
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(header, "\n"), "\n") {
		if !strings.HasPrefix(line, "#") {
			line = "# " + line
		}
		fmt.Fprintln(&b, line)
	}
	return b.String()
}

func exportName(n *TreeNeuron) string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID()
}
