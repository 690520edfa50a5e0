package neuron

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// List is an ordered collection of TreeNeurons with vectorized access to
// their attributes.
type List struct {
	Neurons []*TreeNeuron
}

// NewList creates a List from the given neurons.
func NewList(neurons ...*TreeNeuron) *List {
	return &List{Neurons: neurons}
}

// Len returns the number of neurons in the list.
func (l *List) Len() int { return len(l.Neurons) }

// Empty reports whether the list contains no neurons.
func (l *List) Empty() bool { return len(l.Neurons) == 0 }

// At returns the neuron at position i.
func (l *List) At(i int) *TreeNeuron { return l.Neurons[i] }

// Append adds neurons to the list in place.
func (l *List) Append(neurons ...*TreeNeuron) {
	l.Neurons = append(l.Neurons, neurons...)
}

// Clone returns a deep copy of the list and all contained neurons.
func (l *List) Clone() *List {
	c := &List{Neurons: make([]*TreeNeuron, len(l.Neurons))}
	for i, n := range l.Neurons {
		c.Neurons[i] = n.Clone()
	}
	return c
}

// ByID returns the neuron with the given identity.
func (l *List) ByID(id string) (*TreeNeuron, error) {
	for _, n := range l.Neurons {
		if n.ID() == id {
			return n, nil
		}
	}
	return nil, fmt.Errorf("no neuron with id %q", id)
}

// ByName returns all neurons whose name matches the regular expression.
// The pattern must match the full name.
func (l *List) ByName(pattern string) (*List, error) {
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, fmt.Errorf("invalid name pattern: %w", err)
	}
	return l.Filter(func(n *TreeNeuron) bool { return re.MatchString(n.Name) }), nil
}

// Filter returns a new list with all neurons for which keep returns true.
// Neurons are shared, not copied.
func (l *List) Filter(keep func(*TreeNeuron) bool) *List {
	out := &List{}
	for _, n := range l.Neurons {
		if keep(n) {
			out.Neurons = append(out.Neurons, n)
		}
	}
	return out
}

// Sub returns a new list without the neurons contained in other.
func (l *List) Sub(other *List) *List {
	drop := make(map[string]bool, other.Len())
	for _, n := range other.Neurons {
		drop[n.ID()] = true
	}
	return l.Filter(func(n *TreeNeuron) bool { return !drop[n.ID()] })
}

// Intersect returns a new list with the neurons present in both lists.
func (l *List) Intersect(other *List) *List {
	keep := make(map[string]bool, other.Len())
	for _, n := range other.Neurons {
		keep[n.ID()] = true
	}
	return l.Filter(func(n *TreeNeuron) bool { return keep[n.ID()] })
}

// Sample returns a random subset of up to n neurons.
func (l *List) Sample(n int) *List {
	if n >= l.Len() {
		return &List{Neurons: append([]*TreeNeuron(nil), l.Neurons...)}
	}
	idx := rand.Perm(l.Len())[:n]
	sort.Ints(idx)
	out := &List{Neurons: make([]*TreeNeuron, 0, n)}
	for _, i := range idx {
		out.Neurons = append(out.Neurons, l.Neurons[i])
	}
	return out
}

// SortBy sorts the list in place by the given key function, ascending.
func (l *List) SortBy(key func(*TreeNeuron) float64) {
	sort.SliceStable(l.Neurons, func(i, j int) bool {
		return key(l.Neurons[i]) < key(l.Neurons[j])
	})
}

// RemoveDuplicates returns a new list keeping only the first neuron for
// each distinct key.
func (l *List) RemoveDuplicates(key func(*TreeNeuron) string) *List {
	seen := make(map[string]bool, l.Len())
	return l.Filter(func(n *TreeNeuron) bool {
		k := key(n)
		if seen[k] {
			return false
		}
		seen[k] = true
		return true
	})
}

// IDs returns the identity of every neuron.
func (l *List) IDs() []string {
	out := make([]string, len(l.Neurons))
	for i, n := range l.Neurons {
		out[i] = n.ID()
	}
	return out
}

// Names returns the name of every neuron.
func (l *List) Names() []string {
	out := make([]string, len(l.Neurons))
	for i, n := range l.Neurons {
		out[i] = n.Name
	}
	return out
}

// CableLengths returns the cable length of every neuron.
func (l *List) CableLengths() []float64 {
	out := make([]float64, len(l.Neurons))
	for i, n := range l.Neurons {
		out[i] = n.CableLength()
	}
	return out
}

// NodeCounts returns the node count of every neuron.
func (l *List) NodeCounts() []int {
	out := make([]int, len(l.Neurons))
	for i, n := range l.Neurons {
		out[i] = n.Len()
	}
	return out
}

// TotalCableLength returns the summed cable length over all neurons.
func (l *List) TotalCableLength() float64 {
	return floats.Sum(l.CableLengths())
}

// MeanCableLength returns the mean cable length over all neurons.
func (l *List) MeanCableLength() float64 {
	if l.Empty() {
		return 0
	}
	return stat.Mean(l.CableLengths(), nil)
}

// BBox returns the bounding box enclosing all neurons in the list.
func (l *List) BBox() (min, max [3]float64) {
	if l.Empty() {
		return
	}
	min, max = l.Neurons[0].BBox()
	for _, n := range l.Neurons[1:] {
		mn, mx := n.BBox()
		for i := 0; i < 3; i++ {
			if mn[i] < min[i] {
				min[i] = mn[i]
			}
			if mx[i] > max[i] {
				max[i] = mx[i]
			}
		}
	}
	return min, max
}

// Summaries collects the summary of every neuron.
func (l *List) Summaries() []Summary {
	out := make([]Summary, len(l.Neurons))
	for i, n := range l.Neurons {
		out[i] = n.Summary()
	}
	return out
}

// Apply runs fn for every neuron with bounded parallelism. The first error
// cancels outstanding work. workers <= 0 uses GOMAXPROCS.
func (l *List) Apply(ctx context.Context, workers int, fn func(context.Context, *TreeNeuron) error) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, n := range l.Neurons {
		n := n
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(ctx, n)
		})
	}
	return g.Wait()
}

func (l *List) String() string {
	return fmt.Sprintf("NeuronList of %d neurons", len(l.Neurons))
}
