// Package swc reads and writes the SWC skeleton format: whitespace-separated
// rows of (id, label, x, y, z, radius, parent_id) with '#' header lines.
//
// The decoder is lenient: rows with unparsable or missing critical fields
// are dropped and orphaned parent references are reset to -1 so the
// remaining table still forms a forest. The encoder emits parents before
// their children and reindexes node IDs from 1.
package swc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/SridharJagannathan/navis/neuron"
)

// ErrEmpty is returned when the input contains no data rows.
var ErrEmpty = errors.New("swc: no data found")

// Label values conventionally used when generating SWC label columns.
const (
	LabelUndefined = 0
	LabelSoma      = 1
	LabelBranch    = 5
	LabelEnd       = 6
	LabelPre       = 7
	LabelPost      = 8
)

// Decoder reads a single neuron from an SWC stream.
type Decoder struct {
	// ConnectorLabels maps connector types to SWC labels, e.g.
	// {"presynapse": 7, "postsynapse": 8}. Matching nodes are duplicated
	// into the connector table.
	ConnectorLabels map[string]int
	// SomaLabel is passed through to the neuron for soma detection.
	// Defaults to 1.
	SomaLabel int

	r *bufio.Reader
}

// NewDecoder creates a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{SomaLabel: LabelSoma, r: bufio.NewReader(r)}
}

// Decode parses the stream into a TreeNeuron.
func (d *Decoder) Decode() (*neuron.TreeNeuron, error) {
	var (
		header strings.Builder
		nodes  []neuron.Node
	)
	for {
		line, err := d.r.ReadString('\n')
		if line != "" {
			trimmed := strings.TrimSpace(line)
			switch {
			case trimmed == "":
			case strings.HasPrefix(trimmed, "#"):
				header.WriteString(trimmed)
				header.WriteByte('\n')
			default:
				if nd, ok := parseRow(trimmed); ok {
					nodes = append(nodes, nd)
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("swc: read: %w", err)
		}
	}
	if len(nodes) == 0 {
		return nil, ErrEmpty
	}

	fixupRoots(nodes)

	n, err := neuron.New(nodes)
	if err != nil {
		return nil, fmt.Errorf("swc: %w", err)
	}
	n.Header = header.String()
	if d.SomaLabel != 0 {
		n.SomaLabel = d.SomaLabel
	}
	if len(d.ConnectorLabels) > 0 {
		if err := n.SetConnectors(extractConnectors(nodes, d.ConnectorLabels)); err != nil {
			return nil, fmt.Errorf("swc: connectors: %w", err)
		}
	}
	return n, nil
}

// parseRow parses one data row. Rows with fewer than seven columns or with
// unparsable id/parent fields or unparsable/NaN coordinates are rejected;
// a bad or NaN radius is tolerated and zeroed.
func parseRow(line string) (neuron.Node, bool) {
	fields := strings.Fields(line)
	if len(fields) < 7 {
		return neuron.Node{}, false
	}
	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return neuron.Node{}, false
	}
	label, err := strconv.Atoi(fields[1])
	if err != nil {
		label = LabelUndefined
	}
	var coords [3]float64
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[2+i], 64)
		if err != nil || math.IsNaN(v) {
			return neuron.Node{}, false
		}
		coords[i] = v
	}
	radius, err := strconv.ParseFloat(fields[5], 64)
	if err != nil || math.IsNaN(radius) {
		radius = 0
	}
	parent, err := strconv.ParseInt(fields[6], 10, 64)
	if err != nil {
		return neuron.Node{}, false
	}
	return neuron.Node{
		ID:       id,
		Label:    label,
		X:        coords[0],
		Y:        coords[1],
		Z:        coords[2],
		Radius:   radius,
		ParentID: parent,
	}, true
}

// fixupRoots resets parent references that no longer resolve (e.g. because
// the referenced row was dropped) to -1.
func fixupRoots(nodes []neuron.Node) {
	ids := make(map[int64]bool, len(nodes))
	for _, nd := range nodes {
		ids[nd.ID] = true
	}
	for i := range nodes {
		if nodes[i].ParentID >= 0 && !ids[nodes[i].ParentID] {
			nodes[i].ParentID = -1
		}
	}
}

// extractConnectors emits connectors in node table order so output is
// stable across runs regardless of how many label types are configured.
func extractConnectors(nodes []neuron.Node, labels map[string]int) []neuron.Connector {
	byLabel := make(map[int]string, len(labels))
	for typ, label := range labels {
		if prev, ok := byLabel[label]; ok && prev < typ {
			continue
		}
		byLabel[label] = typ
	}
	var cns []neuron.Connector
	for _, nd := range nodes {
		typ, ok := byLabel[nd.Label]
		if !ok {
			continue
		}
		cns = append(cns, neuron.Connector{
			NodeID: nd.ID,
			Type:   typ,
			X:      nd.X,
			Y:      nd.Y,
			Z:      nd.Z,
		})
	}
	return cns
}
