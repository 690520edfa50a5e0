package neuron

import "strings"

// Connector is a synaptic site anchored to a skeleton node.
type Connector struct {
	NodeID  int64
	Type    string
	X, Y, Z float64
}

// Connectors returns the connector table. May be nil.
func (t *TreeNeuron) Connectors() []Connector { return t.connectors }

// SetConnectors replaces the connector table. Connectors referencing nodes
// not present in the neuron are rejected.
func (t *TreeNeuron) SetConnectors(cns []Connector) error {
	for _, cn := range cns {
		if _, ok := t.indexOf(cn.NodeID); !ok {
			return &MissingNodeError{ID: cn.NodeID}
		}
	}
	t.connectors = cns
	return nil
}

// Presynapses returns connectors whose type contains "pre".
func (t *TreeNeuron) Presynapses() []Connector {
	return t.connectorsByType("pre")
}

// Postsynapses returns connectors whose type contains "post".
func (t *TreeNeuron) Postsynapses() []Connector {
	return t.connectorsByType("post")
}

func (t *TreeNeuron) connectorsByType(substr string) []Connector {
	var out []Connector
	for _, cn := range t.connectors {
		if strings.Contains(strings.ToLower(cn.Type), substr) {
			out = append(out, cn)
		}
	}
	return out
}
