package catalog

import "strings"

// DataSourceNode is a node of the data source tree. Only leaves carry a
// bindable key; domain nodes group them.
type DataSourceNode struct {
	Label    string           `json:"label"`
	Key      string           `json:"key"`
	IsLeaf   bool             `json:"isLeaf"`
	Children []DataSourceNode `json:"children,omitempty"`
}

var dataSourceTree = []DataSourceNode{
	domain("Quality Metrics", "quality",
		leaf("Session Resolution Rate", "resolution_rate"),
		leaf("Negative Feedback Rate", "negative_feedback"),
		leaf("Escalation Rate", "escalation_rate"),
		leaf("AI Quality Score", "quality_score"),
	),
	domain("User Behavior", "user_behavior",
		leaf("User Activity", "user_activity"),
		leaf("Domain Analysis", "domain_analysis"),
		leaf("Behavior Path", "behavior_path"),
	),
	domain("System Monitoring", "system",
		leaf("System Health", "system_health"),
		leaf("Resource Usage", "resource_usage"),
		leaf("Alerts", "alerts"),
	),
}

// domain builds a domain node, qualifying each leaf key as "<domain>.<metric>"
func domain(label, key string, children ...DataSourceNode) DataSourceNode {
	for i := range children {
		children[i].Key = key + "." + children[i].Key
	}
	return DataSourceNode{Label: label, Key: key, Children: children}
}

func leaf(label, key string) DataSourceNode {
	return DataSourceNode{Label: label, Key: key, IsLeaf: true}
}

// DataSourceCatalog is the registry of bindable metrics
type DataSourceCatalog struct {
	tree   []DataSourceNode
	labels map[string]string
}

// NewDataSourceCatalog returns the built-in data source catalog
func NewDataSourceCatalog() *DataSourceCatalog {
	c := &DataSourceCatalog{
		tree:   dataSourceTree,
		labels: make(map[string]string),
	}
	var walk func(nodes []DataSourceNode, path []string)
	walk = func(nodes []DataSourceNode, path []string) {
		for _, n := range nodes {
			if n.IsLeaf {
				c.labels[n.Key] = strings.Join(append(path, n.Label), " / ")
				continue
			}
			walk(n.Children, append(path, n.Label))
		}
	}
	walk(c.tree, nil)
	return c
}

// Tree returns a copy of the data source hierarchy
func (c *DataSourceCatalog) Tree() []DataSourceNode {
	return copyNodes(c.tree)
}

// IsValidKey reports whether key names a bindable leaf
func (c *DataSourceCatalog) IsValidKey(key string) bool {
	_, ok := c.labels[key]
	return ok
}

// Label returns the human readable label of a leaf key, e.g.
// "Quality Metrics / Session Resolution Rate".
func (c *DataSourceCatalog) Label(key string) (string, bool) {
	l, ok := c.labels[key]
	return l, ok
}

// Keys returns every bindable key in tree order
func (c *DataSourceCatalog) Keys() []string {
	var keys []string
	var walk func(nodes []DataSourceNode)
	walk = func(nodes []DataSourceNode) {
		for _, n := range nodes {
			if n.IsLeaf {
				keys = append(keys, n.Key)
				continue
			}
			walk(n.Children)
		}
	}
	walk(c.tree)
	return keys
}

func copyNodes(nodes []DataSourceNode) []DataSourceNode {
	if nodes == nil {
		return nil
	}
	out := make([]DataSourceNode, len(nodes))
	for i, n := range nodes {
		out[i] = n
		out[i].Children = copyNodes(n.Children)
	}
	return out
}
