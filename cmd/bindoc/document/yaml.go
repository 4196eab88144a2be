// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// maxYAMLNodes bounds the nodes produced while expanding aliases, so a
// small file of nested aliases cannot expand without limit.
const maxYAMLNodes = 1 << 20

// wrapperSlack is the extra nesting allowed for type wrappers such as
// {"$date": {"$numberLong": "0"}}, which are not documents.
const wrapperSlack = 3

// yamlToJSON converts each document of a YAML stream to Extended JSON
// text. Mapping order is kept. Scalars are written by their resolved
// tag, using type wrappers where JSON has no literal.
func yamlToJSON(data []byte, maxDepth int) ([][]byte, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	var texts [][]byte
	for {
		var root yaml.Node
		err := decoder.Decode(&root)
		if errors.Is(err, io.EOF) {
			return texts, nil
		}
		if err != nil {
			return nil, err
		}

		converter := yamlConverter{maxDepth: maxDepth}
		if err := converter.node(&root, 0); err != nil {
			return nil, err
		}
		if converter.buffer.Len() > 0 {
			texts = append(texts, converter.buffer.Bytes())
		}
	}
}

type yamlConverter struct {
	buffer   bytes.Buffer
	maxDepth int
	nodes    int
}

// yamlMember is one effective member of a mapping after merge keys
// are applied.
type yamlMember struct {
	name  string
	value *yaml.Node
}

// enter charges node against the expansion budget and the nesting
// limit.
func (c *yamlConverter) enter(node *yaml.Node, depth int) error {
	c.nodes++
	if c.nodes > maxYAMLNodes {
		return fmt.Errorf("line %d: more than %d nodes after alias expansion", node.Line, maxYAMLNodes)
	}
	if depth > c.maxDepth+wrapperSlack {
		return fmt.Errorf("line %d: nesting exceeds %d levels", node.Line, c.maxDepth)
	}
	return nil
}

func (c *yamlConverter) node(node *yaml.Node, depth int) error {
	if err := c.enter(node, depth); err != nil {
		return err
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil
		}
		return c.node(node.Content[0], depth)
	case yaml.AliasNode:
		return c.node(node.Alias, depth)
	case yaml.MappingNode:
		members, err := c.members(node, depth)
		if err != nil {
			return err
		}
		c.buffer.WriteByte('{')
		for i, member := range members {
			if i > 0 {
				c.buffer.WriteByte(',')
			}
			c.text(member.name)
			c.buffer.WriteByte(':')
			if err := c.node(member.value, depth+1); err != nil {
				return err
			}
		}
		c.buffer.WriteByte('}')
		return nil
	case yaml.SequenceNode:
		c.buffer.WriteByte('[')
		for i, child := range node.Content {
			if i > 0 {
				c.buffer.WriteByte(',')
			}
			if err := c.node(child, depth+1); err != nil {
				return err
			}
		}
		c.buffer.WriteByte(']')
		return nil
	case yaml.ScalarNode:
		return c.scalar(node)
	}
	return fmt.Errorf("line %d: unsupported YAML node kind %d", node.Line, node.Kind)
}

// members lists the members of mapping in order. A merge key ("<<")
// is replaced, in place, by the members of the mapping or mappings it
// names, skipping names the mapping sets itself and names an earlier
// merge source already supplied.
func (c *yamlConverter) members(mapping *yaml.Node, depth int) ([]yamlMember, error) {
	explicit := make(map[string]bool)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := resolveAlias(mapping.Content[i])
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: mapping keys must be scalars", key.Line)
		}
		if !isMergeKey(key) {
			explicit[key.Value] = true
		}
	}

	var members []yamlMember
	merged := make(map[string]bool)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := resolveAlias(mapping.Content[i])
		value := mapping.Content[i+1]
		if !isMergeKey(key) {
			members = append(members, yamlMember{name: key.Value, value: value})
			continue
		}

		sources, err := mergeSources(value)
		if err != nil {
			return nil, err
		}
		for _, source := range sources {
			if err := c.enter(source, depth+1); err != nil {
				return nil, err
			}
			inherited, err := c.members(source, depth+1)
			if err != nil {
				return nil, err
			}
			for _, member := range inherited {
				if explicit[member.name] || merged[member.name] {
					continue
				}
				merged[member.name] = true
				members = append(members, member)
			}
		}
	}
	return members, nil
}

// mergeSources returns the mappings a merge key's value names: a
// mapping, or a sequence of mappings, possibly through aliases.
func mergeSources(value *yaml.Node) ([]*yaml.Node, error) {
	value = resolveAlias(value)
	switch value.Kind {
	case yaml.MappingNode:
		return []*yaml.Node{value}, nil
	case yaml.SequenceNode:
		sources := make([]*yaml.Node, len(value.Content))
		for i, item := range value.Content {
			item = resolveAlias(item)
			if item.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("line %d: merge sequence items must be mappings", item.Line)
			}
			sources[i] = item
		}
		return sources, nil
	}
	return nil, fmt.Errorf("line %d: merge value must be a mapping or a sequence of mappings", value.Line)
}

func isMergeKey(key *yaml.Node) bool {
	return key.Kind == yaml.ScalarNode && key.ShortTag() == "!!merge"
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func (c *yamlConverter) scalar(node *yaml.Node) error {
	switch node.ShortTag() {
	case "!!null":
		c.buffer.WriteString("null")
	case "!!bool":
		var value bool
		if err := node.Decode(&value); err != nil {
			return err
		}
		c.buffer.WriteString(strconv.FormatBool(value))
	case "!!int":
		var value int64
		if err := node.Decode(&value); err != nil {
			return err
		}
		c.buffer.WriteString(strconv.FormatInt(value, 10))
	case "!!float":
		var value float64
		if err := node.Decode(&value); err != nil {
			return err
		}
		// A plain JSON number would go through the integer narrowing
		// rule and lose 1.0 and -0.0 as doubles.
		text := strconv.FormatFloat(value, 'g', -1, 64)
		switch {
		case math.IsNaN(value):
			text = "NaN"
		case math.IsInf(value, 1):
			text = "Infinity"
		case math.IsInf(value, -1):
			text = "-Infinity"
		}
		c.buffer.WriteString(`{"$numberDouble":`)
		c.text(text)
		c.buffer.WriteByte('}')
	case "!!timestamp":
		var value time.Time
		if err := node.Decode(&value); err != nil {
			return err
		}
		c.buffer.WriteString(`{"$date":`)
		c.text(value.UTC().Format(time.RFC3339Nano))
		c.buffer.WriteByte('}')
	case "!!binary":
		var value string
		if err := node.Decode(&value); err != nil {
			return err
		}
		c.buffer.WriteString(`{"$binary":{"base64":`)
		c.text(base64.StdEncoding.EncodeToString([]byte(value)))
		c.buffer.WriteString(`,"subType":"00"}}`)
	default:
		c.text(node.Value)
	}
	return nil
}

// text writes s as a JSON string.
func (c *yamlConverter) text(s string) {
	quoted, _ := json.Marshal(s) // marshaling a string cannot fail
	c.buffer.Write(quoted)
}
