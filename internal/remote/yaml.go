// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"encoding/base64"
	"strings"

	"gopkg.in/yaml.v3"
)

// MarshalYAML keeps field order and tags byte payloads as !!binary.
func (o *Object) MarshalYAML() (interface{}, error) {
	if o == nil {
		return nil, nil
	}
	return o.yamlNode(), nil
}

// MarshalYAML encodes a single value.
func (v Value) MarshalYAML() (interface{}, error) {
	return v.yamlNode(), nil
}

func (o *Object) yamlNode() *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, name := range o.names {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
			o.values[name].yamlNode(),
		)
	}
	return node
}

func (v Value) yamlNode() *yaml.Node {
	switch v.kind {
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.str}
	case KindBytes:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!binary", Value: base64.StdEncoding.EncodeToString(v.raw)}
	case KindNumber:
		tag := "!!int"
		if strings.ContainsAny(v.str, ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.str}
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: v.Text()}
	case KindObject:
		return v.obj.yamlNode()
	case KindList:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.list {
			node.Content = append(node.Content, item.yamlNode())
		}
		return node
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}
