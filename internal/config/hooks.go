package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// HookList is an ordered list of shell command lines. In configuration files
// it may be written as a single string or as a list of strings.
type HookList []string

func (h HookList) compact() HookList {
	var out HookList
	for _, cmd := range h {
		if strings.TrimSpace(cmd) != "" {
			out = append(out, cmd)
		}
	}
	return out
}

// UnmarshalJSON implements json.Unmarshaler.
func (h *HookList) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return h.set(raw)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (h *HookList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*h = nil
			return nil
		}
		if value.Tag != "!!str" {
			return fmt.Errorf("line %d: hook commands must be strings", value.Line)
		}
		*h = HookList{value.Value}
		return nil
	case yaml.SequenceNode:
		list := make(HookList, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("line %d: hook commands must be strings", item.Line)
			}
			list = append(list, item.Value)
		}
		*h = list
		return nil
	default:
		return fmt.Errorf("line %d: hook commands must be a string or a list of strings", value.Line)
	}
}

// UnmarshalTOML implements toml.Unmarshaler.
func (h *HookList) UnmarshalTOML(data interface{}) error {
	return h.set(data)
}

func (h *HookList) set(raw interface{}) error {
	switch v := raw.(type) {
	case nil:
		*h = nil
	case string:
		*h = HookList{v}
	case []interface{}:
		list := make(HookList, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("hook commands must be strings, got %T", item)
			}
			list = append(list, s)
		}
		*h = list
	default:
		return fmt.Errorf("hook commands must be a string or a list of strings, got %T", raw)
	}
	return nil
}
