package plan

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// --- StringOrArray YAML methods ---

// UnmarshalYAML accepts either a single string or an array of strings.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or array, got %v", node.Kind)
	}
}

// MarshalYAML outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// --- Step YAML methods ---

// UnmarshalYAML accepts:
//   - a name: stub
//   - a mapping: {name: access-flags, options: {set: final}}
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var name string

		err := node.Decode(&name)
		if err != nil {
			return err
		}

		*s = Step{Name: name}

		return nil

	case yaml.MappingNode:
		// Decode through an alias type to avoid recursing into this method.
		type rawStep Step

		var raw rawStep

		err := node.Decode(&raw)
		if err != nil {
			return err
		}

		*s = Step(raw)

		return nil

	default:
		return fmt.Errorf("line %d: expected strategy name or mapping, got %v", node.Line, node.Kind)
	}
}

// MarshalYAML writes a step without options as a bare name.
func (s Step) MarshalYAML() (any, error) {
	if len(s.Options) == 0 {
		return s.Name, nil
	}

	type rawStep Step

	return rawStep(s), nil
}

// --- StepList YAML methods ---

// UnmarshalYAML accepts:
//   - a single name: stub
//   - a single mapping: {name: access-flags, options: {set: final}}
//   - a sequence of names and mappings
func (l *StepList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode, yaml.MappingNode:
		var step Step

		err := step.UnmarshalYAML(node)
		if err != nil {
			return err
		}

		if step.Name == "" && len(step.Options) == 0 {
			*l = StepList{}
		} else {
			*l = StepList{step}
		}

		return nil

	case yaml.SequenceNode:
		steps := make(StepList, 0, len(node.Content))

		for _, item := range node.Content {
			var step Step

			err := step.UnmarshalYAML(item)
			if err != nil {
				return err
			}

			steps = append(steps, step)
		}

		*l = steps

		return nil

	default:
		return fmt.Errorf("line %d: expected strategy or list of strategies, got %v", node.Line, node.Kind)
	}
}
