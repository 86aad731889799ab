package config

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Deserialization guards for externally supplied YAML. Oversized or
// absurdly nested payloads are rejected before decoding.
const (
	maxPayloadBytes = 1 << 20 // 1MB
	maxPayloadDepth = 20
)

// decodeStrict decodes YAML into out with size and nesting guards and
// strict field checking. Unknown fields produce a warning and a
// lenient re-decode for forward compatibility, matching how the main
// config file is handled.
func decodeStrict(name string, data []byte, out any) error {
	if len(data) > maxPayloadBytes {
		return fmt.Errorf("%s: payload is %d bytes, limit is %d", name, len(data), maxPayloadBytes)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("%s: parse error: %w", name, err)
	}
	if depth := nodeDepth(&root); depth > maxPayloadDepth {
		return fmt.Errorf("%s: nesting depth %d exceeds limit %d", name, depth, maxPayloadDepth)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if !isUnknownFieldError(err) {
			return fmt.Errorf("%s: parse error: %w", name, err)
		}
		cfgLog.Warn("%s has unknown fields (ignored): %v", name, err)
		if err := yaml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%s: parse error: %w", name, err)
		}
	}
	return nil
}

// nodeDepth returns the maximum nesting depth of a YAML node tree.
func nodeDepth(n *yaml.Node) int {
	deepest := 0
	for _, c := range n.Content {
		if d := nodeDepth(c); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// isUnknownFieldError returns true if the error comes from
// Decoder.KnownFields(true) hitting an unrecognized key.
func isUnknownFieldError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "not found in type")
}
