package artifacts

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/mattn/go-zglob"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cirisai/stackcheck/internal/common/stackerrors"
)

// readArtifact reads root/rel. A missing file is an *stackerrors.ErrMissingArtifact.
func readArtifact(root string, rel string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if os.IsNotExist(err) {
		return nil, errors.WithStack(&stackerrors.ErrMissingArtifact{Path: rel})
	} else if err != nil {
		return nil, errors.WithMessagef(err, "error reading %s", rel)
	}
	return data, nil
}

// requireArtifacts returns an aggregate of *stackerrors.ErrMissingArtifact, one per missing path.
func requireArtifacts(root string, rels ...string) error {
	var result *multierror.Error
	for _, rel := range rels {
		_, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
		if os.IsNotExist(err) {
			result = multierror.Append(result, errors.WithStack(&stackerrors.ErrMissingArtifact{Path: rel}))
		} else if err != nil {
			result = multierror.Append(result, errors.WithMessagef(err, "error reading %s", rel))
		}
	}
	return result.ErrorOrNil()
}

// glob returns the paths, relative to root and slash-separated, of the files in dir matching pattern.
// Sorted. A missing dir has no matches.
func glob(root string, dir string, pattern string) ([]string, error) {
	base := filepath.Join(root, filepath.FromSlash(dir))
	if _, err := os.Stat(base); os.IsNotExist(err) {
		return nil, nil
	}
	matches, err := zglob.Glob(filepath.Join(base, pattern))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, errors.WithMessagef(err, "error matching %s/%s", dir, pattern)
	}
	rels := make([]string, 0, len(matches))
	for _, match := range matches {
		rel, err := filepath.Rel(root, match)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		rels = append(rels, filepath.ToSlash(rel))
	}
	sort.Strings(rels)
	return rels, nil
}

// mapping is the top-level mapping of a YAML document.
type mapping struct {
	artifact string
	node     *yaml.Node
}

// loadYaml reads root/rel and parses it as a YAML document whose top level is a mapping.
func loadYaml(root string, rel string) (*mapping, error) {
	data, err := readArtifact(root, rel)
	if err != nil {
		return nil, err
	}
	return parseYaml(rel, data)
}

func parseYaml(artifact string, data []byte) (*mapping, error) {
	doc := &yaml.Node{}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, errors.WithMessagef(err, "%s is not valid YAML", artifact)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, errors.Errorf("%s is not a YAML mapping", artifact)
	}
	return &mapping{artifact: artifact, node: doc.Content[0]}, nil
}

// get returns the value stored under the first of keys present, matched on the key's literal text,
// so a key written `on` and one written `true` are told apart only by their spelling.
func (m *mapping) get(keys ...string) *yaml.Node {
	return lookup(m.node, keys...)
}

func lookup(node *yaml.Node, keys ...string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for _, key := range keys {
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == key {
				return node.Content[i+1]
			}
		}
	}
	return nil
}

// require returns one *stackerrors.ErrMissingKey per absent key.
func (m *mapping) require(keys ...string) error {
	var result *multierror.Error
	for _, key := range keys {
		if m.get(key) == nil {
			result = multierror.Append(result, m.missing(key, ""))
		}
	}
	return result.ErrorOrNil()
}

func (m *mapping) missing(key string, message string) error {
	return errors.WithStack(&stackerrors.ErrMissingKey{Artifact: m.artifact, Key: key, Message: message})
}

// isEmpty is true for null values and for mappings, sequences, and strings with no content.
func isEmpty(node *yaml.Node) bool {
	if node == nil {
		return true
	}
	switch node.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		return len(node.Content) == 0
	case yaml.ScalarNode:
		return node.Tag == "!!null" || node.Value == ""
	case yaml.AliasNode:
		return isEmpty(node.Alias)
	}
	return false
}

// containsKey reports whether a mapping has key, or a sequence has key as an element.
func containsKey(node *yaml.Node, key string) bool {
	if node == nil {
		return false
	}
	switch node.Kind {
	case yaml.MappingNode:
		return lookup(node, key) != nil
	case yaml.SequenceNode:
		for _, item := range node.Content {
			if item.Kind == yaml.ScalarNode && item.Value == key {
				return true
			}
		}
	}
	return false
}

// requireStrings returns one *stackerrors.ErrMissingKey per marker not found in content.
func requireStrings(artifact string, content string, markers ...string) error {
	var result *multierror.Error
	for _, marker := range markers {
		if !strings.Contains(content, marker) {
			result = multierror.Append(result, errors.WithStack(&stackerrors.ErrMissingKey{Artifact: artifact, Key: marker}))
		}
	}
	return result.ErrorOrNil()
}
