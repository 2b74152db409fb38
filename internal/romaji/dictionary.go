package romaji

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/f3rmion/kana/internal/kana"
	"gopkg.in/yaml.v3"
)

// ErrDataUnavailable is returned when the kana dictionary cannot be loaded
// or parsed. Every data-dependent operation propagates it.
var ErrDataUnavailable = errors.New("kana dictionary unavailable")

//go:embed data/kana.json
var defaultDictionary []byte

// Entry is one unit of the dictionary with its spellings, primary first.
type Entry struct {
	Unit      kana.Unit
	Spellings []string
}

// Group is a named set of entries (e.g. "base", "digraphs").
type Group struct {
	Name    string
	Entries []Entry
}

// ScriptGroups holds the groups declared for one script, in file order.
type ScriptGroups struct {
	Script kana.Script
	Groups []Group
}

// Dictionary is the decoded kana dictionary resource:
// script → group → unit → spellings. Declaration order is preserved.
type Dictionary struct {
	Scripts []ScriptGroups
}

// DefaultDictionary returns the dictionary embedded in the binary.
func DefaultDictionary() (*Dictionary, error) {
	return ParseDictionary(defaultDictionary)
}

// LoadDictionary reads and parses a dictionary file (JSON or YAML).
func LoadDictionary(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrDataUnavailable, path, err)
	}
	return ParseDictionary(data)
}

// ParseDictionary decodes the nested dictionary resource. The document is
// walked as a yaml.Node so that group and unit order survive decoding;
// JSON input is accepted since it is a subset of YAML.
func ParseDictionary(data []byte) (*Dictionary, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing dictionary: %v", ErrDataUnavailable, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty dictionary", ErrDataUnavailable)
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: dictionary root must be a mapping", ErrDataUnavailable)
	}

	dict := &Dictionary{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		scriptName, groupsNode := root.Content[i].Value, root.Content[i+1]
		if groupsNode.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%w: script %q must map group names to units", ErrDataUnavailable, scriptName)
		}

		sg := ScriptGroups{Script: kana.Script(scriptName)}
		for j := 0; j+1 < len(groupsNode.Content); j += 2 {
			group, err := decodeGroup(groupsNode.Content[j].Value, groupsNode.Content[j+1])
			if err != nil {
				return nil, fmt.Errorf("%w: %s/%v", ErrDataUnavailable, scriptName, err)
			}
			sg.Groups = append(sg.Groups, group)
		}
		dict.Scripts = append(dict.Scripts, sg)
	}

	if dict.Size() == 0 {
		return nil, fmt.Errorf("%w: dictionary has no entries", ErrDataUnavailable)
	}
	return dict, nil
}

func decodeGroup(name string, node *yaml.Node) (Group, error) {
	group := Group{Name: name}
	if node.Kind != yaml.MappingNode {
		return group, fmt.Errorf("group %q must map units to spellings", name)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		unit := strings.TrimSpace(node.Content[i].Value)
		var spellings []string
		if err := node.Content[i+1].Decode(&spellings); err != nil {
			return group, fmt.Errorf("%s/%s: %v", name, unit, err)
		}
		spellings = cleanSpellings(spellings)
		if unit == "" || len(spellings) == 0 {
			continue
		}
		group.Entries = append(group.Entries, Entry{Unit: kana.Unit(unit), Spellings: spellings})
	}
	return group, nil
}

// cleanSpellings lowercases, trims and de-duplicates while keeping order.
func cleanSpellings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// Size returns the number of entries across all scripts and groups,
// duplicates included.
func (d *Dictionary) Size() int {
	n := 0
	for _, s := range d.Scripts {
		for _, g := range s.Groups {
			n += len(g.Entries)
		}
	}
	return n
}

// Group returns the named group of a script, or nil.
func (d *Dictionary) Group(script kana.Script, name string) *Group {
	for i := range d.Scripts {
		if d.Scripts[i].Script != script {
			continue
		}
		for j := range d.Scripts[i].Groups {
			if d.Scripts[i].Groups[j].Name == name {
				return &d.Scripts[i].Groups[j]
			}
		}
	}
	return nil
}

// GroupNames lists the group names of a script in declaration order.
func (d *Dictionary) GroupNames(script kana.Script) []string {
	var names []string
	for _, s := range d.Scripts {
		if s.Script != script {
			continue
		}
		for _, g := range s.Groups {
			names = append(names, g.Name)
		}
	}
	return names
}
