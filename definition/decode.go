package definition

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for an unknown file extension or format.
var ErrUnsupportedFormat = errors.New("unsupported definition format")

// Format is a serialization of a Definition.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatXML  Format = "xml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".xml":
		return FormatXML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Load reads and decodes a definition file. The format follows the extension.
func Load(path string) (*Definition, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	def, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	if def.Name == "" {
		def.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return def, nil
}

// Decode decodes data in the given format.
func Decode(data []byte, format Format) (*Definition, error) {
	switch format {
	case FormatTOML:
		return DecodeTOML(bytes.NewReader(data))
	case FormatYAML:
		return DecodeYAML(bytes.NewReader(data))
	case FormatXML:
		return DecodeXML(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// DecodeTOML decodes a TOML definition. Unknown keys are rejected.
func DecodeTOML(r io.Reader) (*Definition, error) {
	var def Definition

	md, err := toml.NewDecoder(r).Decode(&def)
	if err != nil {
		return nil, NewImportError(ErrMalformed, 0, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, NewImportError(ErrMalformed, 0, fmt.Errorf("unknown keys %v", undecoded))
	}

	return &def, nil
}

// DecodeYAML decodes a YAML definition. Unknown keys are rejected.
func DecodeYAML(r io.Reader) (*Definition, error) {
	var def Definition

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&def); err != nil {
		return nil, NewImportError(ErrMalformed, 0, err)
	}

	return &def, nil
}

type xmlBehavior struct {
	XMLName xml.Name  `xml:"behavior"`
	Name    string    `xml:"name,attr"`
	Nodes   []xmlNode `xml:"node"`
}

type xmlNode struct {
	ID         string     `xml:"id,attr"`
	Type       string     `xml:"node_type"`
	Parameters []xmlParam `xml:"parameter"`
	Children   []string   `xml:"children>child_id"`
}

type xmlParam struct {
	Name  *string `xml:"name"`
	Value *string `xml:"value"`
}

// DecodeXML decodes the legacy format:
//
//	<behavior>
//	  <node id="1">
//	    <node_type>Root</node_type>
//	    <children><child_id>2</child_id></children>
//	  </node>
//	  <node id="2">
//	    <node_type>UnsetValue</node_type>
//	    <parameter><name>varName</name><value>target</value></parameter>
//	  </node>
//	</behavior>
func DecodeXML(r io.Reader) (*Definition, error) {
	var doc xmlBehavior
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, NewImportError(ErrMalformed, 0, err)
	}

	def := &Definition{Name: doc.Name, Nodes: make([]NodeDefinition, 0, len(doc.Nodes))}

	for _, xn := range doc.Nodes {
		id, err := strconv.Atoi(strings.TrimSpace(xn.ID))
		if err != nil {
			return nil, NewImportError(ErrBadID, 0, fmt.Errorf("id %q: %w", xn.ID, err))
		}

		n := NodeDefinition{ID: id, Type: strings.TrimSpace(xn.Type)}

		for i, xp := range xn.Parameters {
			if xp.Name == nil || xp.Value == nil {
				return nil, NewImportError(ErrMalformed, id, fmt.Errorf("parameter %d needs name and value", i))
			}
			n.Parameters = append(n.Parameters, Parameter{Name: strings.TrimSpace(*xp.Name), Value: *xp.Value})
		}

		for _, c := range xn.Children {
			cid, err := strconv.Atoi(strings.TrimSpace(c))
			if err != nil {
				return nil, NewImportError(ErrBadID, id, fmt.Errorf("child id %q: %w", c, err))
			}
			n.Children = append(n.Children, cid)
		}

		def.Nodes = append(def.Nodes, n)
	}

	return def, nil
}

// EncodeTOML writes def as TOML.
func EncodeTOML(w io.Writer, def *Definition) error {
	return toml.NewEncoder(w).Encode(def)
}
