package customdata

import (
	"encoding/base64"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrBadLayer is returned when a stored layer cannot be decoded.
var ErrBadLayer = errors.New("malformed layer")

// layerYAML is the stored form of a Layer: the type by name and the raw
// little-endian column as base64.
type layerYAML struct {
	Type string `yaml:"type"`
	Name string `yaml:"name,omitempty"`
	UID  int32  `yaml:"uid,omitempty"`
	Data string `yaml:"data,omitempty"`
}

// MarshalYAML implements yaml.Marshaler.
func (l Layer) MarshalYAML() (any, error) {
	return layerYAML{
		Type: l.Type.String(),
		Name: l.Name,
		UID:  l.UID,
		Data: base64.StdEncoding.EncodeToString(l.Data),
	}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *Layer) UnmarshalYAML(node *yaml.Node) error {
	var raw layerYAML
	if err := node.Decode(&raw); err != nil {
		return err
	}
	t, ok := TypeFromName(raw.Type)
	if !ok {
		return fmt.Errorf("%w: unknown type %q", ErrBadLayer, raw.Type)
	}
	data, err := base64.StdEncoding.DecodeString(raw.Data)
	if err != nil {
		return fmt.Errorf("%w: %s data: %v", ErrBadLayer, raw.Type, err)
	}
	if len(data)%Info(t).Size != 0 {
		return fmt.Errorf("%w: %s data is %d bytes", ErrBadLayer, raw.Type, len(data))
	}
	if len(data) == 0 {
		data = nil
	}
	*l = Layer{Type: t, Name: raw.Name, UID: raw.UID, Data: data}
	return nil
}
