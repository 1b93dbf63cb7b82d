// Package config handles meshkit configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/meshkit/pkg/bmesh"
	"github.com/Faultbox/meshkit/pkg/customdata"
)

// Config holds all tool settings.
type Config struct {
	Convert ConvertConfig `yaml:"convert"`
	Batch   BatchConfig   `yaml:"batch"`
	Logging LoggingConfig `yaml:"logging"`
}

// ConvertConfig holds the default conversion options.
type ConvertConfig struct {
	CalcFaceNormal        bool        `yaml:"calc_face_normal"`
	UseShapeKey           bool        `yaml:"use_shape_key"`
	ActiveShapeKey        int         `yaml:"active_shape_key"` // 1-based, 0 for none
	AddKeyIndex           bool        `yaml:"add_key_index"`
	CalcObjectRemap       bool        `yaml:"calc_object_remap"`
	UpdateShapeKeyIndices bool        `yaml:"update_shape_key_indices"`
	ExtraLayers           ExtraLayers `yaml:"extra_layers"`
}

// ExtraLayers lists layer type names, per domain, to carry in addition to
// the defaults of each representation.
type ExtraLayers struct {
	Vert []string `yaml:"vert,omitempty"`
	Edge []string `yaml:"edge,omitempty"`
	Loop []string `yaml:"loop,omitempty"`
	Face []string `yaml:"face,omitempty"`
}

// BatchConfig holds settings for multi-file runs.
type BatchConfig struct {
	Workers  int    `yaml:"workers"`
	Pattern  string `yaml:"pattern"` // file glob inside the input directory
	Progress bool   `yaml:"progress"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"` // console or json
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Convert: ConvertConfig{
			CalcFaceNormal:  true,
			AddKeyIndex:     true,
			CalcObjectRemap: true,
		},
		Batch: BatchConfig{
			Workers:  4,
			Pattern:  "*.yaml",
			Progress: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Format:  "console",
			LogFile: "",
		},
	}
}

// Masks resolves the listed type names.
func (e ExtraLayers) Masks() (customdata.MeshMasks, error) {
	var m customdata.MeshMasks
	for _, d := range []struct {
		names []string
		mask  *customdata.Mask
	}{
		{e.Vert, &m.VMask},
		{e.Edge, &m.EMask},
		{e.Loop, &m.LMask},
		{e.Face, &m.PMask},
	} {
		for _, name := range d.names {
			t, ok := customdata.TypeFromName(name)
			if !ok {
				return customdata.MeshMasks{}, fmt.Errorf("unknown layer type %q", name)
			}
			*d.mask |= t.Mask()
		}
	}
	return m, nil
}

// ImportParams returns the editable-mesh build options.
func (c *ConvertConfig) ImportParams() (bmesh.FromMeshParams, error) {
	mask, err := c.ExtraLayers.Masks()
	if err != nil {
		return bmesh.FromMeshParams{}, err
	}
	return bmesh.FromMeshParams{
		CalcFaceNormal: c.CalcFaceNormal,
		UseShapeKey:    c.UseShapeKey,
		ActiveShapeKey: c.ActiveShapeKey,
		AddKeyIndex:    c.AddKeyIndex,
		ExtraMask:      mask,
	}, nil
}

// ExportParams returns the array-mesh write options. Extra morph layer
// types are dropped from the vertex mask.
func (c *ConvertConfig) ExportParams() (bmesh.ToMeshParams, error) {
	mask, err := c.ExtraLayers.Masks()
	if err != nil {
		return bmesh.ToMeshParams{}, err
	}
	// Morph shadow layers exist on the editable side only.
	mask.VMask &^= customdata.MaskOf(customdata.TypeShapeKey, customdata.TypeShapeKeyIndex)
	return bmesh.ToMeshParams{
		CalcObjectRemap:       c.CalcObjectRemap,
		UpdateShapeKeyIndices: c.UpdateShapeKeyIndices,
		ExtraMask:             mask,
	}, nil
}
