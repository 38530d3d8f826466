// Package config loads pipeline tuning settings from YAML files.
//
// Settings files are partial: any key left out keeps its default, so a
// tuning file only needs to name the knobs it changes. Load starts from
// Default and overlays the document on top of it.
package config
