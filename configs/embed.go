// Package configs provides embedded configuration templates for contentgraph.
//
// Templates are embedded at build time so they ship with every binary.
// 'contentgraph init' writes ProjectConfigTemplate to .contentgraph.yaml.
package configs

import _ "embed"

// ProjectConfigTemplate is the commented project configuration written by
// 'contentgraph init'.
//
//go:embed project-config.example.yaml
var ProjectConfigTemplate string
