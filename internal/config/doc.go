// Package config holds runtime configuration and the taxonomy document.
//
// Configuration is a flat struct populated from CLI flags and passed
// through the application by dependency injection; there is no global
// state. The taxonomy is a read-only YAML document of sections and
// subsections with an organization-name placeholder substituted at load
// time.
package config
