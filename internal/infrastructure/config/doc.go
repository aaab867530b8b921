// Package config loads and validates Fiya webservice configuration.
//
// Configuration comes from a YAML file with environment variable
// overrides (FIYA_SECTION_KEY pattern). Validation fails fast when the
// JWT signing secret or device keyed-hash secret is missing — the
// process must not start without them. Once loaded, configuration is
// immutable and injected into components at construction; there is no
// global configuration state.
package config
