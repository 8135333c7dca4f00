package devsetup

import _ "embed"

// StarshipPreset is the starship.toml written for new workstations. Existing
// configs are never overwritten.
//
//go:embed starship.toml
var StarshipPreset string
