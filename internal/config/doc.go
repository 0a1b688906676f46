// Package config provides the layered options store shared by the
// application and its extensions.
//
// Values are nested maps addressed by dot paths ("confirm.cancelWindow").
// Layers merge in order defaults < file < environment < overrides, so
// extension defaults registered with SetDefaults never shadow user
// settings.
package config
