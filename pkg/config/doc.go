// Package config loads dotmgr's configuration.
//
// Values are layered with koanf, later layers overriding earlier ones:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the config file: $DOTMGR_CONFIG, or $XDG_CONFIG_HOME/dotmgr/config.toml
//     when present
//  3. environment variables DOTMGR_REPO, DOTMGR_STAGE, DOTMGR_TAG_CONF,
//     DOTMGR_HOSTNAME and DOTMGR_POLICY
//
// The merged map is decoded into Config with mapstructure. Generate renders a
// Config back to TOML for seeding a config file.
package config
