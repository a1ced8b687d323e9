// Package cliconfig holds the kong command tree for cmd/ds4dump.
package cliconfig

// CLI is the root command set, populated by kong from flags and (via
// kong.Configuration) a JSON/YAML/TOML config file in that priority order.
type CLI struct {
	ConfigFile string     `name:"config" help:"Path to a config file (overrides auto-discovery)." type:"path"`
	Log        LogOptions `embed:"" prefix:"log-"`

	Decode DecodeCommand `cmd:"" help:"Decode a captured DS4 report and print it as JSON"`
	Config ConfigCommand `cmd:"" help:"Configuration file helpers"`
}

// LogOptions controls cmd/ds4dump's own logging; the ds4 codec package
// never logs.
type LogOptions struct {
	Level   string `help:"Log level." default:"info" enum:"trace,debug,info,warn,error"`
	File    string `help:"Also write logs to this file; console logs then all go to stderr."`
	RawFile string `help:"Write a hex dump of every decoded report to this file."`
}
