package config

import (
	"flag"
	"fmt"
)

const HelpMessage = `
FleetOps admin service.

Usage:
  fleetops [flags]

Flags:
  -config-path string   Path to the config yaml file (default "config.yaml")
  -help                 Show this message

Configuration is read from the yaml file and overridden by environment
variables (DATABASE_*, RABBITMQ_*, SERVER_PORT, AUTH_JWT_SECRET,
PRICING_CURRENCY).
`

func PrintHelp() {
	if HelpMessage != "" {
		fmt.Printf("%s", HelpMessage)
	} else {
		flag.Usage()
	}
}
