package main

import "github.com/abdul-hamid-achik/hitsend/apps/cli/cmd"

// Set via ldflags
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cmd.Execute(version, buildTime)
}
