// cmd/probekit/main.go
package main

import (
	"probekit/internal/app"
	"probekit/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
