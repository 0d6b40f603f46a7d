// cmd/shift2me/main.go
package main

import (
	"shift2me/internal/app"
	"shift2me/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
