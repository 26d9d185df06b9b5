package main

import "github.com/doshub/portal-backend/internal/cli"

func main() {
	cli.Execute()
}
