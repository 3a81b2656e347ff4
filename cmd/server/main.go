package main

import "cicd-demo/backend/internal/cli"

func main() {
	cli.Execute()
}
