package main

import "github.com/SigNoz/ecommerce-rest-api/internal/commands"

func main() {
	commands.Execute()
}
