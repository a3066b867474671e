package main

import "github.com/datastax/data-api-filters/cmd"

func main() {
	cmd.Execute()
}
