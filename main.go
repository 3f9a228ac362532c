package main

import "github.com/br00kd0wnt0n/poddit-api/cmd"

func main() {
	cmd.Execute()
}
