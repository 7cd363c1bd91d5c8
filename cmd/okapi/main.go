package main

import "github.com/okapiscan/okapi/cmd/okapi/cmd"

func main() {
	cmd.Execute()
}
