package main

import "github.com/catalens/catalens/cmd"

func main() {
	cmd.Execute()
}
