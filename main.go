package main

import "tblgen/cmd"

func main() {
	cmd.Execute()
}
