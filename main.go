package main

import "dbkeeper/cmd"

func main() {
	cmd.Execute()
}
