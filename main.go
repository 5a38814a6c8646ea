package main

import "embedhttp/cmd"

func main() {
	cmd.Execute()
}
