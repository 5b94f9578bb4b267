package main

import "github.com/santiagomed/dapp/cli"

func main() {
	cli.Execute()
}
