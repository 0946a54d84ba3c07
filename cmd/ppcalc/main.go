package main

import "github.com/wieku/danser-pp/app/cli"

func main() {
	cli.Execute()
}
