package main

import "github.com/raxitsanghani/grill-food-web-sub000/cli"

func main() {
	cli.Execute()
}
