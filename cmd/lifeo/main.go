package main

import "github.com/sandeepkv93/lifeo/cmd/lifeo/root"

func main() {
	root.Execute()
}
