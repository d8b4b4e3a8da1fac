package main

import "github.com/hurou927/vocabpack/cmd"

func main() {
	cmd.Execute()
}
