package main

import "zh-extractor/internal/cli"

func main() {
	cli.Execute()
}
