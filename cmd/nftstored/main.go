package main

import "github.com/nftstore/nftstored/internal/cli"

func main() {
	cli.Execute()
}
