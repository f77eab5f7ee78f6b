package main

import (
	"log"
	"os"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
