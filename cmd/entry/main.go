package main

import (
	"flag"
	"log"
	"os"

	"resultboard/internal/config"
)

func main() {
	cfg := config.Load()

	cli := commandLine{prefix: cfg.SeatPrefix, out: os.Stdout}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp && err != flag.ErrHelp {
			log.Printf("error: %s", err)
		}
		os.Exit(1)
	}
}
