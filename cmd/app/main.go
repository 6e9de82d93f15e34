package main

import (
	"fmt"
	"os"

	"github.com/KYD-04/Home-Files/internal/commands"
	"github.com/KYD-04/Home-Files/pkg/logger"
)

func main() {
	log := logger.New()

	defer func() {
		if r := recover(); r != nil {
			log.Error("Panic recovered: %v", r)
			os.Exit(1)
		}
	}()

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
