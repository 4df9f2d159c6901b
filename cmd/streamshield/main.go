package main

import (
	"fmt"
	"os"

	"github.com/AbbasKothari1552/StreamShield/cmd/streamshield/cmd"
	"github.com/AbbasKothari1552/StreamShield/internal/config"

	// Register model backends
	_ "github.com/AbbasKothari1552/StreamShield/internal/app/models/gocv"
	_ "github.com/AbbasKothari1552/StreamShield/internal/app/models/openai"
	_ "github.com/AbbasKothari1552/StreamShield/internal/app/models/whisper"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration warning: %v\n", err)
	}

	cmd.Execute()
}
