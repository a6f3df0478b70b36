package main

import (
	"fmt"
	"os"

	"github.com/MarlonMora23/API-Calinema/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
