/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"

	"github.com/worx/groundwork/cmd"
	"github.com/worx/groundwork/internal/version"
)

func main() {
	// Ambient AWS settings may live in a local .env file; absence is fine
	_ = godotenv.Load()

	err := fang.Execute(
		context.Background(),
		cmd.Root(),
		fang.WithVersion(version.Short()),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	)
	if err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
