package main

import (
	"context"

	"censusops/cmd/census-cli/commands"
	"censusops/lib/telemetry"
)

func main() {
	ctx := context.Background()
	tel, err := telemetry.SetupFromEnv(ctx, "census-cli")
	if err == nil {
		defer tel.Shutdown(ctx)
		telemetry.InstrumentPerfStats(ctx)
	}
	commands.ExecuteContext(ctx)
}
