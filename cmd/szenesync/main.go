package main

import (
	"context"
	"szenesync/cmd/szenesync/commands"
	"szenesync/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "szenesync")
	telemetry.InitSlog(true)
	commands.ExecuteContext(context.Background())
}
