package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	registry := NewRegistry()
	registry.Register(&BenchCommand{})
	registry.Register(&BuildCommand{})
	registry.Register(&CheckCoverageCommand{})
	registry.Register(&CheckDBCommand{})
	registry.Register(&CheckDepsCommand{})
	registry.Register(&DeployCommand{})
	registry.Register(&DoctorCommand{})
	registry.Register(&EntrypointCommand{})
	registry.Register(&HealthCheckCommand{})
	registry.Register(&MigrateCommand{})
	registry.Register(&PreCommitCommand{})
	registry.Register(&PushCommand{})
	registry.Register(&RollbackCommand{})
	registry.Register(&SeedCommand{})
	registry.Register(&SetupCommand{})
	registry.Register(&TestMigrationsCommand{})
	registry.Register(&TestSecurityCommand{})
	registry.Register(&WaitForDBCommand{})

	if len(os.Args) < 2 {
		registry.PrintHelp()
		os.Exit(1)
	}

	name := os.Args[1]
	if name == "help" || name == "-h" || name == "--help" {
		registry.PrintHelp()
		return
	}

	cmd, ok := registry.Get(name)
	if !ok {
		fmt.Printf("Unknown command: %s\n\n", name)
		registry.PrintHelp()
		os.Exit(1)
	}

	if err := cmd.Run(os.Args[2:]); err != nil {
		PrintError("%v", err)
		os.Exit(1)
	}
}
