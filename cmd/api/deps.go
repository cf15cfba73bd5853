package main

import (
	"fmt"
	"time"

	"restaurant/internal/infra/engine"

	"github.com/spf13/cobra"
)

const installStepTimeout = 10 * time.Minute

func runDepsCheck(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	guard := engine.NewGuard(
		engine.Command{Path: cfg.Engine.ProbeCommand, Args: cfg.Engine.ProbeArgs},
		cfg.Engine.ProbeTimeout,
		logger,
	)

	avail := guard.Check(cmd.Context())
	if !avail.Available {
		return fmt.Errorf("engine dependencies not available: %s", avail.Detail)
	}
	fmt.Fprintln(cmd.OutOrStdout(), avail.Detail)
	return nil
}

func runDepsInstall(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	py := python
	if py == "" {
		py = cfg.Engine.ProbeCommand
	}

	guard := engine.NewGuard(
		engine.Command{Path: cfg.Engine.ProbeCommand, Args: cfg.Engine.ProbeArgs},
		cfg.Engine.ProbeTimeout,
		logger,
	)
	inst := engine.NewInstaller(guard, engine.DefaultInstallSteps(py), installStepTimeout, logger)

	report, err := inst.Install(cmd.Context())
	if err != nil {
		return err
	}
	if report.AlreadyInstalled {
		fmt.Fprintln(cmd.OutOrStdout(), "dependencies already installed")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "dependencies installed with: %s\n", report.Step)
	return nil
}
