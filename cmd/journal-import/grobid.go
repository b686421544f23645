// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/journal-import/internal/container"
)

var grobidCmd = &cobra.Command{
	Use:   "grobid",
	Short: "Run and check the GROBID extraction service",
}

var grobidStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start GROBID in a local Docker or Podman container",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := container.DetectRuntime()
		if err != nil {
			return err
		}
		svc := grobidService(cmd)
		logger.Debug("starting grobid", "runtime", rt.Name(), "image", svc.Image, "port", svc.Port)
		if err := container.Ensure(rt, svc); err != nil {
			return err
		}
		fmt.Printf("started %s (%s) on port %d\n", svc.Name, svc.Image, svc.Port)
		return nil
	},
}

var grobidStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the GROBID container",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := container.DetectRuntime()
		if err != nil {
			return err
		}
		svc := grobidService(cmd)
		if err := rt.Stop(svc.Name); err != nil {
			return err
		}
		fmt.Printf("stopped %s\n", svc.Name)
		return nil
	},
}

var grobidStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that the configured GROBID service is ready",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := newGrobidClient(cfg.Grobid).IsAlive(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("grobid ready at %s\n", cfg.Grobid.URL)
		return nil
	},
}

func grobidService(cmd *cobra.Command) container.Service {
	name, _ := cmd.Flags().GetString("name")
	image, _ := cmd.Flags().GetString("image")
	port, _ := cmd.Flags().GetInt("port")
	return container.Service{Name: name, Image: image, Port: port}.WithDefaults()
}

func init() {
	grobidStartCmd.Flags().String("image", container.DefaultImage, "GROBID image")
	grobidStartCmd.Flags().Int("port", container.ServicePort, "host port")
	grobidStartCmd.Flags().String("name", container.DefaultName, "container name")
	grobidStopCmd.Flags().String("name", container.DefaultName, "container name")

	grobidCmd.AddCommand(grobidStartCmd)
	grobidCmd.AddCommand(grobidStopCmd)
	grobidCmd.AddCommand(grobidStatusCmd)

	rootCmd.AddCommand(grobidCmd)
}
