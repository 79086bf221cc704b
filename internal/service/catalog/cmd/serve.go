package main

import (
	"fmt"

	"myapi/internal/pkg/config"
	"myapi/internal/service/catalog"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

// newServeCmd creates the serve command
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the catalog API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

// runServer starts the API and blocks until a shutdown signal arrives
func runServer() error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}

	app := fx.New(
		catalog.NewApp(cfg),
		fx.NopLogger,
	)

	if err := startApp(app, "catalog API"); err != nil {
		return err
	}

	fmt.Printf("Catalog API started on http://%s:%d (storage=%s, products.require_auth=%t)\n",
		cfg.Server.Host, cfg.Server.Port, cfg.Storage.Driver, cfg.Products.RequireAuth)
	<-app.Done()

	return stopApp(app, "catalog API")
}
