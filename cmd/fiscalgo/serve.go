package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rgehrsitz/fiscalgo/internal/api"
	"github.com/spf13/cobra"
)

func serveCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculators over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = a.env.Addr
			}
			engine, err := a.engine()
			if err != nil {
				return err
			}

			router := api.NewRouter(api.NewHandler(engine), api.Options{
				AllowedOrigins: a.env.CORSOrigins,
				RequestLog:     true,
			})
			srv := &http.Server{
				Addr:              addr,
				Handler:           router,
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx := cmd.Context()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					a.log.Errorf("shutdown: %v", err)
				}
			}()

			a.log.Infof("listening on %s (rate tables %d)", addr, engine.Tables.Metadata.DataYear)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			a.log.Infof("server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address (default: $FISCALGO_ADDR or :8080)")
	return cmd
}
