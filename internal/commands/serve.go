package commands

import (
	"fmt"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fundbooks-dev/fundbooks/internal/api"
)

func newServeCommand(dir *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Optional .env for deployment overrides.
			_ = godotenv.Load()

			e, err := openEnv(*dir)
			if err != nil {
				return err
			}
			defer e.close()

			srv := api.NewServer(e.store, e.posting, e.balance, e.payables, e.assets, e.recurring, e.reconcile)
			srv.EnableMetrics()

			listenAddr := addr
			if listenAddr == "" {
				listenAddr = e.cfg.Server.Addr
			}

			log.Printf("fundbooks listening on %s", listenAddr)
			if err := http.ListenAndServe(listenAddr, srv.Handler()); err != nil {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}
