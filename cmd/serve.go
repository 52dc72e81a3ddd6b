package cmd

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnquest/internal/recordapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the local record store over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		if rt.cfg.Remote != "" {
			return errors.New("serve needs a local database; unset --remote")
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			rt.cfg.Server.Addr = addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if _, _, err := rt.seed(ctx); err != nil {
			return err
		}
		srv := recordapi.NewServer(rt.backend, rt.cfg.Server, rt.logger.Named("recordapi"))
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides config)")
}
