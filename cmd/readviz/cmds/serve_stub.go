package cmds

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-go-golems/readviz/pkg/stubserver"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeStubCmd() *cobra.Command {
	var addr string
	var reads int
	var empty bool

	cmd := &cobra.Command{
		Use:   "serve-stub",
		Short: "Serve a canned analysis backend for local testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var ds *stubserver.Dataset
			if !empty {
				ds = stubserver.SampleDataset(reads)
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           stubserver.NewRouter(stubserver.NewHandler(ds)),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			eg, egCtx := errgroup.WithContext(ctx)
			eg.Go(func() error {
				log.Info().Str("addr", addr).Int("reads", reads).Bool("empty", empty).Msg("stub backend listening")
				err := srv.ListenAndServe()
				if stderrors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			})
			eg.Go(func() error {
				<-egCtx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			if err := eg.Wait(); err != nil {
				return errors.Wrap(err, "serve-stub")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:5000", "Listen address")
	cmd.Flags().IntVar(&reads, "reads", 200, "Number of sample reads")
	cmd.Flags().BoolVar(&empty, "empty", false, "Start without a dataset; every action answers 400")
	return cmd
}
