package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/san-kum/sphfluid/internal/experiment"
	"github.com/san-kum/sphfluid/internal/sim"
	"github.com/san-kum/sphfluid/internal/stream"
	"github.com/spf13/cobra"
)

// serve steps the configured fluid and streams each frame on /ws until
// interrupted. --frames 0 runs forever.
func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fluid, err := experiment.Build(cfg)
	if err != nil {
		return err
	}
	if fps <= 0 {
		return fmt.Errorf("fps must be positive, got %d", fps)
	}

	simCfg := experiment.SimConfig(cfg)
	if !cmd.Flags().Changed("frames") {
		simCfg.Frames = 0
	}
	srv := stream.NewServer(sim.New(fluid), simCfg, time.Second/time.Duration(fps))

	mux := http.NewServeMux()
	mux.Handle("/ws", srv.Handler())

	httpSrv := &http.Server{Addr: addr, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		err := srv.Run(ctx)
		if err != nil {
			log.Printf("stream stopped: %v", err)
		}
		errc <- err
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}()

	log.Printf("streaming %d particles on ws://%s/ws", fluid.Len(), addr)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		stop()
		return err
	}
	return <-errc
}
