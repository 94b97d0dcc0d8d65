package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nftstore/nftstored/internal/config"
	"github.com/nftstore/nftstored/internal/core/ledger/service"
	"github.com/nftstore/nftstored/internal/core/tx"
	"github.com/nftstore/nftstored/internal/rpc"
	"github.com/nftstore/nftstored/internal/storage/keyvaluedb/pebble"
)

// serverCmd starts the daemon (the default action).
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the marketplace settlement daemon",
	Long: `Start nftstored, which provides:
- HTTP JSON-RPC endpoints for submitting transitions and querying state
- Durable ledger state in pebble
- A sqlite archive of completed sales`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.RunE = serverCmd.RunE
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return err
	}

	db, err := pebble.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	ledger, err := service.NewLedger(db)
	if err != nil {
		return err
	}

	var archive *service.SaleArchive
	if cfg.Database.SaleArchivePath != "" {
		archive, err = service.OpenSaleArchive(cfg.Database.SaleArchivePath)
		if err != nil {
			return err
		}
		defer archive.Close()
	}

	svc := service.New(ledger, service.Options{Archive: archive})
	if verbose {
		svc.Publisher().Subscribe(service.EventHooks{
			OnListed: func(ev tx.ListedEvent) {
				log.Printf("Listed asset=%s seller=%s price=%d rate=%d", ev.AssetID, ev.Seller, ev.Price, ev.Rate)
			},
			OnRedeemed: func(ev tx.RedeemedEvent) {
				log.Printf("Redeemed asset=%s redeemer=%s", ev.AssetID, ev.Redeemer)
			},
			OnSold: func(ev tx.SoldEvent) {
				log.Printf("Sold asset=%s index=%d customer=%s price=%d", ev.AssetID, ev.Index, ev.Customer, ev.Price)
			},
		})
	}

	timeout := time.Duration(cfg.Server.RequestTimeoutSeconds) * time.Second
	handler := rpc.NewServer(svc, timeout)

	addr := net.JoinHostPort(cfg.Server.BindAddress, strconv.Itoa(cfg.Server.Port))
	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	if !quiet {
		fmt.Printf("nftstored listening on %s\n", addr)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("server stopped: %v", err)
		return err
	}
	return nil
}
