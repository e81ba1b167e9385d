package main

import (
	"context"
	"crypto/tls"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/gorilla/handlers"
	datastore "github.com/ipfs/go-ds-leveldb"
	logging "github.com/ipfs/go-log/v2"
	"github.com/pkg/errors"
	ldbopts "github.com/syndtr/goleveldb/leveldb/opt"
	"go.uber.org/zap"

	"github.com/consensus-shipyard/base-faucet/internal/data"
	"github.com/consensus-shipyard/base-faucet/internal/explorer"
	"github.com/consensus-shipyard/base-faucet/internal/faucet"
	"github.com/consensus-shipyard/base-faucet/internal/history"
	app "github.com/consensus-shipyard/base-faucet/internal/http"
	"github.com/consensus-shipyard/base-faucet/internal/metrics"
	"github.com/consensus-shipyard/base-faucet/internal/network"
	"github.com/consensus-shipyard/base-faucet/internal/types"
	"github.com/consensus-shipyard/base-faucet/pkg/version"
)

var build = "develop"

func main() {
	logger := logging.Logger("BASE-FAUCET")

	lvl, err := logging.LevelFromString("info")
	if err != nil {
		panic(err)
	}
	logging.SetAllLoggers(lvl)

	if err := run(logger); err != nil {
		logger.Fatalln("main: error:", err)
	}
}

func run(log *logging.ZapEventLogger) error {
	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:60s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			Host            string        `conf:"default:0.0.0.0:8000"`
			AllowedOrigins  []string
		}
		TLS struct {
			Disable  bool   `conf:"default:true"`
			CertFile string `conf:"default:nocert.pem"`
			KeyFile  string `conf:"default:nokey.pem"`
		}
		Faucet struct {
			// Amount is in ETH.
			Amount       string        `conf:"default:0.001"`
			Cooldown     time.Duration `conf:"default:24h"`
			HistoryLimit int           `conf:"default:5"`
			NetworkName  string        `conf:"default:Base Sepolia"`
		}
		Ethereum struct {
			APIHost    string `conf:"required"`
			ChainID    uint64 `conf:"default:84532"`
			PrivateKey string `conf:"required,mask"`
		}
		Explorer struct {
			APIHost string        `conf:"default:https://api.etherscan.io/v2/api"`
			APIKey  string        `conf:"mask"`
			TxLink  string        `conf:"default:https://sepolia.basescan.org/tx/"`
			Timeout time.Duration `conf:"default:10s"`
			Rate    float64       `conf:"default:5"`
		}
		DB struct {
			Path     string `conf:"default:./_db_data"`
			Readonly bool   `conf:"default:false"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "Base Sepolia Faucet Service",
		},
	}

	const prefix = "FAUCET"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return err
	}

	// =========================================================================
	// App Starting

	ctx := context.Background()

	log.Infow("starting service", "version", version.Version(), "build", build)
	defer log.Infow("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	expvar.NewString("build").Set(build)

	amount, err := types.ParseEther(cfg.Faucet.Amount)
	if err != nil {
		return fmt.Errorf("invalid faucet amount: %w", err)
	}

	m := metrics.NewMetrics()
	m.RecordInfo(version.Version())

	db, err := openStore(log, cfg.DB.Path, cfg.DB.Readonly)
	if err != nil {
		return err
	}
	defer func() {
		log.Infow("shutdown", "status", "stopping leveldb")
		if err := db.Close(); err != nil {
			log.Errorf("closing DB error: %s", err)
		}
	}()

	// =========================================================================
	// Start Ethereum client

	client, chainID, err := network.Dial(ctx, cfg.Ethereum.APIHost, cfg.Ethereum.ChainID)
	if err != nil {
		return err
	}
	defer client.Close()

	account, err := data.NewAccount(cfg.Ethereum.PrivateKey)
	if err != nil {
		return fmt.Errorf("failed to initialize account: %w", err)
	}

	log.Infow("startup", "status", "connected to network", "chain_id", chainID, "faucet", account.Address)

	faucetService := faucet.NewService(log, m, client, account, db, &faucet.Config{
		Amount:   amount,
		Cooldown: cfg.Faucet.Cooldown,
		ChainID:  chainID,
	})

	explorerClient := explorer.NewClient(log, explorer.Config{
		APIHost:           cfg.Explorer.APIHost,
		APIKey:            cfg.Explorer.APIKey,
		ChainID:           chainID.Uint64(),
		Timeout:           cfg.Explorer.Timeout,
		RequestsPerSecond: cfg.Explorer.Rate,
	}, nil)

	viewer := history.NewViewer(log, m, explorerClient, account.Address, cfg.Faucet.HistoryLimit, cfg.Explorer.TxLink)

	// =========================================================================
	// Start API Service

	handler := app.FaucetHandler(log, client, faucetService, viewer, m.Registry(), &app.Config{
		AllowedOrigins: cfg.Web.AllowedOrigins,
		NetworkName:    cfg.Faucet.NetworkName,
		Build:          build,
	})

	api := &http.Server{
		Addr:         cfg.Web.Host,
		Handler:      handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(handler),
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	if !cfg.TLS.Disable {
		if api.TLSConfig, err = loadTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile); err != nil {
			return err
		}
	}

	m.RecordUp()

	return serve(ctx, log, api, cfg.TLS.Disable, cfg.Web.ShutdownTimeout)
}

func openStore(log *logging.ZapEventLogger, path string, readonly bool) (*datastore.Datastore, error) {
	log.Infow("startup", "status", "initializing database support", "path", path, "readonly", readonly)

	db, err := datastore.NewDatastore(path, &datastore.Options{
		Compression: ldbopts.NoCompression,
		NoSync:      false,
		Strict:      ldbopts.StrictAll,
		ReadOnly:    readonly,
	})
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize leveldb database: %w", err)
	}
	return db, nil
}

func loadTLS(certFile, keyFile string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS key pair: %w", err)
	}
	return &tls.Config{
		MinVersion:   tls.VersionTLS12,
		Certificates: []tls.Certificate{cert},
	}, nil
}

// serve runs api until it fails or SIGINT/SIGTERM arrives, then drains it.
func serve(ctx context.Context, log *logging.ZapEventLogger, api *http.Server, disableTLS bool, shutdownTimeout time.Duration) error {
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		log.Infow("startup", "status", "api router started", "host", api.Addr, "tls", !disableTLS)
		if disableTLS {
			serverErrors <- api.ListenAndServe()
			return
		}
		// certificates are already in api.TLSConfig
		serverErrors <- api.ListenAndServeTLS("", "")
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()

		if err := api.Shutdown(ctx); err != nil {
			if err := api.Close(); err != nil {
				log.Errorw("shutdown", "status", "api shutdown", "err", err)
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}
	return nil
}
