package main

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"

	_ "storefront/docs"
	"storefront/pkg/account"
	accountmem "storefront/pkg/account/memory"
	accountpg "storefront/pkg/account/postgres"
	accountsqlite "storefront/pkg/account/sqlite"
	"storefront/pkg/catalog"
	"storefront/pkg/checkout"
	"storefront/pkg/kv"
	kvfile "storefront/pkg/kv/file"
	kvmem "storefront/pkg/kv/memory"
	kvpg "storefront/pkg/kv/postgres"
	kvredis "storefront/pkg/kv/redis"
	"storefront/pkg/logger"
	"storefront/pkg/metrics"
	"storefront/pkg/notify"
	"storefront/pkg/order"
	ordermem "storefront/pkg/order/memory"
	orderpg "storefront/pkg/order/postgres"
	"storefront/pkg/otel"
)

const serviceName = "storefront"

var cli struct {
	Addr    string `help:"Listen address." env:"ADDR" default:":8443"`
	TLSCert string `help:"TLS certificate file; plain HTTP when empty." env:"TLS_CERT"`
	TLSKey  string `help:"TLS key file." env:"TLS_KEY"`
	Catalog string `help:"Product feed JSON." env:"CATALOG" default:"products.json" type:"path"`

	Storage     string `help:"Key-value storage backend." enum:"file,memory,redis,postgres" default:"file" env:"STORAGE"`
	StoragePath string `help:"File storage location." env:"STORAGE_PATH" default:"data/storage.json" type:"path"`
	RedisAddr   string `help:"Redis address." env:"REDIS_ADDR" default:"localhost:6379"`
	DatabaseURL string `help:"Postgres connection string." env:"DATABASE_URL"`

	Accounts     string `help:"Account record store." enum:"sqlite,postgres,memory" default:"sqlite" env:"ACCOUNTS"`
	AccountsPath string `help:"SQLite account database." env:"ACCOUNTS_PATH" default:"data/accounts.db" type:"path"`
	Orders       string `help:"Order store." enum:"memory,postgres" default:"memory" env:"ORDERS"`
	PaymentURL   string `help:"Where checkout sends the buyer to pay." env:"PAYMENT_URL" default:"https://pay.example.com/checkout"`

	LogLevel         string  `help:"Minimum log level." enum:"debug,info,warn,error" default:"info" env:"LOG_LEVEL"`
	OtelHost         string  `help:"OTLP gRPC collector endpoint." env:"OTEL_HOST"`
	TraceStdout      bool    `help:"Write spans to stdout when no collector is set." env:"TRACE_STDOUT"`
	TraceProbability float64 `help:"Trace sampling ratio." default:"1.0" env:"TRACE_PROBABILITY"`
}

// @title Storefront API
// @version 1.0
// @description Product catalog, cart and accounts for the storefront
// @host localhost:8443
// @BasePath /
func main() {
	kctx := kong.Parse(&cli,
		kong.Description(`Storefront - catalog, cart and accounts over HTTP`),
		kong.UsageOnError(),
	)
	kctx.FatalIfErrorf(run())
}

func run() error {
	level, err := logger.ParseLevel(cli.LogLevel)
	if err != nil {
		return err
	}
	log := logger.New(os.Stdout, level, serviceName, otel.GetTraceID)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tcfg := otel.Config{ServiceName: serviceName, Host: cli.OtelHost, Probability: cli.TraceProbability}
	if cli.TraceStdout {
		tcfg.Stdout = os.Stdout
	}
	tp, shutdownTracing, err := otel.InitTracing(log, tcfg)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	cat, err := catalog.LoadFile(cli.Catalog)
	if err != nil {
		return err
	}
	log.Info(ctx, "catalog loaded", "products", cat.Len())

	var db *sql.DB
	if cli.Storage == "postgres" || cli.Accounts == "postgres" || cli.Orders == "postgres" {
		if db, err = sql.Open("postgres", cli.DatabaseURL); err != nil {
			return err
		}
		defer db.Close()
	}

	store, err := openStorage(ctx, log, db)
	if err != nil {
		return err
	}
	accounts, closeAccounts, err := openAccounts(ctx, db)
	if err != nil {
		return err
	}
	defer closeAccounts()
	orders, err := openOrders(ctx, db)
	if err != nil {
		return err
	}

	m := metrics.New()
	bus := notify.NewBus()
	bus.Subscribe(m.Notified)
	if w, ok := store.(kv.Watcher); ok {
		go func() {
			if err := notify.Forward(ctx, w, bus); err != nil && !errors.Is(err, context.Canceled) {
				log.Error(ctx, "storage watch stopped", "error", err)
			}
		}()
	}

	s := &server{
		log:      log,
		tracer:   tp.Tracer(serviceName),
		catalog:  cat,
		kv:       store,
		bus:      bus,
		accounts: account.NewService(accounts, log, account.WithObserver(m)),
		orders:   orders,
		checkout: checkout.New(orders, accounts, cli.PaymentURL, log),
		metrics:  m,
	}

	srv := &http.Server{
		Addr:              cli.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", cli.Addr, "storage", cli.Storage, "tls", cli.TLSCert != "")
		if cli.TLSCert != "" {
			errc <- srv.ListenAndServeTLS(cli.TLSCert, cli.TLSKey)
			return
		}
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStorage(ctx context.Context, log *logger.Logger, db *sql.DB) (kv.Store, error) {
	switch cli.Storage {
	case "memory":
		return kvmem.New(), nil
	case "redis":
		client := goredis.NewClient(&goredis.Options{Addr: cli.RedisAddr})
		s := kvredis.New(client, kvredis.DefaultChannel, log)
		if err := s.WaitReady(ctx, 10); err != nil {
			return nil, err
		}
		return s, nil
	case "postgres":
		s := kvpg.New(db, cli.DatabaseURL, log)
		if err := s.Migrate(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return kvfile.Open(cli.StoragePath, log)
	}
}

func openAccounts(ctx context.Context, db *sql.DB) (account.Repository, func() error, error) {
	nop := func() error { return nil }
	switch cli.Accounts {
	case "memory":
		return accountmem.New(), nop, nil
	case "postgres":
		r := accountpg.New(db)
		if err := r.Migrate(ctx); err != nil {
			return nil, nil, err
		}
		return r, nop, nil
	default:
		if err := os.MkdirAll(filepath.Dir(cli.AccountsPath), 0o750); err != nil {
			return nil, nil, err
		}
		r, err := accountsqlite.Open(cli.AccountsPath)
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil
	}
}

func openOrders(ctx context.Context, db *sql.DB) (order.Repository, error) {
	if cli.Orders != "postgres" {
		return ordermem.New(), nil
	}
	r := orderpg.New(db)
	if err := r.Migrate(ctx); err != nil {
		return nil, err
	}
	return r, nil
}
