// boutiquectl opera el inventario sin pasar por la API: migraciones, ajustes de stock con
// reintento y exportación. Usa la misma configuración (env / .env) que cmd/api.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/boutique-api/internal/application/auth"
	"github.com/jhoicas/boutique-api/internal/application/inventory"
	infrapdf "github.com/jhoicas/boutique-api/internal/infrastructure/pdf"
	"github.com/jhoicas/boutique-api/internal/infrastructure/storage"
	"github.com/jhoicas/boutique-api/pkg/config"
	"github.com/jhoicas/boutique-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newApp(os.Stdout).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "boutiquectl",
		Usage:     "operaciones de inventario de la boutique",
		Writer:    out,
		ErrWriter: out,
		Commands: []*cli.Command{
			migrateCommand(),
			adjustCommand(),
			listCommand(),
			reportCommand(),
			createAdminCommand(),
		},
	}
}

// env configuración y backend abiertos para un comando.
type env struct {
	cfg     *config.Config
	log     *logger.Logger
	backend *storage.Backend
}

func openEnv(c *cli.Context, seed bool) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, App: "boutiquectl", Output: c.App.ErrWriter})
	backend, err := storage.Open(c.Context, cfg.DB, seed)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, backend: backend}, nil
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "aplica el esquema (y opcionalmente los datos de demostración)",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "seed", Usage: "cargar datos de demostración"},
		},
		Action: func(c *cli.Context) error {
			e, err := openEnv(c, c.Bool("seed"))
			if err != nil {
				return err
			}
			defer e.backend.Close()
			fmt.Fprintf(c.App.Writer, "migraciones aplicadas (%s)\n", e.backend.Driver)
			return nil
		},
	}
}

func adjustCommand() *cli.Command {
	return &cli.Command{
		Name:      "adjust",
		Usage:     "ajusta el stock de un producto (negativo = venta)",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "id", Usage: "ID del producto", Required: true},
			&cli.Int64Flag{Name: "delta", Usage: "cambio de cantidad", Required: true},
			&cli.IntFlag{Name: "retries", Value: 3, Usage: "intentos ante conflicto de concurrencia"},
			&cli.DurationFlag{Name: "backoff", Value: 50 * time.Millisecond, Usage: "espera base entre intentos"},
			&cli.IntFlag{Name: "parallel", Value: 1, Usage: "repite el ajuste N veces en paralelo"},
		},
		Action: func(c *cli.Context) error {
			e, err := openEnv(c, false)
			if err != nil {
				return err
			}
			defer e.backend.Close()

			svc := inventory.NewStockService(e.backend.Stock,
				inventory.WithLogger(e.log.Component("stock")),
				inventory.WithLockTimeout(e.cfg.Inventory.LockTimeout),
			)
			id, delta := c.String("id"), c.Int64("delta")
			parallel := c.Int("parallel")
			if parallel < 1 {
				parallel = 1
			}

			var applied atomic.Int64
			var mu sync.Mutex
			var firstErr error
			g, ctx := errgroup.WithContext(c.Context)
			g.SetLimit(8)
			for i := 0; i < parallel; i++ {
				g.Go(func() error {
					err := inventory.AdjustWithRetry(ctx, svc, id, delta, c.Int("retries"), c.Duration("backoff"))
					if err != nil {
						mu.Lock()
						if firstErr == nil {
							firstErr = err
						}
						mu.Unlock()
						return nil
					}
					applied.Add(1)
					return nil
				})
			}
			_ = g.Wait()

			p, err := e.backend.Stock.FindByID(c.Context, id)
			if err != nil {
				return err
			}
			if p != nil {
				fmt.Fprintf(c.App.Writer, "%s: %d/%d ajustes aplicados, stock=%d version=%d\n",
					id, applied.Load(), parallel, p.StockLevel, p.Version)
			}
			return firstErr
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "imprime el inventario en CSV",
		Action: func(c *cli.Context) error {
			e, err := openEnv(c, false)
			if err != nil {
				return err
			}
			defer e.backend.Close()
			return inventory.NewCatalogUseCase(e.backend.Products, e.backend.Stock, nil).ExportCSV(c.Context, c.App.Writer)
		},
	}
}

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "genera el reporte PDF del inventario",
		Flags: []cli.Flag{
			&cli.PathFlag{Name: "out", Value: "inventario.pdf", Usage: "archivo de salida"},
		},
		Action: func(c *cli.Context) error {
			e, err := openEnv(c, false)
			if err != nil {
				return err
			}
			defer e.backend.Close()
			doc, err := inventory.NewCatalogUseCase(e.backend.Products, e.backend.Stock,
				infrapdf.NewStockReportGenerator(e.cfg.App.Name)).Report(c.Context)
			if err != nil {
				return err
			}
			if err := os.WriteFile(c.Path("out"), doc, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "reporte escrito en %s (%d bytes)\n", c.Path("out"), len(doc))
			return nil
		},
	}
}

func createAdminCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-admin",
		Usage: "crea el usuario administrador si no existe",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true, EnvVars: []string{"ADMIN_USERNAME"}},
			&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"ADMIN_PASSWORD"}},
		},
		Action: func(c *cli.Context) error {
			e, err := openEnv(c, false)
			if err != nil {
				return err
			}
			defer e.backend.Close()
			uc := auth.NewAuthUseCase(e.backend.Users, auth.JWTConfig{Secret: e.cfg.JWT.Secret})
			if err := uc.EnsureAdmin(c.Context, c.String("username"), c.String("password")); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "administrador %s listo\n", c.String("username"))
			return nil
		},
	}
}
