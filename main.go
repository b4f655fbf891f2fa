package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/app"
	"github.com/km-arc/go-container/framework/container"
	gohttp "github.com/km-arc/go-container/framework/http"
	"github.com/km-arc/go-container/framework/routing"
)

// Greeter is a demo service wired by constructor resolution.
type Greeter struct {
	logger   *zap.Logger
	greeting string
}

func NewGreeter(logger *zap.Logger, greeting string) *Greeter {
	return &Greeter{logger: logger, greeting: greeting}
}

func (g *Greeter) Greet(name string) string {
	g.logger.Debug("greeting", zap.String("name", name))
	return g.greeting + ", " + name + "!"
}

// GreeterProvider registers the demo service and its routes.
type GreeterProvider struct{ container.BaseProvider }

func (p *GreeterProvider) Register(c *container.Container) error {
	err := c.Types().Constructor("Greeter", NewGreeter,
		container.Arg("logger"),
		container.Arg("greeting").Default("Hello"),
	)
	if err != nil {
		return err
	}
	c.Share("greeter", container.ByType("Greeter"), nil)
	return nil
}

func (p *GreeterProvider) Boot(ctx context.Context, c *container.Container) error {
	router, err := container.Resolve[*routing.Router](ctx, c, "router")
	if err != nil {
		return err
	}
	router.Get("/hello/{name}", func(w http.ResponseWriter, r *http.Request) {
		res := gohttp.NewResponse(w)
		g, err := container.Resolve[*Greeter](r.Context(), c, "greeter")
		if err != nil {
			res.FromError(err)
			return
		}
		res.Success(map[string]any{"message": g.Greet(routing.Param(r, "name"))})
	})
	return nil
}

func main() {
	application, err := app.New() // loads .env
	if err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap failed: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Register(ctx, &GreeterProvider{}); err != nil {
		application.Logger().Fatal("register failed", zap.Error(err))
	}
	if err := application.Run(ctx); err != nil {
		application.Logger().Fatal("server error", zap.Error(err))
	}
}
