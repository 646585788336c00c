package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"

	"github.com/selene-app/selene-api/internal/config"
	"github.com/selene-app/selene-api/internal/container"
	"github.com/selene-app/selene-api/internal/router"
)

func main() {
	c := container.New()
	log := config.Logger()

	r := router.New(router.RouterConfig{
		UserHandler:     c.UserContainer.Handler,
		CategoryHandler: c.CategoryContainer.Handler,
		TemplateHandler: c.TemplateContainer.Handler,
		CycleHandler:    c.CycleContainer.Handler,
		TaskHandler:     c.TaskContainer.Handler,
		StatsHandler:    c.StatsContainer.Handler,
		MoonHandler:     c.MoonHandler,
		Hub:             c.Hub,
	})

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		adapter := chiadapter.New(r)
		lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
			return adapter.ProxyWithContext(ctx, req)
		})
		return
	}

	if err := c.Scheduler.Start(); err != nil {
		log.WithError(err).Fatal("Failed to start rollover scheduler")
	}
	defer c.Scheduler.Stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	server := &http.Server{Addr: ":" + port, Handler: r}

	go func() {
		log.WithField("port", port).Info("Server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}
