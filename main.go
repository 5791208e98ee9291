package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"task-management-app/backend/config"
	"task-management-app/backend/handlers"
	"task-management-app/backend/repositories"
	"task-management-app/backend/services"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/joho/godotenv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	cfg := config.GetConfig()

	if cfg.JWTSecret == "" {
		log.Fatal("SECRET_KEY_AUTH is not defined. Check your .env file.")
	}

	ctx := context.Background()
	if cfg.JaegerAddress != "" {
		exp, err := newExporter(cfg.JaegerAddress)
		handleErr(err)
		tp := newTraceProvider(exp)
		defer func() { _ = tp.Shutdown(ctx) }()
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.TraceContext{})
	}
	tracer := otel.Tracer("tasks-service")

	// Set up a timeout context for the store connections
	timeoutContext, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	taskLogger := log.New(os.Stdout, "[task-store] ", log.LstdFlags)
	userLogger := log.New(os.Stdout, "[user-store] ", log.LstdFlags)

	taskRepository, err := repositories.NewTaskRepo(timeoutContext, cfg.MongoURI, cfg.MongoDatabase, taskLogger, tracer)
	handleErr(err)
	defer taskRepository.Disconnect(ctx)

	userRepository, err := repositories.NewUserRepo(timeoutContext, cfg.MongoURI, cfg.MongoDatabase, userLogger, tracer)
	handleErr(err)
	defer userRepository.Disconnect(ctx)

	workflowEngine := services.NewWorkflowEngine(taskRepository)
	taskService := services.NewTaskService(taskRepository, userRepository, workflowEngine)
	userService := services.NewUserService(userRepository, taskService)
	authService := services.NewAuthService(userRepository, userService, []byte(cfg.JWTSecret), cfg.TokenTTL)

	taskHandler := handlers.NewTaskHandler(taskService)
	userHandler := handlers.NewUserHandler(userService)
	authHandler := handlers.NewAuthHandler(authService)
	authMiddleware := handlers.NewAuthMiddleware(authService, userRepository)

	router := handlers.SetupRouter(taskHandler, userHandler, authHandler, authMiddleware)

	cors := gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins([]string{"*"}),
		gorillahandlers.AllowedMethods([]string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	log.Println("Tasks service is running on", cfg.Address)

	server := &http.Server{
		Handler: cors(router),
		Addr:    cfg.Address,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", cfg.Address, err)
		}
	}()

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, os.Kill)

	sig := <-sigCh
	log.Println("Received terminate, graceful shutdown", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(ctx, 30*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Cannot gracefully shutdown:", err)
	}
	log.Println("Server stopped")
}

// handleErr is a helper function for error handling
func handleErr(err error) {
	if err != nil {
		log.Fatalln(err)
	}
}

func newExporter(address string) (*jaeger.Exporter, error) {
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(address)))
	if err != nil {
		return nil, err
	}
	return exp, nil
}

func newTraceProvider(exp sdktrace.SpanExporter) *sdktrace.TracerProvider {
	// Ensure default SDK resources and the required service name are set.
	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("tasks-service"),
		),
	)
	if err != nil {
		panic(err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(r),
	)
}
