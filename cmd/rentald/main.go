package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/gateway"
	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/repository"
	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/service"
	transport "github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/transport/http"
	"github.com/AbdihakiimGedi/Rent-management-system-sub002/pkg/auth"
	"github.com/AbdihakiimGedi/Rent-management-system-sub002/pkg/config"
	"github.com/AbdihakiimGedi/Rent-management-system-sub002/pkg/db"
	"github.com/AbdihakiimGedi/Rent-management-system-sub002/pkg/mq"
	"github.com/AbdihakiimGedi/Rent-management-system-sub002/pkg/obs"
)

func must[T any](v T, err error) T {
	if err != nil {
		log.Fatal(err)
	}
	return v
}

func main() {
	_ = godotenv.Load(".env")
	cfg := must(config.Load())

	shutdown := obs.InitTracer("rentald")
	defer func() { _ = shutdown(context.Background()) }()

	gdb := db.Open(cfg.PGRentalDSN)
	bookings := repository.NewBookingRepo(gdb)
	users := repository.NewUserRepo(gdb)
	if err := bookings.Migrate(); err != nil {
		log.Fatal(err)
	}
	if err := users.Migrate(); err != nil {
		log.Fatal(err)
	}

	pub := must(mq.NewPublisher(cfg.RabbitURL, cfg.RentalExchange))
	defer pub.Close()

	// Omise when keys are present, recording stub otherwise (local dev).
	var gw gateway.Gateway = gateway.NewStub()
	if cfg.OmiseSecretKey != "" {
		gw = must(gateway.NewOmise(cfg.OmisePublicKey, cfg.OmiseSecretKey, cfg.Currency))
		log.Println("[rentald] omise gateway enabled")
	} else {
		log.Println("[rentald] no gateway keys, using stub")
	}

	signer := auth.NewSigner(cfg.JWTSecret, time.Duration(cfg.JWTExpireMin)*time.Minute)

	escrow := service.NewEscrowSvc(bookings, gw, pub)
	booking := service.NewBookingSvc(bookings, escrow, pub, service.NewCodeSource(), cfg.AdjudicateAll)
	delivery := service.NewDeliverySvc(bookings, booking, pub)
	admin := service.NewAdminSvc(bookings, escrow, pub)
	authSvc := service.NewAuthSvc(users, signer)

	r := transport.NewRouter(signer, transport.Services{
		Auth:     authSvc,
		Booking:  booking,
		Delivery: delivery,
		Admin:    admin,
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		log.Println("[rentald] http listening on", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Println("[rentald] stopped")
}
