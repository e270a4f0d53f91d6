package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/notify"
	"github.com/AbdihakiimGedi/Rent-management-system-sub002/pkg/mq"
	"github.com/AbdihakiimGedi/Rent-management-system-sub002/pkg/obs"
)

type cfg struct {
	RabbitURL      string `envconfig:"RABBIT_URL" required:"true"`
	RentalExchange string `envconfig:"RENTAL_EXCHANGE" default:"rental.exchange"`
	Queue          string `envconfig:"NOTIFY_QUEUE" default:"rental.notify"`
	Prefetch       int    `envconfig:"NOTIFY_PREFETCH" default:"16"`
}

func main() {
	_ = godotenv.Load(".env")
	var c cfg
	if err := envconfig.Process("", &c); err != nil {
		log.Fatal(err)
	}

	shutdown := obs.InitTracer("notifyd")
	defer func() { _ = shutdown(context.Background()) }()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		cancel()
	}()

	keys := []string{"booking.*", "delivery.*", "payment.*"}
	for {
		cons, err := mq.NewConsumer(c.RabbitURL, c.RentalExchange, c.Queue, keys, c.Prefetch)
		if err != nil {
			log.Printf("[notifyd] connect failed: %v, retrying in 3s", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(3 * time.Second):
			}
			continue
		}
		log.Println("[notifyd] consuming", c.Queue)
		w := notify.NewWorker(cons, notify.NewConsole())
		if err := w.Run(ctx); err != nil {
			log.Printf("[notifyd] worker stopped: %v", err)
		}
		cons.Close()
		if ctx.Err() != nil {
			log.Println("[notifyd] stopped")
			return
		}
		// channel closed by broker, reconnect
	}
}
