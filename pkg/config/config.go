package config

import (
	"github.com/kelseyhightower/envconfig"
)

type App struct {
	// DB
	PGRentalDSN string `envconfig:"PG_RENTAL_DSN" required:"true"`
	// JWT
	JWTSecret    string `envconfig:"JWT_SECRET" required:"true"`
	JWTExpireMin int    `envconfig:"JWT_EXPIRE_MIN" default:"60"`
	// Network
	HTTPAddr string `envconfig:"RENTAL_HTTP_ADDR" default:":8080"`
	// RabbitMQ
	RabbitURL      string `envconfig:"RABBIT_URL" required:"true"`
	RentalExchange string `envconfig:"RENTAL_EXCHANGE" default:"rental.exchange"`
	// Payment gateway (empty keys select the recording stub for local dev)
	OmisePublicKey string `envconfig:"OMISE_PUBLIC_KEY" default:""`
	OmiseSecretKey string `envconfig:"OMISE_SECRET_KEY" default:""`
	Currency       string `envconfig:"PAYMENT_CURRENCY" default:"usd"`
	// Escrow policy: queue every held payment for admin review instead of
	// auto-releasing on dual confirmation.
	AdjudicateAll bool `envconfig:"ADJUDICATE_ALL" default:"false"`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
