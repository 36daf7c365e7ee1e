package main

import (
	"context"
	"log"
	"net/http"
	"time"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/MajedBannouri/Taski/api"
	"github.com/MajedBannouri/Taski/auth"
	"github.com/MajedBannouri/Taski/config"
	"github.com/MajedBannouri/Taski/store"
)

func main() {
	// Best effort; deployments without a .env file configure the process
	// environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: could not load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.DBURI))
	if err != nil {
		log.Fatalf("FATAL: could not connect to the database: %v", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatalf("FATAL: could not ping the database: %v", err)
	}
	log.Println("Database connection successful.")

	var cache *store.Cache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Fatalf("FATAL: could not connect to Redis: %v for %s", err, cfg.RedisAddr)
		}
		log.Println("Redis connection successful.")
		cache = store.NewCache(rdb)
	}

	repo := store.NewMongo(client.Database(cfg.DBName), cache)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("FATAL: could not create indexes: %v", err)
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authn := &auth.Authenticator{Tokens: tokens, Users: repo}
	resolver := &api.Resolver{Store: repo, Tokens: tokens}
	schema := graphql.MustParseSchema(api.Schema, resolver)

	http.Handle("/graphql", authn.Middleware(&relay.Handler{Schema: schema}))

	log.Printf("Server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, nil); err != nil {
		log.Fatalf("FATAL: server failed to start: %v", err)
	}
}
