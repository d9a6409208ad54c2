package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/lanchonete-pos/api/internal/config"
	"github.com/lanchonete-pos/api/internal/router"
	"github.com/lanchonete-pos/api/internal/store"
	"github.com/lanchonete-pos/api/internal/ws"
)

func main() {
	cfg := config.Load()

	st := store.New(store.DemoRestaurant())
	if err := store.Seed(context.Background(), st); err != nil {
		log.Fatalf("seeding store: %v", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	r := router.New(cfg, st, hub)

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatal(err)
	}
}
