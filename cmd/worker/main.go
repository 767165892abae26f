package main

import (
	"context"
	"log"

	"github.com/Apurer/storefront-api/internal/app/api"
)

func main() {
	if err := api.RunWorker(context.Background()); err != nil {
		log.Fatalf("storefront worker: %v", err)
	}
}
