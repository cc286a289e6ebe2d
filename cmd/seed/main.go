package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"catalog-assistant/internal/catalog"
	"catalog-assistant/internal/config"
	"catalog-assistant/internal/logger"
)

var sampleProducts = []catalog.Product{
	{
		ID: "P001", Name: "Laptop Lenovo ThinkPad X1", Description: "Portátil de 14 pulgadas con 16 GB de RAM y 512 GB SSD",
		Currency: "USD", Price: 1450.00, Family: "Computadoras", Subfamily: "Portátiles", MinStock: 3, Active: true,
		PhotoURL: "https://example.com/fotos/p001.jpg",
	},
	{
		ID: "P002", Name: "Laptop HP Pavilion 15", Description: "Portátil económico para oficina con 8 GB de RAM",
		Currency: "USD", Price: 680.00, Family: "Computadoras", Subfamily: "Portátiles", MinStock: 5, Active: true,
		PhotoURL: "https://example.com/fotos/p002.jpg",
	},
	{
		ID: "P003", Name: "Monitor Dell UltraSharp 27", Description: "Monitor QHD de 27 pulgadas con panel IPS",
		Currency: "USD", Price: 390.00, Family: "Periféricos", Subfamily: "Monitores", MinStock: 4, Active: true,
		PhotoURL: "https://example.com/fotos/p003.jpg",
	},
	{
		ID: "P004", Name: "Teclado Logitech MX Keys", Description: "Teclado inalámbrico retroiluminado en español",
		Currency: "USD", Price: 110.00, Family: "Periféricos", Subfamily: "Teclados", MinStock: 10, Active: true,
		PhotoURL: "https://example.com/fotos/p004.jpg",
	},
	{
		ID: "P005", Name: "Batería externa Anker 20000", Description: "Batería portátil de 20000 mAh con carga rápida",
		Currency: "USD", Price: 55.00, Family: "Accesorios", Subfamily: "Energía", MinStock: 8, Active: true,
		PhotoURL: "https://example.com/fotos/p005.jpg",
	},
	{
		ID: "P006", Name: "Monitor Samsung SyncMaster", Description: "Modelo descontinuado, solo referencia histórica",
		Currency: "USD", Price: 120.00, Family: "Periféricos", Subfamily: "Monitores", MinStock: 0, Active: false,
		PhotoURL: "",
	},
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, "seed")

	store, err := catalog.OpenSQLite(cfg.DataDir)
	if err != nil {
		log.Error("opening catalog store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	for _, p := range sampleProducts {
		if err := store.Insert(ctx, p); err != nil {
			log.Error("inserting product", "id", p.ID, "error", err)
			os.Exit(1)
		}
	}

	log.Info("catalog seeded", "products", len(sampleProducts), "data_dir", cfg.DataDir)
}
