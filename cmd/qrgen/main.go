// Command qrgen emits one PNG QR code per configured table. Each code
// opens the menu frontend with the table number preselected, e.g.
// https://menu.example.com/?table=3. Print them and put one on each table.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/jcmexdev/table-order/internal/config"
	"github.com/jcmexdev/table-order/internal/store"
)

func main() {
	outDir := flag.String("out", "public/qrcodes", "directory to write PNG files into")
	size := flag.Int("size", 300, "image size in pixels")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load configuration: %v", err)
	}

	// Tables come from the store document so the codes always match what
	// the server will accept.
	st, err := store.Open(cfg.StorePath)
	if err != nil {
		log.Fatalf("open store %q: %v", cfg.StorePath, err)
	}
	var tables []int
	st.View(func(doc *store.Document) {
		tables = append(tables, doc.Tables...)
	})

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("create %q: %v", *outDir, err)
	}

	for _, table := range tables {
		url := fmt.Sprintf("%s/?table=%d", cfg.BaseURL, table)
		file := filepath.Join(*outDir, fmt.Sprintf("table%d.png", table))
		if err := qrcode.WriteFile(url, qrcode.Medium, *size, file); err != nil {
			log.Fatalf("write QR for table %d: %v", table, err)
		}
		fmt.Printf("table %d -> %s (%s)\n", table, file, url)
	}
}
