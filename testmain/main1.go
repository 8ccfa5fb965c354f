package main

// Seed harness: points at a running showtime server and loads a small demo
// campaign. Run with BASE_URL set, defaults to the local dev port.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

type seedClient struct {
	baseURL    string
	httpClient *http.Client
}

func newSeedClient() *seedClient {
	base := os.Getenv("BASE_URL")
	if base == "" {
		base = "http://localhost:8090"
	}
	return &seedClient{
		baseURL:    base,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *seedClient) post(path string, body interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Post(c.baseURL+path, "application/json", bytes.NewReader(raw))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	fmt.Printf("POST %s -> %s\n", path, string(out))
	return nil
}

func main() {
	c := newSeedClient()

	crawlers := []map[string]interface{}{
		{"id": "c-rin", "name": "Rin", "class": "rogue", "level": 3, "hp": 21, "max_hp": 24, "gold": 130},
		{"id": "c-dov", "name": "Dov", "class": "fighter", "level": 3, "hp": 30, "max_hp": 30, "gold": 45},
	}
	for _, cr := range crawlers {
		if err := c.post("/api/game/collection/crawlers/add", map[string]interface{}{"record": cr}); err != nil {
			fmt.Println("seed crawler:", err)
			os.Exit(1)
		}
	}

	mobs := []map[string]interface{}{
		{"id": "m-goblin", "name": "Goblin Skirmisher", "level": 1, "hp": 7, "max_hp": 7},
		{"id": "m-troll", "name": "Bridge Troll", "level": 5, "hp": 48, "max_hp": 48},
	}
	for _, m := range mobs {
		if err := c.post("/api/game/collection/mobs/add", map[string]interface{}{"record": m}); err != nil {
			fmt.Println("seed mob:", err)
			os.Exit(1)
		}
	}

	gameMap := map[string]interface{}{
		"id":           "map-sewers",
		"name":         "Upper Sewers",
		"image_width":  2048.0,
		"image_height": 1536.0,
		"grid":         map[string]interface{}{"enabled": true, "cell_px": 64.0, "units_per_cell": 5},
	}
	if err := c.post("/api/game/collection/maps/add", map[string]interface{}{"record": gameMap}); err != nil {
		fmt.Println("seed map:", err)
		os.Exit(1)
	}

	fmt.Println("seed complete")
}
