package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	apihttp "showtime/api/api/http"
	"showtime/api/api/ws"
	mycache "showtime/api/cache"
	"showtime/api/config"
	"showtime/api/log"
	"showtime/api/model"
	"showtime/api/service/dice"
	"showtime/api/service/game"
	"showtime/api/store"
	"showtime/api/system"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn("no .env file, relying on environment")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.Init(cfg.Server.LogPath, cfg.Server.LogLevel)

	if err := system.InitDb(); err != nil {
		log.Fatalf("db: %v", err)
	}
	db := system.GetDb()
	if err := db.AutoMigrate(&model.ViewerAccount{}, &model.GameSnapshot{}, &model.DiceLog{}); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	st := store.New(
		store.NewDbSink(db, "main"),
		store.NewFileSink(cfg.Game.LocalCachePath, cfg.Game.LocalCacheQuota),
		time.Duration(cfg.Game.SaveDebounceMs)*time.Millisecond,
	)
	svc := game.NewService(st)
	svc.SetDice(dice.NewRoller(rand.NewSource(time.Now().UnixNano())), func(row model.DiceLog) {
		if err := db.Create(&row).Error; err != nil {
			log.Warnf("dice log insert failed: %v", err)
		}
	})
	system.InitGame(st, svc)

	hub := ws.NewHub(svc)

	// Map renders are cached per role; any store change touching maps (or a
	// whole-snapshot replace) drops the cache.
	st.Subscribe(func(ev store.Event) {
		switch {
		case ev.Collection == model.ColMaps && ev.ID != "":
			mycache.Invalidate(ev.ID)
		case ev.Collection == model.ColMaps, ev.Collection == "":
			mycache.Clear()
		}
	})

	// Initial load resolves before the server takes traffic: remote, else
	// local cache, else empty.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	st.Load(ctx)
	cancel()
	log.Infof("store loaded, %d maps", len(st.GetCollection(model.ColMaps)))

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}))

	apihttp.Routers(engine.Group("/api"), hub)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Infof("listening on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
