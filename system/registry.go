package system

import (
	"showtime/api/service/game"
	"showtime/api/store"
)

// Runtime singletons, initialized from main before the router starts.
// Controllers reach them the same way they reach the db handle.

var (
	gameStore *store.Store
	gameSvc   *game.Service
)

func InitGame(st *store.Store, svc *game.Service) {
	gameStore = st
	gameSvc = svc
}

func GetStore() *store.Store {
	return gameStore
}

func GetGame() *game.Service {
	return gameSvc
}
