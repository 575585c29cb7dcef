package main

import (
	"chatwatch/config"
	"chatwatch/engine"
	"chatwatch/redis"
	"chatwatch/server"
)

func main() {
	cfg := config.Load()

	redisClient := redis.NewClient(
		cfg.RedisAddr,
		cfg.RedisPassword,
		cfg.RedisDB,
	)

	eng := engine.New(&redisClient, cfg.ScanConcurrency)

	srv := server.New(eng)
	srv.Start(cfg.Port)
}
