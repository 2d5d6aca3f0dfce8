package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"eventpin/config"
	"eventpin/database"
	"eventpin/handlers"
	"eventpin/repositories"
	"eventpin/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment configuration")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()

	mongoClient, err := database.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("MongoDB connection failed: %v", err)
	}
	defer mongoClient.Disconnect(ctx)

	if err := database.EnsureIndexes(ctx, mongoClient, cfg.MongoDatabase); err != nil {
		log.Printf("Failed to create unique indexes on users: %v", err)
	}

	redisClient, err := database.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}
	defer redisClient.Close()

	// Repositories and services
	userRepo := repositories.NewMongoUserRepository(mongoClient, cfg.MongoDatabase)
	pinRepo := repositories.NewMongoPinRepository(mongoClient, cfg.MongoDatabase)
	sessions := repositories.NewRedisSessionRepository(redisClient)
	cache := repositories.NewRedisCache(redisClient)

	userService := services.NewUserService(userRepo, sessions, cache, cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	friendService := services.NewFriendService(userRepo, cache)
	pinService := services.NewPinService(pinRepo, userRepo)

	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	friendHandler := handlers.NewFriendHandler(friendService)
	pinHandler := handlers.NewPinHandler(pinService)

	r := handlers.NewRouter(authHandler, userHandler, friendHandler, pinHandler, cfg.JWTSecret, cfg.AllowedOrigins)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Server starting on %s", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
