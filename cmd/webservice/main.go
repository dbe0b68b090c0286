package main

import (
	"log"

	"github.com/fathoor/library-service/config"
	"github.com/fathoor/library-service/internal/app"
	"github.com/fathoor/library-service/internal/infrastructure/database/postgres"
	"github.com/fathoor/library-service/internal/infrastructure/message-queue/kafka"
)

func main() {
	config := config.CreateNewConfig()
	db, err := postgres.GetDBInstance(config.PostgreSQLConfig.DBUsername, config.PostgreSQLConfig.DBPassword, config.PostgreSQLConfig.DBHost, config.PostgreSQLConfig.DBPort, config.PostgreSQLConfig.DBName)
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}

	kafkaProducer := kafka.CreateKafkaProducer(config)
	kafkaReader := kafka.CreateKafkaReader(config)

	server := app.App{
		DB:            db,
		Config:        config,
		KafkaProducer: kafkaProducer,
		KafkaReader:   kafkaReader,
	}

	server.Start()
}
