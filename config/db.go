package config

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"mgnrega_api/store"
)

const (
	connectRetries = 5
	retryDelay     = 5 * time.Second
)

// LoadEnv loads environment variables from a .env file if one exists.
func LoadEnv() error {
	possiblePaths := []string{
		".env",
		"../.env",
		os.Getenv("MGNREGA_ENV"),
	}

	var loadedFile string
	for _, path := range possiblePaths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			loadedFile = path
			log.Printf("Found .env file at: %s", path)
			break
		}
	}

	if loadedFile == "" {
		// No .env file is fine; everything has env defaults.
		return nil
	}

	file, err := os.Open(loadedFile)
	if err != nil {
		return fmt.Errorf("error opening .env file: %v", err)
	}
	defer file.Close()

	log.Printf("Loading environment variables from %s", loadedFile)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)
		os.Setenv(key, value)
		if !strings.Contains(strings.ToLower(key), "password") && !strings.Contains(strings.ToLower(key), "secret") {
			log.Printf("Set environment variable: %s", key)
		}
	}
	return scanner.Err()
}

// OpenStore opens a fresh Store handle for the configured backend.
// Each caller owns its handle and is responsible for Close; the
// scheduler uses this to acquire its own handle per run.
func OpenStore(ctx context.Context) (store.Store, error) {
	switch StoreBackend() {
	case "mongo":
		return openMongoStore(ctx)
	case "memory":
		return store.NewMemoryStore(), nil
	default:
		return openPostgresStore(ctx)
	}
}

func openPostgresStore(ctx context.Context) (store.Store, error) {
	var lastErr error
	for i := 0; i < connectRetries; i++ {
		db, err := openPostgres(ctx)
		if err == nil {
			s := store.NewPostgresStore(db)
			if err := s.CreateSchema(ctx); err != nil {
				db.Close()
				return nil, err
			}
			return s, nil
		}
		lastErr = err
		log.Printf("Failed to connect to PostgreSQL (attempt %d/%d): %v", i+1, connectRetries, err)
		time.Sleep(retryDelay)
	}
	return nil, fmt.Errorf("failed to connect to PostgreSQL after %d attempts: %v", connectRetries, lastErr)
}

func openPostgres(ctx context.Context) (*sql.DB, error) {
	dbParams := map[string]string{
		"dbname":   getEnvWithDefault("DB_NAME", "mgnrega"),
		"user":     getEnvWithDefault("DB_USER", "postgres"),
		"password": os.Getenv("DB_PASSWORD"),
		"host":     getEnvWithDefault("DB_HOST", "localhost"),
		"port":     getEnvWithDefault("DB_PORT", "5432"),
		"sslmode":  os.Getenv("DB_SSL_MODE"),
	}

	if dbParams["sslmode"] == "" {
		if strings.Contains(dbParams["host"], "aivencloud.com") {
			dbParams["sslmode"] = "require"
		} else {
			dbParams["sslmode"] = "disable"
		}
	}

	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dbParams["host"], dbParams["port"], dbParams["user"],
		dbParams["password"], dbParams["dbname"], dbParams["sslmode"])

	log.Printf("Connecting to PostgreSQL at %s:%s/%s (sslmode=%s)",
		dbParams["host"], dbParams["port"], dbParams["dbname"], dbParams["sslmode"])

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening PostgreSQL database: %v", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to PostgreSQL database: %v", err)
	}

	log.Printf("Successfully connected to PostgreSQL database: %s", dbParams["dbname"])
	return db, nil
}

func openMongoStore(ctx context.Context) (store.Store, error) {
	mongoURI := getEnvWithDefault("MONGO_URI", "mongodb://localhost:27017")

	var lastErr error
	for i := 0; i < connectRetries; i++ {
		client, err := connectMongo(ctx, mongoURI)
		if err == nil {
			dbName := getEnvWithDefault("MONGO_DB_NAME", "mgnrega")
			s := store.NewMongoStore(client, dbName)
			if err := s.CreateIndexes(ctx); err != nil {
				client.Disconnect(ctx)
				return nil, err
			}
			log.Printf("Successfully connected to MongoDB database: %s", dbName)
			return s, nil
		}
		lastErr = err
		log.Printf("Failed to connect to MongoDB (attempt %d/%d): %v", i+1, connectRetries, err)
		time.Sleep(retryDelay)
	}
	return nil, fmt.Errorf("failed to connect to MongoDB after %d attempts: %v", connectRetries, lastErr)
}

func connectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(uri).
		SetMaxPoolSize(100).
		SetMinPoolSize(10).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second).
		SetSocketTimeout(30 * time.Second).
		SetRetryWrites(true).
		SetRetryReads(true).
		SetWriteConcern(writeconcern.New(writeconcern.WMajority())).
		SetReadConcern(readconcern.Majority()).
		SetReadPreference(readpref.Primary())

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("error connecting to MongoDB: %v", err)
	}

	if err = client.Ping(connectCtx, nil); err != nil {
		client.Disconnect(connectCtx)
		return nil, fmt.Errorf("error pinging MongoDB: %v", err)
	}
	return client, nil
}
