package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/m04kA/SMC-AvailabilityService/internal/config"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/blobstore"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/blobstore/instrumented"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/blobstore/memory"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/blobstore/mongostore"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/blobstore/postgres"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/blobstore/redisstore"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/blobstore/s3store"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
)

// openBlobStore поднимает выбранный бэкенд и возвращает функцию закрытия соединений
func openBlobStore(cfg *config.Config, recorder instrumented.Recorder, log *logger.Logger) (blobstore.Store, func(), error) {
	sc := cfg.Storage
	connectTimeout := time.Duration(sc.ConnectTimeout) * time.Second
	noop := func() {}

	var (
		store   blobstore.Store
		closeFn = noop
	)

	switch sc.Driver {
	case config.DriverMemory:
		store = memory.NewStore()
		log.Warn("Using in-memory blob store, data is lost on restart")

	case config.DriverPostgres:
		db, err := sql.Open("postgres", sc.Postgres.DSN)
		if err != nil {
			return nil, noop, fmt.Errorf("open postgres: %w", err)
		}
		db.SetMaxOpenConns(sc.Postgres.MaxOpenConns)
		db.SetMaxIdleConns(sc.Postgres.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(sc.Postgres.ConnMaxLifetime) * time.Second)

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, noop, fmt.Errorf("ping postgres: %w", err)
		}

		pgStore := postgres.NewStore(db, sc.Postgres.Table)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, noop, fmt.Errorf("ensure postgres schema: %w", err)
		}
		store = pgStore
		closeFn = func() { db.Close() }
		log.Info("Connected to PostgreSQL blob store (table=%s)", sc.Postgres.Table)

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:        sc.Redis.Addr,
			Password:    sc.Redis.Password,
			DB:          sc.Redis.DB,
			DialTimeout: connectTimeout,
		})

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, noop, fmt.Errorf("ping redis: %w", err)
		}
		store = redisstore.NewStore(client, sc.Redis.KeyPrefix)
		closeFn = func() { client.Close() }
		log.Info("Connected to Redis blob store (addr=%s)", sc.Redis.Addr)

	case config.DriverS3:
		client := s3store.NewClient(s3store.Config{
			Endpoint:        sc.S3.Endpoint,
			Region:          sc.S3.Region,
			Bucket:          sc.S3.Bucket,
			AccessKeyID:     sc.S3.AccessKeyID,
			SecretAccessKey: sc.S3.SecretAccessKey,
		})
		store = s3store.NewStore(client, sc.S3.Bucket)
		log.Info("Using S3 blob store (bucket=%s, endpoint=%s)", sc.S3.Bucket, sc.S3.Endpoint)

	case config.DriverMongo:
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(sc.Mongo.URI))
		if err != nil {
			return nil, noop, fmt.Errorf("connect mongo: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			client.Disconnect(context.Background())
			return nil, noop, fmt.Errorf("ping mongo: %w", err)
		}
		store = mongostore.NewStore(client.Database(sc.Mongo.Database), sc.Mongo.Collection)
		closeFn = func() { client.Disconnect(context.Background()) }
		log.Info("Connected to MongoDB blob store (db=%s, collection=%s)", sc.Mongo.Database, sc.Mongo.Collection)

	default:
		return nil, noop, fmt.Errorf("unknown storage driver %q", sc.Driver)
	}

	if recorder != nil {
		store = instrumented.NewStore(store, recorder, sc.Driver)
	}

	return store, closeFn, nil
}
