package store

import (
	"context"
	"fmt"

	"petcare-booking/pkg/database"
	"petcare-booking/pkg/utils"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMongo    = "mongo"
)

// mongoCollectionName is the mongo collection holding one document per record collection.
const mongoCollectionName = "record_collections"

// OpenBackend builds the backend named by STORE_DRIVER.
func OpenBackend(ctx context.Context, config *utils.Config, log *zap.Logger) (Backend, error) {
	driver := config.Store.Driver
	log.Info("Opening record store", zap.String("driver", driver))

	switch driver {
	case DriverMemory:
		return NewMemoryBackend(), nil

	case DriverFile, "":
		return NewFileBackend(afero.NewOsFs(), config.Store.DataDir)

	case DriverPostgres:
		db, err := database.InitDB(ctx, config.Database, config.App.Name)
		if err != nil {
			return nil, err
		}
		backend, err := NewPostgresBackend(ctx, db)
		if err != nil {
			db.Close()
			return nil, err
		}
		return backend, nil

	case DriverRedis:
		client, err := database.InitRedis(ctx, config.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisBackend(client), nil

	case DriverMongo:
		_, db, err := database.InitMongo(ctx, config.Mongo)
		if err != nil {
			return nil, err
		}
		return NewMongoBackend(db, mongoCollectionName), nil
	}

	return nil, fmt.Errorf("unknown store driver %q", driver)
}
