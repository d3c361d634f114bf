package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"innkeep/infras/otel"
	"innkeep/infras/postgres"
	"innkeep/internal/domains/room/model"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/logger"
	gRepo "innkeep/shared/repository"
)

// ErrInsufficientVacancy reports that a vacancy decrement would drop a room
// below zero remaining capacity. The inventory store arbitrates races between
// operators through this guard.
var ErrInsufficientVacancy = errors.New("insufficient vacancy")

type Room interface {
	Insert(ctx context.Context, model model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	DecrementVacancyTx(ctx context.Context, tx *sqlx.Tx, propertyID, roomNumber string, guests int) error
	RestoreVacancyTx(ctx context.Context, tx *sqlx.Tx, propertyID, roomNumber string, guests int) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// DecrementVacancyTx reserves capacity for the given number of guests. The
// vacancy guard in the WHERE clause makes the whole check-in transaction fail
// when two operators race for the same room.
func (repo *repositoryImpl) DecrementVacancyTx(ctx context.Context, tx *sqlx.Tx, propertyID, roomNumber string, guests int) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.DecrementVacancyTx")
	defer scope.End()

	query := `UPDATE rooms
		SET vacancy = vacancy - :guests
		WHERE property_id = :property_id AND room_number = :room_number AND vacancy >= :guests`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := tx.NamedExecContext(ctx, query, map[string]any{
		"guests":      guests,
		"property_id": propertyID,
		"room_number": roomNumber,
	})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to decrement vacancy (%s): %w", roomNumber, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		scope.TraceError(ErrInsufficientVacancy)

		return fmt.Errorf("room %s: %w", roomNumber, ErrInsufficientVacancy)
	}

	return nil
}

// RestoreVacancyTx releases previously held capacity, clamped at the room's
// maximum occupancy.
func (repo *repositoryImpl) RestoreVacancyTx(ctx context.Context, tx *sqlx.Tx, propertyID, roomNumber string, guests int) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.RestoreVacancyTx")
	defer scope.End()

	query := `UPDATE rooms
		SET vacancy = LEAST(vacancy + :guests, max_occupancy)
		WHERE property_id = :property_id AND room_number = :room_number`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	_, err := tx.NamedExecContext(ctx, query, map[string]any{
		"guests":      guests,
		"property_id": propertyID,
		"room_number": roomNumber,
	})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to restore vacancy (%s): %w", roomNumber, err)
	}

	return nil
}
