package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"innkeep/config"
	"innkeep/infras/kafka"
	"innkeep/infras/otel"
	"innkeep/internal/domains/booking/checkin"
	"innkeep/internal/domains/booking/lifecycle"
	"innkeep/internal/domains/booking/model"
	"innkeep/internal/domains/booking/model/dto"
	"innkeep/internal/domains/booking/repository"
	roomModel "innkeep/internal/domains/room/model"
	roomDto "innkeep/internal/domains/room/model/dto"
	roomRepo "innkeep/internal/domains/room/repository"
	"innkeep/shared"
	"innkeep/shared/cache"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	"innkeep/shared/timezone"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
	cacheOverview      = "booking:overview"
	cacheGetRoom       = "room:get"
	cacheGetAllRoom    = "room:gets"
)

// lifecycleEvent is published to the booking lifecycle topic on every state
// change so downstream consumers (housekeeping, billing) stay in sync.
type lifecycleEvent struct {
	BookingID  string    `json:"booking_id"`
	PropertyID string    `json:"property_id"`
	State      string    `json:"state"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingDetailResponse, error)
	Overview(ctx context.Context, propertyID, guestName string) (dto.OverviewResponse, error)
	CheckIn(ctx context.Context, id string, req dto.CheckInRequest) (dto.BookingResponse, error)
	CheckOut(ctx context.Context, id string) (dto.BookingResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo     repository.Booking
	roomRepo roomRepo.Room
	kafka    kafka.Client
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo repository.Booking, roomRepo roomRepo.Room, kafkaClient kafka.Client, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:     repo,
		roomRepo: roomRepo,
		kafka:    kafkaClient,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := req.ToModel(user)
	if err != nil {
		return err
	}

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return fmt.Errorf("failed to create booking: %w", err)
	}

	s.publishLifecycle(ctx, booking, lifecycle.StateCreated)
	s.invalidateListings(ctx)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

// Get returns the booking together with the rooms an operator can assign
// guests to on check-in: same property, matching category and room type.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingDetailResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return res, err
	}

	rooms, err := s.roomRepo.GetAll(ctx, gDto.QueryParams{}, filterCandidateRooms(booking))
	if err != nil {
		log.Error().Err(err).Msg("failed to get candidate rooms")

		return res, fmt.Errorf("failed to get candidate rooms: %w", err)
	}

	res.Booking.FromModel(booking)

	res.CandidateRooms = make([]roomDto.RoomResponse, len(rooms))
	for i, room := range rooms {
		res.CandidateRooms[i].FromModel(room)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

// Overview partitions the property's bookings into the console tabs, with an
// optional case-insensitive primary guest name filter.
func (s *serviceImpl) Overview(ctx context.Context, propertyID, guestName string) (res dto.OverviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Overview")
	defer scope.End()
	defer scope.TraceIfError(err)

	if propertyID == "" {
		return res, failure.Validation("missing field: property_id") // nolint:wrapcheck
	}

	bookings, err := s.repo.GetAll(ctx, gDto.QueryParams{}, filterByProperty(propertyID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings for overview")

		return res, fmt.Errorf("failed to get bookings for overview: %w", err)
	}

	buckets := lifecycle.Classify(bookings).FilterByGuestName(guestName)

	res.Upcoming = toResponses(buckets.Upcoming)
	res.Current = toResponses(buckets.Current)
	res.History = toResponses(buckets.History)
	res.NeedsReview = toResponses(buckets.NeedsReview)

	return res, nil
}

// CheckIn validates and commits the full guest assignment for a booking in
// one transaction. Vacancy decrements carry a guard clause, so two operators
// racing for the same room resolve at the database: the loser's transaction
// rolls back and the booking stays in Created.
func (s *serviceImpl) CheckIn(ctx context.Context, id string, req dto.CheckInRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckIn")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return res, err
	}

	if err = lifecycle.EnsureCheckInAllowed(booking); err != nil {
		return res, err
	}

	if req.PrimaryGuest == nil {
		return res, failure.PrimaryGuestMissing("a primary guest is required to check in") // nolint:wrapcheck
	}

	rooms, err := s.roomRepo.GetAll(ctx, gDto.QueryParams{}, filterByRoomProperty(booking.PropertyID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get property rooms")

		return res, fmt.Errorf("failed to get property rooms: %w", err)
	}

	ledger := checkin.NewLedger(rooms)

	if err = ledger.SeedPrimary(req.PrimaryGuest.RoomNumber, req.PrimaryGuest.Guest.ToModel()); err != nil {
		return res, err
	}

	for _, assignment := range req.AdditionalGuests {
		if err = ledger.AddGuest(assignment.RoomNumber, assignment.Guest.ToModel()); err != nil {
			return res, err
		}
	}

	payload, err := checkin.Assemble(checkin.Input{
		From:           req.From,
		To:             req.To,
		NumberOfGuests: req.NumberOfGuest,
		RoomCategory:   checkin.Many(req.RoomCategory...),
		RoomType:       checkin.Many(req.RoomType...),
		Rooms:          checkin.Many(req.Rooms...),
	}, ledger)
	if err != nil {
		return res, err
	}

	record := payload.CheckedIn

	err = s.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		updated := map[string]any{
			model.FieldIsCheckedIn:    true,
			model.FieldCheckedIn:      &record,
			model.FieldNumberOfGuests: payload.NumberOfGuest,
			model.FieldFromDate:       payload.From,
			model.FieldToDate:         payload.To,
			model.FieldRoomCategory:   payload.RoomCategory,
			model.FieldRoomType:       payload.RoomType,
			constant.FieldModifiedAt:  timezone.Now(),
			constant.FieldModifiedBy:  user,
		}

		if err := s.repo.UpdateTx(ctx, tx, updated, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}

		for _, roomNumber := range ledger.Rooms() {
			guests := len(ledger.GuestsByRoom(roomNumber))

			if err := s.roomRepo.DecrementVacancyTx(ctx, tx, booking.PropertyID, roomNumber, guests); err != nil {
				if errors.Is(err, roomRepo.ErrInsufficientVacancy) {
					return failure.Conflict(fmt.Sprintf("room %s no longer has enough vacancy", roomNumber)) // nolint:wrapcheck
				}

				return err
			}
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("bookingID", id).Msg("failed to commit check-in")

		return res, err
	}

	booking.IsCheckedIn = true
	booking.CheckedIn = &record
	booking.NumberOfGuests = payload.NumberOfGuest
	booking.FromDate = payload.From
	booking.ToDate = payload.To
	booking.RoomCategory = payload.RoomCategory
	booking.RoomType = payload.RoomType

	s.publishLifecycle(ctx, booking, lifecycle.StateCheckedIn)
	s.invalidateBooking(ctx, id)

	res.FromModel(booking)

	return res, nil
}

// CheckOut moves a checked-in booking to its terminal state and releases the
// held room capacity. A retry against an already checked-out booking is a
// no-op success.
func (s *serviceImpl) CheckOut(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckOut")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return res, err
	}

	alreadyDone, err := lifecycle.EnsureCheckOutAllowed(booking)
	if err != nil {
		return res, err
	}

	if alreadyDone {
		log.Info().Str("bookingID", id).Msg("booking already checked out, treating as success")

		res.FromModel(booking)

		return res, nil
	}

	err = s.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		updated := map[string]any{
			model.FieldIsCheckedOut:  true,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}

		if err := s.repo.UpdateTx(ctx, tx, updated, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}

		return s.restoreVacancies(ctx, tx, booking)
	})
	if err != nil {
		log.Error().Err(err).Str("bookingID", id).Msg("failed to commit check-out")

		return res, err
	}

	booking.IsCheckedOut = true

	s.publishLifecycle(ctx, booking, lifecycle.StateCheckedOut)
	s.invalidateBooking(ctx, id)

	res.FromModel(booking)

	return res, nil
}

// Delete removes a booking from any lifecycle state. Deleting a currently
// checked-in booking releases its held capacity. A retry against an already
// deleted booking is a no-op success.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		log.Info().Str("bookingID", id).Msg("booking already deleted, treating as success")

		return nil
	}

	err = s.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.DeleteTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			return fmt.Errorf("failed to delete booking: %w", err)
		}

		if booking.IsCheckedIn && !booking.IsCheckedOut {
			return s.restoreVacancies(ctx, tx, booking)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("bookingID", id).Msg("failed to delete booking")

		return err
	}

	s.invalidateBooking(ctx, id)

	return nil
}

func (s *serviceImpl) loadBooking(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

// restoreVacancies gives back the capacity held by a committed check-in,
// grouped per room.
func (s *serviceImpl) restoreVacancies(ctx context.Context, tx *sqlx.Tx, booking model.Booking) error {
	if booking.CheckedIn == nil {
		return nil
	}

	perRoom := make(map[string]int)
	roomOrder := []string{}

	for _, assignment := range booking.CheckedIn.Assignments() {
		if _, seen := perRoom[assignment.RoomNumber]; !seen {
			roomOrder = append(roomOrder, assignment.RoomNumber)
		}

		perRoom[assignment.RoomNumber]++
	}

	for _, roomNumber := range roomOrder {
		if err := s.roomRepo.RestoreVacancyTx(ctx, tx, booking.PropertyID, roomNumber, perRoom[roomNumber]); err != nil {
			return err
		}
	}

	return nil
}

func (s *serviceImpl) publishLifecycle(ctx context.Context, booking model.Booking, state lifecycle.State) {
	go func() {
		c := context.WithoutCancel(ctx)

		event := lifecycleEvent{
			BookingID:  booking.ID,
			PropertyID: booking.PropertyID,
			State:      state.String(),
			OccurredAt: timezone.Now(),
		}

		err := s.kafka.SendMessages(c, s.cfg.Kafka.Topics.BookingLifecycle, kafka.Message{
			Key:   booking.ID,
			Value: event,
		})
		if err != nil {
			log.Error().Err(err).Str("bookingID", booking.ID).Msg("failed to publish booking lifecycle event")
		}
	}()
}

func (s *serviceImpl) invalidateListings(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
		shared.InvalidateCaches(c, s.cache, cacheOverview)
	}()
}

func (s *serviceImpl) invalidateBooking(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
		shared.InvalidateCaches(c, s.cache, cacheOverview)

		// room vacancies changed alongside the booking
		shared.InvalidateCaches(c, s.cache, cacheGetRoom)
		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
	}()
}

func toResponses(models []model.Booking) []dto.BookingResponse {
	responses := make([]dto.BookingResponse, len(models))
	for i, mod := range models {
		responses[i].FromModel(mod)
	}

	return responses
}

func filterByProperty(propertyID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldPropertyID,
				Operator: gDto.FilterOperatorEq,
				Value:    propertyID,
				Table:    model.TableName,
			},
		},
	}
}

func filterByRoomProperty(propertyID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    roomModel.FieldPropertyID,
				Operator: gDto.FilterOperatorEq,
				Value:    propertyID,
				Table:    roomModel.TableName,
			},
		},
	}
}

func filterCandidateRooms(booking model.Booking) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    roomModel.FieldPropertyID,
				Operator: gDto.FilterOperatorEq,
				Value:    booking.PropertyID,
				Table:    roomModel.TableName,
			},
			gDto.Filter{
				ArgName:  roomModel.FieldCategory,
				Field:    roomModel.FieldCategory,
				Operator: gDto.FilterOperatorEq,
				Value:    booking.RoomCategory,
				Table:    roomModel.TableName,
			},
			gDto.Filter{
				ArgName:  roomModel.FieldRoomType,
				Field:    roomModel.FieldRoomType,
				Operator: gDto.FilterOperatorEq,
				Value:    booking.RoomType,
				Table:    roomModel.TableName,
			},
		},
	}
}
