package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shipment-tracker/internal/core/cache"
	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/core/metrics"
	"shipment-tracker/internal/features/carriers/normalizer"
	"shipment-tracker/internal/features/shipments/domain"
	"shipment-tracker/internal/features/shipments/ports"

	"go.uber.org/zap"
)

// NotDeliveredMessage is the error returned for proof requests on undelivered shipments.
const NotDeliveredMessage = "Package not yet delivered"

// Placeholders for delivery proof fields the carrier did not report.
const (
	placeholderUnknown   = "Unknown"
	placeholderRecipient = "Recipient"
	placeholderLocation  = "Delivery address"
)

const pollKeyPrefix = "poll:"

// Options configures a TrackingService.
type Options struct {
	// TrackingPrefix is prepended to generated tracking numbers.
	TrackingPrefix string
	// PollCooldown is the minimum interval between live polls of one shipment. Zero disables throttling.
	PollCooldown time.Duration
	// Clock returns the current time. Defaults to time.Now in UTC.
	Clock func() time.Time
}

// TrackingService orchestrates shipment creation, carrier polling and status updates.
type TrackingService struct {
	repo     ports.ShipmentRepository
	carriers ports.CarrierRegistry
	events   ports.EventPublisher
	throttle cache.Cache
	prefix   string
	cooldown time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewTrackingService creates a new TrackingService. throttle may be nil.
func NewTrackingService(repo ports.ShipmentRepository, carriers ports.CarrierRegistry, events ports.EventPublisher, throttle cache.Cache, opts Options) *TrackingService {
	if opts.TrackingPrefix == "" {
		opts.TrackingPrefix = domain.DefaultTrackingPrefix
	}
	if opts.Clock == nil {
		opts.Clock = func() time.Time { return time.Now().UTC() }
	}

	return &TrackingService{
		repo:     repo,
		carriers: carriers,
		events:   events,
		throttle: throttle,
		prefix:   opts.TrackingPrefix,
		cooldown: opts.PollCooldown,
		now:      opts.Clock,
		logger:   logger.Named("tracking"),
	}
}

// CreateShipmentInput is the order data a shipment is created from.
type CreateShipmentInput struct {
	OrderID     string
	Seller      string
	Buyer       string
	Provider    string
	Service     string
	Origin      domain.Address
	Destination domain.Address
	Weight      float64
	Dimensions  domain.Dimensions
	Value       float64
	// AutoUpdate defaults to true when nil.
	AutoUpdate *bool
}

// CreateShipmentResult is returned by CreateShipment.
type CreateShipmentResult struct {
	TrackingNumber    string           `json:"trackingNumber"`
	Shipment          *domain.Shipment `json:"shipment"`
	EstimatedDelivery time.Time        `json:"estimatedDelivery"`
}

// TrackingView is the read model returned by TrackShipment.
type TrackingView struct {
	TrackingNumber    string                 `json:"trackingNumber"`
	Status            domain.Status          `json:"status"`
	EstimatedDelivery time.Time              `json:"estimatedDelivery"`
	History           []domain.TrackingEvent `json:"history"`
	Provider          domain.Provider        `json:"provider"`
	Service           domain.ServiceLevel    `json:"service"`
	Origin            domain.Address         `json:"origin"`
	Destination       domain.Address         `json:"destination"`
	LastUpdated       time.Time              `json:"lastUpdated"`
}

// DeliveryProofView is a delivery proof with every field populated.
type DeliveryProofView struct {
	Signature string    `json:"signature"`
	Photo     string    `json:"photo"`
	Recipient string    `json:"recipient"`
	Location  string    `json:"location"`
	Timestamp time.Time `json:"timestamp"`
}

// DeliveryProofResult is returned by GetDeliveryProof.
type DeliveryProofResult struct {
	Success bool               `json:"success"`
	Error   string             `json:"error,omitempty"`
	Proof   *DeliveryProofView `json:"proof,omitempty"`
}

// GenerateTrackingNumber returns a fresh tracking number with the configured prefix.
func (s *TrackingService) GenerateTrackingNumber() (string, error) {
	return domain.GenerateTrackingNumber(s.prefix, s.now())
}

// CreateShipment builds and stores a new shipment. A tracking number collision is
// retried once with a new number. Carrier registration is best-effort.
func (s *TrackingService) CreateShipment(ctx context.Context, in CreateShipmentInput) (*CreateShipmentResult, error) {
	provider, err := domain.ParseProvider(in.Provider)
	if err != nil {
		return nil, err
	}

	autoUpdate := true
	if in.AutoUpdate != nil {
		autoUpdate = *in.AutoUpdate
	}

	params := domain.NewShipmentParams{
		OrderID:     in.OrderID,
		Seller:      in.Seller,
		Buyer:       in.Buyer,
		Provider:    provider,
		Service:     domain.ParseServiceLevel(in.Service),
		Origin:      in.Origin,
		Destination: in.Destination,
		Weight:      in.Weight,
		Dimensions:  in.Dimensions,
		Value:       in.Value,
		AutoUpdate:  autoUpdate,
	}

	var shipment *domain.Shipment
	for attempt := 1; ; attempt++ {
		params.TrackingNumber, err = s.GenerateTrackingNumber()
		if err != nil {
			return nil, err
		}

		shipment = domain.NewShipment(params, s.now())
		err = s.repo.Insert(ctx, shipment)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrDuplicateTrackingNumber) || attempt == 2 {
			return nil, fmt.Errorf("failed to create shipment: %w", err)
		}
		s.logger.Warn("Tracking number collision, regenerating", zap.String("tracking_number", params.TrackingNumber))
	}

	s.logger.Info("Shipment created",
		zap.String("tracking_number", shipment.TrackingNumber),
		zap.String("order_id", shipment.OrderID),
		zap.String("provider", string(shipment.Provider)),
	)

	if provider.IsCarrier() {
		s.registerExternal(ctx, shipment)
	}

	return &CreateShipmentResult{
		TrackingNumber:    shipment.TrackingNumber,
		Shipment:          shipment,
		EstimatedDelivery: shipment.EstimatedDelivery,
	}, nil
}

func (s *TrackingService) registerExternal(ctx context.Context, shipment *domain.Shipment) {
	log := s.logger.With(
		zap.String("tracking_number", shipment.TrackingNumber),
		zap.String("provider", string(shipment.Provider)),
	)

	client, err := s.carriers.Client(shipment.Provider)
	if err != nil {
		log.Warn("Skipping carrier registration", zap.Error(err))
		return
	}
	if err := client.Register(ctx, shipment); err != nil {
		log.Error("Carrier registration failed", zap.Error(err))
	}
}

// TrackShipment returns the current tracking view, refreshing it from the carrier
// first when the shipment allows it. Carrier failures fall back to the stored state.
func (s *TrackingService) TrackShipment(ctx context.Context, trackingNumber string) (*TrackingView, error) {
	shipment, err := s.repo.Find(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}

	if shipment.Pollable() {
		if refreshed := s.refresh(ctx, shipment); refreshed != nil {
			shipment = refreshed
		}
	}

	return newTrackingView(shipment), nil
}

// refresh polls the carrier and applies the normalized result. It returns nil
// when nothing was applied.
func (s *TrackingService) refresh(ctx context.Context, shipment *domain.Shipment) *domain.Shipment {
	log := s.logger.With(
		zap.String("tracking_number", shipment.TrackingNumber),
		zap.String("provider", string(shipment.Provider)),
	)

	if !s.acquirePoll(ctx, shipment.TrackingNumber, log) {
		metrics.CarrierPollsSkipped.WithLabelValues("throttled").Inc()
		return nil
	}

	client, err := s.carriers.Client(shipment.Provider)
	if err != nil {
		metrics.CarrierPollsSkipped.WithLabelValues("not_configured").Inc()
		log.Debug("Live tracking unavailable", zap.Error(err))
		return nil
	}

	raw, err := client.Track(ctx, shipment.TrackingNumber)
	if err != nil {
		metrics.CarrierPollsSkipped.WithLabelValues("unavailable").Inc()
		log.Warn("Carrier poll failed, serving stored state", zap.Error(err))
		return nil
	}

	result := normalizer.Normalize(shipment.Provider, *raw)
	if result.Unmapped {
		metrics.UnmappedStatuses.WithLabelValues(string(shipment.Provider)).Inc()
		log.Warn("Unmapped carrier status", zap.String("raw_status", result.RawStatus))
	}

	updated, err := s.UpdateShipmentStatus(ctx, shipment.TrackingNumber, result.StatusUpdate())
	if err != nil {
		if errors.Is(err, domain.ErrIllegalTransition) {
			log.Warn("Ignoring carrier status", zap.String("raw_status", result.RawStatus), zap.Error(err))
		} else {
			log.Error("Failed to apply carrier status", zap.Error(err))
		}
		return nil
	}
	return updated
}

// acquirePoll reports whether a live poll may run now. Throttle errors allow the poll.
func (s *TrackingService) acquirePoll(ctx context.Context, trackingNumber string, log *zap.Logger) bool {
	if s.throttle == nil || s.cooldown <= 0 {
		return true
	}
	ok, err := s.throttle.SetNX(ctx, pollKeyPrefix+trackingNumber, []byte("1"), s.cooldown)
	if err != nil {
		log.Warn("Poll throttle unavailable", zap.Error(err))
		return true
	}
	return ok
}

// UpdateShipmentStatus applies a status update atomically and publishes a
// StatusChanged event once it is committed. A history entry is appended only
// when the status changes.
func (s *TrackingService) UpdateShipmentStatus(ctx context.Context, trackingNumber string, update domain.StatusUpdate) (*domain.Shipment, error) {
	now := s.now()

	var (
		previous        domain.Status
		appended        bool
		estimateChanged bool
	)
	updated, err := s.repo.Update(ctx, trackingNumber, func(sh *domain.Shipment) error {
		previous = sh.Status
		before := sh.EstimatedDelivery

		var err error
		appended, err = sh.ApplyUpdate(update, now)
		if err != nil {
			return err
		}
		estimateChanged = !sh.EstimatedDelivery.Equal(before)
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrIllegalTransition) {
			metrics.RejectedTransitions.WithLabelValues(string(previous), string(update.Status)).Inc()
		}
		return nil, err
	}

	if appended {
		metrics.StatusTransitions.WithLabelValues(string(previous), string(updated.Status)).Inc()
		s.logger.Info("Shipment status changed",
			zap.String("tracking_number", trackingNumber),
			zap.String("from", string(previous)),
			zap.String("to", string(updated.Status)),
		)
	}

	event := domain.StatusChanged{
		TrackingNumber:    updated.TrackingNumber,
		OrderID:           updated.OrderID,
		Buyer:             updated.Buyer,
		PreviousStatus:    previous,
		Status:            updated.Status,
		EstimatedDelivery: updated.EstimatedDelivery,
		StatusChanged:     appended,
		EstimateChanged:   estimateChanged,
		HistoryLength:     len(updated.History),
		Revision:          updated.Metadata.Revision,
		OccurredAt:        now,
	}
	if last, ok := updated.LastEvent(); ok {
		event.Location = last.Location
		event.Description = last.Description
	}
	if err := s.events.PublishStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish status change",
			zap.String("tracking_number", trackingNumber),
			zap.Error(err),
		)
	}

	return updated, nil
}

// GetUserShipments lists the shipments of a user as summaries, newest first.
// An empty role means buyer.
func (s *TrackingService) GetUserShipments(ctx context.Context, userID, role string) ([]domain.ShipmentSummary, error) {
	partyRole, err := domain.ParsePartyRole(role)
	if err != nil {
		return nil, err
	}

	shipments, err := s.repo.ListByParty(ctx, userID, partyRole)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.ShipmentSummary, 0, len(shipments))
	for _, sh := range shipments {
		summaries = append(summaries, sh.Summary())
	}
	return summaries, nil
}

// GetDeliveryProof returns the delivery proof of a delivered shipment. Missing
// fields are filled with placeholders.
func (s *TrackingService) GetDeliveryProof(ctx context.Context, trackingNumber string) (*DeliveryProofResult, error) {
	shipment, err := s.repo.Find(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}

	if shipment.Status != domain.StatusDelivered {
		return &DeliveryProofResult{Success: false, Error: NotDeliveredMessage}, nil
	}

	var proof domain.DeliveryProof
	if shipment.DeliveryProof != nil {
		proof = *shipment.DeliveryProof
	}

	timestamp := shipment.Metadata.LastUpdated
	if proof.Timestamp != nil {
		timestamp = *proof.Timestamp
	} else if last, ok := shipment.LastEvent(); ok {
		timestamp = last.Timestamp
	}

	return &DeliveryProofResult{
		Success: true,
		Proof: &DeliveryProofView{
			Signature: orDefault(proof.Signature, placeholderUnknown),
			Photo:     orDefault(proof.Photo, placeholderUnknown),
			Recipient: orDefault(proof.Recipient, placeholderRecipient),
			Location:  orDefault(proof.Location, placeholderLocation),
			Timestamp: timestamp,
		},
	}, nil
}

func newTrackingView(s *domain.Shipment) *TrackingView {
	return &TrackingView{
		TrackingNumber:    s.TrackingNumber,
		Status:            s.Status,
		EstimatedDelivery: s.EstimatedDelivery,
		History:           s.History,
		Provider:          s.Provider,
		Service:           s.Service,
		Origin:            s.Origin,
		Destination:       s.Destination,
		LastUpdated:       s.Metadata.LastUpdated,
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
