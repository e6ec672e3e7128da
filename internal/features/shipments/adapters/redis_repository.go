package adapters

import (
	"context"
	"errors"
	"fmt"

	"shipment-tracker/internal/features/shipments/domain"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const (
	shipmentKeyPrefix = "shipment:"
	buyerIndexPrefix  = "shipments:buyer:"
	sellerIndexPrefix = "shipments:seller:"
	activeSetKey      = "shipments:active"

	// maxTxRetries bounds optimistic retries when another process wins the WATCH race.
	maxTxRetries = 16
)

// RedisShipmentRepository implements ports.ShipmentRepository on Redis.
// Each shipment is one JSON document; buyer and seller indexes are sorted sets
// scored by creation time.
type RedisShipmentRepository struct {
	client redis.UniversalClient
	locks  *keyedMutex
}

// NewRedisShipmentRepository creates a new RedisShipmentRepository.
func NewRedisShipmentRepository(client redis.UniversalClient) *RedisShipmentRepository {
	return &RedisShipmentRepository{client: client, locks: newKeyedMutex()}
}

func shipmentKey(trackingNumber string) string {
	return shipmentKeyPrefix + trackingNumber
}

func partyIndexKey(role domain.PartyRole, partyID string) string {
	if role == domain.RoleSeller {
		return sellerIndexPrefix + partyID
	}
	return buyerIndexPrefix + partyID
}

// Insert stores a new shipment together with its index entries.
func (r *RedisShipmentRepository) Insert(ctx context.Context, shipment *domain.Shipment) error {
	key := shipmentKey(shipment.TrackingNumber)
	data, err := json.Marshal(shipment)
	if err != nil {
		return fmt.Errorf("failed to marshal shipment: %w", err)
	}

	unlock := r.locks.Lock(shipment.TrackingNumber)
	defer unlock()

	return r.withRetry(ctx, key, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("failed to check shipment %s: %w", shipment.TrackingNumber, err)
		}
		if exists > 0 {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateTrackingNumber, shipment.TrackingNumber)
		}

		score := float64(shipment.Metadata.Created.UnixMilli())
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			if shipment.Buyer != "" {
				pipe.ZAdd(ctx, partyIndexKey(domain.RoleBuyer, shipment.Buyer), redis.Z{Score: score, Member: shipment.TrackingNumber})
			}
			if shipment.Seller != "" {
				pipe.ZAdd(ctx, partyIndexKey(domain.RoleSeller, shipment.Seller), redis.Z{Score: score, Member: shipment.TrackingNumber})
			}
			if shipment.Pollable() {
				pipe.SAdd(ctx, activeSetKey, shipment.TrackingNumber)
			}
			return nil
		})
		return err
	})
}

// Find returns the shipment stored under the tracking number.
func (r *RedisShipmentRepository) Find(ctx context.Context, trackingNumber string) (*domain.Shipment, error) {
	data, err := r.client.Get(ctx, shipmentKey(trackingNumber)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, trackingNumber)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shipment %s: %w", trackingNumber, err)
	}
	return decodeShipment(data)
}

// Update runs a read-modify-write on one shipment. Writers in this process are
// serialized per tracking number; writers in other processes by WATCH/MULTI.
func (r *RedisShipmentRepository) Update(ctx context.Context, trackingNumber string, mutate func(*domain.Shipment) error) (*domain.Shipment, error) {
	key := shipmentKey(trackingNumber)

	unlock := r.locks.Lock(trackingNumber)
	defer unlock()

	var updated *domain.Shipment
	err := r.withRetry(ctx, key, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, trackingNumber)
		}
		if err != nil {
			return fmt.Errorf("failed to get shipment %s: %w", trackingNumber, err)
		}

		shipment, err := decodeShipment(data)
		if err != nil {
			return err
		}
		if err := mutate(shipment); err != nil {
			return err
		}

		out, err := json.Marshal(shipment)
		if err != nil {
			return fmt.Errorf("failed to marshal shipment: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			if shipment.Pollable() {
				pipe.SAdd(ctx, activeSetKey, trackingNumber)
			} else {
				pipe.SRem(ctx, activeSetKey, trackingNumber)
			}
			return nil
		})
		if err != nil {
			return err
		}

		updated = shipment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ListByParty returns the shipments of a buyer or seller, newest first.
// Index entries whose document is gone are skipped.
func (r *RedisShipmentRepository) ListByParty(ctx context.Context, partyID string, role domain.PartyRole) ([]*domain.Shipment, error) {
	numbers, err := r.client.ZRevRange(ctx, partyIndexKey(role, partyID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s index for %s: %w", role, partyID, err)
	}
	if len(numbers) == 0 {
		return []*domain.Shipment{}, nil
	}

	keys := make([]string, len(numbers))
	for i, n := range numbers {
		keys[i] = shipmentKey(n)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load shipments for %s: %w", partyID, err)
	}

	shipments := make([]*domain.Shipment, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		shipment, err := decodeShipment([]byte(raw))
		if err != nil {
			return nil, err
		}
		shipments = append(shipments, shipment)
	}
	return shipments, nil
}

// ListActive returns the tracking numbers of pollable carrier shipments.
func (r *RedisShipmentRepository) ListActive(ctx context.Context) ([]string, error) {
	numbers, err := r.client.SMembers(ctx, activeSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read active shipments: %w", err)
	}
	return numbers, nil
}

func (r *RedisShipmentRepository) withRetry(ctx context.Context, key string, fn func(tx *redis.Tx) error) error {
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err := r.client.Watch(ctx, fn, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("failed to commit %s after %d attempts: %w", key, maxTxRetries, redis.TxFailedErr)
}

func decodeShipment(data []byte) (*domain.Shipment, error) {
	var shipment domain.Shipment
	if err := json.Unmarshal(data, &shipment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shipment: %w", err)
	}
	return &shipment, nil
}
