package candlecache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"symbolstats/internal/model"
)

// KeyPrefix namespaces candle series keys.
const KeyPrefix = "candles"

// SeriesKey returns the sorted-set key holding one symbol's timeframe series.
func SeriesKey(symbol string, tf model.Timeframe) string {
	return strings.Join([]string{KeyPrefix, symbol, string(tf)}, ":")
}

// RedisOptions configures the Redis cache client.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// Redis reads candles from sorted sets: score is the candle time in unix
// milliseconds, member is the msgpack-encoded record.
type Redis struct {
	client redis.UniversalClient
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", opts.Addr, err)
	}
	return &Redis{client: client}, nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

// Find implements Querier.
func (r *Redis) Find(ctx context.Context, q Query) ([]float64, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	members, err := r.client.ZRevRange(ctx, SeriesKey(q.Symbol, q.Timeframe), 0, int64(q.Count-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("zrevrange %s/%s: %w", q.Symbol, q.Timeframe, err)
	}

	seq := make([]float64, len(members)*model.RecordWidth)
	// members are newest first; write them back to front
	for i, m := range members {
		rec, err := DecodeRecord([]byte(m))
		if err != nil {
			return nil, fmt.Errorf("decode %s/%s record: %w", q.Symbol, q.Timeframe, err)
		}
		pos := (len(members) - 1 - i) * model.RecordWidth
		copy(seq[pos:pos+model.RecordWidth], rec[:])
	}
	return seq, nil
}

// Append writes candles into their series, replacing any candle with the
// same time.
func (r *Redis) Append(ctx context.Context, symbol string, tf model.Timeframe, candles ...model.Candle) error {
	if len(candles) == 0 {
		return nil
	}
	key := SeriesKey(symbol, tf)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, c := range candles {
			member, err := EncodeRecord(c.Record())
			if err != nil {
				return err
			}
			score := fmt.Sprintf("%d", c.Time.UnixMilli())
			pipe.ZRemRangeByScore(ctx, key, score, score)
			pipe.ZAdd(ctx, key, redis.Z{Score: float64(c.Time.UnixMilli()), Member: member})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("append %s/%s: %w", symbol, tf, err)
	}
	return nil
}

// Ping checks the connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

// EncodeRecord serialises one wire record.
func EncodeRecord(rec [model.RecordWidth]float64) ([]byte, error) {
	return msgpack.Marshal(rec[:])
}

// DecodeRecord parses one wire record, rejecting any other width.
func DecodeRecord(b []byte) ([model.RecordWidth]float64, error) {
	var rec [model.RecordWidth]float64
	var vals []float64
	if err := msgpack.Unmarshal(b, &vals); err != nil {
		return rec, err
	}
	if len(vals) != model.RecordWidth {
		return rec, fmt.Errorf("%w: record has %d fields", model.ErrMalformedSequence, len(vals))
	}
	copy(rec[:], vals)
	return rec, nil
}
