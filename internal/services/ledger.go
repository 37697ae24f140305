package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisLedger keeps custody balances as plain integer keys and moves them
// with a Lua script, so debit and credit land in one atomic step. Balances
// never go negative; a short source balance fails the whole transfer.
type RedisLedger struct {
	client *redis.Client
}

func NewRedisLedger(client *redis.Client) *RedisLedger {
	return &RedisLedger{client: client}
}

var transferScript = redis.NewScript(`
	local from = KEYS[1]
	local to = KEYS[2]
	local amount = tonumber(ARGV[1])

	local balance = tonumber(redis.call("GET", from) or "0")
	if balance < amount then
		return redis.error_reply("insufficient custody balance")
	end

	redis.call("DECRBY", from, amount)
	redis.call("INCRBY", to, amount)

	return "OK"
`)

func (l *RedisLedger) Transfer(ctx context.Context, from, to string, amount uint64) error {
	fromKey := fmt.Sprintf(KeyCustody, from)
	toKey := fmt.Sprintf(KeyCustody, to)

	err := transferScript.Run(ctx, l.client, []string{fromKey, toKey}, amount).Err()
	if err != nil {
		if strings.Contains(err.Error(), "insufficient custody balance") {
			return ErrInsufficientFunds
		}
		return fmt.Errorf("custody transfer failed: %w", err)
	}
	return nil
}

func (l *RedisLedger) Deposit(ctx context.Context, account string, amount uint64) error {
	key := fmt.Sprintf(KeyCustody, account)
	return l.client.IncrBy(ctx, key, int64(amount)).Err()
}

func (l *RedisLedger) Balance(ctx context.Context, account string) (uint64, error) {
	key := fmt.Sprintf(KeyCustody, account)

	n, err := l.client.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read custody balance: %w", err)
	}
	return uint64(n), nil
}
