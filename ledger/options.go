package ledger

import (
	"log/slog"
	"time"
)

type options struct {
	scheme      Scheme
	miner       Miner
	logger      *slog.Logger
	clock       func() int64
	mineGenesis bool
}

// Option configures a Chain.
type Option func(options) options

func defaultOptions() options {
	return options{
		scheme: DefaultScheme,
		miner:  Miner{Workers: 1},
		clock:  func() int64 { return time.Now().UnixMilli() },
	}
}

// WithHasher selects the hash function used for every block of the chain.
func WithHasher(h Hasher) Option {
	return func(o options) options {
		o.scheme.Hasher = h
		return o
	}
}

// WithCodec selects the canonical payload encoding.
func WithCodec(c Codec) Option {
	return func(o options) options {
		o.scheme.Codec = c
		return o
	}
}

// WithMiner sets the worker count and attempt cap used when appending.
func WithMiner(m Miner) Option {
	return func(o options) options {
		o.miner = m
		return o
	}
}

// WithLogger sets the logger for chain events. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o options) options {
		o.logger = l
		return o
	}
}

// WithClock replaces the timestamp source used for genesis and Submit.
func WithClock(clock func() int64) Option {
	return func(o options) options {
		o.clock = clock
		return o
	}
}

// WithGenesisMining makes the genesis block satisfy the chain difficulty too.
func WithGenesisMining() Option {
	return func(o options) options {
		o.mineGenesis = true
		return o
	}
}
