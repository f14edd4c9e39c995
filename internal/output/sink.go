// Package output routes a parsed report to exactly one destination: the file stash,
// the document store, or the terminal.
package output

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/redshirtrob/blb-extractor/internal/config"
	"github.com/redshirtrob/blb-extractor/internal/db"
	"github.com/redshirtrob/blb-extractor/internal/logging"
)

// Sink writes a payload somewhere and reports where.
type Sink interface {
	Name() string
	Emit(ctx context.Context, p *Payload) (string, error)
}

// New builds the sink chosen by cfg.Destination. Nothing is opened or written yet.
func New(cfg *config.Config, stdout io.Writer) (Sink, error) {
	logger := logging.New("output")
	for _, ignored := range cfg.Overridden() {
		logger.Warn("destination ignored, a higher-precedence sink is configured",
			slog.String("ignored", ignored.String()),
			slog.String("using", cfg.Destination().String()))
	}

	switch cfg.Destination() {
	case config.DestinationStash:
		policy, err := ParseCollisionPolicy(cfg.OnCollision)
		if err != nil {
			return nil, err
		}
		target, err := newStashTarget(cfg)
		if err != nil {
			return nil, err
		}
		return &StashSink{Target: target, Policy: policy, logger: logger}, nil
	case config.DestinationStore:
		return &StoreSink{URL: cfg.DatabaseURL, Open: db.Open, logger: logger}, nil
	default:
		return &TerminalSink{Out: stdout}, nil
	}
}

func newStashTarget(cfg *config.Config) (Target, error) {
	if !cfg.StashIsObjectStore() {
		return &DirTarget{Dir: cfg.Stash}, nil
	}
	bucket, prefix, err := config.SplitObjectURL(cfg.Stash)
	if err != nil {
		return nil, err
	}
	target, err := NewObjectTarget(ObjectTargetConfig{
		Endpoint:  cfg.ObjectStore.Endpoint,
		AccessKey: cfg.ObjectStore.AccessKey,
		SecretKey: cfg.ObjectStore.SecretKey,
		Region:    cfg.ObjectStore.Region,
		UseSSL:    cfg.ObjectStore.UseSSL,
		Bucket:    bucket,
		Prefix:    prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up s3 stash: %w", err)
	}
	return target, nil
}
