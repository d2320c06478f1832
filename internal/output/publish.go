package output

import (
	"context"
	"fmt"

	"hftsim/internal/common"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

// Sink consumes a finished trade tape.
type Sink interface {
	Name() string
	Write(ctx context.Context, trades []common.Trade) error
}

// Publish hands the tape to every sink concurrently. The first sink to fail
// kills the rest through the shared context, and its error is returned
// wrapped with the sink's name. Sinks only read the tape.
func Publish(ctx context.Context, trades []common.Trade, sinks ...Sink) error {
	if len(sinks) == 0 {
		return nil
	}

	t, ctx := tomb.WithContext(ctx)

	// Spawn from inside the tomb so it cannot die before every sink is
	// tracked.
	t.Go(func() error {
		for _, sink := range sinks {
			sink := sink
			t.Go(func() error {
				if err := sink.Write(ctx, trades); err != nil {
					log.Error().Err(err).Str("sink", sink.Name()).Msg("sink failed")
					return fmt.Errorf("publish %s: %w", sink.Name(), err)
				}
				return nil
			})
		}
		return nil
	})

	return t.Wait()
}
