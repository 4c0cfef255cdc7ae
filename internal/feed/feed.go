// Package feed is the producing side of the bridge: it walks the demo
// level at a fixed tick rate, extracts screen-space geometry, and streams
// frames over the socket while applying input events coming back.
package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vandreev/wiredoom/internal/codec"
	"github.com/vandreev/wiredoom/internal/config"
	"github.com/vandreev/wiredoom/internal/fixed"
	"github.com/vandreev/wiredoom/internal/geom"
	"github.com/vandreev/wiredoom/internal/sim"
	"github.com/vandreev/wiredoom/internal/transport"
)

// handshakeTimeout bounds the wait for the consumer's ready signal after
// dialing. The consumer listens first, so a missing handshake means a
// stale socket or a wedged peer, not a race to report later.
const handshakeTimeout = 5 * time.Second

// logEvery is the frame interval between periodic diagnostics lines.
const logEvery = 100

// Stats summarizes one producer run.
type Stats struct {
	Frames    uint64
	Walls     uint64
	Sprites   uint64
	Truncated uint64
	EndReason string
}

// Run dials the consumer and streams frames until ctx is cancelled, the
// peer requests shutdown, or the connection drops. It returns the run's
// stats alongside any terminal error; a peer-initiated close is not an
// error.
func Run(ctx context.Context, cfg config.Config, logger *log.Logger) (Stats, error) {
	conn, err := transport.Dial(cfg.Socket)
	if err != nil {
		return Stats{EndReason: "error"}, err
	}
	defer conn.Close()

	if err := conn.AwaitHandshake(handshakeTimeout); err != nil {
		return Stats{EndReason: "error"}, err
	}
	logger.Info("handshake complete", "socket", cfg.Socket)

	world := sim.New(cfg.Frame.Width, cfg.Frame.Height)
	extractor := geom.NewExtractor(geom.ExtractorConfig{
		ScaleMin:   fixed.Unit(cfg.Depth.ScaleMin),
		ScaleMax:   fixed.Unit(cfg.Depth.ScaleMax),
		MaxWalls:   cfg.Limits.MaxWalls,
		MaxSprites: cfg.Limits.MaxSprites,
	})

	// The reader goroutine owns the connection's read half for the whole
	// run. Input events funnel through a channel into the tick loop so the
	// world is only ever touched from one goroutine.
	inputs := make(chan codec.InputEvent, 64)
	readerDone := make(chan error, 1)
	go func() {
		defer close(inputs)
		for {
			msg, err := conn.ReadMessage()
			if err != nil {
				readerDone <- err
				return
			}
			switch msg.Type {
			case transport.MsgInputEvent:
				ev, err := codec.DecodeInput(msg.Payload)
				if err != nil {
					logger.Warn("dropping malformed input event", "error", err)
					continue
				}
				select {
				case inputs <- ev:
				default:
					logger.Warn("input queue full, dropping event", "key", ev.Key)
				}
			case transport.MsgShutdown:
				readerDone <- transport.ErrClosed
				return
			}
		}
	}()

	interval := time.Second / time.Duration(cfg.TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("streaming frames", "tick_rate", cfg.TickRate,
		"frame", fmt.Sprintf("%dx%d", cfg.Frame.Width, cfg.Frame.Height))

	for {
		select {
		case <-ctx.Done():
			conn.SendShutdown()
			logger.Info("interrupted, sent shutdown")
			return statsOf(extractor, "interrupted"), nil

		case err := <-readerDone:
			if errors.Is(err, transport.ErrClosed) {
				logger.Info("consumer closed the connection")
				return statsOf(extractor, "peer-closed"), nil
			}
			return statsOf(extractor, "error"), err

		case <-ticker.C:
		drain:
			for {
				select {
				case ev, ok := <-inputs:
					if !ok {
						break drain
					}
					world.HandleKey(ev)
				default:
					break drain
				}
			}

			world.Advance()
			frame := extractor.Extract(world)
			payload, err := codec.EncodeFrame(frame)
			if err != nil {
				return statsOf(extractor, "error"), err
			}
			if err := conn.WriteMessage(transport.MsgFrameData, payload); err != nil {
				if errors.Is(err, transport.ErrClosed) {
					logger.Info("consumer gone mid-write")
					return statsOf(extractor, "peer-closed"), nil
				}
				return statsOf(extractor, "error"), err
			}

			if st := extractor.Stats(); st.Frames%logEvery == 0 {
				logger.Debug("progress",
					"frames", st.Frames,
					"walls", st.WallsEmitted,
					"sprites", st.SpritesEmitted,
					"truncated", st.WallsTruncated+st.SpritesTruncated,
				)
			}
		}
	}
}

func statsOf(e *geom.Extractor, reason string) Stats {
	st := e.Stats()
	return Stats{
		Frames:    st.Frames,
		Walls:     st.WallsEmitted,
		Sprites:   st.SpritesEmitted,
		Truncated: st.WallsTruncated + st.SpritesTruncated,
		EndReason: reason,
	}
}
