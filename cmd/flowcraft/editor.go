package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/flowcraft"
	"github.com/aretw0/flowcraft/pkg/domain"
	"github.com/aretw0/flowcraft/pkg/observability"
	"github.com/aretw0/flowcraft/pkg/ports"
	"github.com/aretw0/flowcraft/pkg/serializer"
)

// newEditor builds the editor shared by serve and mcp. A file argument takes
// precedence over the flow stored under the configured name.
func newEditor(ctx context.Context, docs ports.DocumentStore, metrics *observability.Metrics, file string) (*flowcraft.Editor, error) {
	opts := []flowcraft.Option{
		flowcraft.WithLogger(logger),
		flowcraft.WithDocumentStore(docs),
		flowcraft.WithFlowName(cfg.Flow.Name),
	}
	if metrics != nil {
		opts = append(opts, flowcraft.WithMetrics(metrics))
	}
	ed := flowcraft.New(opts...)
	ed.Subscribe(observability.AuditLogger(logger))

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read flow file: %w", err)
		}
		if err := ed.Import(data, serializer.FormatFromPath(file)); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		return ed, nil
	}

	if err := ed.Open(ctx, cfg.Flow.Name); err != nil && !errors.Is(err, domain.ErrFlowNotFound) {
		return nil, err
	}
	return ed, nil
}

// startAutosave saves the flow after structural changes, coalescing bursts.
// The returned function stops it and performs a final save.
func startAutosave(ed *flowcraft.Editor) (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	dirty := make(chan struct{}, 1)
	unsubscribe := ed.Subscribe(func(ev domain.ChangeEvent) {
		if !ev.Structural {
			return
		}
		select {
		case dirty <- struct{}{}:
		default:
		}
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-dirty:
				if err := ed.Save(ctx); err != nil {
					logger.Error("autosave failed", "flow", ed.FlowName(), "err", err)
				}
			}
		}
	}()

	return func() {
		unsubscribe()
		cancel()
		<-done
		if err := ed.Save(context.Background()); err != nil {
			logger.Error("final save failed", "flow", ed.FlowName(), "err", err)
		}
	}
}
