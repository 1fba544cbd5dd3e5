package wheel

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/blix/internal/adapters/logger" //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/blix/internal/core/ports"
)

const (
	// ReaderNodeID is the unique identifier for the wheel reader Graft node.
	ReaderNodeID graft.ID = "adapter.wheel_reader"
	// WriterNodeID is the unique identifier for the wheel writer Graft node.
	WriterNodeID graft.ID = "adapter.wheel_writer"
)

func init() {
	graft.Register(graft.Node[ports.WheelReader]{
		ID:        ReaderNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.WheelReader, error) {
			return NewReader(), nil
		},
	})

	graft.Register(graft.Node[ports.WheelWriter]{
		ID:        WriterNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.WheelWriter, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewWriter(log), nil
		},
	})
}
