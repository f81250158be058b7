package selection

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/covercall/internal/contracts"
	"github.com/wonny/covercall/pkg/logger"
)

func TestScreener_Screen(t *testing.T) {
	window := []time.Time{daysOut(7), daysOut(14)}

	tests := []struct {
		name       string
		contract   contracts.OptionContract
		mode       contracts.DeltaMode
		wantPass   bool
		wantReason string
	}{
		{"qualifying", call(7, 105, 1.0, 0.25, 0.05, -0.1, 0.3), contracts.DeltaSigned, true, ""},
		{"delta at cap", call(7, 105, 1.0, 0.31, 0.05, -0.1, 0.3), contracts.DeltaSigned, true, ""},
		{"delta above cap", call(7, 105, 1.0, 0.32, 0.05, -0.1, 0.3), contracts.DeltaSigned, false, FilterDelta},
		{"strike equals spot", call(7, 100, 1.0, 0.25, 0.05, -0.1, 0.3), contracts.DeltaSigned, false, FilterNotOTM},
		{"itm strike", call(7, 95, 1.0, 0.25, 0.05, -0.1, 0.3), contracts.DeltaSigned, false, FilterNotOTM},
		{"outside window", call(21, 105, 1.0, 0.25, 0.05, -0.1, 0.3), contracts.DeltaSigned, false, FilterOutsideWindow},
		{"negative delta signed", call(7, 105, 1.0, -0.45, 0.05, -0.1, 0.3), contracts.DeltaSigned, true, ""},
		{"negative delta absolute", call(7, 105, 1.0, -0.45, 0.05, -0.1, 0.3), contracts.DeltaAbsolute, false, FilterDelta},
	}

	screener := NewScreener(logger.Nop())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := configFor(6)
			cfg.DeltaMode = tt.mode

			passed, reasons := screener.Screen(context.Background(), []contracts.OptionContract{tt.contract}, window, 100, cfg)

			if tt.wantPass {
				assert.Len(t, passed, 1)
				assert.Empty(t, reasons)
			} else {
				assert.Empty(t, passed)
				assert.Equal(t, 1, reasons[tt.wantReason])
			}
		})
	}
}

func TestScreener_PreservesOrder(t *testing.T) {
	input := []contracts.OptionContract{
		call(14, 110, 1.0, 0.2, 0.05, -0.1, 0.3),
		call(7, 105, 1.0, 0.2, 0.05, -0.1, 0.3),
		call(14, 106, 1.0, 0.2, 0.05, -0.1, 0.3),
	}

	passed, _ := NewScreener(logger.Nop()).Screen(
		context.Background(), input, []time.Time{daysOut(7), daysOut(14)}, 100, configFor(2))

	assert.Equal(t, input, passed)
}
