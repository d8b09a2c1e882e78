package validator

import (
	"errors"
	"testing"

	"github.com/yourorg/trading-dashboard/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSignalForm(t *testing.T) {
	fv := NewFormValidator()

	tests := []struct {
		name    string
		form    model.SignalForm
		wantErr bool
	}{
		{"complete", model.SignalForm{Symbol: "EURUSD", Strategy: "silver_bullet", Timeframe: "1h"}, false},
		{"timeframe optional", model.SignalForm{Symbol: "EURUSD", Strategy: "silver_bullet"}, false},
		{"missing strategy", model.SignalForm{Symbol: "EURUSD"}, true},
		{"blank symbol", model.SignalForm{Symbol: "  ", Strategy: "silver_bullet"}, true},
		{"unknown timeframe", model.SignalForm{Symbol: "EURUSD", Strategy: "silver_bullet", Timeframe: "2h"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fv.ValidateSignalForm(tt.form)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, SignalFormMessage, vErr.Message)
		})
	}
}

func TestValidateSignalFormReportsFields(t *testing.T) {
	err := NewFormValidator().ValidateSignalForm(model.SignalForm{})

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "required", vErr.Fields["symbol"])
	assert.Equal(t, "required", vErr.Fields["strategy"])
}

func TestValidateBacktestForm(t *testing.T) {
	fv := NewFormValidator()

	valid := model.DefaultBacktestForm()
	assert.NoError(t, fv.ValidateBacktestForm(valid))

	tests := []struct {
		name   string
		mutate func(f *model.BacktestForm)
		field  string
	}{
		{"bad start date", func(f *model.BacktestForm) { f.StartDate = "2023/01/01" }, "start_date"},
		{"end before start", func(f *model.BacktestForm) { f.EndDate = "2022-12-31" }, "end_date"},
		{"zero capital", func(f *model.BacktestForm) { f.InitialCapital = 0 }, "initial_capital"},
		{"negative risk", func(f *model.BacktestForm) { f.RiskPerTrade = -1 }, "risk_per_trade"},
		{"missing timeframe", func(f *model.BacktestForm) { f.Timeframe = "" }, "timeframe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := model.DefaultBacktestForm()
			tt.mutate(&form)

			err := fv.ValidateBacktestForm(form)
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, BacktestFormMessage, vErr.Message)
			assert.Contains(t, vErr.Fields, tt.field)
		})
	}
}

func TestValidateAnalysisForm(t *testing.T) {
	fv := NewFormValidator()
	assert.NoError(t, fv.ValidateAnalysisForm(model.AnalysisForm{Symbol: "EURUSD"}))
	assert.Error(t, fv.ValidateAnalysisForm(model.AnalysisForm{}))
}
