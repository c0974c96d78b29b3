package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Classification tags the outcome of a single-symbol move evaluation.
type Classification string

const (
	ClassAbnormalUp      Classification = "ABNORMAL_UP"
	ClassAbnormalDown    Classification = "ABNORMAL_DOWN"
	ClassTrendUp         Classification = "TREND_UP"
	ClassNeutral         Classification = "NEUTRAL"
	ClassUndefinedMove   Classification = "UNDEFINED_MOVE"
	ClassDataUnavailable Classification = "DATA_UNAVAILABLE"
)

// Cross indicates a MACD line / signal line crossover.
type Cross string

const (
	CrossNone    Cross = ""
	CrossBullish Cross = "BULLISH"
	CrossBearish Cross = "BEARISH"
)

// AlertKind indicates what threshold an alert crossed.
type AlertKind string

const (
	KindTakeProfit   AlertKind = "TAKE_PROFIT"
	KindStopLoss     AlertKind = "STOP_LOSS"
	KindAbnormalMove AlertKind = "ABNORMAL_MOVE"
)

// ScanResult is the per-symbol output of one scan. Ephemeral: it is not
// persisted unless it escalates to an AlertEvent.
type ScanResult struct {
	Symbol         string         `json:"symbol"`
	CurrentPrice   float64        `json:"current_price"`
	PreviousClose  float64        `json:"previous_close"`
	PctChange      float64        `json:"pct_change"`
	Classification Classification `json:"classification"`
	RSI14          *float64       `json:"rsi_14,omitempty"`
	MACDCross      Cross          `json:"macd_cross,omitempty"`
	At             time.Time      `json:"at"`
}

// AlertEvent records a threshold crossing. Append-only: created by the scan
// evaluator, never mutated or deleted afterwards.
type AlertEvent struct {
	ID               int64           `json:"id,omitempty"`
	Symbol           string          `json:"symbol"`
	Kind             AlertKind       `json:"kind"`
	PctValue         decimal.Decimal `json:"pct_value"`
	Price            decimal.Decimal `json:"price"`
	Timestamp        time.Time       `json:"timestamp"`
	NotificationSent bool            `json:"notification_sent"`
}
