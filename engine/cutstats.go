package engine

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// CutStatistics collects counts for each pruning/cutoff mechanism.
type CutStatistics struct {
	TTCutoffs         uint64
	NullMoveCutoffs   uint64
	StaticNullCutoffs uint64
	RazoringCutoffs   uint64
	FutilityPrunes    uint64
	LateMovePrunes    uint64
	BetaCutoffs       uint64
	QStandPatCutoffs  uint64
	QBetaCutoffs      uint64
	QSeePrunes        uint64
	QDeltaPrunes      uint64
}

func (c CutStatistics) Dump(w io.Writer) {
	fmt.Fprintln(w, "info string Cut statistics:")
	fmt.Fprintf(w, "info string   TT cutoffs: %d\n", c.TTCutoffs)
	fmt.Fprintf(w, "info string   Null-move cutoffs: %d\n", c.NullMoveCutoffs)
	fmt.Fprintf(w, "info string   Static null cutoffs: %d\n", c.StaticNullCutoffs)
	fmt.Fprintf(w, "info string   Razoring cutoffs: %d\n", c.RazoringCutoffs)
	fmt.Fprintf(w, "info string   Futility prunes: %d\n", c.FutilityPrunes)
	fmt.Fprintf(w, "info string   Late move prunes: %d\n", c.LateMovePrunes)
	fmt.Fprintf(w, "info string   Beta cutoffs: %d\n", c.BetaCutoffs)
	fmt.Fprintf(w, "info string   QStandPat cutoffs: %d\n", c.QStandPatCutoffs)
	fmt.Fprintf(w, "info string   QBeta cutoffs: %d\n", c.QBetaCutoffs)
	fmt.Fprintf(w, "info string   QSEE prunes: %d\n", c.QSeePrunes)
	fmt.Fprintf(w, "info string   QDelta prunes: %d\n", c.QDeltaPrunes)
}

// MarshalZerologObject lets the statistics ride along on a log event.
func (c CutStatistics) MarshalZerologObject(e *zerolog.Event) {
	e.Uint64("tt", c.TTCutoffs).
		Uint64("null", c.NullMoveCutoffs).
		Uint64("rfp", c.StaticNullCutoffs).
		Uint64("razor", c.RazoringCutoffs).
		Uint64("futility", c.FutilityPrunes).
		Uint64("lmp", c.LateMovePrunes).
		Uint64("beta", c.BetaCutoffs).
		Uint64("q-standpat", c.QStandPatCutoffs).
		Uint64("q-beta", c.QBetaCutoffs).
		Uint64("q-see", c.QSeePrunes).
		Uint64("q-delta", c.QDeltaPrunes)
}
