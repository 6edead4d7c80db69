package coupling

import "github.com/sarchlab/coupler/sim"

// Hook positions of the driver. Step positions carry a Step as the item.
// AfterPortUpdate carries the *Port and AfterTransfer the *Binding, both
// with the Step as detail. RunAborted carries the target as the item and
// the failure as detail.
var (
	HookPosBeforeInitialize = &sim.HookPos{Name: "BeforeInitialize"}
	HookPosAfterInitialize  = &sim.HookPos{Name: "AfterInitialize"}
	HookPosBeforeRun        = &sim.HookPos{Name: "BeforeRun"}
	HookPosBeforeStep       = &sim.HookPos{Name: "BeforeStep"}
	HookPosAfterPortUpdate  = &sim.HookPos{Name: "AfterPortUpdate"}
	HookPosAfterTransfer    = &sim.HookPos{Name: "AfterTransfer"}
	HookPosAfterStep        = &sim.HookPos{Name: "AfterStep"}
	HookPosAfterRun         = &sim.HookPos{Name: "AfterRun"}
	HookPosRunAborted       = &sim.HookPos{Name: "RunAborted"}
	HookPosBeforeFinalize   = &sim.HookPos{Name: "BeforeFinalize"}
	HookPosAfterFinalize    = &sim.HookPos{Name: "AfterFinalize"}
)

// HookPositions lists every driver hook position in the order a full run
// reaches them. RunAborted replaces AfterRun when a step fails.
func HookPositions() []*sim.HookPos {
	return []*sim.HookPos{
		HookPosBeforeInitialize,
		HookPosAfterInitialize,
		HookPosBeforeRun,
		HookPosBeforeStep,
		HookPosAfterPortUpdate,
		HookPosAfterTransfer,
		HookPosAfterStep,
		HookPosAfterRun,
		HookPosRunAborted,
		HookPosBeforeFinalize,
		HookPosAfterFinalize,
	}
}

// A Step is one coupling boundary of a Run.
type Step struct {
	// Index counts the steps of the driver, starting at 0.
	Index int

	// Time is the boundary the ports are advanced to.
	Time sim.VTimeInSec

	// Target is where the enclosing Run stops.
	Target sim.VTimeInSec
}
