package tracing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/coupler/coupling"
	"github.com/sarchlab/coupler/sim"
)

// CollectTrace lets the tracer follow a driver. Attaching the same tracer
// twice panics.
func CollectTrace(domain sim.Hookable, tracer Tracer) {
	for _, hook := range domain.Hooks() {
		hook, ok := hook.(*traceHook)
		if ok && hook.t == tracer {
			panic(fmt.Sprintf("tracer %s is already attached",
				reflect.TypeOf(tracer)))
		}
	}

	domain.AcceptHook(&traceHook{t: tracer})
}

// A traceHook translates driver hook positions into tracer calls.
type traceHook struct {
	t Tracer
}

// Func calls the tracer interfaces when the hook is triggered
func (h *traceHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case coupling.HookPosBeforeStep:
		h.t.StartStep(ctx.Item.(coupling.Step))
	case coupling.HookPosAfterPortUpdate:
		h.t.EndPortUpdate(ctx.Item.(*coupling.Port), ctx.Detail.(coupling.Step))
	case coupling.HookPosAfterTransfer:
		h.t.EndTransfer(ctx.Item.(*coupling.Binding), ctx.Detail.(coupling.Step))
	case coupling.HookPosAfterStep:
		h.t.EndStep(ctx.Item.(coupling.Step))
	}
}
