package testbed_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/coupler/config"
	"github.com/sarchlab/coupler/coupling"
	"github.com/sarchlab/coupler/mapping"
	"github.com/sarchlab/coupler/sim"
	"github.com/sarchlab/coupler/testbed"
)

func mustDriver(doc string) *coupling.Driver {
	cfg, err := config.Parse([]byte(doc))
	Expect(err).NotTo(HaveOccurred())

	d, err := coupling.NewDriver(cfg, testbed.Registry())
	Expect(err).NotTo(HaveOccurred())

	return d
}

func sinkOf(d *coupling.Driver, name string) *testbed.Sink {
	p, err := d.Port(name)
	Expect(err).NotTo(HaveOccurred())

	return p.Component().(*testbed.Sink)
}

var _ = Describe("Ramp to sink", func() {
	It("should deliver the ramp at every step", func() {
		d := mustDriver(`
name: ramp-to-sink
driver: sink
ports: ramp:sink
port_queue_dt: 0.5
components:
  ramp:
    component: ramp
    args: {slope: 2, gradient: 1, dt: 0.5}
  sink:
    component: sink
mappers:
  - {src_port: ramp, src_var: value, dst_port: sink, dst_var: forcing}
`)

		Expect(d.Initialize()).To(Succeed())
		Expect(d.Run(2)).To(Succeed())

		sink := sinkOf(d, "sink")
		Expect(sink.Updates()).To(Equal([]sim.VTimeInSec{0.5, 1, 1.5, 2}))
		Expect(d.Bindings()[0].Mapper().Name()).To(Equal(mapping.MethodNearestVal))

		history := sink.History()
		Expect(history).To(HaveLen(4))

		for i, s := range history {
			t := 0.5 * float64(i+1)
			Expect(s.Var).To(Equal("forcing"))
			Expect(s.Time).To(Equal(t - 0.5))
			Expect(s.Values).To(Equal([]float64{2 * t, 2*t + 1, 2*t + 2}))
		}

		Expect(d.Finalize()).To(Succeed())
	})

	It("should conserve cell values between identical grids", func() {
		d := mustDriver(`
ports: [ramp, sink]
components:
  ramp:
    component: ramp
    args: {nx: 3, ny: 3, location: face, gradient: 1}
  sink:
    component: sink
    args: {nx: 3, ny: 3, location: face}
mappers:
  - {src_port: ramp, src_var: value, dst_port: sink}
`)

		Expect(d.Initialize()).To(Succeed())
		Expect(d.Bindings()[0].Mapper().Name()).To(Equal(mapping.MethodConservative))
		Expect(d.Run(1)).To(Succeed())

		values := sinkOf(d, "sink").History()[0].Values
		want := []float64{1.5, 2.5, 1.5, 2.5}

		Expect(values).To(HaveLen(len(want)))
		for i := range want {
			Expect(values[i]).To(BeNumerically("~", want[i], 1e-9))
		}
	})

	It("should reproduce a linear field bilinearly on a finer grid", func() {
		d := mustDriver(`
ports: [ramp, sink]
port_queue_dt: 1
components:
  ramp:
    component: ramp
    args: {nx: 3, ny: 3, gradient: 3, slope: 0}
  sink:
    component: sink
    args: {nx: 5, ny: 5, dx: 0.5}
mappers:
  - src_port: ramp
    src_var: value
    dst_port: sink
    method: bilinear
    unmapped: raise
`)

		Expect(d.Initialize()).To(Succeed())
		Expect(d.Run(1)).To(Succeed())

		sink := sinkOf(d, "sink")
		values := sink.History()[0].Values
		nodes := sink.Mesh().Locations("node")

		Expect(values).To(HaveLen(25))
		for i, p := range nodes {
			Expect(values[i]).To(BeNumerically("~", 3*p.X, 1e-9))
		}
	})

	It("should stop the run when a component fails", func() {
		d := mustDriver(`
ports: ramp:sink
port_queue_dt: 0.5
components:
  ramp: {component: ramp}
  sink:
    component: sink
    args: {fail_at: 1}
`)

		Expect(d.Initialize()).To(Succeed())
		err := d.Run(2)

		Expect(err).To(MatchError(testbed.ErrInjected))

		var failure *coupling.ComponentFailureError
		Expect(errors.As(err, &failure)).To(BeTrue())
		Expect(failure.Port).To(Equal("sink"))
		Expect(failure.Time).To(Equal(1.0))
		Expect(d.Now()).To(Equal(0.5))
		Expect(d.Finalize()).To(Succeed())
	})

	It("should run without an optional port that fails", func() {
		d := mustDriver(`
ports: ramp
optional_ports: sink
components:
  ramp: {component: ramp}
  sink:
    component: sink
    args: {location: edge}
mappers:
  - {src_port: ramp, src_var: value, dst_port: sink}
`)

		Expect(d.Initialize()).To(Succeed())
		Expect(d.Run(3)).To(Succeed())

		status, ok := d.Snapshot().Port("sink")
		Expect(ok).To(BeTrue())
		Expect(status.Active).To(BeFalse())
		Expect(status.Error).To(ContainSubstring("unknown location"))
		Expect(d.Bindings()[0].Ready()).To(BeFalse())
	})
})
