package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/coupler/config"
	"github.com/sarchlab/coupler/coupling"
	"github.com/sarchlab/coupler/sim"
	"github.com/sarchlab/coupler/testbed"
)

const rampToSink = `
name: watched
driver: sink
ports: ramp:sink
port_queue_dt: 1
components:
  ramp:
    component: ramp
    args: {slope: 2}
  sink: {component: sink}
mappers:
  - {src_port: ramp, src_var: value, dst_port: sink}
`

var _ = Describe("Monitor", func() {
	var (
		m *Monitor
		d *coupling.Driver
	)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		m.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		return rec
	}

	BeforeEach(func() {
		cfg, err := config.Parse([]byte(rampToSink))
		Expect(err).NotTo(HaveOccurred())

		d, err = coupling.NewDriver(cfg, testbed.Registry())
		Expect(err).NotTo(HaveOccurred())

		m = NewMonitor()
		m.RegisterDriver(d)

		Expect(d.Initialize()).To(Succeed())
	})

	It("should report the time", func() {
		Expect(d.Run(2)).To(Succeed())

		rsp := get("/api/now")

		Expect(rsp.Code).To(Equal(http.StatusOK))
		Expect(rsp.Body.String()).To(Equal(`{"now":2.0000000000}`))
	})

	It("should report the state", func() {
		Expect(d.Run(3)).To(Succeed())

		var s coupling.Snapshot
		Expect(json.Unmarshal(get("/api/state").Body.Bytes(), &s)).To(Succeed())

		Expect(s.Name).To(Equal("watched"))
		Expect(s.State).To(Equal("updated"))
		Expect(s.Steps).To(Equal(3))
		Expect(s.Target).To(Equal(3.0))
	})

	It("should list the ports", func() {
		var ports []coupling.PortStatus
		Expect(json.Unmarshal(get("/api/ports").Body.Bytes(), &ports)).To(Succeed())

		Expect(ports).To(HaveLen(2))
		Expect(ports[0].Name).To(Equal("ramp"))
		Expect(ports[0].Component).To(Equal("ramp"))
		Expect(ports[1].Status).To(Equal("completed"))
	})

	It("should list the bindings", func() {
		var bindings []bindingRsp
		Expect(json.Unmarshal(get("/api/bindings").Body.Bytes(), &bindings)).To(Succeed())

		Expect(bindings).To(Equal([]bindingRsp{{
			Name: "ramp.value->sink.value", Method: "nearest_val", Ready: true,
		}}))
	})

	It("should serialize a component", func() {
		rsp := get("/api/port/ramp")

		Expect(rsp.Code).To(Equal(http.StatusOK))
		Expect(json.Valid(rsp.Body.Bytes())).To(BeTrue())
	})

	It("should serialize a field of a component", func() {
		req, _ := json.Marshal(fieldReq{PortName: "ramp", FieldName: "slope"})
		rsp := get("/api/field/" + url.PathEscape(string(req)))

		Expect(rsp.Code).To(Equal(http.StatusOK))
		Expect(rsp.Body.String()).To(ContainSubstring("2"))
	})

	It("should not find unknown ports", func() {
		Expect(get("/api/port/glacier").Code).To(Equal(http.StatusNotFound))
	})

	It("should reject malformed field requests", func() {
		Expect(get("/api/field/nope").Code).To(Equal(http.StatusBadRequest))
	})

	It("should report resources", func() {
		var r resourceRsp
		Expect(json.Unmarshal(get("/api/resource").Body.Bytes(), &r)).To(Succeed())

		Expect(r.MemorySize).To(BeNumerically(">", 0))
	})

	It("should track the progress of a run", func() {
		var seen []progressRsp

		d.AcceptHook(sim.HookFunc(func(ctx sim.HookCtx) {
			if ctx.Pos != coupling.HookPosAfterStep {
				return
			}

			var bars []progressRsp
			Expect(json.Unmarshal(get("/api/progress").Body.Bytes(), &bars)).To(Succeed())
			Expect(bars).To(HaveLen(1))
			seen = append(seen, bars[0])
		}))

		Expect(d.Run(2.5)).To(Succeed())

		Expect(seen).To(HaveLen(3))
		Expect(seen[0].Name).To(Equal("watched"))
		Expect(seen[0].Total).To(Equal(uint64(3)))
		Expect(seen[2].Finished).To(Equal(uint64(3)))
		Expect(seen[2].InProgress).To(Equal(uint64(0)))

		Expect(get("/api/progress").Body.String()).To(Equal("[]"))
	})

	It("should drop the bar of an aborted run", func() {
		failing, err := config.Parse([]byte(rampToSink))
		Expect(err).NotTo(HaveOccurred())
		failing.Components["sink"] = config.Component{
			Component: "sink",
			Args:      map[string]any{"fail_at": 2.0},
		}

		d, err = coupling.NewDriver(failing, testbed.Registry())
		Expect(err).NotTo(HaveOccurred())
		m = NewMonitor()
		m.RegisterDriver(d)
		Expect(d.Initialize()).To(Succeed())

		Expect(d.Run(3)).To(MatchError(testbed.ErrInjected))

		Expect(get("/api/progress").Body.String()).To(Equal("[]"))
	})

	It("should hold the run while paused", func() {
		Expect(get("/api/pause").Code).To(Equal(http.StatusOK))

		done := make(chan error)
		go func() {
			done <- d.Run(2)
		}()

		Consistently(done, 100*time.Millisecond).ShouldNot(Receive())
		Expect(d.Snapshot().Steps).To(Equal(0))

		Expect(get("/api/continue").Code).To(Equal(http.StatusOK))
		Eventually(done).Should(Receive(BeNil()))
		Expect(d.Snapshot().Steps).To(Equal(2))
	})
})

var _ = Describe("ProgressBar", func() {
	It("should move items to finished", func() {
		b := &ProgressBar{Total: 10}

		b.IncrementInProgress(3)
		b.MoveInProgressToFinished(2)
		b.IncrementFinished(1)

		s := b.snapshot()
		Expect(s.InProgress).To(Equal(uint64(1)))
		Expect(s.Finished).To(Equal(uint64(3)))
	})

	It("should remove completed bars", func() {
		m := NewMonitor()
		a := m.CreateProgressBar("a", 1)
		b := m.CreateProgressBar("b", 1)

		m.CompleteProgressBar(a)

		Expect(m.progressBars).To(ConsistOf(b))
		Expect(a.ID).NotTo(Equal(b.ID))
	})
})
