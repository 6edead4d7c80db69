package simulation

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/coupler/config"
	"github.com/sarchlab/coupler/datarecording"
	"github.com/sarchlab/coupler/lifecycle"
	"github.com/sarchlab/coupler/testbed"
)

const rampToSink = `
name: recorded
driver: sink
ports: ramp:sink
port_queue_dt: 0.5
components:
  ramp: {component: ramp}
  sink: {component: sink}
mappers:
  - {src_port: ramp, src_var: value, dst_port: sink}
`

var _ = Describe("Simulation", func() {
	var (
		cfg     *config.Config
		builder Builder
		output  string
	)

	BeforeEach(func() {
		var err error
		cfg, err = config.Parse([]byte(rampToSink))
		Expect(err).NotTo(HaveOccurred())

		output = filepath.Join(GinkgoT().TempDir(), "run")
		builder = MakeBuilder().
			WithConfig(cfg).
			WithRegistry(testbed.Registry()).
			WithoutMonitoring().
			WithOutputFileName(output)
	})

	It("should record a run", func() {
		s, err := builder.Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(s.Execute(2)).To(Succeed())
		Expect(s.Counts().Steps()).To(Equal(4))
		Expect(s.Terminate()).To(Succeed())
		Expect(s.Terminate()).To(Succeed())

		reader, err := datarecording.NewReader(output + ".sqlite3")
		Expect(err).NotTo(HaveOccurred())
		defer reader.Close()

		tables, err := reader.ListTables(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(tables).To(Equal([]string{
			datarecording.TableExec,
			datarecording.TablePort,
			datarecording.TableStep,
			datarecording.TableTransfer,
		}))

		datarecording.MapCouplingTables(reader)
		_, steps, err := reader.Query(context.Background(),
			datarecording.TableStep, datarecording.QueryParams{
				Where: "Run = ?",
				Args:  []any{s.ID()},
			})
		Expect(err).NotTo(HaveOccurred())
		Expect(steps).To(Equal(4))
	})

	It("should finalize after a failed run", func() {
		s, err := builder.Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(s.Driver().Initialize()).To(Succeed())
		Expect(s.Execute(-1)).NotTo(Succeed())
		Expect(s.Driver().State()).To(Equal("finalized"))
		Expect(s.Terminate()).To(Succeed())
	})

	It("should carry on a driver that already ran", func() {
		s, err := builder.Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(s.Driver().Initialize()).To(Succeed())
		Expect(s.Driver().Run(1)).To(Succeed())

		Expect(s.Execute(2)).To(Succeed())
		Expect(s.Driver().Now()).To(Equal(2.0))
		Expect(s.Driver().State()).To(Equal("finalized"))
		Expect(s.Counts().Steps()).To(Equal(4))
		Expect(s.Terminate()).To(Succeed())
	})

	It("should initialize a fresh driver once", func() {
		s, err := builder.Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(s.Execute(1)).To(Succeed())
		Expect(s.Driver().Guard().StatusOf(lifecycle.PhaseInitialize)).
			To(Equal(lifecycle.Completed))
		Expect(s.Terminate()).To(Succeed())
	})

	It("should run without recording", func() {
		s, err := MakeBuilder().
			WithConfig(cfg).
			WithRegistry(testbed.Registry()).
			WithoutMonitoring().
			WithoutRecording().
			Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(s.GetDataRecorder()).To(BeNil())
		Expect(s.Execute(1)).To(Succeed())
		Expect(s.Terminate()).To(Succeed())
	})

	It("should serve the monitor", func() {
		s, err := MakeBuilder().
			WithConfig(cfg).
			WithRegistry(testbed.Registry()).
			WithoutRecording().
			Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Execute(1)).To(Succeed())

		rsp, err := http.Get(s.MonitorURL() + "/api/now")
		Expect(err).NotTo(HaveOccurred())
		defer rsp.Body.Close()

		body, err := io.ReadAll(rsp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(Equal(`{"now":1.0000000000}`))
	})

	It("should log the hooks of the driver", func() {
		buf := &bytes.Buffer{}
		logger := slog.New(slog.NewTextHandler(buf,
			&slog.HandlerOptions{Level: slog.LevelDebug}))

		s, err := builder.WithoutRecording().WithOutputFileName("").
			WithLogger(logger).Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Execute(0.5)).To(Succeed())

		Expect(buf.String()).To(ContainSubstring("pos=BeforeInitialize"))
		Expect(buf.String()).To(ContainSubstring("pos=AfterPortUpdate item=ramp"))
		Expect(buf.String()).To(ContainSubstring("pos=AfterFinalize"))
	})

	It("should reject invalid combinations", func() {
		Expect(func() {
			MakeBuilder().WithoutMonitoring().WithMonitorPort(8080).Build()
		}).To(Panic())

		_, err := MakeBuilder().Build()
		Expect(err).To(HaveOccurred())
	})

	It("should report configuration problems", func() {
		cfg.Driver = "glacier"

		_, err := builder.Build()
		Expect(err).To(MatchError(config.ErrConfiguration))
	})
})
