// Package monitoring serves the state of a coupled run over HTTP while it
// runs, and lets a client pause it between steps.
package monitoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/coupler/coupling"
	"github.com/sarchlab/coupler/sim"
)

// Monitor turns a coupled run into a server that can be watched and paused.
type Monitor struct {
	driver     *coupling.Driver
	portNumber int
	gate       *gate

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{gate: newGate()}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterDriver selects the driver to watch. The monitor hooks into the
// driver to track progress and to hold steps while paused.
func (m *Monitor) RegisterDriver(d *coupling.Driver) {
	m.driver = d
	d.AcceptHook(sim.HookFunc(m.gate.Func))
	d.AcceptHook(&progressHook{monitor: m, driver: d})
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        sim.GetIDGenerator().Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Router returns the handler of the monitor API.
func (m *Monitor) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pause)
	r.HandleFunc("/api/continue", m.resume)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/state", m.state)
	r.HandleFunc("/api/ports", m.listPorts)
	r.HandleFunc("/api/port/{name}", m.portDetails)
	r.HandleFunc("/api/field/{json}", m.fieldValue)
	r.HandleFunc("/api/bindings", m.listBindings)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	return r
}

// StartServer serves the monitor API in the background and returns its
// address.
func (m *Monitor) StartServer() string {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring coupled run with %s\n", url)

	go func() {
		err := http.Serve(listener, m.Router())
		dieOnErr(err)
	}()

	return url
}

func (m *Monitor) pause(w http.ResponseWriter, _ *http.Request) {
	m.gate.pause()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) resume(w http.ResponseWriter, _ *http.Request) {
	m.gate.resume()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "{\"now\":%.10f}", m.driver.Snapshot().Now)
}

func (m *Monitor) state(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.driver.Snapshot())
}

func (m *Monitor) listPorts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.driver.Snapshot().Ports)
}

type bindingRsp struct {
	Name   string `json:"name"`
	Method string `json:"method"`
	Ready  bool   `json:"ready"`
}

func (m *Monitor) listBindings(w http.ResponseWriter, _ *http.Request) {
	rsp := make([]bindingRsp, 0, len(m.driver.Bindings()))

	for _, b := range m.driver.Bindings() {
		entry := bindingRsp{Name: b.String()}
		dst, _ := b.Destination()
		err := m.driver.Inspect(dst.Name(), func(coupling.Component) {
			entry.Ready = b.Ready()
			entry.Method = b.Method()
		})
		dieOnErr(err)

		rsp = append(rsp, entry)
	}

	writeJSON(w, rsp)
}

func (m *Monitor) portDetails(w http.ResponseWriter, r *http.Request) {
	m.serializeComponent(w, mux.Vars(r)["name"], nil)
}

type fieldReq struct {
	PortName  string `json:"port_name,omitempty"`
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) fieldValue(w http.ResponseWriter, r *http.Request) {
	req := fieldReq{}

	err := json.Unmarshal([]byte(mux.Vars(r)["json"]), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m.serializeComponent(w, req.PortName, strings.Split(req.FieldName, "."))
}

// serializeComponent writes the component of a port, or one of its fields,
// while no component call is in flight.
func (m *Monitor) serializeComponent(
	w http.ResponseWriter,
	name string,
	fields []string,
) {
	buf := bytes.NewBuffer(nil)

	var serializeErr error

	err := m.driver.Inspect(name, func(c coupling.Component) {
		if c == nil {
			serializeErr = errors.New("port has no component")
			return
		}

		serializer := goseth.NewSerializer()
		serializer.SetRoot(c)
		serializer.SetMaxDepth(1)

		if fields != nil {
			if serializeErr = serializer.SetEntryPoint(fields); serializeErr != nil {
				return
			}
		}

		serializeErr = serializer.Serialize(buf)
	})

	switch {
	case errors.Is(err, coupling.ErrUnknownPort):
		http.Error(w, "Port not found", http.StatusNotFound)
	case err != nil:
		dieOnErr(err)
	case serializeErr != nil:
		http.Error(w, serializeErr.Error(), http.StatusBadRequest)
	default:
		_, err = w.Write(buf.Bytes())
		dieOnErr(err)
	}
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	bars := make([]progressRsp, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		bars = append(bars, b.snapshot())
	}
	m.progressBarsLock.Unlock()

	writeJSON(w, bars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(data)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
