package datarecording

// Tables written by a recorded coupled run.
const (
	TableExec     = "coupling_exec"
	TableStep     = "coupling_step"
	TableTransfer = "coupling_transfer"
	TablePort     = "coupling_port"
)

// ExecEntry is one property of the process that ran the coupling.
type ExecEntry struct {
	Property string
	Value    string
}

// StepEntry is one coupling boundary.
type StepEntry struct {
	Run      string
	Step     int
	Time     float64
	Target   float64
	WallTime float64
}

// TransferEntry summarizes the values a binding delivered at a step.
type TransferEntry struct {
	Run     string
	Step    int
	Time    float64
	Binding string
	Method  string
	Count   int
	Min     float64
	Max     float64
	Mean    float64
}

// PortEntry is the state of a port when a run ends.
type PortEntry struct {
	Run       string
	Port      string
	Component string
	Optional  bool
	Active    bool
	Phase     string
	Status    string
	Time      float64
	Updates   int
	WallTime  float64
	Error     string
}

// CreateCouplingTables creates the step, transfer and port tables.
func CreateCouplingTables(r DataRecorder) {
	r.CreateTable(TableStep, StepEntry{})
	r.CreateTable(TableTransfer, TransferEntry{})
	r.CreateTable(TablePort, PortEntry{})
}

// MapCouplingTables maps every table of a recorded run.
func MapCouplingTables(r DataReader) {
	r.MapTable(TableExec, ExecEntry{})
	r.MapTable(TableStep, StepEntry{})
	r.MapTable(TableTransfer, TransferEntry{})
	r.MapTable(TablePort, PortEntry{})
}
